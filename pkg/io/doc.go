// Package io reads and writes labelsheet jobs and their data inputs.
//
// # Job Files
//
// A job is the immutable snapshot a render operates on: the label design,
// the paper key, the batch settings and the cut line switch. Jobs are
// stored as JSON or YAML; the format is picked from the file extension:
//
//	{
//	  "design": {
//	    "label": {"width": 60, "height": 40},
//	    "elements": [
//	      {"id": "bg", "type": "rect", "width": 60, "height": 40, "fill": "#ffffff", "isBackground": true},
//	      {"id": "qr1", "type": "qr", "x": 5, "y": 5, "width": 20, "height": 20, "text": "{code}"}
//	    ]
//	  },
//	  "paper": "a4",
//	  "batch": {"mode": "sequence", "prefix": "ABC-", "start": 20010, "end": 20025},
//	  "showCutLines": true
//	}
//
// Use [ImportJob] to read a job from a path, or [ReadJob] to read from any
// io.Reader. Both normalize the design (missing element IDs are filled in,
// QR elements are squared) and validate it. Failures carry an
// [errors.Code] so callers can tell a malformed file from an unknown paper.
//
// # Custom Lists
//
// The custom batch mode takes one data value per line. [ImportCustomList]
// reads such a list from a text file or from the first non-empty column of
// the first sheet of an .xlsx workbook.
//
// # Layout Export
//
// [WriteLayout] writes the computed grid plus the slot assignment of every
// page as JSON, for tools that drive their own renderer.
//
// [errors.Code]: github.com/matzehuels/labelsheet/pkg/errors.Code
package io
