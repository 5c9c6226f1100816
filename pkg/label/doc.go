// Package label defines the label design model shared by every stage of the
// batch rendering engine.
//
// # Overview
//
// A label is a fixed-size canvas (see [Size]) holding an ordered list of
// [Element] values. Elements are a tagged variant selected by [Element.Kind]:
//
//   - [KindRect]: rectangle, optionally the label background
//   - [KindText]: literal text
//   - [KindVariable]: text replaced by the current data value at render time
//   - [KindQR]: scannable matrix code, optionally with a centred logo
//   - [KindImage]: raster reference stretched to the element box
//
// List order is z-order: later elements are drawn on top.
//
// # Snapshots
//
// Rendering never works on live editor state. A [Job] bundles a design, the
// paper selection and the [BatchSettings] into an immutable snapshot; call
// [Job.Clone] before handing a job to a long-running export if the caller
// keeps mutating its own copy.
//
// # Editor Guards
//
// Editing is owned by the UI layer, but the invariants live here so every
// caller enforces them the same way: [Design.Delete] never removes a
// background element, [Design.Add] assigns a fresh UUID, and QR elements are
// kept square by [Design.Normalize].
package label
