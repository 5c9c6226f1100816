package io

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/labelsheet/pkg/compose"
	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/label"
	"github.com/matzehuels/labelsheet/pkg/sequence"
)

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			job := label.DefaultJob()
			job.ShowCutLines = true
			job.Paper = "letter"

			var buf bytes.Buffer
			if err := WriteJob(job, &buf, format); err != nil {
				t.Fatalf("WriteJob: %v", err)
			}
			got, err := ReadJob(&buf, format)
			if err != nil {
				t.Fatalf("ReadJob: %v", err)
			}
			if diff := cmp.Diff(job, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadJobYAML(t *testing.T) {
	src := `
design:
  label: {width: 50, height: 30}
  elements:
    - {id: bg, type: rect, width: 50, height: 30, fill: "#fff", isBackground: true}
    - {type: qr, x: 2, y: 2, width: 20, height: 12, text: "{code}"}
paper: a3
batch: {prefix: "X-", start: 1, end: 3}
`
	job, err := ReadJob(strings.NewReader(src), FormatYAML)
	if err != nil {
		t.Fatalf("ReadJob: %v", err)
	}
	if job.Paper != "a3" {
		t.Errorf("Paper = %q, want a3", job.Paper)
	}
	if job.Batch.Mode != label.ModeSequence {
		t.Errorf("Mode = %q, want sequence", job.Batch.Mode)
	}
	qr := job.Design.Elements[1]
	if qr.ID == "" {
		t.Error("missing element id was not filled in")
	}
	if qr.Height != qr.Width {
		t.Errorf("qr = %vx%v, want square", qr.Width, qr.Height)
	}
}

func TestReadJobDefaults(t *testing.T) {
	job, err := ReadJob(strings.NewReader(`{"design": {"label": {"width": 70, "height": 35}}}`), FormatJSON)
	if err != nil {
		t.Fatalf("ReadJob: %v", err)
	}
	if job.Paper != label.DefaultPaper {
		t.Errorf("Paper = %q, want %q", job.Paper, label.DefaultPaper)
	}
	if len(job.Design.Elements) == 0 {
		t.Fatal("empty design should get the starter elements")
	}
	if job.Design.Label != (label.Size{Width: 70, Height: 35}) {
		t.Errorf("Label = %+v, want 70x35 kept", job.Design.Label)
	}
}

func TestReadJobErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{"malformed", `{"design": `, errors.ErrCodeInvalidFormat},
		{"unknown paper", `{"paper": "b5"}`, errors.ErrCodeInvalidPaper},
		{"two backgrounds", `{"design": {"label": {"width": 10, "height": 10}, "elements": [
			{"type": "rect", "isBackground": true},
			{"type": "rect", "isBackground": true}]}}`, errors.ErrCodeInvalidInput},
		{"unknown element", `{"design": {"label": {"width": 10, "height": 10}, "elements": [
			{"type": "rect", "isBackground": true},
			{"type": "star"}]}}`, errors.ErrCodeInvalidInput},
		{"bad prefix", `{"batch": {"mode": "sequence", "prefix": "a/b"}}`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJob(strings.NewReader(tt.src), FormatJSON)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"job.json": FormatJSON,
		"job.yaml": FormatYAML,
		"JOB.YML":  FormatYAML,
		"job":      FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestImportExportJob(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "job.yml")
	job := label.DefaultJob()
	if err := ExportJob(job, path); err != nil {
		t.Fatalf("ExportJob: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "design:") {
		t.Errorf("expected YAML output, got:\n%s", data)
	}
	got, err := ImportJob(path)
	if err != nil {
		t.Fatalf("ImportJob: %v", err)
	}
	if diff := cmp.Diff(job, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	_, err = ImportJob(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file err = %v, want NOT_FOUND", err)
	}
}

func TestImportCustomListText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.txt")
	if err := os.WriteFile(path, []byte("A-1\r\n\r\n  B-2 \r\nC-3"), 0o644); err != nil {
		t.Fatal(err)
	}
	list, err := ImportCustomList(path)
	if err != nil {
		t.Fatalf("ImportCustomList: %v", err)
	}
	got := sequence.Lines(list)
	want := []string{"A-1", "B-2", "C-3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestImportCustomListWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "B2", "SN-001")
	f.SetCellValue(sheet, "B3", "SN-002")
	f.SetCellValue(sheet, "C3", "ignored")
	f.SetCellValue(sheet, "B5", 1234)

	path := filepath.Join(t.TempDir(), "codes.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	list, err := ImportCustomList(path)
	if err != nil {
		t.Fatalf("ImportCustomList: %v", err)
	}
	want := "SN-001\nSN-002\n1234"
	if list != want {
		t.Errorf("list = %q, want %q", list, want)
	}
}

func TestImportCustomListErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ImportCustomList(filepath.Join(dir, "nope.txt")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing text err = %v, want NOT_FOUND", err)
	}
	bad := filepath.Join(dir, "bad.xlsx")
	os.WriteFile(bad, []byte("not a zip"), 0o644)
	if _, err := ImportCustomList(bad); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("corrupt workbook err = %v, want INVALID_FORMAT", err)
	}
}

func TestFirstColumn(t *testing.T) {
	rows := [][]string{
		{"", "", "x"},
		{"", "a"},
		{},
		{"", " ", "y"},
		{"", "b"},
	}
	got := firstColumn(rows)
	want := []string{"a", "b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if firstColumn(nil) != nil {
		t.Error("empty sheet should give nil")
	}
}

func TestWriteLayout(t *testing.T) {
	job := label.DefaultJob()
	values := sequence.Range("ABC-", 1, 20)
	c, err := compose.New(job, values, compose.Options{})
	if err != nil {
		t.Fatalf("compose.New: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteLayout(c, &buf); err != nil {
		t.Fatalf("WriteLayout: %v", err)
	}

	var doc struct {
		Cols, Rows   int
		ItemsPerPage int
		Labels       int
		Pages        []struct {
			Page  int
			Slots []compose.Slot
		}
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Cols != 3 || doc.Rows != 6 || doc.ItemsPerPage != 18 || doc.Labels != 20 {
		t.Errorf("grid = %+v", doc)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(doc.Pages))
	}
	last := doc.Pages[1]
	if last.Page != 2 || len(last.Slots) != 2 || last.Slots[1].Value != "ABC-20" {
		t.Errorf("last page = %+v", last)
	}
}
