package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/labelsheet/pkg/cache"
	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/label"
	"github.com/matzehuels/labelsheet/pkg/observability"
	"github.com/matzehuels/labelsheet/pkg/pipeline"
)

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
	s := New(runner, nil, opts...)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Shutdown()
		runner.Close()
	})
	return ts
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func TestHealthAndPapers(t *testing.T) {
	ts := newTestServer(t)

	if resp := get(t, ts.URL+"/healthz"); resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}

	resp := get(t, ts.URL+"/v1/papers")
	var papers []label.PaperSize
	decodeBody(t, resp, &papers)
	if len(papers) != len(label.Papers()) {
		t.Errorf("got %d papers, want %d", len(papers), len(label.Papers()))
	}
}

func TestSequence(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts.URL+"/v1/sequence", `{"mode":"sequence","prefix":"SN-","start":8,"end":11}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got sequenceResponse
	decodeBody(t, resp, &got)
	want := []string{"SN-8", "SN-9", "SN-10", "SN-11"}
	if got.Count != len(want) || strings.Join(got.Values, ",") != strings.Join(want, ",") {
		t.Errorf("got %+v, want %v", got, want)
	}

	resp = post(t, ts.URL+"/v1/sequence", `{"prefix":"A","start":9223372036854775806,"end":9223372036854775807}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("max int range: status = %d", resp.StatusCode)
	}
	decodeBody(t, resp, &got)
	if got.Count != 2 || got.Values[1] != "A9223372036854775807" {
		t.Errorf("max int range: got %+v", got)
	}
}

func TestPlan(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts.URL+"/v1/plan", `{}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var doc struct {
		Cols         int `json:"cols"`
		Rows         int `json:"rows"`
		ItemsPerPage int `json:"itemsPerPage"`
	}
	decodeBody(t, resp, &doc)
	if doc.Cols != 3 || doc.Rows != 6 || doc.ItemsPerPage != 18 {
		t.Errorf("plan = %+v, want 3x6", doc)
	}
}

func TestRenderSVG(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts.URL+"/v1/render/svg", `{"job":{"batch":{"prefix":"ABC-","start":1,"end":4}}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if n := resp.Header.Get("X-Label-Count"); n != "4" {
		t.Errorf("X-Label-Count = %q, want 4", n)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "laser_layout_ABC-.svg") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "<svg") {
		t.Error("body is not an SVG document")
	}
}

func TestRenderErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"bad format", "/v1/render/gif", `{}`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad json", "/v1/render/svg", `{`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"unknown field", "/v1/render/svg", `{"jobs":{}}`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad paper", "/v1/render/svg", `{"job":{"paper":"b5"}}`, http.StatusBadRequest, errors.ErrCodeInvalidPaper},
		{
			"does not fit", "/v1/render/svg",
			`{"job":{"design":{"label":{"width":500,"height":40}},"batch":{"prefix":"A-","start":1,"end":2}}}`,
			http.StatusUnprocessableEntity, errors.ErrCodeLabelDoesNotFit,
		},
		{"page out of range", "/v1/render/page-svg", `{"options":{"page":9}}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body errorBody
			decodeBody(t, resp, &body)
			if body.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", body.Code, tt.code, body.Message)
			}
		})
	}
}

func TestExportLifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts.URL+"/v1/exports", `{"options":{"dpi":30}}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	var st exportStatus
	decodeBody(t, resp, &st)
	if loc != "/v1/exports/"+st.ID {
		t.Errorf("Location = %q, id = %q", loc, st.ID)
	}
	if st.Pages != 1 {
		t.Errorf("pages = %d, want 1", st.Pages)
	}

	deadline := time.Now().Add(30 * time.Second)
	for st.State != "done" {
		if st.State == "failed" {
			t.Fatalf("export failed: %+v", st.Error)
		}
		if time.Now().After(deadline) {
			t.Fatalf("export did not finish, last state %q", st.State)
		}
		time.Sleep(20 * time.Millisecond)
		decodeBody(t, get(t, ts.URL+loc), &st)
	}
	if st.Progress != 1 {
		t.Errorf("progress = %v, want 1", st.Progress)
	}

	doc := get(t, ts.URL+loc+"/document")
	if ct := doc.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	var buf bytes.Buffer
	buf.ReadFrom(doc.Body)
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("document is not a PDF")
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+loc, nil)
	del, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	del.Body.Close()
	if del.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", del.StatusCode)
	}
	if resp := get(t, ts.URL+loc); resp.StatusCode != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", resp.StatusCode)
	}
}

func TestExportUnknownID(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/v1/exports/nope", "/v1/exports/nope/document"} {
		resp := get(t, ts.URL+path)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", path, resp.StatusCode)
		}
	}
}

func TestExportInputErrorIsImmediate(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts.URL+"/v1/exports", `{"job":{"paper":"tabloid"}}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRegistry(t *testing.T) {
	r := newRegistry(2, time.Minute)
	now := time.Unix(1000, 0)
	r.now = func() time.Time { return now }

	a, b := &exportJob{}, &exportJob{}
	if !r.add(a) || !r.add(b) {
		t.Fatal("add failed below capacity")
	}
	if a.id == b.id {
		t.Fatal("ids are not unique")
	}
	if r.add(&exportJob{}) {
		t.Error("add succeeded at capacity")
	}

	r.finish(a.id)
	now = now.Add(2 * time.Minute)
	if _, ok := r.get(a.id); ok {
		t.Error("finished export not pruned after retention")
	}
	if _, ok := r.get(b.id); !ok {
		t.Error("running export was pruned")
	}
	if !r.add(&exportJob{}) {
		t.Error("add failed after pruning")
	}
}

func TestStats(t *testing.T) {
	st := NewStats()
	st.Register()
	t.Cleanup(observability.Reset)
	ts := newTestServer(t, WithStats(st))

	post(t, ts.URL+"/v1/render/svg", `{}`)
	post(t, ts.URL+"/v1/render/svg", `{"job":{"design":{"label":{"width":500,"height":40}}}}`)

	var snap StatsSnapshot
	decodeBody(t, get(t, ts.URL+"/v1/stats"), &snap)
	if snap.Renders[pipeline.FormatSVG] != 1 {
		t.Errorf("svg renders = %d, want 1", snap.Renders[pipeline.FormatSVG])
	}
	if snap.Plans != 2 || snap.PlanFailures != 1 {
		t.Errorf("plans = %d (%d failed), want 2 (1 failed)", snap.Plans, snap.PlanFailures)
	}
}

func TestStatsRouteDisabled(t *testing.T) {
	ts := newTestServer(t)
	if resp := get(t, ts.URL+"/v1/stats"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
