package assets

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/labelsheet/pkg/httputil"
	"github.com/matzehuels/labelsheet/pkg/label"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(0, 0, color.Black)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestResolveDataURI(t *testing.T) {
	uri := EncodeDataURI("image/png", pngBytes(t, 4, 3))
	var r Resolver
	img, err := r.Resolve(context.Background(), uri)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("bounds = %v, want 4x3", b)
	}
}

func TestResolveFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "logo.png"), pngBytes(t, 2, 2), 0o644); err != nil {
		t.Fatal(err)
	}
	r := Resolver{BaseDir: dir}
	if _, err := r.Resolve(context.Background(), "logo.png"); err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
}

func TestResolveRemote(t *testing.T) {
	data := pngBytes(t, 5, 5)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	r := Resolver{Client: httputil.NewClient(nil, nil)}
	img, err := r.Resolve(context.Background(), srv.URL+"/logo.png")
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if img.Bounds().Dx() != 5 {
		t.Errorf("width = %d, want 5", img.Bounds().Dx())
	}

	var offline Resolver
	if _, err := offline.Resolve(context.Background(), srv.URL); err == nil {
		t.Error("remote reference resolved without a client")
	}
}

func TestResolveAllSkipsFailures(t *testing.T) {
	good := EncodeDataURI("image/png", pngBytes(t, 1, 1))
	var r Resolver
	set, err := r.ResolveAll(context.Background(), []string{good, "missing.png", "data:image/png;base64,!!!", "ftp://host/x.png"})
	if err != nil {
		t.Fatalf("ResolveAll() failed: %v", err)
	}
	if len(set) != 1 || set.Lookup(good) == nil {
		t.Errorf("ResolveAll() resolved %d refs, want only the data URI", len(set))
	}
	if set.Lookup("missing.png") != nil {
		t.Error("missing file should be absent")
	}
}

func TestResolveAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var r Resolver
	if _, err := r.ResolveAll(ctx, []string{"a.png"}); err == nil {
		t.Error("ResolveAll() ignored cancellation")
	}
}

func TestRefs(t *testing.T) {
	d := label.DefaultDesign()
	d.Elements = append(d.Elements,
		label.Element{ID: "img", Kind: label.KindImage, Src: "a.png"},
		label.Element{ID: "img2", Kind: label.KindImage, Src: "a.png"},
	)
	d.Elements[1].Logo = "logo.png"
	got := Refs(d)
	want := []string{"logo.png", "a.png"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Refs() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeDataURI(t *testing.T) {
	tests := []struct {
		in       string
		want     string
		wantType string
		wantErr  bool
	}{
		{"data:text/plain;base64,aGk=", "hi", "text/plain", false},
		{"data:text/plain,a%20b", "a b", "text/plain", false},
		{"data:text/plain", "", "", true},
		{"http://x", "", "", true},
	}
	for _, tt := range tests {
		got, typ, err := DecodeDataURI(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("DecodeDataURI(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && (string(got) != tt.want || typ != tt.wantType) {
			t.Errorf("DecodeDataURI(%q) = %q, %q; want %q, %q", tt.in, got, typ, tt.want, tt.wantType)
		}
	}
}
