// Package assets resolves image references used by label elements into
// decoded images.
//
// A reference is one of:
//
//   - a data URI (data:image/png;base64,...)
//   - an http or https URL, fetched through [httputil.Client]
//   - a filesystem path, absolute or relative to the resolver's base dir
//
// Resolution happens once per job, before rendering, so the renderer itself
// stays free of I/O. References that fail to resolve are left out of the
// [Set]; the renderer then omits the image.
package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/labelsheet/pkg/httputil"
	"github.com/matzehuels/labelsheet/pkg/label"
)

// ErrUnsupported is returned for references with an unknown scheme.
var ErrUnsupported = errors.New("unsupported asset reference")

// Set maps references to decoded images.
type Set map[string]image.Image

// Lookup returns the image for ref, or nil.
func (s Set) Lookup(ref string) image.Image {
	if s == nil || ref == "" {
		return nil
	}
	return s[ref]
}

// Resolver loads assets. The zero value resolves data URIs and files
// relative to the working directory; set Client to enable remote URLs.
type Resolver struct {
	BaseDir string
	Client  *httputil.Client
	Logger  *log.Logger
}

// Resolve loads and decodes one reference. EXIF orientation is applied.
func (r *Resolver) Resolve(ctx context.Context, ref string) (image.Image, error) {
	data, err := r.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", shorten(ref), err)
	}
	return img, nil
}

// ResolveAll resolves every reference, skipping failures. It stops early
// only when ctx is canceled.
func (r *Resolver) ResolveAll(ctx context.Context, refs []string) (Set, error) {
	set := make(Set, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, ok := set[ref]; ok {
			continue
		}
		img, err := r.Resolve(ctx, ref)
		if err != nil {
			r.logger().Debug("asset unavailable, omitting", "ref", shorten(ref), "err", err)
			continue
		}
		set[ref] = img
	}
	return set, nil
}

// Refs lists the distinct asset references used by a design in element order.
func Refs(d label.Design) []string {
	var refs []string
	seen := map[string]bool{}
	add := func(ref string) {
		if ref != "" && !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	for _, el := range d.Elements {
		switch el.Kind {
		case label.KindImage:
			add(el.Src)
		case label.KindQR:
			add(el.Logo)
		}
	}
	return refs
}

func (r *Resolver) load(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		data, _, err := DecodeDataURI(ref)
		return data, err
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		if r.Client == nil {
			return nil, fmt.Errorf("%w: remote assets disabled", ErrUnsupported)
		}
		return r.Client.Fetch(ctx, ref)
	case strings.HasPrefix(ref, "file://"):
		u, err := url.Parse(ref)
		if err != nil {
			return nil, err
		}
		return os.ReadFile(u.Path)
	case strings.Contains(ref, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, shorten(ref))
	default:
		path := ref
		if !filepath.IsAbs(path) && r.BaseDir != "" {
			path = filepath.Join(r.BaseDir, path)
		}
		return os.ReadFile(path)
	}
}

func (r *Resolver) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return discard
}

var discard = log.New(io.Discard)

// DecodeDataURI returns the payload and media type of a data URI. Both
// base64 and percent-encoded payloads are accepted.
func DecodeDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URI")
	}
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(payload)
		}
		return data, mediaType, err
	}
	s, err := url.PathUnescape(payload)
	return []byte(s), mediaType, err
}

// EncodeDataURI returns a base64 data URI for data.
func EncodeDataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func shorten(ref string) string {
	if len(ref) > 64 {
		return ref[:61] + "..."
	}
	return ref
}
