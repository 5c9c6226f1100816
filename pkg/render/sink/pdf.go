package sink

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
)

// DefaultJPEGQuality is the quality used for embedded page images.
const DefaultJPEGQuality = 85

type PDFOption func(*PDF)

// WithJPEGQuality sets the JPEG quality (1-100) of embedded pages.
func WithJPEGQuality(q int) PDFOption {
	return func(p *PDF) {
		if q >= 1 && q <= 100 {
			p.quality = q
		}
	}
}

// WithTitle sets the document title metadata.
func WithTitle(title string) PDFOption {
	return func(p *PDF) { p.title = title }
}

// PDF assembles page images into a paginated document. Each page is sized
// to the paper and filled edge to edge by its image.
type PDF struct {
	doc     *fpdf.Fpdf
	width   float64
	height  float64
	quality int
	title   string
	pages   int
}

// NewPDF starts an empty document with pages of the given size in mm.
func NewPDF(widthMM, heightMM float64, opts ...PDFOption) *PDF {
	p := &PDF{width: widthMM, height: heightMM, quality: DefaultJPEGQuality}
	for _, opt := range opts {
		opt(p)
	}
	p.doc = fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: widthMM, Ht: heightMM},
	})
	p.doc.SetMargins(0, 0, 0)
	p.doc.SetAutoPageBreak(false, 0)
	p.doc.SetCompression(true)
	p.doc.SetCreator("labelsheet", true)
	if p.title != "" {
		p.doc.SetTitle(p.title, true)
	}
	return p
}

// AddPage appends one page showing img stretched to the page size.
func (p *PDF) AddPage(img image.Image) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.quality)); err != nil {
		return fmt.Errorf("encode page %d: %w", p.pages+1, err)
	}

	name := fmt.Sprintf("page-%d", p.pages+1)
	opt := fpdf.ImageOptions{ImageType: "JPG"}
	p.doc.AddPage()
	p.doc.RegisterImageOptionsReader(name, opt, &buf)
	p.doc.ImageOptions(name, 0, 0, p.width, p.height, false, opt, 0, "")
	if err := p.doc.Error(); err != nil {
		return fmt.Errorf("add page %d: %w", p.pages+1, err)
	}
	p.pages++
	return nil
}

// Pages returns the number of pages added so far.
func (p *PDF) Pages() int { return p.pages }

// Write finalizes the document and writes it to w. The PDF cannot be used
// afterwards.
func (p *PDF) Write(w io.Writer) error {
	return p.doc.Output(w)
}

// Bytes finalizes the document and returns it.
func (p *PDF) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
