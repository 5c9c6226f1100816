package cache

// ArtifactKeyOpts lists the render options that change output bytes.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	DPI         float64 `json:"dpi,omitempty"`
	JPEGQuality int     `json:"jpeg_quality,omitempty"`
	Margin      float64 `json:"margin,omitempty"`
	Gap         float64 `json:"gap,omitempty"`
	PageGap     float64 `json:"page_gap,omitempty"`
	Rasterizer  string  `json:"rasterizer,omitempty"`
	Page        int     `json:"page,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey keys a rendered output by job hash and options.
	ArtifactKey(jobHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(jobHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", jobHash, opts)
}
