package cache

// ScopedKeyer prefixes every key from an inner Keyer, so that several
// deployments or versions can share one Redis database without collisions.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "labelsheet:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner uses
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(jobHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(jobHash, opts)
}
