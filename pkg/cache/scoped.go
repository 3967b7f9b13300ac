package cache

// ScopedKeyer wraps a Keyer with a prefix so several projects can share one
// cache backend without colliding.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "portraitgrid:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// AvatarKey generates a prefixed key for a processed photo.
func (k *ScopedKeyer) AvatarKey(opts AvatarKeyOpts) string {
	return k.prefix + k.inner.AvatarKey(opts)
}

// BackgroundKey generates a prefixed key for a scaled background.
func (k *ScopedKeyer) BackgroundKey(opts BackgroundKeyOpts) string {
	return k.prefix + k.inner.BackgroundKey(opts)
}
