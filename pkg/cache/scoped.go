package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants or
// environments can share one backend without key collisions.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// AnalysisKey generates a prefixed analysis key.
func (k *ScopedKeyer) AnalysisKey(layoutHash string) string {
	return k.prefix + k.inner.AnalysisKey(layoutHash)
}

// ReportKey generates a prefixed report key.
func (k *ScopedKeyer) ReportKey(layoutHash string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(layoutHash, opts)
}
