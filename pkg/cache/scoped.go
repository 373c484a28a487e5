package cache

// ScopedKeyer wraps a Keyer with a prefix so separate deployments or
// tenants can share one backend without seeing each other's entries.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// SurveyKey generates a prefixed key for parsed surveys.
func (k *ScopedKeyer) SurveyKey(inputHash, format string) string {
	return k.prefix + k.inner.SurveyKey(inputHash, format)
}

// ResolveKey generates a prefixed key for resolved buildings.
func (k *ScopedKeyer) ResolveKey(surveyHash string, opts ResolveKeyOpts) string {
	return k.prefix + k.inner.ResolveKey(surveyHash, opts)
}

// ArtifactKey generates a prefixed key for artifacts.
func (k *ScopedKeyer) ArtifactKey(resolvedHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(resolvedHash, opts)
}
