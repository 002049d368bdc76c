package update

type RuntimeConfig struct {
	PaneWidth  int
	ListHeight int
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		PaneWidth:  48,
		ListHeight: 14,
	}
}

// withDefaults fills non-positive fields from DefaultRuntimeConfig.
func (c RuntimeConfig) withDefaults() RuntimeConfig {
	def := DefaultRuntimeConfig()
	if c.PaneWidth <= 0 {
		c.PaneWidth = def.PaneWidth
	}
	if c.ListHeight <= 0 {
		c.ListHeight = def.ListHeight
	}
	return c
}
