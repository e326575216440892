package cube

// ============================================================================
// CUBE OPTIONS — Functional options for New()
// ============================================================================

// Option configures a cube at construction time.
type Option func(*Cube)

// WithSource wires the collaborator that enumerates cross-product sample
// spaces for free dimensions. A cube without a source cannot iterate slices.
func WithSource(s Source) Option {
	return func(c *Cube) { c.source = s }
}

// WithSortKey sets the ordering key for slice iteration. Each cross-product
// point is mapped to a sortable string; iteration is stable under equal keys.
// Without a sort key, iteration preserves the source's order.
func WithSortKey(fn func(Constraint) string) Option {
	return func(c *Cube) { c.sortKey = fn }
}

// WithName sets the display name used by String(). Default: "Cube".
func WithName(name string) Option {
	return func(c *Cube) { c.name = name }
}
