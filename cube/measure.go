package cube

// ============================================================================
// MEASURE — An aggregate computed over a cube's filtered data
// ============================================================================
// Measures are stateless computation units, declared once per cube and shared
// across every slice. A Compute implementation must treat the cube as
// read-only context: its constraint set plus whatever data source the
// concrete measure closes over.
// ============================================================================

// Measure computes an aggregate result for a cube.
type Measure interface {
	// Compute evaluates the measure against the cube's current constraint
	// set. The result type is measure-defined: scalar, tuple, or structured
	// value. Must not mutate the cube.
	Compute(c *Cube) (any, error)
}

// MeasureFunc adapts a plain function into a Measure.
type MeasureFunc func(c *Cube) (any, error)

// Compute invokes the function.
func (f MeasureFunc) Compute(c *Cube) (any, error) { return f(c) }
