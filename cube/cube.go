// Package cube implements an in-memory OLAP-style cube: named dimensions
// crossed with measures, narrowed by slicing and explored through lazy slice
// iteration and recursive aggregation views.
package cube

import (
	"fmt"
	"iter"
	"sort"
	"strings"
)

// Reserved keys in aggregation results.
const (
	// MeasureKey holds the current-level aggregate in MeasuresDict results.
	MeasureKey = "measure"
	// SlicesKey holds the per-value breakdown in MeasuresDict results.
	SlicesKey = "slices"
	// RowMeasureKey holds the aggregate column in Measures row results.
	RowMeasureKey = "__measure"
)

// ============================================================================
// CONSTRAINT
// ============================================================================

// Constraint maps dimension names to fixed values. Values must be
// Go-comparable; the owning data source decides how they match its rows.
type Constraint map[string]any

func (c Constraint) clone() Constraint {
	out := make(Constraint, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// ============================================================================
// SOURCE
// ============================================================================

// Source enumerates the cross-product sample space over a set of free
// dimensions. Each returned point maps every requested dimension name to one
// legal value and is usable directly as a Slice argument.
//
// Enumeration may block on external I/O at the source's discretion; the cube
// imposes no timeout or retry policy and propagates source errors unchanged.
type Source interface {
	SampleSpace(dimNames ...string) ([]Constraint, error)
}

// ============================================================================
// CUBE
// ============================================================================

// Cube owns an ordered dimension list, an ordered measure list, and a
// constraint set that grows only through slicing. Slicing copies; a parent
// and its children never alias mutable state, so sibling cubes are safe for
// concurrent use as long as the underlying source is.
type Cube struct {
	name       string
	dimensions []Dimension
	measures   []Measure
	constraint Constraint
	source     Source
	sortKey    func(Constraint) string
}

// New constructs a root cube with an empty constraint set.
// Dimension names must be non-empty and unique.
func New(dimensions []Dimension, measures []Measure, opts ...Option) (*Cube, error) {
	seen := make(map[string]bool, len(dimensions))
	for _, d := range dimensions {
		name := d.Name()
		if name == "" {
			return nil, fmt.Errorf("%w: empty dimension name", ErrInvalidDimension)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate dimension %q", ErrInvalidDimension, name)
		}
		seen[name] = true
	}
	c := &Cube{
		dimensions: dimensions,
		measures:   measures,
		constraint: make(Constraint),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// clone returns an independent copy: own constraint map, shared read-only
// dimension/measure/source definitions.
func (c *Cube) clone() *Cube {
	out := *c
	out.constraint = c.constraint.clone()
	return &out
}

// DimNames returns the declared dimension names in declaration order.
func (c *Cube) DimNames() []string {
	names := make([]string, len(c.dimensions))
	for i, d := range c.dimensions {
		names[i] = d.Name()
	}
	return names
}

// Dimensions returns the declared dimensions in declaration order.
func (c *Cube) Dimensions() []Dimension {
	out := make([]Dimension, len(c.dimensions))
	copy(out, c.dimensions)
	return out
}

// Constraint returns a copy of the cube's current constraint set.
func (c *Cube) Constraint() Constraint { return c.constraint.clone() }

// Source returns the cube's sample-space source, nil if none was wired.
func (c *Cube) Source() Source { return c.source }

// IsConstrained reports whether the named dimension is fixed on this cube.
func (c *Cube) IsConstrained(name string) bool {
	_, ok := c.constraint[name]
	return ok
}

// dimension resolves a declared dimension by name, nil if absent.
func (c *Cube) dimension(name string) Dimension {
	for _, d := range c.dimensions {
		if d.Name() == name {
			return d
		}
	}
	return nil
}

// checkDimNames fails with ErrInvalidDimension unless every candidate names
// a declared dimension.
func (c *Cube) checkDimNames(names []string) error {
	for _, name := range names {
		if c.dimension(name) == nil {
			return fmt.Errorf("%w: %q", ErrInvalidDimension, name)
		}
	}
	return nil
}

// freeNames returns the subset of names not yet constrained, deduplicated,
// in first-occurrence order.
func (c *Cube) freeNames(names []string) []string {
	var free []string
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] || c.IsConstrained(name) {
			continue
		}
		seen[name] = true
		free = append(free, name)
	}
	return free
}

// ============================================================================
// SLICING
// ============================================================================

// Slice returns a new cube whose constraint set is this cube's merged with
// extra. Values in extra win on key conflicts, so slicing an
// already-constrained dimension reassigns it. The receiver is unchanged.
func (c *Cube) Slice(extra Constraint) (*Cube, error) {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	if err := c.checkDimNames(keys); err != nil {
		return nil, err
	}
	out := c.clone()
	for name, value := range extra {
		out.constraint[name] = value
	}
	return out, nil
}

// IterSlices lazily yields one child cube per point of the cross-product
// sample space over the free dimensions among dimNames. If every requested
// name is already constrained, it yields exactly one copy of the cube.
//
// Points are ordered by the cube's sort key when one is configured,
// otherwise in source order. The sequence is finite and restartable: each
// call re-derives from the cube's current state.
func (c *Cube) IterSlices(dimNames ...string) iter.Seq2[*Cube, error] {
	return func(yield func(*Cube, error) bool) {
		if err := c.checkDimNames(dimNames); err != nil {
			yield(nil, err)
			return
		}
		free := c.freeNames(dimNames)
		if len(free) == 0 {
			yield(c.clone(), nil)
			return
		}
		if c.source == nil {
			yield(nil, fmt.Errorf("%w: cube has no sample-space source", ErrUnimplemented))
			return
		}
		points, err := c.source.SampleSpace(free...)
		if err != nil {
			yield(nil, err)
			return
		}
		if c.sortKey != nil {
			ordered := make([]Constraint, len(points))
			copy(ordered, points)
			sort.SliceStable(ordered, func(i, j int) bool {
				return c.sortKey(ordered[i]) < c.sortKey(ordered[j])
			})
			points = ordered
		}
		for _, point := range points {
			slc, err := c.Slice(point)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(slc, nil) {
				return
			}
		}
	}
}

// Slices collects IterSlices into a slice.
func (c *Cube) Slices(dimNames ...string) ([]*Cube, error) {
	var out []*Cube
	for slc, err := range c.IterSlices(dimNames...) {
		if err != nil {
			return nil, err
		}
		out = append(out, slc)
	}
	return out, nil
}

// ============================================================================
// MEASURE COMPUTATION
// ============================================================================

// Compute evaluates every measure in declared order and returns the results
// positionally aligned with the measure list.
func (c *Cube) Compute() ([]any, error) {
	out := make([]any, len(c.measures))
	for i, m := range c.measures {
		v, err := m.Compute(c)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Measure is the single-measure convenience accessor: it returns the
// computed value when exactly one measure is declared and fails otherwise.
// Cubes with several measures must use Compute.
func (c *Cube) Measure() (any, error) {
	if len(c.measures) != 1 {
		return nil, fmt.Errorf("cube declares %d measures, Measure requires exactly one", len(c.measures))
	}
	return c.measures[0].Compute(c)
}

// ============================================================================
// AGGREGATION VIEWS
// ============================================================================

// MeasuresList computes the single measure across nested dimension
// traversals, producing a list nested one level per free name among dimNames,
// each level ordered by that dimension's slice iteration order. Names already
// constrained on the cube are skipped; if every name is constrained the
// result is a one-element list holding the cube's own measure.
func (c *Cube) MeasuresList(dimNames ...string) ([]any, error) {
	if err := c.checkDimNames(dimNames); err != nil {
		return nil, err
	}
	free := c.freeNames(dimNames)
	if len(free) == 0 {
		v, err := c.Measure()
		if err != nil {
			return nil, err
		}
		return []any{v}, nil
	}
	head, rest := free[0], free[1:]
	out := make([]any, 0)
	for slc, err := range c.IterSlices(head) {
		if err != nil {
			return nil, err
		}
		if len(rest) == 0 {
			v, err := slc.Measure()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
			continue
		}
		sub, err := slc.MeasuresList(rest...)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

// MeasuresDict is MeasuresList keyed by dimension value instead of position.
// Level keys are the owning dimension's PrettyConstraint form, so results
// render directly as JSON. With full true, each level carries both its own
// aggregate under MeasureKey and the per-value breakdown under SlicesKey;
// with full false only the breakdown mapping is returned. The base case (no
// free names) is a single-key mapping holding the cube's measure.
func (c *Cube) MeasuresDict(full bool, dimNames ...string) (map[string]any, error) {
	if err := c.checkDimNames(dimNames); err != nil {
		return nil, err
	}
	free := c.freeNames(dimNames)
	if len(free) == 0 {
		v, err := c.Measure()
		if err != nil {
			return nil, err
		}
		return map[string]any{MeasureKey: v}, nil
	}
	head, rest := free[0], free[1:]
	dim := c.dimension(head)
	breakdown := make(map[string]any)
	for slc, err := range c.IterSlices(head) {
		if err != nil {
			return nil, err
		}
		sub, err := slc.MeasuresDict(full, rest...)
		if err != nil {
			return nil, err
		}
		breakdown[dim.PrettyConstraint(slc.constraint[head])] = sub
	}
	if !full {
		return breakdown, nil
	}
	v, err := c.Measure()
	if err != nil {
		return nil, err
	}
	return map[string]any{MeasureKey: v, SlicesKey: breakdown}, nil
}

// Measures returns the flattened row view: one mapping per point of the
// cross product over dimNames, combining the slice's constraint values with
// the computed measure under RowMeasureKey. Shaped like a relational
// projection with an aggregate column appended.
func (c *Cube) Measures(dimNames ...string) ([]map[string]any, error) {
	rows := make([]map[string]any, 0)
	for slc, err := range c.IterSlices(dimNames...) {
		if err != nil {
			return nil, err
		}
		v, err := slc.Measure()
		if err != nil {
			return nil, err
		}
		row := map[string]any(slc.Constraint())
		row[RowMeasureKey] = v
		rows = append(rows, row)
	}
	return rows, nil
}

// ============================================================================
// DISPLAY
// ============================================================================

// String renders a deterministic identity: free dimension names followed by
// name=value pairs for constrained ones, both groups sorted.
//
//	Cube(a, c, b=2)
func (c *Cube) String() string {
	var free []string
	for _, d := range c.dimensions {
		if !c.IsConstrained(d.Name()) {
			free = append(free, d.Name())
		}
	}
	sort.Strings(free)

	constrained := make([]string, 0, len(c.constraint))
	for name, value := range c.constraint {
		pretty := fmt.Sprint(value)
		if d := c.dimension(name); d != nil {
			pretty = d.PrettyConstraint(value)
		}
		constrained = append(constrained, name+"="+pretty)
	}
	sort.Strings(constrained)

	name := c.name
	if name == "" {
		name = "Cube"
	}
	return name + "(" + strings.Join(append(free, constrained...), ", ") + ")"
}
