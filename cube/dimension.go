package cube

import (
	"fmt"
	"sort"
)

// ============================================================================
// DIMENSION — A named axis of categorical values
// ============================================================================
// Dimensions are read-only singletons: declared once, shared by every slice
// derived from a cube. The cube never copies them.
// ============================================================================

// Dimension names an axis and enumerates its legal values.
type Dimension interface {
	// Name is the dimension's immutable identifier, unique within a cube.
	Name() string

	// SampleSpace returns the dimension's legal values, ascending under the
	// value type's natural ordering when sorted is true. Enumeration may be
	// expensive; callers must not assume repeated calls are cheap.
	SampleSpace(sorted bool) ([]any, error)

	// PrettyConstraint formats a constraint value for display.
	PrettyConstraint(value any) string
}

// ============================================================================
// DIM — static sample space
// ============================================================================

// Dim is the standard Dimension implementation, backed by a fixed value list.
//
// A Dim declared without values is legal: cubes whose source enumerates the
// cross product directly never consult per-dimension sample spaces. Calling
// SampleSpace on such a Dim fails with ErrUnimplemented.
type Dim struct {
	name   string
	values []any
	pretty func(any) string
}

// NewDim creates a dimension with an optional static sample space.
func NewDim(name string, values ...any) *Dim {
	return &Dim{name: name, values: values}
}

// Pretty overrides the display formatting for constraint values.
// Returns the receiver for chaining.
func (d *Dim) Pretty(fn func(any) string) *Dim {
	d.pretty = fn
	return d
}

// Name returns the dimension's identifier.
func (d *Dim) Name() string { return d.name }

// SampleSpace returns the declared values, sorted on request.
func (d *Dim) SampleSpace(sorted bool) ([]any, error) {
	if d.values == nil {
		return nil, fmt.Errorf("%w: dimension %q has no sample space", ErrUnimplemented, d.name)
	}
	out := make([]any, len(d.values))
	copy(out, d.values)
	if sorted {
		sortValues(out)
	}
	return out, nil
}

// PrettyConstraint formats a constraint value for display.
func (d *Dim) PrettyConstraint(value any) string {
	if d.pretty != nil {
		return d.pretty(value)
	}
	return fmt.Sprint(value)
}

// ============================================================================
// DIMFUNC — lazy sample space
// ============================================================================

// DimFunc enumerates its sample space through a callback, for dimensions
// whose legal values live in an external store or are costly to list.
// No caching: every SampleSpace call re-invokes the callback.
type DimFunc struct {
	name string
	fn   func() ([]any, error)
}

// NewDimFunc creates a dimension with a lazily enumerated sample space.
func NewDimFunc(name string, fn func() ([]any, error)) *DimFunc {
	return &DimFunc{name: name, fn: fn}
}

// Name returns the dimension's identifier.
func (d *DimFunc) Name() string { return d.name }

// SampleSpace invokes the callback, sorting the result on request.
// Callback errors propagate unchanged.
func (d *DimFunc) SampleSpace(sorted bool) ([]any, error) {
	if d.fn == nil {
		return nil, fmt.Errorf("%w: dimension %q has no sample space", ErrUnimplemented, d.name)
	}
	values, err := d.fn()
	if err != nil {
		return nil, err
	}
	if sorted {
		sortValues(values)
	}
	return values, nil
}

// PrettyConstraint formats a constraint value for display.
func (d *DimFunc) PrettyConstraint(value any) string { return fmt.Sprint(value) }

// ============================================================================
// VALUE ORDERING
// ============================================================================

// sortValues sorts mixed dimension values in place: numerically when both
// sides are numeric, lexicographically for strings, and by string form
// otherwise.
func sortValues(values []any) {
	sort.SliceStable(values, func(i, j int) bool {
		return compareValues(values[i], values[j]) < 0
	})
}

func compareValues(a, b any) int {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if !aok {
		as = fmt.Sprint(a)
	}
	if !bok {
		bs = fmt.Sprint(b)
	}
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
