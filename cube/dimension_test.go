package cube

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDimSampleSpace(t *testing.T) {
	d := NewDim("priority", 3, 1, 2)

	values, err := d.SampleSpace(false)
	require.NoError(t, err)
	assert.Equal(t, []any{3, 1, 2}, values, "unsorted keeps declaration order")

	values, err = d.SampleSpace(true)
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3}, values)
}

func TestDimSampleSpaceReturnsCopy(t *testing.T) {
	d := NewDim("x", "b", "a")
	values, err := d.SampleSpace(true)
	require.NoError(t, err)
	values[0] = "mutated"

	again, err := d.SampleSpace(false)
	require.NoError(t, err)
	assert.Equal(t, []any{"b", "a"}, again, "callers cannot mutate the declared values")
}

func TestDimWithoutValuesIsUnimplemented(t *testing.T) {
	d := NewDim("opaque")
	_, err := d.SampleSpace(false)
	assert.ErrorIs(t, err, ErrUnimplemented)
}

func TestDimPrettyConstraint(t *testing.T) {
	d := NewDim("amount")
	assert.Equal(t, "42", d.PrettyConstraint(42))

	d.Pretty(func(v any) string { return fmt.Sprintf("$%v", v) })
	assert.Equal(t, "$42", d.PrettyConstraint(42))
}

func TestDimFuncEnumeratesLazily(t *testing.T) {
	calls := 0
	d := NewDimFunc("region", func() ([]any, error) {
		calls++
		return []any{"west", "east"}, nil
	})
	assert.Zero(t, calls, "construction must not enumerate")

	values, err := d.SampleSpace(true)
	require.NoError(t, err)
	assert.Equal(t, []any{"east", "west"}, values)
	assert.Equal(t, 1, calls)

	_, err = d.SampleSpace(false)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "no caching between calls")
}

func TestDimFuncPropagatesErrors(t *testing.T) {
	boom := errors.New("lookup failed")
	d := NewDimFunc("region", func() ([]any, error) { return nil, boom })
	_, err := d.SampleSpace(false)
	assert.ErrorIs(t, err, boom)
}

func TestSortValuesMixedTypes(t *testing.T) {
	values := []any{"b", 2, "a", 1.5}
	sortValues(values)
	// Numbers compare numerically with each other, strings lexicographically;
	// mixed comparisons fall back to string form.
	assert.Equal(t, []any{1.5, 2, "a", "b"}, values)
	assert.Less(t, compareValues(1.5, 2), 0)
	assert.Less(t, compareValues("a", "b"), 0)
	assert.Equal(t, 0, compareValues("x", "x"))
}
