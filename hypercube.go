// Package hypercube provides an in-memory OLAP cube over any dataset.
//
// Usage:
//
//	import (
//	    "github.com/andreipak/hypercube/cube"
//	    "github.com/andreipak/hypercube/dataset"
//	)
//
//	table := dataset.NewTable(rows)
//	c, err := cube.New(
//	    []cube.Dimension{cube.NewDim("instrument"), cube.NewDim("first_name")},
//	    []cube.Measure{dataset.Count(table)},
//	    cube.WithSource(table),
//	)
//
//	trumpets, err := c.Slice(cube.Constraint{"instrument": "trumpet"})
//	rows, err := c.Measures("instrument", "first_name")
//
// A cube tracks which dimensions are fixed and which are free. Slicing fixes
// more dimensions and returns an independent child cube; the parent is never
// mutated. Measure computation is delegated to pluggable Measure values, and
// sample-space enumeration to a pluggable Source, so the underlying data can
// be an in-memory table, a SQLite database, or anything else that can answer
// those two questions.
//
// The cube package never performs I/O of its own. All computation is local
// and synchronous; collaborator errors propagate unchanged.
package hypercube
