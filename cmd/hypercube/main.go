package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/andreipak/hypercube/api"
	"github.com/andreipak/hypercube/cube"
	"github.com/andreipak/hypercube/dataset"
	"github.com/andreipak/hypercube/render"
)

// ============================================================================
// HYPERCUBE CLI — Slice any dataset
// ============================================================================

const version = "0.1.0"

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	filePath := flag.String("file", "", "Path to CSV data file")
	dbPath := flag.String("db", "", "Path to SQLite database (alternative to --file)")
	dbTable := flag.String("table", "", "SQLite table name (required with --db)")
	name := flag.String("name", "", "Cube display name (default: file base name)")
	dimsFlag := flag.String("dimensions", "", "Declared dimensions for --db mode (comma-separated)")
	measure := flag.String("measure", "", "Measure column to sum (default: row count)")
	sliceFlag := flag.String("slice", "", "Constraints applied before the view, e.g. region=EU,year=2024")
	dims := flag.String("dims", "", "Dimensions to traverse, comma-separated")
	view := flag.String("view", "table", "View: rows, list, dict, table, chart, compute")
	full := flag.Bool("full", true, "Include per-level aggregates in dict view")
	chartType := flag.String("chart-type", "bar", "Chart type for --view chart")
	format := flag.String("format", "text", "Output format: json, pretty, text, csv")
	outFile := flag.String("out", "", "Write output to file instead of stdout")
	discover := flag.Bool("discover", false, "Print inferred schema and exit (CSV mode)")
	serve := flag.Bool("serve", false, "Serve the cube API over HTTP")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Hypercube — slice any dataset

Usage:
  hypercube --file sales.csv --view table --dims region,product
  hypercube --file sales.csv --measure revenue --dims region --format csv
  hypercube --file sales.csv --slice region=EU --view dict --dims product
  hypercube --db data.sqlite --table sales --dimensions region,product --view rows --dims region
  hypercube --file sales.csv --discover --format pretty
  hypercube --file sales.csv --serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment (with --serve):
  CUBE_ADDR           Listen address (default :8080)
  CUBE_CORS           Enable CORS middleware (default true)
  CUBE_REQUEST_LOGS   Enable request logging (default true)
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("hypercube %s\n", version)
		os.Exit(0)
	}

	if *filePath == "" && *dbPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --file or --db is required")
		flag.Usage()
		os.Exit(1)
	}

	// ── Output writer ─────────────────────────────────────────────────────
	writer := os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			fatalf("Failed to create output file: %v", err)
		}
		defer f.Close()
		writer = f
	}

	// ── Build the cube ────────────────────────────────────────────────────
	var c *cube.Cube

	if *filePath != "" {
		data, err := os.ReadFile(*filePath)
		if err != nil {
			fatalf("Failed to read file: %v", err)
		}
		rows, keys, err := dataset.ParseCSV(data)
		if err != nil {
			fatalf("Failed to parse CSV: %v", err)
		}
		log.Printf("📊 Parsed %d rows, %d columns", len(rows), len(keys))

		cubeName := *name
		if cubeName == "" {
			cubeName = strings.TrimSuffix(filepath.Base(*filePath), filepath.Ext(*filePath))
		}
		table := dataset.NewTable(rows)
		schema := dataset.Infer(cubeName, keys, rows)
		log.Printf("🔍 Inferred schema: %d dimensions, %d measures, %d skipped",
			len(schema.Dimensions), len(schema.Measures), len(schema.Skipped))

		if *discover {
			writeJSON(writer, schema, *format)
			return
		}

		c, err = dataset.BuildCube(table, schema, *measure)
		if err != nil {
			fatalf("Failed to build cube: %v", err)
		}
	} else {
		if *dbTable == "" {
			fatalf("--table is required with --db")
		}
		declared := splitList(*dimsFlag)
		if len(declared) == 0 {
			fatalf("--dimensions is required with --db")
		}
		src, err := dataset.OpenSQLite(*dbPath, *dbTable)
		if err != nil {
			fatalf("Failed to open database: %v", err)
		}
		defer src.Close()

		dimensions := make([]cube.Dimension, len(declared))
		for i, dimName := range declared {
			dn := dimName
			dimensions[i] = cube.NewDimFunc(dn, func() ([]any, error) {
				points, err := src.SampleSpace(dn)
				if err != nil {
					return nil, err
				}
				values := make([]any, len(points))
				for j, p := range points {
					values[j] = p[dn]
				}
				return values, nil
			})
		}

		var m cube.Measure
		if *measure == "" {
			m = dataset.SQLCount(src)
		} else {
			m = dataset.SQLSum(src, *measure)
		}

		cubeName := *name
		if cubeName == "" {
			cubeName = *dbTable
		}
		c, err = cube.New(dimensions, []cube.Measure{m},
			cube.WithSource(src),
			cube.WithSortKey(dataset.PointKey),
			cube.WithName(cubeName),
		)
		if err != nil {
			fatalf("Failed to build cube: %v", err)
		}
	}

	// ── Apply constraints ─────────────────────────────────────────────────
	if *sliceFlag != "" {
		constraint, err := parseSlice(*sliceFlag)
		if err != nil {
			fatalf("Bad --slice: %v", err)
		}
		c, err = c.Slice(constraint)
		if err != nil {
			fatalf("Slice failed: %v", err)
		}
		log.Printf("🔪 Sliced: %s", c)
	}

	// ── Serve mode ────────────────────────────────────────────────────────
	if *serve {
		cfg, err := api.LoadConfig()
		if err != nil {
			fatalf("Bad server config: %v", err)
		}
		e := api.NewServer(c, cfg)
		log.Printf("🚀 Serving %s on %s", c, cfg.Addr)
		if err := e.Start(cfg.Addr); err != nil {
			fatalf("Server stopped: %v", err)
		}
		return
	}

	// ── Run the view ──────────────────────────────────────────────────────
	traverse := splitList(*dims)

	switch *view {
	case "compute":
		computed, err := c.Compute()
		if err != nil {
			fatalf("Compute failed: %v", err)
		}
		writeJSON(writer, map[string]any{"cube": c.String(), "measures": computed}, *format)

	case "rows":
		rows, err := c.Measures(traverse...)
		if err != nil {
			fatalf("Rows view failed: %v", err)
		}
		writeJSON(writer, rows, *format)

	case "list":
		list, err := c.MeasuresList(traverse...)
		if err != nil {
			fatalf("List view failed: %v", err)
		}
		writeJSON(writer, list, *format)

	case "dict":
		dict, err := c.MeasuresDict(*full, traverse...)
		if err != nil {
			fatalf("Dict view failed: %v", err)
		}
		writeJSON(writer, dict, *format)

	case "table":
		td, err := render.BuildTable(c, traverse...)
		if err != nil {
			fatalf("Table view failed: %v", err)
		}
		switch *format {
		case "text":
			fmt.Fprint(writer, td.Text())
		case "csv":
			if err := td.WriteCSV(writer); err != nil {
				fatalf("CSV write failed: %v", err)
			}
		default:
			writeJSON(writer, td, *format)
		}

	case "chart":
		chart, err := render.BuildChart(c, *chartType, traverse...)
		if err != nil {
			fatalf("Chart view failed: %v", err)
		}
		writeJSON(writer, chart, *format)

	default:
		fatalf("Unknown view %q", *view)
	}
}

// ============================================================================
// HELPERS
// ============================================================================

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseSlice reads "a=1,b=x" into a constraint, auto-typing numeric values
// the way the CSV loader does.
func parseSlice(raw string) (cube.Constraint, error) {
	constraint := make(cube.Constraint)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, found := strings.Cut(part, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("expected name=value, got %q", part)
		}
		constraint[strings.TrimSpace(name)] = autoType(strings.TrimSpace(value))
	}
	return constraint, nil
}

func autoType(s string) any {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func writeJSON(w *os.File, v any, format string) {
	var out []byte
	var err error
	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		fatalf("Failed to encode output: %v", err)
	}
	fmt.Fprintln(w, string(out))
}
