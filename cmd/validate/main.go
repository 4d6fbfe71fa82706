// Command validate runs a dataset through the pipeline and checks the result
// against the properties the service guarantees: canonical columns, row sums,
// join coverage, climate classification, correlation bounds, and agreement
// between the wide and long readings of the same data.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -data internal/pipeline/testdata/wide.csv \
//	  -capitals internal/pipeline/testdata/capitals.csv \
//	  -long internal/pipeline/testdata/long.csv
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/couchcryptid/mbti-climate-service/internal/adapter/csvfile"
	"github.com/couchcryptid/mbti-climate-service/internal/domain"
	"github.com/couchcryptid/mbti-climate-service/internal/pipeline"
	"github.com/fatih/color"
)

// sumTolerance bounds the drift of a normalized row sum from 100.
const sumTolerance = 1e-6

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataPath := flag.String("data", "", "MBTI dataset CSV")
	capitalsPath := flag.String("capitals", "", "capitals reference CSV (optional)")
	longPath := flag.String("long", "", "long-shape CSV of the same data (optional)")
	flag.Parse()

	if *dataPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dataPath, *capitalsPath, *longPath); code != 0 {
		os.Exit(code)
	}
}

func run(dataPath, capitalsPath, longPath string) int {
	fmt.Println("=== MBTI Climate Data Validation ===")
	fmt.Println()

	var refs []domain.ReferenceGeoRow
	if capitalsPath != "" {
		var err error
		if refs, err = loadReference(capitalsPath); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load capitals: %v\n", err)
			return 1
		}
	}

	res, err := transformFile(dataPath, refs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %s: %v\n", dataPath, err)
		return 1
	}

	// ── Run validation phases ──
	phases := []*phase{
		validateCanonical(res.Canonical),
		validateNormalization(res.Normalized),
		validateJoin(res.Geo, res.Normalized, len(refs) > 0),
		validateCorrelations(res.Correlations, len(res.Geo.Records)),
	}
	if longPath != "" {
		long, err := transformFile(longPath, refs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %s: %v\n", longPath, err)
			return 1
		}
		phases = append(phases, validateShapeAgreement(res.Normalized, long.Normalized))
	}

	// ── Report results ──
	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := pass("PASS")
		if !p.passed() {
			status = fail(fmt.Sprintf("FAIL (%d errors)", len(p.errors)))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Countries: %d, matched: %d, reference rows: %d, warnings: %d\n",
		len(res.Geo.Records), res.Geo.Matched, len(refs), len(res.Warnings))

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i >= 20 {
				fmt.Printf("  ... and %d more\n", len(p.errors)-20)
				break
			}
			fmt.Printf("  %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	fmt.Println("\nAll checks passed.")
	return 0
}

func loadReference(path string) ([]domain.ReferenceGeoRow, error) {
	tbl, _, err := csvfile.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return domain.ParseReference(tbl)
}

func transformFile(path string, refs []domain.ReferenceGeoRow) (domain.Result, error) {
	raw, _, err := csvfile.ReadFile(path)
	if err != nil {
		return domain.Result{}, err
	}
	return pipeline.Transform(raw, refs)
}

// ── Phase 1: Canonical schema ──

func validateCanonical(t domain.CanonicalTable) *phase {
	p := &phase{name: "Phase 1: Canonical schema"}
	fmt.Println("Phase 1: Canonical schema...")

	if cols := t.Columns(); len(cols) != domain.TypeCount+1 {
		p.errorf("canonical columns: got %d, want %d", len(cols), domain.TypeCount+1)
	}
	if len(t.Rows) == 0 {
		p.errorf("no rows")
	}
	seen := make(map[string]int, len(t.Rows))
	for i, row := range t.Rows {
		if row.Country == "" {
			p.errorf("row %d: empty country", i)
			continue
		}
		if prev, dup := seen[row.Country]; dup {
			p.errorf("row %d: country %q already at row %d", i, row.Country, prev)
		}
		seen[row.Country] = i
	}

	fmt.Printf("  %s shape, country column %q, %d rows\n", t.Shape, t.CountryColumn, len(t.Rows))
	return p
}

// ── Phase 2: Normalization ──

func validateNormalization(t domain.NormalizedTable) *phase {
	p := &phase{name: "Phase 2: Row sums"}
	fmt.Println("Phase 2: Row sums...")

	var empty int
	for _, row := range t.Rows {
		sum, n := row.Scores.Sum()
		if n == 0 {
			empty++
			continue
		}
		if math.Abs(sum-100) > sumTolerance {
			p.errorf("%s: sum %.9f, want 100", row.Country, sum)
		}
		for i, v := range row.Scores {
			if v.Valid && (v.Float < 0 || v.Float > 100) {
				p.errorf("%s: %s = %g out of [0, 100]", row.Country, domain.Types[i], v.Float)
			}
		}
	}

	fmt.Printf("  %d rows, %d entirely absent, %d warnings\n", len(t.Rows), empty, len(t.Warnings))
	return p
}

// ── Phase 3: Join and climate ──

func validateJoin(geo domain.GeoTable, normalized domain.NormalizedTable, haveRefs bool) *phase {
	p := &phase{name: "Phase 3: Join coverage and climate zones"}
	fmt.Println("Phase 3: Join coverage and climate zones...")

	if len(geo.Records) != len(normalized.Rows) {
		p.errorf("geo records: got %d, want %d (one per normalized row)", len(geo.Records), len(normalized.Rows))
	}

	zones := make(map[domain.ClimateZone]int)
	var matched int
	for i, rec := range geo.Records {
		if i < len(normalized.Rows) && rec.Country != normalized.Rows[i].Country {
			p.errorf("record %d: country %q, want %q (input order)", i, rec.Country, normalized.Rows[i].Country)
		}
		if _, ok := domain.ParseClimateZone(string(rec.ClimateZone)); !ok {
			p.errorf("%s: invalid climate zone %q", rec.Country, rec.ClimateZone)
		}
		if want := domain.ClassifyClimate(rec.AbsLatitude); rec.ClimateZone != want {
			p.errorf("%s: climate %s, want %s for |lat| %s", rec.Country, rec.ClimateZone, want, rec.AbsLatitude)
		}
		if rec.CapitalLatitude.Valid && math.Abs(rec.AbsLatitude.Float-math.Abs(rec.CapitalLatitude.Float)) > 1e-12 {
			p.errorf("%s: abs latitude %s does not match %s", rec.Country, rec.AbsLatitude, rec.CapitalLatitude)
		}
		if !rec.Matched() {
			if rec.Continent != domain.UnknownContinent {
				p.errorf("%s: unmatched but continent %q", rec.Country, rec.Continent)
			}
			if rec.CapitalLatitude.Valid {
				p.errorf("%s: unmatched but has a latitude", rec.Country)
			}
		} else {
			matched++
		}
		zones[rec.ClimateZone]++
	}
	if matched != geo.Matched {
		p.errorf("matched count: got %d, records say %d", geo.Matched, matched)
	}
	if !haveRefs && matched > 0 {
		p.errorf("%d records matched without reference data", matched)
	}

	fmt.Printf("  %d/%d matched; zones:", matched, len(geo.Records))
	for _, z := range domain.ClimateZones {
		fmt.Printf(" %s=%d", z, zones[z])
	}
	fmt.Println()
	return p
}

// ── Phase 4: Correlations ──

func validateCorrelations(corr []domain.Correlation, records int) *phase {
	p := &phase{name: "Phase 4: Correlation bounds"}
	fmt.Println("Phase 4: Correlation bounds...")

	if len(corr) != domain.TypeCount {
		p.errorf("correlations: got %d, want %d", len(corr), domain.TypeCount)
	}
	var defined int
	for i, c := range corr {
		if i < domain.TypeCount && c.Type != domain.Types[i] {
			p.errorf("correlation %d: type %s, want %s", i, c.Type, domain.Types[i])
		}
		if c.N > records {
			p.errorf("%s: n=%d exceeds %d records", c.Type, c.N, records)
		}
		for _, r := range []domain.Value{c.Pearson, c.Spearman} {
			if r.Valid && math.Abs(r.Float) > 1+1e-9 {
				p.errorf("%s: coefficient %g out of [-1, 1]", c.Type, r.Float)
			}
		}
		if c.N < 2 && (c.Pearson.Valid || c.Spearman.Valid) {
			p.errorf("%s: coefficient defined with n=%d", c.Type, c.N)
		}
		if c.Pearson.Valid {
			defined++
		}
	}

	fmt.Printf("  %d/%d types with a defined Pearson coefficient\n", defined, len(corr))
	return p
}

// ── Phase 5: Wide/long agreement ──

func validateShapeAgreement(wide, long domain.NormalizedTable) *phase {
	p := &phase{name: "Phase 5: Wide and long readings agree"}
	fmt.Println("Phase 5: Wide and long readings agree...")

	byCountry := make(map[string]domain.Scores, len(long.Rows))
	for _, row := range long.Rows {
		byCountry[row.Country] = row.Scores
	}
	if len(byCountry) != len(wide.Rows) {
		p.errorf("countries: wide %d, long %d", len(wide.Rows), len(byCountry))
	}

	var compared int
	for _, row := range wide.Rows {
		other, ok := byCountry[row.Country]
		if !ok {
			p.errorf("%s: missing from long reading", row.Country)
			continue
		}
		for i, v := range row.Scores {
			o := other[i]
			switch {
			case v.Valid != o.Valid:
				p.errorf("%s %s: wide %s, long %s", row.Country, domain.Types[i], v, o)
			case v.Valid && math.Abs(v.Float-o.Float) > 1e-9:
				p.errorf("%s %s: wide %g, long %g", row.Country, domain.Types[i], v.Float, o.Float)
			}
		}
		compared++
	}

	fmt.Printf("  %d countries compared\n", compared)
	return p
}
