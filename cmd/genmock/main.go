// Command genmock derives the long-shape test fixture from a wide MBTI
// dataset, using the actual pipeline packages so the fixture matches real
// behavior, and prints the stats the pipeline tests assert on.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -wide internal/pipeline/testdata/wide.csv \
//	  -capitals internal/pipeline/testdata/capitals.csv \
//	  -long-out internal/pipeline/testdata/long.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/couchcryptid/mbti-climate-service/internal/adapter/csvfile"
	"github.com/couchcryptid/mbti-climate-service/internal/domain"
	"github.com/couchcryptid/mbti-climate-service/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	widePath := flag.String("wide", "", "wide MBTI dataset CSV")
	capitalsPath := flag.String("capitals", "", "capitals reference CSV (optional)")
	longOut := flag.String("long-out", "", "output path for the long-shape CSV fixture")
	flag.Parse()

	if *widePath == "" || *longOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -wide, -long-out")
	}

	raw, enc, err := csvfile.ReadFile(*widePath)
	if err != nil {
		return err
	}
	log.Printf("%s: %d rows (%s)", *widePath, len(raw.Rows), enc)

	var refs []domain.ReferenceGeoRow
	if *capitalsPath != "" {
		capitals, _, err := csvfile.ReadFile(*capitalsPath)
		if err != nil {
			return err
		}
		if refs, err = domain.ParseReference(capitals); err != nil {
			return fmt.Errorf("parsing capitals: %w", err)
		}
		log.Printf("%s: %d reference rows", *capitalsPath, len(refs))
	}

	res, err := pipeline.Transform(raw, refs)
	if err != nil {
		return err
	}
	if res.Canonical.Shape != domain.ShapeWide {
		return fmt.Errorf("%s is %s, want wide", *widePath, res.Canonical.Shape)
	}
	if err := writeLong(*longOut, res.Canonical); err != nil {
		return fmt.Errorf("writing long fixture: %w", err)
	}
	log.Printf("wrote long fixture: %s", *longOut)

	printStats(res)
	return nil
}

// writeLong writes one (country, type, value) row per present canonical value.
// Values are written unnormalized so the long fixture exercises the same
// normalization as the wide one.
func writeLong(path string, t domain.CanonicalTable) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"country", "mbti", "percentage"}); err != nil {
		return err
	}
	for _, row := range t.Rows {
		for i, typ := range domain.Types {
			v := row.Scores[i]
			if !v.Valid {
				continue
			}
			if err := w.Write([]string{row.Country, string(typ), strconv.FormatFloat(v.Float, 'g', -1, 64)}); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

type groupCount struct {
	group string
	count int
}

func printStats(res domain.Result) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Countries: %d\n", len(res.Geo.Records))
	fmt.Printf("Matched: %d\n", res.Geo.Matched)
	fmt.Printf("Country column: %s\n", res.Canonical.CountryColumn)

	printGroups("Continents", res.ContinentMeans)
	printGroups("Climate zones", res.ClimateMeans)

	var unmatched []string
	for _, rec := range res.Geo.Records {
		if !rec.Matched() {
			unmatched = append(unmatched, rec.Country)
		}
	}
	fmt.Printf("Unmatched (%d): %v\n", len(unmatched), unmatched)

	for _, c := range res.Correlations {
		if c.Type == domain.INFP || c.Type == domain.INTJ {
			fmt.Printf("%s vs |lat|: pearson=%s spearman=%s n=%d\n", c.Type, c.Pearson, c.Spearman, c.N)
		}
	}
	for _, w := range res.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
}

func printGroups(title string, groups []domain.GroupSummary) {
	gc := make([]groupCount, 0, len(groups))
	for _, g := range groups {
		gc = append(gc, groupCount{g.Group, g.Countries})
	}
	sort.Slice(gc, func(i, j int) bool { return gc[i].count > gc[j].count })
	fmt.Printf("%s (%d): ", title, len(gc))
	for _, g := range gc {
		fmt.Printf("%s=%d ", g.group, g.count)
	}
	fmt.Println()
}
