package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/couchcryptid/mbti-climate-service/internal/adapter/csvfile"
	"github.com/couchcryptid/mbti-climate-service/internal/adapter/geodata"
	"github.com/couchcryptid/mbti-climate-service/internal/domain"
	"github.com/couchcryptid/mbti-climate-service/internal/observability"
	"github.com/couchcryptid/mbti-climate-service/internal/pipeline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type options struct {
	data     string
	capitals string
	timeout  time.Duration
	typ      string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "mbtictl",
		Short:         "Inspect MBTI type distributions against capital latitude",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.data, "data", "countriesMBTI_16types.csv", "MBTI dataset CSV (wide or long)")
	f.StringVar(&opts.capitals, "capitals", "", "capitals reference CSV, as a path or URL (empty: no geography)")
	f.DurationVar(&opts.timeout, "timeout", 10*time.Second, "reference fetch timeout")
	f.StringVar(&opts.typ, "type", string(domain.INFP), "MBTI type to highlight")

	root.AddCommand(newRunCmd(opts), newGroupsCmd(opts), newCorrelateCmd(opts))
	return root
}

// load reads the dataset, fetches the reference when configured and runs the
// transform chain.
func (o *options) load(ctx context.Context, stderr io.Writer) (domain.Result, error) {
	raw, enc, err := csvfile.ReadFile(o.data)
	if err != nil {
		return domain.Result{}, err
	}

	var refs []domain.ReferenceGeoRow
	if o.capitals != "" {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		client := geodata.NewClient(o.timeout, observability.NewUnregisteredMetrics(), logger)
		refs, err = client.Capitals(ctx, o.capitals)
		if err != nil {
			warn(stderr, "reference data unavailable: %v", err)
			refs = nil
		}
	}

	res, err := pipeline.Transform(raw, refs)
	if err != nil {
		return domain.Result{}, err
	}
	res.Source = o.data
	res.Encoding = enc
	for _, w := range res.Warnings {
		warn(stderr, "%s", w)
	}
	return res, nil
}

func (o *options) selectedType() (domain.Type, error) {
	typ, ok := domain.ParseType(o.typ)
	if !ok {
		return "", fmt.Errorf("unknown mbti type %q", o.typ)
	}
	return typ, nil
}

func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, color.YellowString("warning: "+format, args...))
}

func formatValue(v domain.Value, precision int) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%.*f", precision, v.Float)
}
