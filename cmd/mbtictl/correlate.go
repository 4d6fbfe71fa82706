package main

import (
	"math"
	"strconv"

	"github.com/couchcryptid/mbti-climate-service/internal/domain"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// notable is the absolute coefficient from which a correlation is highlighted.
const notable = 0.3

func newCorrelateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "correlate",
		Short: "Print Pearson and Spearman correlations of each type with absolute capital latitude",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Type", "Pearson", "Spearman", "N"})
			for _, c := range res.Correlations {
				table.Append([]string{
					string(c.Type), highlight(c.Pearson), highlight(c.Spearman), strconv.Itoa(c.N),
				})
			}
			table.Render()
			return nil
		},
	}
}

func highlight(v domain.Value) string {
	s := formatValue(v, 3)
	switch {
	case !v.Valid || math.Abs(v.Float) < notable:
		return s
	case v.Float > 0:
		return color.GreenString(s)
	default:
		return color.RedString(s)
	}
}
