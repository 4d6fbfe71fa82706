package main

import (
	"fmt"
	"strconv"

	"github.com/couchcryptid/mbti-climate-service/internal/domain"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *options) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline and print a summary with the top countries for a type",
		RunE: func(cmd *cobra.Command, _ []string) error {
			typ, err := opts.selectedType()
			if err != nil {
				return err
			}
			cfg := domain.DefaultViewConfig()
			cfg.Type = typ
			cfg.TopN = top
			if err := cfg.Validate(); err != nil {
				return err
			}

			res, err := opts.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			s := res.Summary()

			fmt.Fprintln(out, color.CyanString("Dataset"))
			summary := tablewriter.NewWriter(out)
			summary.SetHeader([]string{"Source", "Encoding", "Shape", "Country Column", "Countries", "Matched"})
			summary.Append([]string{
				s.Source, s.Encoding, string(s.Shape), s.CountryColumn,
				strconv.Itoa(s.Countries), strconv.Itoa(s.Matched),
			})
			summary.Render()

			view := domain.BuildView(res.Geo, cfg)
			fmt.Fprintln(out, color.CyanString("\nTop %d countries for %s", cfg.TopN, typ))
			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Rank", "Country", "Continent", "Climate", "Percent"})
			for _, e := range view.Top {
				table.Append([]string{
					strconv.Itoa(e.Rank), e.Country, e.Continent, string(e.ClimateZone),
					fmt.Sprintf("%.2f", e.Percent),
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", domain.DefaultViewConfig().TopN, "number of countries to rank")
	return cmd
}
