package main

import (
	"fmt"
	"strconv"

	"github.com/couchcryptid/mbti-climate-service/internal/domain"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newGroupsCmd(opts *options) *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Print per-group means of a type by continent or climate zone",
		RunE: func(cmd *cobra.Command, _ []string) error {
			typ, err := opts.selectedType()
			if err != nil {
				return err
			}
			field, ok := domain.ParseGroupField(by)
			if !ok {
				return fmt.Errorf("unknown group field %q", by)
			}

			res, err := opts.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			groups := res.ContinentMeans
			if field == domain.GroupClimate {
				groups = res.ClimateMeans
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, color.CyanString("Mean %s by %s", typ, field))
			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Group", "Countries", "Mean %"})
			for _, g := range groups {
				table.Append([]string{g.Group, strconv.Itoa(g.Countries), formatValue(g.Means.Get(typ), 2)})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&by, "by", string(domain.GroupContinent), "group field: continent or climate")
	return cmd
}
