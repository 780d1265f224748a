package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"postreach/internal/console"
	"postreach/internal/roas"
)

func newROASCmd() *cobra.Command {
	var (
		in     roas.Input
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "roas",
		Short: "Calculate return on ad spend with benchmarks and recommendations",
		Example: `  postreach roas --ad-spend 1000 --revenue 4200 --profit-margin 35 --industry saas`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep, err := roas.Calculate(in)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}
			console.RenderROAS(cmd.OutOrStdout(), rep)
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&in.AdSpend, "ad-spend", 0, "total ad spend (required, > 0)")
	f.Float64Var(&in.Revenue, "revenue", 0, "revenue attributed to the ads")
	f.Float64Var(&in.ProfitMargin, "profit-margin", 0, "profit margin in percent")
	f.IntVar(&in.Conversions, "conversions", 0, "number of conversions")
	f.StringVar(&in.Industry, "industry", roas.DefaultIndustry, "industry benchmark to compare against")
	f.StringVar(&in.Currency, "currency", roas.DefaultCurrency, "currency code for display")
	f.BoolVar(&asJSON, "json", false, "print the report as JSON")
	_ = cmd.MarkFlagRequired("ad-spend")
	return cmd
}
