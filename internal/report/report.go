// Package report renders an HTML breakdown of extracted engagement.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"postreach/internal/domain"
)

// Breakdown is the aggregate the charts are drawn from.
type Breakdown struct {
	Reactions     int
	Comments      int
	ReactionTypes map[string]int
}

// Summarize tallies profiles by engagement and reaction type.
func Summarize(profiles []domain.Profile) Breakdown {
	b := Breakdown{ReactionTypes: make(map[string]int)}
	for _, p := range profiles {
		switch p.EngagementType {
		case domain.EngagementReaction:
			b.Reactions++
			kind := p.ReactionType
			if kind == "" {
				kind = domain.DefaultReactionType
			}
			b.ReactionTypes[kind]++
		case domain.EngagementComment:
			b.Comments++
		}
	}
	return b
}

// Render writes a page with a reaction-type pie and an engagement bar chart.
func Render(w io.Writer, title string, profiles []domain.Profile) error {
	b := Summarize(profiles)

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Reaction Types", Subtitle: title}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)

	kinds := make([]string, 0, len(b.ReactionTypes))
	for k := range b.ReactionTypes {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	pieItems := make([]opts.PieData, 0, len(kinds))
	for _, k := range kinds {
		pieItems = append(pieItems, opts.PieData{Name: k, Value: b.ReactionTypes[k]})
	}
	pie.AddSeries("Reactions", pieItems)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Engagement"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)
	bar.SetXAxis([]string{"Reactions", "Comments"}).
		AddSeries("Profiles", []opts.BarData{{Value: b.Reactions}, {Value: b.Comments}})

	page := components.NewPage()
	page.AddCharts(pie, bar)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
