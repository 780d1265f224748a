// Package console prints extraction results and ROAS reports as terminal tables.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"postreach/internal/domain"
	"postreach/internal/roas"
)

const (
	headlineWidth = 48
	commentWidth  = 60
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// RenderResult prints a summary line, any soft errors and one row per profile.
func RenderResult(w io.Writer, res *domain.ExtractionResult) {
	fmt.Fprintf(w, "Post: %s\n", res.PostURL)
	if res.ActivityID != "" {
		fmt.Fprintf(w, "Activity ID: %s\n", res.ActivityID)
	}
	if res.DemoMode {
		fmt.Fprintln(w, "Demo mode: sample data")
	}
	if res.Message != "" {
		fmt.Fprintln(w, res.Message)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(w, "warning: %s\n", e)
	}

	RenderProfiles(w, res.Profiles)
}

// RenderProfiles prints profiles with a per-engagement footer.
func RenderProfiles(w io.Writer, profiles []domain.Profile) {
	if len(profiles) == 0 {
		fmt.Fprintln(w, "No profiles.")
		return
	}

	t := newTable(w)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: headlineWidth},
		{Number: 6, WidthMax: commentWidth},
	})
	t.AppendHeader(table.Row{"#", "Name", "Profile URL", "Headline", "Engagement", "Reaction / Comment"})

	for i, p := range profiles {
		detail := p.ReactionType
		if p.EngagementType == domain.EngagementComment {
			detail = oneLine(p.CommentText)
		}
		t.AppendRow(table.Row{i + 1, p.Name, p.ProfileURL, oneLine(p.Headline), p.EngagementType, detail})
	}

	reactions, comments := domain.CountByEngagement(profiles)
	t.AppendFooter(table.Row{"", "Total", len(profiles), "", fmt.Sprintf("%d reactions", reactions), fmt.Sprintf("%d comments", comments)})
	t.Render()
}

// RenderROAS prints the calculator output: a metrics table, then insights
// and recommendations as lists.
func RenderROAS(w io.Writer, rep *roas.Report) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"ROAS", fmt.Sprintf("%.2fx", rep.ROAS)},
		{"Rating", fmt.Sprintf("%s (%d/5)", rep.Rating.Level, rep.Rating.Score)},
		{"Revenue", money(rep.Metrics.Revenue, rep.Currency)},
		{"Ad spend", money(rep.Metrics.AdSpend, rep.Currency)},
		{"Profit", optionalMoney(rep.Metrics.Profit, rep.Currency)},
		{"Net profit", optionalMoney(rep.Metrics.NetProfit, rep.Currency)},
		{"ROI", optionalPercent(rep.Metrics.ROI)},
		{"CPA", optionalMoney(rep.Metrics.CPA, rep.Currency)},
		{"Break-even ROAS", fmt.Sprintf("%.2fx", rep.Metrics.BreakEvenROAS)},
		{"Industry average", fmt.Sprintf("%.1fx (%s)", rep.Benchmark.IndustryAverage, rep.Benchmark.Industry)},
		{"Vs industry", fmt.Sprintf("%+.1f%%", rep.Benchmark.PerformanceVsIndustry)},
	})
	t.Render()

	if len(rep.Insights) > 0 {
		fmt.Fprintln(w, "\nInsights:")
		for _, in := range rep.Insights {
			fmt.Fprintf(w, "  [%s] %s: %s\n", in.Type, in.Title, in.Message)
		}
	}
	if len(rep.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommendations:")
		for _, r := range rep.Recommendations {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func money(v float64, currency string) string {
	return fmt.Sprintf("%.2f %s", v, currency)
}

func optionalMoney(v *float64, currency string) string {
	if v == nil {
		return "-"
	}
	return money(*v, currency)
}

func optionalPercent(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", *v)
}
