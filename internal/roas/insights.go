package roas

import "fmt"

// Insights explains a ROAS value in terms of performance, profitability,
// industry standing and scaling headroom.
func Insights(value, profitMargin, breakEven, benchmark float64) []Insight {
	var out []Insight

	switch {
	case value >= 4:
		out = append(out, Insight{"success", "Excellent Performance",
			fmt.Sprintf("Your ROAS of %.2f is outstanding! Your campaigns are highly profitable.", value)})
	case value >= 2:
		out = append(out, Insight{"success", "Good Performance",
			fmt.Sprintf("Your ROAS of %.2f is solid with room for optimization.", value)})
	case value >= 1:
		out = append(out, Insight{"warning", "Break-Even Performance",
			fmt.Sprintf("Your ROAS of %.2f means you're close to break-even. Optimization needed.", value)})
	default:
		out = append(out, Insight{"danger", "Losing Money",
			fmt.Sprintf("Your ROAS of %.2f indicates losses. Immediate action required.", value)})
	}

	if profitMargin > 0 {
		if value > breakEven {
			out = append(out, Insight{"success", "Profitable After Costs",
				fmt.Sprintf("Your ROAS exceeds break-even (%.2f). You're making profit.", breakEven)})
		} else {
			out = append(out, Insight{"danger", "Not Yet Profitable",
				fmt.Sprintf("Your ROAS is below break-even (%.2f). Not covering costs.", breakEven)})
		}
	}

	switch {
	case value > benchmark:
		diff := (value - benchmark) / benchmark * 100
		out = append(out, Insight{"success", "Above Industry Average",
			fmt.Sprintf("You're performing %.1f%% above the industry benchmark.", diff)})
	case value < benchmark:
		diff := (benchmark - value) / benchmark * 100
		out = append(out, Insight{"warning", "Below Industry Average",
			fmt.Sprintf("You're %.1f%% below industry average. Room for improvement.", diff)})
	}

	switch {
	case value >= 10:
		out = append(out, Insight{"info", "Untapped Potential",
			"Very high ROAS indicates possible under-spending. Consider scaling."})
	case value >= 3:
		out = append(out, Insight{"info", "Scale Opportunity",
			"Strong ROAS suggests you can increase budget to capture more revenue."})
	}

	return out
}

// Recommendations lists next steps for a campaign.
func Recommendations(value, profitMargin float64, conversions int) []string {
	var out []string

	switch {
	case value < 2:
		out = append(out,
			"Review and refine your audience targeting",
			"A/B test new ad creatives and messaging",
			"Optimize your landing pages for better conversion",
			"Consider adjusting your bidding strategy",
		)
	case value < 4:
		out = append(out,
			"Optimize your conversion funnel",
			"Test new audience segments",
			"Increase budget on top-performing campaigns",
		)
	default:
		out = append(out,
			"Scale winning campaigns gradually (20-30% increases)",
			"Test lookalike audiences to expand reach",
			"Experiment with new ad formats or channels",
		)
	}

	out = append(out, "Set up automated ROAS monitoring and alerts")

	if profitMargin == 0 {
		out = append(out, "Track profit margins to understand true profitability")
	}
	if conversions == 0 {
		out = append(out, "Implement conversion tracking to calculate CPA")
	}
	return out
}
