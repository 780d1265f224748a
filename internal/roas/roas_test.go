package roas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_FullInput(t *testing.T) {
	rep, err := Calculate(Input{
		AdSpend:      1000,
		Revenue:      5000,
		ProfitMargin: 40,
		Conversions:  50,
		Industry:     "SaaS",
		Currency:     "eur",
	})
	require.NoError(t, err)

	assert.Equal(t, 5.0, rep.ROAS)
	assert.Equal(t, Rating{Level: "Excellent", Color: "success", Score: 5}, rep.Rating)
	assert.Equal(t, "EUR", rep.Currency)

	require.NotNil(t, rep.Metrics.Profit)
	assert.Equal(t, 2000.0, *rep.Metrics.Profit)
	require.NotNil(t, rep.Metrics.NetProfit)
	assert.Equal(t, 1000.0, *rep.Metrics.NetProfit)
	require.NotNil(t, rep.Metrics.ROI)
	assert.Equal(t, 100.0, *rep.Metrics.ROI)
	require.NotNil(t, rep.Metrics.CPA)
	assert.Equal(t, 20.0, *rep.Metrics.CPA)
	assert.Equal(t, 2.5, rep.Metrics.BreakEvenROAS)

	assert.Equal(t, "saas", rep.Benchmark.Industry)
	assert.Equal(t, 5.0, rep.Benchmark.IndustryAverage)
	assert.Equal(t, 0.0, rep.Benchmark.PerformanceVsIndustry)

	titles := insightTitles(rep.Insights)
	assert.Equal(t, []string{"Excellent Performance", "Profitable After Costs", "Scale Opportunity"}, titles)

	assert.Equal(t, []string{
		"Scale winning campaigns gradually (20-30% increases)",
		"Test lookalike audiences to expand reach",
		"Experiment with new ad formats or channels",
		"Set up automated ROAS monitoring and alerts",
	}, rep.Recommendations)
}

func TestCalculate_MinimalInput(t *testing.T) {
	rep, err := Calculate(Input{AdSpend: 200, Revenue: 150})
	require.NoError(t, err)

	assert.Equal(t, 0.75, rep.ROAS)
	assert.Equal(t, "Poor", rep.Rating.Level)
	assert.Equal(t, DefaultIndustry, rep.Benchmark.Industry)
	assert.Equal(t, DefaultCurrency, rep.Currency)
	assert.Nil(t, rep.Metrics.Profit)
	assert.Nil(t, rep.Metrics.NetProfit)
	assert.Nil(t, rep.Metrics.ROI)
	assert.Nil(t, rep.Metrics.CPA)
	assert.Equal(t, 1.0, rep.Metrics.BreakEvenROAS)
	assert.Equal(t, -81.3, rep.Benchmark.PerformanceVsIndustry)

	assert.Equal(t, []string{"Losing Money", "Below Industry Average"}, insightTitles(rep.Insights))
	assert.Contains(t, rep.Insights[1].Message, "81.2% below")

	assert.Contains(t, rep.Recommendations, "Track profit margins to understand true profitability")
	assert.Contains(t, rep.Recommendations, "Implement conversion tracking to calculate CPA")
	assert.Len(t, rep.Recommendations, 7)
}

func TestCalculate_InvalidSpend(t *testing.T) {
	for _, spend := range []float64{0, -10} {
		_, err := Calculate(Input{AdSpend: spend, Revenue: 100})
		assert.ErrorIs(t, err, ErrInvalidAdSpend)
	}
}

func TestCalculate_UnknownIndustry(t *testing.T) {
	rep, err := Calculate(Input{AdSpend: 100, Revenue: 300, Industry: "space-mining"})
	require.NoError(t, err)
	assert.Equal(t, defaultBenchmark, rep.Benchmark.IndustryAverage)
}

func TestRatingFor(t *testing.T) {
	tests := []struct {
		value float64
		level string
		score int
	}{
		{0, "Poor", 1},
		{0.99, "Poor", 1},
		{1, "Fair", 2},
		{2, "Good", 3},
		{3.5, "Great", 4},
		{4, "Excellent", 5},
		{12, "Excellent", 5},
	}
	for _, tt := range tests {
		r := RatingFor(tt.value)
		assert.Equal(t, tt.level, r.Level, "value %v", tt.value)
		assert.Equal(t, tt.score, r.Score, "value %v", tt.value)
	}
}

func TestInsights_Bands(t *testing.T) {
	assert.Equal(t, []string{"Good Performance", "Below Industry Average"}, insightTitles(Insights(2.5, 0, 1, 4)))
	assert.Equal(t, []string{"Break-Even Performance", "Not Yet Profitable", "Below Industry Average"}, insightTitles(Insights(1.5, 50, 2, 4)))
	assert.Equal(t, []string{"Excellent Performance", "Above Industry Average", "Untapped Potential"}, insightTitles(Insights(12, 0, 1, 4)))
	// equal to benchmark: no comparison insight
	assert.Equal(t, []string{"Excellent Performance", "Scale Opportunity"}, insightTitles(Insights(4, 0, 1, 4)))
}

func TestRecommendations_Bands(t *testing.T) {
	low := Recommendations(1.5, 10, 3)
	assert.Len(t, low, 5)
	assert.Equal(t, "Review and refine your audience targeting", low[0])

	mid := Recommendations(3, 10, 3)
	assert.Len(t, mid, 4)
	assert.Equal(t, "Optimize your conversion funnel", mid[0])
}

func insightTitles(in []Insight) []string {
	out := make([]string, 0, len(in))
	for _, i := range in {
		out = append(out, i.Title)
	}
	return out
}
