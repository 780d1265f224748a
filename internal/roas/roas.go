// Package roas computes return on ad spend and derives a rating, an industry
// comparison, insights and recommendations from it.
package roas

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	DefaultIndustry  = "general"
	DefaultCurrency  = "USD"
	defaultBenchmark = 4.0
)

// ErrInvalidAdSpend is returned when ad spend is zero or negative.
var ErrInvalidAdSpend = errors.New("roas: ad spend must be greater than 0")

// Benchmarks maps industries to their average ROAS.
var Benchmarks = map[string]float64{
	"general":    4.0,
	"ecommerce":  4.5,
	"saas":       5.0,
	"finance":    3.5,
	"realestate": 5.5,
	"automotive": 3.0,
	"education":  4.0,
	"healthcare": 3.5,
	"travel":     4.0,
	"retail":     4.5,
	"b2b":        5.0,
}

// Input is a campaign's figures. ProfitMargin is a percentage (0-100).
type Input struct {
	AdSpend      float64 `json:"ad_spend"`
	Revenue      float64 `json:"revenue"`
	ProfitMargin float64 `json:"profit_margin"`
	Conversions  int     `json:"conversions"`
	Industry     string  `json:"industry"`
	Currency     string  `json:"currency"`
}

type Rating struct {
	Level string `json:"level"`
	Color string `json:"color"`
	Score int    `json:"score"`
}

// Metrics are the derived money figures. Optional values are nil when they
// cannot be computed or round to zero.
type Metrics struct {
	Revenue       float64  `json:"revenue"`
	AdSpend       float64  `json:"ad_spend"`
	Profit        *float64 `json:"profit"`
	NetProfit     *float64 `json:"net_profit"`
	ROI           *float64 `json:"roi"`
	CPA           *float64 `json:"cpa"`
	BreakEvenROAS float64  `json:"break_even_roas"`
	Conversions   int      `json:"conversions"`
}

type Benchmark struct {
	Industry              string  `json:"industry"`
	IndustryAverage       float64 `json:"industry_average"`
	PerformanceVsIndustry float64 `json:"performance_vs_industry"`
}

type Insight struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Report is the full calculator output.
type Report struct {
	ROAS            float64   `json:"roas"`
	Rating          Rating    `json:"rating"`
	Metrics         Metrics   `json:"metrics"`
	Benchmark       Benchmark `json:"benchmark"`
	Insights        []Insight `json:"insights"`
	Recommendations []string  `json:"recommendations"`
	Currency        string    `json:"currency"`
}

// Calculate builds a Report for in.
func Calculate(in Input) (*Report, error) {
	if in.AdSpend <= 0 {
		return nil, ErrInvalidAdSpend
	}
	if math.IsNaN(in.Revenue) || math.IsInf(in.Revenue, 0) {
		return nil, fmt.Errorf("roas: invalid revenue %v", in.Revenue)
	}

	industry := strings.ToLower(strings.TrimSpace(in.Industry))
	if industry == "" {
		industry = DefaultIndustry
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	value := in.Revenue / in.AdSpend

	breakEven := 1.0
	var profit, netProfit, roi, cpa float64
	if in.ProfitMargin > 0 {
		profit = in.Revenue * (in.ProfitMargin / 100)
		netProfit = profit - in.AdSpend
		roi = (netProfit / in.AdSpend) * 100
		breakEven = 100 / in.ProfitMargin
	}
	if in.Conversions > 0 {
		cpa = in.AdSpend / float64(in.Conversions)
	}

	benchmark := BenchmarkFor(industry)

	return &Report{
		ROAS:   round(value, 2),
		Rating: RatingFor(value),
		Metrics: Metrics{
			Revenue:       in.Revenue,
			AdSpend:       in.AdSpend,
			Profit:        optional(profit),
			NetProfit:     optional(netProfit),
			ROI:           optional(roi),
			CPA:           optional(cpa),
			BreakEvenROAS: round(breakEven, 2),
			Conversions:   in.Conversions,
		},
		Benchmark: Benchmark{
			Industry:              industry,
			IndustryAverage:       benchmark,
			PerformanceVsIndustry: round((value-benchmark)/benchmark*100, 1),
		},
		Insights:        Insights(value, in.ProfitMargin, breakEven, benchmark),
		Recommendations: Recommendations(value, in.ProfitMargin, in.Conversions),
		Currency:        currency,
	}, nil
}

// BenchmarkFor returns the average ROAS of industry, or the general average
// for unknown industries.
func BenchmarkFor(industry string) float64 {
	if b, ok := Benchmarks[industry]; ok {
		return b
	}
	return defaultBenchmark
}

// RatingFor maps a ROAS value to a five-step rating.
func RatingFor(value float64) Rating {
	switch {
	case value < 1:
		return Rating{Level: "Poor", Color: "danger", Score: 1}
	case value < 2:
		return Rating{Level: "Fair", Color: "warning", Score: 2}
	case value < 3:
		return Rating{Level: "Good", Color: "success", Score: 3}
	case value < 4:
		return Rating{Level: "Great", Color: "success", Score: 4}
	default:
		return Rating{Level: "Excellent", Color: "success", Score: 5}
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func optional(v float64) *float64 {
	r := round(v, 2)
	if r == 0 {
		return nil
	}
	return &r
}
