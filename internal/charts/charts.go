// Package charts renders the dashboard charts: an interactive ECharts bar
// chart for vendor performance and a static PNG for the professional
// portfolio.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/wcharczuk/go-chart/v2"

	"bulkpickup_app/internal/catalog"
)

const performanceChartHeight = "320px"

// ErrNoData is returned when there is nothing to plot
var ErrNoData = errors.New("charts: no data")

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// VendorPerformance renders leads and conversion percentage per service
// location as a standalone ECharts page. assetsHost overrides where the
// ECharts script is loaded from.
func VendorPerformance(perf []catalog.LocationPerformance, assetsHost string) (string, error) {
	if len(perf) == 0 {
		return "", ErrNoData
	}

	locations := make([]string, len(perf))
	leads := make([]opts.BarData, len(perf))
	percent := make([]opts.BarData, len(perf))
	for i, p := range perf {
		locations[i] = p.Location
		leads[i] = opts.BarData{Name: p.Location, Value: p.Leads}
		percent[i] = opts.BarData{Name: p.Location, Value: p.Percent}
	}

	initOpts := opts.Initialization{
		PageTitle: "Performance by Location",
		Theme:     types.ThemeWesteros,
		Width:     "100%",
		Height:    performanceChartHeight,
	}
	if assetsHost != "" {
		initOpts.AssetsHost = assetsHost
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts),
		charts.WithTitleOpts(opts.Title{Title: "Performance by Location"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(locations)
	bar.AddSeries("Leads", leads)
	bar.AddSeries("Conversion %", percent)

	html, err := renderChart(bar)
	if err != nil {
		return "", fmt.Errorf("charts: render vendor performance: %w", err)
	}
	return html, nil
}

// PortfolioPNG draws the pickup success rate of the monitored portfolio
func PortfolioPNG(w io.Writer, stats catalog.PortfolioStats) error {
	if stats.PropertiesMonitored <= 0 {
		return ErrNoData
	}
	rate := stats.PickupSuccessRate
	if rate < 0 {
		rate = 0
	}
	if rate > 100 {
		rate = 100
	}

	values := []chart.Value{
		{Label: fmt.Sprintf("Collected %d%%", rate), Value: float64(rate), Style: chart.Style{FillColor: chart.ColorGreen}},
	}
	if missed := 100 - rate; missed > 0 {
		values = append(values, chart.Value{Label: fmt.Sprintf("Missed %d%%", missed), Value: float64(missed), Style: chart.Style{FillColor: chart.ColorRed}})
	}

	pie := chart.PieChart{
		Title:  fmt.Sprintf("%d properties monitored", stats.PropertiesMonitored),
		Width:  480,
		Height: 320,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
			FillColor: chart.ColorWhite,
		},
	}

	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("charts: render portfolio: %w", err)
	}
	return nil
}
