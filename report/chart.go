package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/enginemark/enginemark/harness"
)

// WriteChart renders the summary as a standalone HTML bar chart with one
// series per execution mode.
func WriteChart(w io.Writer, s harness.Summary) error {
	if len(s.Records) == 0 {
		return fmt.Errorf("no results to chart")
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{
		Title:    "Engine benchmark results",
		Subtitle: fmt.Sprintf("%s vs %s, median ms per benchmark", s.BaselineName, s.AlternateName),
	}))

	names := make([]string, 0, len(s.Records))
	baseline := make([]opts.BarData, 0, len(s.Records))
	alternate := make([]opts.BarData, 0, len(s.Records))
	for _, r := range s.Records {
		names = append(names, r.Name)
		baseline = append(baseline, opts.BarData{Value: r.BaselineMs})
		alternate = append(alternate, opts.BarData{Value: r.AlternateMs})
	}

	bar.SetXAxis(names)
	bar.AddSeries(s.BaselineName, baseline)
	bar.AddSeries(s.AlternateName, alternate)

	return bar.Render(w)
}
