package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNothingToRender is returned for charts without positive slices.
var ErrNothingToRender = errors.New("chart has no positive values")

const (
	chartWidth  = 480
	chartHeight = 480
)

// RenderSVG draws c as a pie chart in SVG format.
func RenderSVG(c ChartData, w io.Writer) error {
	return render(c, chart.SVG, w)
}

// RenderPNG draws c as a pie chart in PNG format.
func RenderPNG(c ChartData, w io.Writer) error {
	return render(c, chart.PNG, w)
}

func render(c ChartData, rp chart.RendererProvider, w io.Writer) error {
	var values []chart.Value
	for _, s := range c.Slices {
		v, _ := s.Value.Float64()
		if v <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %s", s.Label, FormatCurrency(s.Value)),
			Value: v,
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex(strings.TrimPrefix(s.Color, "#")),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
			},
		})
	}
	if len(values) == 0 {
		return ErrNothingToRender
	}

	pie := chart.PieChart{
		Title:  c.Title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Values: values,
	}
	if err := pie.Render(rp, w); err != nil {
		return fmt.Errorf("render %s chart: %w", c.Title, err)
	}
	return nil
}
