package templates

import (
	"strconv"

	"github.com/louisbranch/statboard/internal/services/leaderboard/board"
)

// Chart geometry, in SVG user units.
const (
	chartWidth   = 480
	chartHeight  = 260
	chartPadTop  = 28
	chartPadSide = 24
	chartPadBase = 36
	barFill      = 0.6

	chartLegendY = 16
	chartLabelY  = chartHeight - 12
)

// ChartBar is a positioned bar, ready to draw.
type ChartBar struct {
	board.Bar
	X, Y, Width, Height float64
	LabelX, ValueY      float64
}

// ChartLayout is the computed geometry of a chart.
type ChartLayout struct {
	Bars      []ChartBar
	BaselineY float64
}

// LayoutChart positions bars around a zero baseline. Positive values rise
// above it and negative values hang below it.
func LayoutChart(bars []board.Bar) ChartLayout {
	plotTop := float64(chartPadTop)
	plotBottom := float64(chartHeight - chartPadBase)
	plotHeight := plotBottom - plotTop

	maxPos, maxNeg := 0, 0
	for _, bar := range bars {
		if bar.Value > maxPos {
			maxPos = bar.Value
		}
		if -bar.Value > maxNeg {
			maxNeg = -bar.Value
		}
	}
	span := maxPos + maxNeg
	baseline := plotBottom
	scale := 0.0
	if span > 0 {
		scale = plotHeight / float64(span)
		baseline = plotTop + float64(maxPos)*scale
	}

	layout := ChartLayout{Bars: make([]ChartBar, 0, len(bars)), BaselineY: baseline}
	if len(bars) == 0 {
		return layout
	}
	slot := float64(chartWidth-2*chartPadSide) / float64(len(bars))
	width := slot * barFill
	for i, bar := range bars {
		x := float64(chartPadSide) + slot*float64(i) + (slot-width)/2
		height := float64(abs(bar.Value)) * scale
		y := baseline - height
		valueY := y - 6
		if bar.Value < 0 {
			y = baseline
			valueY = baseline + height + 14
		}
		layout.Bars = append(layout.Bars, ChartBar{
			Bar:    bar,
			X:      x,
			Y:      y,
			Width:  width,
			Height: height,
			LabelX: x + width/2,
			ValueY: valueY,
		})
	}
	return layout
}

func chartViewBox() string {
	return "0 0 " + strconv.Itoa(chartWidth) + " " + strconv.Itoa(chartHeight)
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
