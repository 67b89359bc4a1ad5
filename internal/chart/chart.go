// Package chart renders the hourly forecast graph shown by the weather
// screen: temperature as a line on the left axis, precipitation chance as
// checkerboard-filled bars and humidity as dots on a 0-100% right axis.
package chart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/fruitstand-signage/fruitstand/internal/errors"
)

// Default output size.
const (
	DefaultWidth  = 800
	DefaultHeight = 240
)

// tempTicks is the number of ticks on the temperature axis.
const tempTicks = 11

// maxLabels caps the number of hour labels on the x axis.
const maxLabels = 8

// patternFill marks precipitation bars for the checkerboard pass. It
// must not occur anywhere else in the chart.
var patternFill = drawing.Color{R: 0xfe, G: 0x01, B: 0xfd, A: 0xff}

// Row is one forecast hour. Precip and Humid are fractions in 0..1.
type Row struct {
	Label  string  `json:"label"`
	Temp   float64 `json:"temp"`
	Precip float64 `json:"precip"`
	Humid  float64 `json:"humid"`
}

// Options sets the output size.
type Options struct {
	Width  int
	Height int
}

// ReadRows decodes a JSON array of rows.
func ReadRows(r io.Reader) ([]Row, error) {
	var rows []Row
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, errors.ChartError("failed to decode forecast rows", err)
	}
	return rows, nil
}

// Render draws rows as a PNG.
func Render(rows []Row, opts Options) ([]byte, error) {
	if len(rows) == 0 {
		return nil, errors.ChartError("no forecast rows", nil)
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}

	ch := build(rows, opts)

	var buf bytes.Buffer
	if err := ch.Render(gochart.PNG, &buf); err != nil {
		return nil, errors.ChartError("failed to render chart", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		return nil, errors.ChartError("failed to decode rendered chart", err)
	}
	patterned := Checkerboard(img, patternFill)

	var out bytes.Buffer
	if err := png.Encode(&out, patterned); err != nil {
		return nil, errors.ChartError("failed to encode chart", err)
	}
	return out.Bytes(), nil
}

func build(rows []Row, opts Options) gochart.Chart {
	n := len(rows)
	xs := make([]float64, n)
	temps := make([]float64, n)
	humid := make([]float64, n)
	for i, r := range rows {
		xs[i] = float64(i)
		temps[i] = r.Temp
		humid[i] = clampPercent(r.Humid * 100)
	}

	black := drawing.ColorBlack
	lo, hi := tempRange(temps)

	return gochart.Chart{
		Width:  opts.Width,
		Height: opts.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 12, Left: 8, Right: 8, Bottom: 8},
		},
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5},
			Ticks: hourTicks(rows),
			Style: gochart.Style{StrokeColor: black, StrokeWidth: 2, FontColor: black},
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: lo, Max: hi},
			Ticks: evenTicks(lo, hi, tempTicks, "%.0f°"),
			Style: gochart.Style{FontColor: black},
		},
		YAxisSecondary: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: 100},
			// Custom ticks here would make go-chart size this axis from
			// the primary ticks, so only the range is fixed.
			ValueFormatter: percentFormatter,
			Style: gochart.Style{FontColor: black},
			GridMajorStyle: gochart.Style{
				StrokeColor:     black,
				StrokeWidth:     1,
				StrokeDashArray: []float64{2, 2},
			},
		},
		Series: []gochart.Series{
			precipBars(rows),
			gochart.ContinuousSeries{
				Name:    "Temperature",
				XValues: xs,
				YValues: temps,
				Style:   gochart.Style{StrokeColor: black, StrokeWidth: 2},
			},
			gochart.ContinuousSeries{
				Name:    "Humidity",
				XValues: xs,
				YValues: humid,
				YAxis:   gochart.YAxisSecondary,
				Style: gochart.Style{
					StrokeWidth: 0,
					DotWidth:    3,
					DotColor:    black,
				},
			},
		},
	}
}

// precipBars draws one filled bar per hour as a stepped area series.
func precipBars(rows []Row) gochart.ContinuousSeries {
	const half = 0.35
	var xs, ys []float64
	for i, r := range rows {
		x := float64(i)
		p := clampPercent(r.Precip * 100)
		xs = append(xs, x-half, x-half, x+half, x+half)
		ys = append(ys, 0, p, p, 0)
	}
	return gochart.ContinuousSeries{
		Name:    "Precipitation",
		XValues: xs,
		YValues: ys,
		YAxis:   gochart.YAxisSecondary,
		Style: gochart.Style{
			StrokeColor: patternFill,
			StrokeWidth: 1,
			FillColor:   patternFill,
		},
	}
}

// tempRange pads the temperature extent to whole degrees divisible into
// the tick count.
func tempRange(temps []float64) (lo, hi float64) {
	lo, hi = temps[0], temps[0]
	for _, t := range temps {
		lo = math.Min(lo, t)
		hi = math.Max(hi, t)
	}
	lo = math.Floor(lo) - 1
	hi = math.Ceil(hi) + 1
	span := hi - lo
	steps := float64(tempTicks - 1)
	if rem := math.Mod(span, steps); rem != 0 {
		hi += steps - rem
	}
	return lo, hi
}

func evenTicks(lo, hi float64, count int, format string) []gochart.Tick {
	ticks := make([]gochart.Tick, 0, count)
	step := (hi - lo) / float64(count-1)
	for i := 0; i < count; i++ {
		v := lo + step*float64(i)
		ticks = append(ticks, gochart.Tick{Value: v, Label: fmt.Sprintf(format, v)})
	}
	return ticks
}

func hourTicks(rows []Row) []gochart.Tick {
	every := int(math.Ceil(float64(len(rows)) / maxLabels))
	if every < 1 {
		every = 1
	}
	// go-chart takes the x range from the tick span, so unlabeled edge
	// ticks keep the half-slot margins and give a single hour a width.
	ticks := []gochart.Tick{{Value: -0.5}}
	for i := 0; i < len(rows); i += every {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: rows[i].Label})
	}
	return append(ticks, gochart.Tick{Value: float64(len(rows)) - 0.5})
}

func percentFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f%%", f)
	}
	return ""
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// Checkerboard returns a copy of img where every pixel of the marker
// color is replaced by a one-pixel black and white checkerboard.
func Checkerboard(img image.Image, marker color.Color) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)

	mr, mg, mb, ma := marker.RGBA()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := out.At(x, y).RGBA()
			if r != mr || g != mg || bl != mb || a != ma {
				continue
			}
			if (x+y)%2 == 0 {
				out.Set(x, y, color.Black)
			} else {
				out.Set(x, y, color.White)
			}
		}
	}
	return out
}
