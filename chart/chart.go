// Package chart renders portfolio allocation charts as PNG images.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/tracker"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNothingToDraw is returned when every value to chart is zero.
var ErrNothingToDraw = errors.New("nothing to draw")

// Options controls the size of the charts.
type Options struct {
	Width  int
	Height int
	// OtherThreshold folds holdings with a smaller share into one slice.
	OtherThreshold tracker.Percent
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 600, OtherThreshold: 1}
}

// Files generated by WriteAll.
const (
	AllocationFile = "allocation.png"
	AccountsFile   = "accounts.png"
	KindsFile      = "kinds.png"
)

// palette is used in order for the slices and bars.
var palette = []drawing.Color{
	drawing.ColorFromHex("2563eb"), // blue-600
	drawing.ColorFromHex("16a34a"), // green-600
	drawing.ColorFromHex("f59e0b"), // amber-500
	drawing.ColorFromHex("dc2626"), // red-600
	drawing.ColorFromHex("7c3aed"), // violet-600
	drawing.ColorFromHex("0891b2"), // cyan-600
	drawing.ColorFromHex("9ca3af"), // gray-400
}

func style(i int) gochart.Style {
	c := palette[i%len(palette)]
	return gochart.Style{FillColor: c, StrokeColor: c}
}

// RenderAllocation renders a PNG pie chart of the holdings. Holdings below
// the threshold are grouped into an "Other" slice.
func RenderAllocation(al tracker.Allocation, opts Options) ([]byte, error) {
	var values []gochart.Value
	for _, row := range al.Collapse(opts.OtherThreshold).Rows {
		if !row.Value.IsPositive() {
			continue
		}
		label := row.Ticker
		if row.Kind == tracker.Cash {
			label = row.Account.String() + " cash"
		}
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s %s", label, row.Share),
			Value: row.Value.AsFloat(),
			Style: style(len(values)),
		})
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("allocation: %w", ErrNothingToDraw)
	}

	graph := gochart.PieChart{
		Title:  "Allocation",
		Width:  opts.Width,
		Height: opts.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Values: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderGroups renders a PNG bar chart of grouped allocation values.
func RenderGroups(title string, groups []tracker.GroupShare, opts Options) ([]byte, error) {
	var bars []gochart.Value
	for _, g := range groups {
		if !g.Value.IsPositive() {
			continue
		}
		bars = append(bars, gochart.Value{
			Label: fmt.Sprintf("%s %s", g.Name, g.Share),
			Value: g.Value.AsFloat(),
			Style: style(len(bars)),
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", title, ErrNothingToDraw)
	}

	graph := gochart.BarChart{
		Title:  title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		BarWidth: 60,
		YAxis: gochart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("₩%.0fk", f/1000)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteAll renders the allocation, by-account and by-kind charts into dir
// and returns the paths written.
func WriteAll(dir string, al tracker.Allocation, opts Options) ([]string, error) {
	charts := []struct {
		file   string
		render func() ([]byte, error)
	}{
		{AllocationFile, func() ([]byte, error) { return RenderAllocation(al, opts) }},
		{AccountsFile, func() ([]byte, error) { return RenderGroups("By Account", al.ByAccount(), opts) }},
		{KindsFile, func() ([]byte, error) { return RenderGroups("By Kind", al.ByKind(), opts) }},
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	var written []string
	for _, c := range charts {
		png, err := c.render()
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, c.file)
		if err := os.WriteFile(path, png, 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
