package render

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/chartkit/internal/coords"
	"github.com/banshee-data/chartkit/internal/fsutil"
	"github.com/banshee-data/chartkit/internal/geom"
	"github.com/banshee-data/chartkit/internal/hittest"
	"github.com/banshee-data/chartkit/internal/security"
	"github.com/banshee-data/chartkit/internal/series"
)

// Snapshot writes PNG renderings of engine state into an output directory,
// one file per call. Useful for eyeballing a replayed session without a
// browser.
type Snapshot struct {
	fs        fsutil.FileSystem
	outputDir string
}

// NewSnapshot creates the output directory if needed.
func NewSnapshot(outputDir string) (*Snapshot, error) {
	return NewSnapshotFS(fsutil.OSFileSystem{}, outputDir)
}

// NewSnapshotFS is NewSnapshot on an explicit filesystem; tests pass a
// fsutil.MemoryFileSystem.
func NewSnapshotFS(filesys fsutil.FileSystem, outputDir string) (*Snapshot, error) {
	if err := filesys.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	return &Snapshot{fs: filesys, outputDir: outputDir}, nil
}

// save renders p as a png under the output directory. The caller-supplied
// name becomes a file name, so it is validated against escaping the
// directory.
func (s *Snapshot) save(p *plot.Plot, w, h vg.Length, name string) (string, error) {
	file := filepath.Join(s.outputDir, name+".png")
	if err := security.ValidatePathWithinDirectory(file, s.outputDir); err != nil {
		return "", fmt.Errorf("invalid snapshot name %q: %w", name, err)
	}

	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", file, err)
	}
	out, err := s.fs.Create(file)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer out.Close()
	if _, err := wt.WriteTo(out); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", file, err)
	}
	return file, nil
}

// SaveLines renders the series as lines inside the viewport and writes
// name.png. Axis ranges pin the viewport rather than autoscaling so zoom
// state is visible in the output.
func (s *Snapshot) SaveLines(name string, list []series.Series, b coords.Bounds) (string, error) {
	p := plot.New()
	p.Title.Text = name
	p.X.Min, p.X.Max = b.XMin, b.XMax
	p.Y.Min, p.Y.Max = b.YMin, b.YMax

	for i, sr := range list {
		pts := make(plotter.XYs, 0, len(sr.Points))
		for _, dp := range sr.Points {
			pts = append(pts, plotter.XY{X: dp.X, Y: dp.Y})
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return "", fmt.Errorf("failed to build line for %s: %w", sr.Name, err)
		}
		line.Width = vg.Points(1)
		line.Color = seriesColor(sr.Color, i)
		p.Add(line)
		p.Legend.Add(sr.Name, line)
	}

	return s.save(p, 14*vg.Inch, 6*vg.Inch, name)
}

// SaveBars renders grouped or stacked bars and writes name.png. Bar geometry
// comes from the same layout computation the hit testers use: each rectangle
// is the hit rect mapped back into data space, so the png shows exactly the
// regions a pointer would hit.
func (s *Snapshot) SaveBars(name string, data series.BarData, cs coords.CoordinateSystem, layout hittest.BarLayout, stacked, normalized bool) (string, error) {
	if err := data.Validate(); err != nil {
		return "", err
	}

	p := plot.New()
	p.Title.Text = name
	b := cs.Bounds()
	p.X.Min, p.X.Max = b.XMin, b.XMax
	p.Y.Min, p.Y.Max = b.YMin, b.YMax

	for si := range data.SeriesNames {
		for ci := range data.Categories {
			rect, ok := layout.BarRect(cs, data, ci, si)
			if stacked {
				rect, ok = layout.SegmentRect(cs, data, ci, si, normalized)
			}
			if !ok {
				continue
			}
			poly, err := plotter.NewPolygon(barPolygon(cs, rect))
			if err != nil {
				return "", fmt.Errorf("failed to build bar polygon: %w", err)
			}
			poly.Color = seriesColor(colorAt(data.SeriesColors, si), si)
			p.Add(poly)
		}
	}

	return s.save(p, 10*vg.Inch, 6*vg.Inch, name)
}

// barPolygon maps a screen-space hit rect back into data space for plotting.
func barPolygon(cs coords.CoordinateSystem, r geom.Rect) plotter.XYs {
	x1, x2 := cs.ScreenToDataX(r.Left), cs.ScreenToDataX(r.Right)
	y1, y2 := cs.ScreenToDataY(r.Bottom), cs.ScreenToDataY(r.Top)
	return plotter.XYs{
		{X: x1, Y: y1}, {X: x2, Y: y1}, {X: x2, Y: y2}, {X: x1, Y: y2},
	}
}

func colorAt(colors []string, i int) string {
	if i < len(colors) {
		return colors[i]
	}
	return ""
}

// seriesColor parses a #rrggbb color string, falling back to a small
// palette keyed by series index.
func seriesColor(hex string, idx int) color.Color {
	if len(hex) == 7 && hex[0] == '#' {
		var r, g, b uint8
		if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err == nil {
			return color.RGBA{R: r, G: g, B: b, A: 255}
		}
	}
	palette := []color.RGBA{
		{R: 0x26, G: 0x82, B: 0x8e, A: 255},
		{R: 0xfd, G: 0xe7, B: 0x25, A: 255},
		{R: 0x44, G: 0x01, B: 0x54, A: 255},
		{R: 0x35, G: 0xb7, B: 0x79, A: 255},
	}
	return palette[idx%len(palette)]
}
