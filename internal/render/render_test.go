package render

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/banshee-data/chartkit/internal/coords"
	"github.com/banshee-data/chartkit/internal/fsutil"
	"github.com/banshee-data/chartkit/internal/geom"
	"github.com/banshee-data/chartkit/internal/hittest"
	"github.com/banshee-data/chartkit/internal/series"
)

func testLineSeries() []series.Series {
	return []series.Series{{
		Name:  "speed",
		Color: "#26828e",
		Points: []series.DataPoint{
			{X: 0, Y: 10}, {X: 25, Y: 40}, {X: 50, Y: 30}, {X: 75, Y: 60}, {X: 100, Y: 20},
		},
	}}
}

func testBarData() series.BarData {
	return series.BarData{
		SeriesNames:  []string{"north", "south"},
		SeriesColors: []string{"#26828e", "#fde725"},
		Categories: []series.Category{
			{Label: "Mon", Values: []float64{10, 20}},
			{Label: "Tue", Values: []float64{15, 5}},
		},
	}
}

func TestLineChartRenders(t *testing.T) {
	b := coords.Bounds{XMin: 0, XMax: 100, YMin: 0, YMax: 100}
	line := LineChart(testLineSeries(), b, "Speed over time")

	var buf bytes.Buffer
	if err := WriteHTML(&buf, line); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "speed") {
		t.Error("rendered HTML should name the series")
	}
	if !strings.Contains(html, "Speed over time") {
		t.Error("rendered HTML should carry the title")
	}
}

func TestLineChartClipsToViewport(t *testing.T) {
	// Zoomed to x [20,60]: the points at 0, 75 and 100 are outside.
	b := coords.Bounds{XMin: 20, XMax: 60, YMin: 0, YMax: 100}
	line := LineChart(testLineSeries(), b, "zoomed")

	var buf bytes.Buffer
	if err := WriteHTML(&buf, line); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	html := buf.String()
	if strings.Contains(html, "[75,") {
		t.Error("points outside the viewport must not be emitted")
	}
}

func TestBarChartRenders(t *testing.T) {
	bar := BarChart(testBarData(), true, "Transits")

	var buf bytes.Buffer
	if err := WriteHTML(&buf, bar); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"north", "south", "Mon", "Tue"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
}

func TestDashboardRenders(t *testing.T) {
	b := coords.Bounds{XMin: 0, XMax: 100, YMin: 0, YMax: 100}
	page := Dashboard(
		LineChart(testLineSeries(), b, "lines"),
		BarChart(testBarData(), false, "bars"),
	)

	var buf bytes.Buffer
	if err := WriteHTML(&buf, page); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	if !strings.Contains(buf.String(), "lines") || !strings.Contains(buf.String(), "bars") {
		t.Error("page should include both charts")
	}
}

func TestSnapshotSaveLines(t *testing.T) {
	snap, err := NewSnapshot(t.TempDir())
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}

	b := coords.Bounds{XMin: 0, XMax: 100, YMin: 0, YMax: 100}
	file, err := snap.SaveLines("lines", testLineSeries(), b)
	if err != nil {
		t.Fatalf("SaveLines: %v", err)
	}
	info, err := os.Stat(file)
	if err != nil {
		t.Fatalf("stat %s: %v", file, err)
	}
	if info.Size() == 0 {
		t.Error("empty png written")
	}
}

func TestSnapshotMemoryFilesystem(t *testing.T) {
	memfs := fsutil.NewMemoryFileSystem()
	snap, err := NewSnapshotFS(memfs, "/snapshots")
	if err != nil {
		t.Fatalf("NewSnapshotFS: %v", err)
	}

	b := coords.Bounds{XMin: 0, XMax: 100, YMin: 0, YMax: 100}
	file, err := snap.SaveLines("mem", testLineSeries(), b)
	if err != nil {
		t.Fatalf("SaveLines: %v", err)
	}
	data, err := memfs.ReadFile(file)
	if err != nil {
		t.Fatalf("ReadFile %s: %v", file, err)
	}
	if len(data) == 0 {
		t.Error("empty png written to memory filesystem")
	}

	// A name that escapes the output directory must be rejected before any
	// write happens.
	if _, err := snap.SaveLines("../evil", testLineSeries(), b); err == nil {
		t.Error("expected traversal name to be rejected")
	}
	if got := memfs.List(); len(got) != 1 {
		t.Errorf("files written = %v, want just the first snapshot", got)
	}
}

func TestSnapshotSaveBars(t *testing.T) {
	snap, err := NewSnapshot(t.TempDir())
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}

	data := testBarData()
	cs := coords.MustNew(
		geom.RectFromLTWH(0, 0, 600, 400),
		coords.Bounds{XMin: -0.5, XMax: 1.5, YMin: 0, YMax: 40},
		coords.Options{},
	)

	for _, stacked := range []bool{false, true} {
		name := "grouped"
		if stacked {
			name = "stacked"
		}
		file, err := snap.SaveBars(name, data, cs, hittest.DefaultBarLayout(), stacked, false)
		if err != nil {
			t.Fatalf("SaveBars(%s): %v", name, err)
		}
		if info, err := os.Stat(file); err != nil || info.Size() == 0 {
			t.Errorf("bad png %s: %v", file, err)
		}
	}
}

func TestBarPolygonMatchesHitGeometry(t *testing.T) {
	data := testBarData()
	cs := coords.MustNew(
		geom.RectFromLTWH(0, 0, 600, 400),
		coords.Bounds{XMin: -0.5, XMax: 1.5, YMin: 0, YMax: 40},
		coords.Options{},
	)

	rect, ok := hittest.DefaultBarLayout().BarRect(cs, data, 0, 1)
	if !ok {
		t.Fatal("expected a bar rect")
	}
	poly := barPolygon(cs, rect)
	if len(poly) != 4 {
		t.Fatalf("polygon has %d vertices", len(poly))
	}
	// Mapping the polygon back to screen space must reproduce the hit rect.
	if got := cs.DataToScreenX(poly[0].X); !closeTo(got, rect.Left) {
		t.Errorf("left edge: %v != %v", got, rect.Left)
	}
	if got := cs.DataToScreenX(poly[1].X); !closeTo(got, rect.Right) {
		t.Errorf("right edge: %v != %v", got, rect.Right)
	}
	if got := cs.DataToScreenY(poly[0].Y); !closeTo(got, rect.Bottom) {
		t.Errorf("bottom edge: %v != %v", got, rect.Bottom)
	}
	if got := cs.DataToScreenY(poly[2].Y); !closeTo(got, rect.Top) {
		t.Errorf("top edge: %v != %v", got, rect.Top)
	}
}

func closeTo(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}
