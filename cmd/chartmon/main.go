// chartmon serves a live demo chart driven by the interaction engine: a
// simulated data feed streams into a ring buffer, gesture events posted to
// the HTTP API drive the state machine, and the current viewport renders as
// an ECharts page. Every gesture is recorded to sqlite for later replay.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/banshee-data/chartkit/internal/config"
	"github.com/banshee-data/chartkit/internal/coords"
	"github.com/banshee-data/chartkit/internal/geom"
	"github.com/banshee-data/chartkit/internal/hittest"
	"github.com/banshee-data/chartkit/internal/httputil"
	"github.com/banshee-data/chartkit/internal/interact"
	"github.com/banshee-data/chartkit/internal/recorder"
	"github.com/banshee-data/chartkit/internal/render"
	"github.com/banshee-data/chartkit/internal/series"
	"github.com/banshee-data/chartkit/internal/timeutil"
	"github.com/banshee-data/chartkit/internal/version"
)

var (
	listen       = flag.String("listen", ":8082", "HTTP listen address")
	dbFile       = flag.String("db", "chart_sessions.db", "Path to the session sqlite database")
	configFile   = flag.String("config", "", "Path to an interaction config JSON file")
	feedInterval = flag.Duration("feed-interval", 250*time.Millisecond, "Simulated feed sample interval")
	windowSize   = flag.Float64("window", 60, "Visible X window in seconds when following the feed")
	chartID      = flag.String("chart-id", "chartmon-demo", "Chart id used for session records")
	showVersion  = flag.Bool("version", false, "Print version information and exit")
)

const chartWidth, chartHeight = 900.0, 500.0

// monitor owns the live chart: the data feed, the interaction machine and
// the recording session. All handler access goes through mu.
type monitor struct {
	mu      sync.Mutex
	ring    *series.RingBuffer
	machine *interact.Machine
	db      *recorder.DB
	clock   timeutil.Clock
	start   time.Time
	session string
	seq     atomic.Int64
	follow  bool // auto-scroll with the feed until the user zooms or pans
}

func newMonitor(cfg *config.InteractionConfig, db *recorder.DB, clock timeutil.Clock) (*monitor, error) {
	ring := series.NewRingBuffer(512)

	m := &monitor{ring: ring, db: db, clock: clock, start: clock.Now(), follow: true}

	area := geom.RectFromLTWH(0, 0, chartWidth, chartHeight)
	cs, err := coords.New(area, coords.Bounds{XMin: 0, XMax: *windowSize, YMin: 0, YMax: 50}, coords.Options{})
	if err != nil {
		return nil, err
	}

	machine, err := interact.NewMachine(cs, cfg.MachineConfig(), interact.MachineOptions{
		Animator:  cfg.AnimatorOptions(),
		TesterFor: m.testerFor,
	})
	if err != nil {
		return nil, err
	}
	m.machine = machine

	session, err := db.StartSession(*chartID)
	if err != nil {
		return nil, err
	}
	m.session = session
	log.Printf("recording session %s", session)
	return m, nil
}

func (m *monitor) testerFor(cs coords.CoordinateSystem) hittest.Tester {
	return hittest.NewPointTester([]series.Series{m.snapshotSeries()}, cs, 30)
}

func (m *monitor) snapshotSeries() series.Series {
	return series.Series{Name: "speed", Color: "#26828e", Points: m.ring.Snapshot()}
}

// feed pushes one simulated sample and, while following, scrolls the
// viewport so the newest sample stays at the right edge.
func (m *monitor) feed() {
	t := m.clock.Since(m.start).Seconds()
	v := 25 + 12*math.Sin(t/7) + rand.Float64()*4
	m.ring.Append(series.DataPoint{X: t, Y: v})

	m.mu.Lock()
	follow := m.follow
	m.mu.Unlock()

	m.machine.SetData(m.testerFor)
	if follow && t > *windowSize {
		// Retention may have evicted the left edge of the window.
		xMin := m.ring.ClampX(t - *windowSize)
		if err := m.machine.SetViewportRange(xMin, t); err != nil {
			log.Printf("viewport update failed: %v", err)
		}
	}
}

type gestureRequest struct {
	Kind  string  `json:"kind"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Delta float64 `json:"delta"`
	Scale float64 `json:"scale"`
}

func (m *monitor) handleGesture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	var req gestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("bad gesture: %v", err))
		return
	}

	pos := geom.Pt(req.X, req.Y)
	var kind string
	var detail map[string]any

	switch req.Kind {
	case "down":
		kind = recorder.EventPointerDown
		m.setFollow(false)
		m.machine.PointerDown(pos)
	case "move":
		kind = recorder.EventPointerMove
		m.machine.PointerMove(pos)
	case "up":
		kind = recorder.EventPointerUp
		m.machine.PointerUp(pos)
	case "cancel":
		kind = recorder.EventPointerCancel
		m.machine.PointerCancel()
	case "hover":
		kind = recorder.EventHover
		m.machine.Hover(pos)
	case "scroll":
		kind = recorder.EventScroll
		detail = map[string]any{"delta": req.Delta}
		m.setFollow(false)
		m.machine.Scroll(pos, req.Delta)
	case "doubletap":
		kind = recorder.EventDoubleTap
		m.setFollow(false)
		m.machine.DoubleTap(pos)
	case "pinch":
		kind = recorder.EventPinch
		detail = map[string]any{"scale": req.Scale}
		m.setFollow(false)
		m.machine.PinchUpdate(req.Scale, pos)
	case "selection":
		kind = recorder.EventSelection
		detail = map[string]any{"x2": req.X2, "y2": req.Y2}
		m.setFollow(false)
		m.machine.BeginSelection(pos)
		m.machine.EndSelection(geom.Pt(req.X2, req.Y2))
	case "probe":
		kind = recorder.EventProbePin
		m.machine.PinProbe(pos)
	case "reset":
		kind = recorder.EventReset
		m.setFollow(true)
		m.machine.Reset()
	default:
		httputil.BadRequest(w, fmt.Sprintf("unknown gesture kind %q", req.Kind))
		return
	}

	seq := m.seq.Add(1)
	if err := m.db.RecordEvent(m.session, seq, kind, pos, detail); err != nil {
		log.Printf("failed to record event: %v", err)
	}
	if err := m.db.RecordViewport(m.session, m.machine.CoordinateSystem().Bounds()); err != nil {
		log.Printf("failed to record viewport: %v", err)
	}

	m.writeState(w)
}

func (m *monitor) setFollow(follow bool) {
	m.mu.Lock()
	m.follow = follow
	m.mu.Unlock()
}

// stateResponse mirrors the machine outputs for the /api/state endpoint.
type stateResponse struct {
	Bounds    coords.Bounds   `json:"bounds"`
	Zoomed    bool            `json:"zoomed"`
	Panning   bool            `json:"panning"`
	Zooming   bool            `json:"zooming"`
	Following bool            `json:"following"`
	Tooltip   *tooltipState   `json:"tooltip,omitempty"`
	Crosshair *crosshairState `json:"crosshair,omitempty"`
}

type tooltipState struct {
	Label string     `json:"label"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
	Pos   geom.Point `json:"pos"`
}

type crosshairState struct {
	Pos      geom.Point `json:"pos"`
	HasPoint bool       `json:"has_point"`
	X        float64    `json:"x,omitempty"`
	Y        float64    `json:"y,omitempty"`
}

func (m *monitor) handleState(w http.ResponseWriter, r *http.Request) {
	m.writeState(w)
}

func (m *monitor) writeState(w http.ResponseWriter) {
	cs := m.machine.CoordinateSystem()
	resp := stateResponse{
		Bounds:  cs.Bounds(),
		Zoomed:  cs.IsZoomedOrPanned(m.machine.Original()),
		Panning: m.machine.Panning(),
		Zooming: m.machine.Zooming(),
	}
	m.mu.Lock()
	resp.Following = m.follow
	m.mu.Unlock()

	if res, ok := m.machine.Tooltip(); ok {
		ts := &tooltipState{Label: res.Label(), Pos: res.Anchor()}
		if pr, isPoint := res.(hittest.PointResult); isPoint {
			ts.X, ts.Y = pr.Point.X, pr.Point.Y
		}
		resp.Tooltip = ts
	}
	if ch, ok := m.machine.CrosshairState(); ok {
		chs := &crosshairState{Pos: ch.Pos, HasPoint: ch.HasPoint}
		if ch.HasPoint {
			chs.X, chs.Y = ch.Point.Point.X, ch.Point.Point.Y
		}
		resp.Crosshair = chs
	}

	httputil.WriteJSONOK(w, resp)
}

func (m *monitor) handleChart(w http.ResponseWriter, r *http.Request) {
	line := render.LineChart(
		[]series.Series{m.snapshotSeries()},
		m.machine.CoordinateSystem().Bounds(),
		"chartmon live feed",
	)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.WriteHTML(w, line); err != nil {
		log.Printf("failed to render chart: %v", err)
	}
}

func (m *monitor) handleSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := m.db.Sessions(*chartID)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteJSONOK(w, sessions)
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("chartmon %s\n", version.String())
		return
	}

	cfg := config.EmptyInteractionConfig()
	if *configFile != "" {
		loaded, err := config.LoadInteractionConfig(*configFile)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}

	db, err := recorder.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("failed to open session db: %v", err)
	}
	defer db.Close()

	mon, err := newMonitor(cfg, db, timeutil.RealClock{})
	if err != nil {
		log.Fatalf("failed to build monitor: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := mon.clock.NewTicker(*feedInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				mon.feed()
			}
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/", mon.handleChart)
	mux.HandleFunc("/api/state", mon.handleState)
	mux.HandleFunc("/api/gesture", mon.handleGesture)
	mux.HandleFunc("/api/sessions", mon.handleSessions)

	srv := &http.Server{Addr: *listen, Handler: mux}
	go func() {
		<-ctx.Done()
		log.Printf("shutting down")
		mon.machine.Dispose()
		if err := mon.db.EndSession(mon.session); err != nil {
			log.Printf("failed to end session: %v", err)
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("chartmon listening on %s", *listen)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
