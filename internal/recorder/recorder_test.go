package recorder

import (
	"path/filepath"
	"testing"

	"github.com/banshee-data/chartkit/internal/coords"
	"github.com/banshee-data/chartkit/internal/geom"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionLifecycle(t *testing.T) {
	db := testDB(t)

	id, err := db.StartSession("speed-chart")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if id == "" {
		t.Fatal("empty session id")
	}

	sessions, err := db.Sessions("speed-chart")
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != id {
		t.Fatalf("sessions = %+v, want one with id %s", sessions, id)
	}
	if sessions[0].EndedAt != nil {
		t.Error("session should be open")
	}

	if err := db.EndSession(id); err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	sessions, _ = db.Sessions("speed-chart")
	if sessions[0].EndedAt == nil {
		t.Error("session should be ended")
	}

	if err := db.EndSession("nope"); err == nil {
		t.Error("ending an unknown session should error")
	}
}

func TestRecordAndReplayEvents(t *testing.T) {
	db := testDB(t)
	id, err := db.StartSession("speed-chart")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	steps := []struct {
		kind   string
		pos    geom.Point
		detail map[string]any
	}{
		{EventPointerDown, geom.Pt(90, 100), nil},
		{EventPointerMove, geom.Pt(120, 100), nil},
		{EventScroll, geom.Pt(150, 100), map[string]any{"delta": 120.0}},
		{EventPointerUp, geom.Pt(120, 100), nil},
	}
	for i, s := range steps {
		if err := db.RecordEvent(id, int64(i), s.kind, s.pos, s.detail); err != nil {
			t.Fatalf("RecordEvent %d: %v", i, err)
		}
	}

	events, err := db.SessionEvents(id)
	if err != nil {
		t.Fatalf("SessionEvents: %v", err)
	}
	if len(events) != len(steps) {
		t.Fatalf("got %d events, want %d", len(events), len(steps))
	}
	for i, e := range events {
		if e.Seq != int64(i) {
			t.Errorf("event %d seq = %d", i, e.Seq)
		}
		if e.Kind != steps[i].kind {
			t.Errorf("event %d kind = %s, want %s", i, e.Kind, steps[i].kind)
		}
		if e.Pos != steps[i].pos {
			t.Errorf("event %d pos = %v, want %v", i, e.Pos, steps[i].pos)
		}
	}
	if delta, ok := events[2].Detail["delta"].(float64); !ok || delta != 120 {
		t.Errorf("scroll detail = %v, want delta 120", events[2].Detail)
	}
}

func TestViewportHistory(t *testing.T) {
	db := testDB(t)
	id, _ := db.StartSession("speed-chart")

	if _, ok, err := db.LastViewport(id); err != nil || ok {
		t.Fatalf("fresh session should have no viewport (ok=%v err=%v)", ok, err)
	}

	first := coords.Bounds{XMin: 0, XMax: 100, YMin: 0, YMax: 100}
	second := coords.Bounds{XMin: 25, XMax: 75, YMin: 25, YMax: 75}
	if err := db.RecordViewport(id, first); err != nil {
		t.Fatalf("RecordViewport: %v", err)
	}
	if err := db.RecordViewport(id, second); err != nil {
		t.Fatalf("RecordViewport: %v", err)
	}

	got, ok, err := db.LastViewport(id)
	if err != nil || !ok {
		t.Fatalf("LastViewport: ok=%v err=%v", ok, err)
	}
	if got != second {
		t.Errorf("LastViewport = %+v, want %+v", got, second)
	}
}

func tableNames(t *testing.T, db *DB) map[string]bool {
	t.Helper()
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	defer rows.Close()

	tables := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan table name: %v", err)
		}
		tables[name] = true
	}
	return tables
}

func TestNewDBMigratesSchema(t *testing.T) {
	db := testDB(t)

	for _, table := range []string{"sessions", "events", "viewports", "session_notes"} {
		if !tableNames(t, db)[table] {
			t.Errorf("migrated schema missing table %s", table)
		}
	}

	version, dirty, err := db.MigrateVersion()
	if err != nil {
		t.Fatalf("MigrateVersion: %v", err)
	}
	if dirty {
		t.Error("fresh migration left the schema dirty")
	}
	if version != 2 {
		t.Errorf("schema version = %d, want 2", version)
	}

	// Re-opening an already migrated store is a no-op, not an error.
	if err := db.MigrateUp(); err != nil {
		t.Fatalf("repeated MigrateUp: %v", err)
	}
}

func TestMigrateDownRollsBackLatest(t *testing.T) {
	db := testDB(t)

	if err := db.MigrateDown(); err != nil {
		t.Fatalf("MigrateDown: %v", err)
	}
	if tableNames(t, db)["session_notes"] {
		t.Error("rolled-back annotations table still present")
	}
	if !tableNames(t, db)["sessions"] {
		t.Error("base schema should survive a single-step rollback")
	}

	if err := db.MigrateUp(); err != nil {
		t.Fatalf("MigrateUp after rollback: %v", err)
	}
	if !tableNames(t, db)["session_notes"] {
		t.Error("re-migration should restore the annotations table")
	}
}

func TestSessionNotes(t *testing.T) {
	db := testDB(t)

	id, err := db.StartSession("speed-chart")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if err := db.AddNote(id, "nice zoom sequence"); err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	if err := db.AddNote(id, "probe pinned on spike"); err != nil {
		t.Fatalf("AddNote: %v", err)
	}

	notes, err := db.Notes(id)
	if err != nil {
		t.Fatalf("Notes: %v", err)
	}
	want := []string{"nice zoom sequence", "probe pinned on spike"}
	if len(notes) != 2 || notes[0] != want[0] || notes[1] != want[1] {
		t.Errorf("notes = %v, want %v", notes, want)
	}
}
