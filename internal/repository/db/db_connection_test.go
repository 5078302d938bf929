package db_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"controlling_doze/internal/models"
	"controlling_doze/internal/repository"
	"controlling_doze/internal/repository/db"
)

func TestInitDB_RoundTrip(t *testing.T) {
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "doze.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer conn.Close()

	repos := repository.NewRepository(conn)
	ctx := context.Background()

	if err := repos.DeviceRepo.Create(ctx, models.Device{Serial: "sim-1", Transport: models.TransportSim}); err != nil {
		t.Fatalf("create device: %v", err)
	}
	if err := repos.DeviceRepo.Create(ctx, models.Device{Serial: "bad", Transport: "usb"}); err == nil {
		t.Fatalf("expected CHECK constraint failure for unknown transport")
	}

	t0 := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	if err := repos.StatusRepo.Save(ctx, models.StatusSnapshot{Serial: "sim-1", Deep: models.StateIdle, Light: models.StateActive, ObservedAt: t0}); err != nil {
		t.Fatalf("save status: %v", err)
	}
	if err := repos.StatusRepo.Save(ctx, models.StatusSnapshot{Serial: "sim-1", Light: models.StateIdle, ObservedAt: t0.Add(time.Minute)}); err != nil {
		t.Fatalf("save partial status: %v", err)
	}
	st, err := repos.StatusRepo.Load(ctx, "sim-1")
	if err != nil {
		t.Fatalf("load status: %v", err)
	}
	if st.Deep != models.StateIdle || st.Light != models.StateIdle || !st.ObservedAt.Equal(t0.Add(time.Minute)) {
		t.Fatalf("unexpected snapshot: %+v", st)
	}

	for i, typ := range []string{models.EventVerifyFailed, models.EventEnter, models.EventLeave} {
		err := repos.EventRepo.Append(ctx, models.DozeEvent{
			OccurredAt:  t0.Add(time.Duration(i) * time.Second),
			Serial:      "sim-1",
			Type:        typ,
			DozeType:    models.DozeDeep,
			Attempts:    i + 1,
			Description: typ,
		})
		if err != nil {
			t.Fatalf("append %s: %v", typ, err)
		}
	}
	events, err := repos.EventRepo.List(ctx, repository.EventQuery{
		From:   t0.Add(time.Second),
		To:     t0.Add(2 * time.Second),
		Serial: "sim-1",
	})
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 || events[0].Type != models.EventEnter || events[1].Attempts != 3 {
		t.Fatalf("unexpected events: %+v", events)
	}

	latest, err := repos.EventRepo.List(ctx, repository.EventQuery{Serial: "sim-1", Limit: 1})
	if err != nil || len(latest) != 1 || latest[0].Type != models.EventLeave {
		t.Fatalf("latest event: %+v %v", latest, err)
	}

	id, err := repos.Auth.Create(ctx, "operator", "hash")
	if err != nil || id == 0 {
		t.Fatalf("create user: %d %v", id, err)
	}
	if _, err := repos.Auth.Create(ctx, "operator", "hash2"); err == nil {
		t.Fatalf("expected UNIQUE failure for duplicate operator")
	}
}

func TestInitDB_MigratesOnceAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doze.db")
	ctx := context.Background()

	conn, err := db.InitDB(path)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	v, err := db.SchemaVersion(ctx, conn)
	if err != nil || v == 0 {
		t.Fatalf("schema version after first open: %d %v", v, err)
	}
	if err := repository.NewRepository(conn).DeviceRepo.Create(ctx, models.Device{Serial: "emu-1", Transport: models.TransportADB}); err != nil {
		t.Fatalf("create device: %v", err)
	}
	_ = conn.Close()

	conn, err = db.InitDB(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer conn.Close()
	v2, err := db.SchemaVersion(ctx, conn)
	if err != nil || v2 != v {
		t.Fatalf("schema version after reopen: %d (want %d) %v", v2, v, err)
	}
	d, err := repository.NewRepository(conn).DeviceRepo.Get(ctx, "emu-1")
	if err != nil || d == nil {
		t.Fatalf("device lost across reopen: %+v %v", d, err)
	}
}

func TestInitDB_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doze.db")
	conn, err := db.InitDB(path)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	if _, err := conn.Exec("PRAGMA user_version = 999;"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = conn.Close()

	if _, err := db.InitDB(path); err == nil {
		t.Fatalf("expected error for schema newer than binary")
	}
}
