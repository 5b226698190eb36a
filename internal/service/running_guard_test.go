package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"summaryedit/internal/editor"
	"summaryedit/internal/storage"
)

func TestSaveGuard_TryLock(t *testing.T) {
	var g saveGuard

	if !g.TryLock("s-1") {
		t.Fatal("expected first TryLock to succeed")
	}
	if g.TryLock("s-1") {
		t.Fatal("expected second TryLock for same session to fail")
	}
	if !g.TryLock("s-2") {
		t.Fatal("expected TryLock for different session to succeed")
	}
	g.Unlock("s-1")
	g.Unlock("s-2")

	if !g.TryLock("s-1") {
		t.Fatal("expected TryLock to succeed after unlock")
	}
	g.Unlock("s-1")
}

func TestSaveGuard_WaitAll(t *testing.T) {
	var g saveGuard
	g.TryLock("s-a")

	done := make(chan struct{})
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		g.WaitAll(ctx)
		close(done)
	}()

	go func() {
		time.Sleep(20 * time.Millisecond)
		g.Unlock("s-a")
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("WaitAll timed out")
	}
}

func TestSessionService_RefusesOverlappingSaves(t *testing.T) {
	db, err := storage.New(filepath.Join(t.TempDir(), "guard.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	svc := NewSessionService(storage.NewSessionStore(db), &MockEmitter{}, zerolog.Nop(), editor.Options{})
	ctx := context.Background()
	id, err := svc.OpenDefault(ctx)
	if err != nil {
		t.Fatal(err)
	}

	svc.saving.TryLock(id)
	if err := svc.Save(ctx, id); err == nil {
		t.Fatal("expected save to be refused while another save is in flight")
	}
	if err := svc.Delete(ctx, id); err == nil {
		t.Fatal("expected delete to be refused while a save is in flight")
	}
	svc.saving.Unlock(id)

	if err := svc.Save(ctx, id); err != nil {
		t.Fatalf("save after the first finished: %v", err)
	}
	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("delete after save: %v", err)
	}
}
