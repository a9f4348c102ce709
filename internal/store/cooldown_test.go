package store

import (
	"testing"
	"time"
)

func testCooldowns(t *testing.T) *CooldownStore {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewCooldownStore(db)
}

func TestRecordAndActive(t *testing.T) {
	s := testCooldowns(t)
	now := time.UnixMilli(1_700_000_000_000)

	if err := s.RecordPicks([]string{"a", "b", "c"}, now); err != nil {
		t.Fatalf("RecordPicks: %v", err)
	}

	active, err := s.ActiveIDs(now)
	if err != nil {
		t.Fatalf("ActiveIDs: %v", err)
	}
	if len(active) != 3 {
		t.Fatalf("len(active) = %d, want 3", len(active))
	}
	for _, id := range []string{"a", "b", "c"} {
		if ts, ok := active[id]; !ok {
			t.Errorf("id %q missing from active set", id)
		} else if ts != now.UnixMilli() {
			t.Errorf("active[%q] = %d, want %d", id, ts, now.UnixMilli())
		}
	}
}

func TestRecordPicksUpsert(t *testing.T) {
	s := testCooldowns(t)
	t0 := time.UnixMilli(1_700_000_000_000)
	t1 := t0.Add(time.Minute)

	if err := s.RecordPicks([]string{"a"}, t0); err != nil {
		t.Fatalf("RecordPicks: %v", err)
	}
	if err := s.RecordPicks([]string{"a"}, t1); err != nil {
		t.Fatalf("RecordPicks (again): %v", err)
	}

	ts, ok, err := s.PickedAt("a")
	if err != nil {
		t.Fatalf("PickedAt: %v", err)
	}
	if !ok {
		t.Fatal("PickedAt: record missing")
	}
	if ts != t1.UnixMilli() {
		t.Errorf("PickedAt = %d, want %d (latest pick wins)", ts, t1.UnixMilli())
	}
}

func TestRecordPicksEmpty(t *testing.T) {
	s := testCooldowns(t)
	if err := s.RecordPicks(nil, time.Now()); err != nil {
		t.Fatalf("RecordPicks(nil): %v", err)
	}
}

func TestPickedAtAbsent(t *testing.T) {
	s := testCooldowns(t)
	_, ok, err := s.PickedAt("nope")
	if err != nil {
		t.Fatalf("PickedAt: %v", err)
	}
	if ok {
		t.Error("PickedAt: ok = true for absent id")
	}
}

func TestExpiry(t *testing.T) {
	s := testCooldowns(t)
	t0 := time.UnixMilli(1_700_000_000_000)

	if err := s.RecordPicks([]string{"a"}, t0); err != nil {
		t.Fatalf("RecordPicks: %v", err)
	}

	// One millisecond before the window elapses it is still active.
	justBefore := t0.Add(s.Window - time.Millisecond)
	active, err := s.ActiveIDs(justBefore)
	if err != nil {
		t.Fatalf("ActiveIDs: %v", err)
	}
	if _, ok := active["a"]; !ok {
		t.Error("record expired before window elapsed")
	}

	// Exactly at the window boundary it is expired.
	atBoundary := t0.Add(s.Window)
	active, err = s.ActiveIDs(atBoundary)
	if err != nil {
		t.Fatalf("ActiveIDs: %v", err)
	}
	if _, ok := active["a"]; ok {
		t.Error("record still active at window boundary")
	}
}

func TestCleanupExpired(t *testing.T) {
	s := testCooldowns(t)
	t0 := time.UnixMilli(1_700_000_000_000)
	t1 := t0.Add(s.Window / 2)

	if err := s.RecordPicks([]string{"old"}, t0); err != nil {
		t.Fatalf("RecordPicks: %v", err)
	}
	if err := s.RecordPicks([]string{"new"}, t1); err != nil {
		t.Fatalf("RecordPicks: %v", err)
	}

	// "old" has expired by t0 + Window, "new" has not.
	if err := s.CleanupExpired(t0.Add(s.Window)); err != nil {
		t.Fatalf("CleanupExpired: %v", err)
	}

	if _, ok, _ := s.PickedAt("old"); ok {
		t.Error("expired record survived cleanup")
	}
	if _, ok, _ := s.PickedAt("new"); !ok {
		t.Error("unexpired record removed by cleanup")
	}
}

func TestClearCooldowns(t *testing.T) {
	s := testCooldowns(t)
	now := time.UnixMilli(1_700_000_000_000)

	if err := s.RecordPicks([]string{"a", "b"}, now); err != nil {
		t.Fatalf("RecordPicks: %v", err)
	}
	if err := s.ClearCooldowns(); err != nil {
		t.Fatalf("ClearCooldowns: %v", err)
	}

	n, err := s.CountActive(now)
	if err != nil {
		t.Fatalf("CountActive: %v", err)
	}
	if n != 0 {
		t.Errorf("CountActive = %d after clear, want 0", n)
	}
}

func TestOldestActive(t *testing.T) {
	s := testCooldowns(t)
	t0 := time.UnixMilli(1_700_000_000_000)

	if _, ok, err := s.OldestActive(t0); err != nil || ok {
		t.Errorf("OldestActive empty store: ok=%v err=%v, want false nil", ok, err)
	}

	s.RecordPicks([]string{"late"}, t0.Add(time.Hour))
	s.RecordPicks([]string{"early"}, t0)

	oldest, ok, err := s.OldestActive(t0.Add(2 * time.Hour))
	if err != nil {
		t.Fatalf("OldestActive: %v", err)
	}
	if !ok {
		t.Fatal("OldestActive: ok = false with active records")
	}
	if oldest != t0.UnixMilli() {
		t.Errorf("OldestActive = %d, want %d", oldest, t0.UnixMilli())
	}
}
