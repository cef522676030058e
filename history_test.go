package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestHistory(t *testing.T) *history {
	t.Helper()
	h, err := openHistory(filepath.Join(t.TempDir(), "history.bolt"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestHistory(t *testing.T) {
	h := newTestHistory(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		r := &buildRecord{
			ChatID:  42,
			When:    base.Add(time.Duration(i) * time.Minute),
			Kind:    sourceInline,
			OK:      i%2 == 0,
			Verdict: "verdict",
		}
		if err := h.save(r); err != nil {
			t.Fatal(err)
		}
		if got, want := r.ID, uint64(i+1); got != want {
			t.Fatalf("got ID %d, want %d", got, want)
		}
	}
	if err := h.save(&buildRecord{ChatID: 7, When: base, Kind: sourceFile, FileName: "a.tact"}); err != nil {
		t.Fatal(err)
	}

	t.Run("newest first", func(t *testing.T) {
		records, err := h.recent(42, 10)
		if err != nil {
			t.Fatal(err)
		}
		var got []uint64
		for _, r := range records {
			got = append(got, r.ID)
		}
		want := []uint64{12, 11, 10, 9, 8, 7, 6, 5, 4, 3}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})
	t.Run("chats are separate", func(t *testing.T) {
		records, err := h.recent(7, 10)
		if err != nil {
			t.Fatal(err)
		}
		want := []*buildRecord{{ID: 1, ChatID: 7, When: base, Kind: sourceFile, FileName: "a.tact"}}
		if diff := cmp.Diff(want, records); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})
	t.Run("unknown chat", func(t *testing.T) {
		records, err := h.recent(1, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 0 {
			t.Errorf("got %d records, want none", len(records))
		}
	})
	t.Run("for each", func(t *testing.T) {
		count := make(map[int64]int)
		if err := h.forEach(func(r *buildRecord) error {
			count[r.ChatID]++
			return nil
		}); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(map[int64]int{42: 12, 7: 1}, count); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})
}

func TestHistoryReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.bolt")
	h, err := openHistory(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.save(&buildRecord{ChatID: 1, Verdict: "✅ Compiled successfully!"}); err != nil {
		t.Fatal(err)
	}
	if err := h.Close(); err != nil {
		t.Fatal(err)
	}
	h, err = openHistory(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = h.Close() }()
	records, err := h.recent(1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Verdict != "✅ Compiled successfully!" {
		t.Errorf("got %v after reopening", records)
	}
}
