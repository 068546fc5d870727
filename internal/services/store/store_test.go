package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
)

func TestStore_PutAndGet(t *testing.T) {
	s := New()
	gen := s.Begin(false)

	if !s.Put(gen, "p1", &models.SalesSummary{Revenue: 10}, nil) {
		t.Fatal("Put() for current generation returned false")
	}
	if !s.Put(gen, "p2", nil, errors.New("boom")) {
		t.Fatal("Put() error entry returned false")
	}

	e, ok := s.Get("p1")
	if !ok || e.Summary == nil || e.Summary.Revenue != 10 || e.Err != nil || e.Generation != gen {
		t.Errorf("Get(p1) = %+v, %v", e, ok)
	}
	e, ok = s.Get("p2")
	if !ok || e.Summary != nil || e.Err == nil {
		t.Errorf("Get(p2) = %+v, %v", e, ok)
	}

	summaries := s.Summaries()
	if len(summaries) != 1 || summaries["p1"] == nil {
		t.Errorf("Summaries() = %v, want only p1", summaries)
	}
	if s.Len() != 2 || len(s.Snapshot()) != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestStore_StaleGenerationDropped(t *testing.T) {
	s := New()
	old := s.Begin(false)
	s.Put(old, "p1", &models.SalesSummary{Orders: 1}, nil)

	current := s.Begin(false)
	if s.Put(old, "p1", &models.SalesSummary{Orders: 99}, nil) {
		t.Error("Put() with a superseded generation should be rejected")
	}

	e, _ := s.Get("p1")
	if e.Summary.Orders != 1 {
		t.Errorf("stale write applied: orders = %d", e.Summary.Orders)
	}

	if !s.Put(current, "p1", &models.SalesSummary{Orders: 2}, nil) {
		t.Error("Put() with current generation rejected")
	}
	if s.Generation() != current {
		t.Errorf("Generation() = %d, want %d", s.Generation(), current)
	}
}

func TestStore_BeginClear(t *testing.T) {
	s := New()
	gen := s.Begin(false)
	s.Put(gen, "p1", &models.SalesSummary{}, nil)

	s.Begin(false)
	if s.Len() != 1 {
		t.Error("Begin(false) should keep entries")
	}

	s.Begin(true)
	if s.Len() != 0 {
		t.Error("Begin(true) should clear entries")
	}

	gen = s.Begin(false)
	s.Put(gen, "p1", &models.SalesSummary{}, nil)
	s.Clear()
	if s.Len() != 0 || s.Generation() != gen {
		t.Error("Clear() should empty the store and keep the generation")
	}
}

func TestStore_ConcurrentWriters(t *testing.T) {
	s := New()
	gen := s.Begin(false)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			s.Put(gen, string(rune('a'+id%26))+string(rune('a'+id/26)), &models.SalesSummary{Orders: id}, nil)
			_ = s.Summaries()
		}(i)
	}
	wg.Wait()

	if s.Len() != 50 {
		t.Errorf("Len() = %d, want 50", s.Len())
	}
}
