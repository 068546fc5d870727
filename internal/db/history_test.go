package db

import (
	"context"
	"testing"
	"time"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestInsertAndGetSnapshots(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	base := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	for i := range 3 {
		snap := &models.SalesSnapshot{
			CycleID:       "cycle",
			ProjectID:     "shop",
			Currency:      "NZD",
			Revenue:       100 * (i + 1),
			Orders:        i + 1,
			GrowthPercent: "12.5",
			ErrorCount:    i,
			CapturedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.InsertSnapshot(ctx, snap); err != nil {
			t.Fatalf("InsertSnapshot() failed: %v", err)
		}
		if snap.ID == 0 {
			t.Error("InsertSnapshot() did not set ID")
		}
	}
	if err := db.InsertSnapshot(ctx, &models.SalesSnapshot{ProjectID: "other", CycleID: "c", Currency: "USD"}); err != nil {
		t.Fatalf("InsertSnapshot() failed: %v", err)
	}

	got, err := db.GetSnapshots(ctx, "shop", 2)
	if err != nil {
		t.Fatalf("GetSnapshots() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(got))
	}
	if got[0].Revenue != 300 || got[1].Revenue != 200 {
		t.Errorf("snapshots not newest first: %+v", got)
	}
	if !got[0].CapturedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("CapturedAt = %v, want %v", got[0].CapturedAt, base.Add(2*time.Minute))
	}
	if got[0].GrowthPercent != "12.5" || got[0].ErrorCount != 2 || got[0].Currency != "NZD" {
		t.Errorf("unexpected fields: %+v", got[0])
	}
}

func TestGetSnapshots_Empty(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	got, err := db.GetSnapshots(context.Background(), "missing", 10)
	if err != nil {
		t.Fatalf("GetSnapshots() failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no snapshots, got %d", len(got))
	}
}

func TestPruneSnapshots(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, age := range []time.Duration{100 * 24 * time.Hour, 95 * 24 * time.Hour, time.Hour} {
		snap := &models.SalesSnapshot{CycleID: "c", ProjectID: "shop", Currency: "USD", CapturedAt: now.Add(-age)}
		if err := db.InsertSnapshot(ctx, snap); err != nil {
			t.Fatalf("InsertSnapshot() failed: %v", err)
		}
	}

	removed, err := db.PruneSnapshots(ctx, now.Add(-90*24*time.Hour))
	if err != nil {
		t.Fatalf("PruneSnapshots() failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("PruneSnapshots() removed %d, want 2", removed)
	}

	left, err := db.GetSnapshots(ctx, "shop", 10)
	if err != nil {
		t.Fatalf("GetSnapshots() failed: %v", err)
	}
	if len(left) != 1 {
		t.Errorf("expected 1 snapshot left, got %d", len(left))
	}
}

func TestUpsertDailyRevenue(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	first := []models.DailyRevenuePoint{
		{Day: day("2024-02-01"), Revenue: 10, Orders: 1},
		{Day: day("2024-02-02"), Revenue: 20, Orders: 2},
	}
	if err := db.UpsertDailyRevenue(ctx, "shop", "NZD", first); err != nil {
		t.Fatalf("UpsertDailyRevenue() failed: %v", err)
	}

	second := []models.DailyRevenuePoint{
		{Day: day("2024-02-02"), Revenue: 25, Orders: 3},
		{Day: day("2024-02-03"), Revenue: 30, Orders: 1},
	}
	if err := db.UpsertDailyRevenue(ctx, "shop", "NZD", second); err != nil {
		t.Fatalf("UpsertDailyRevenue() failed: %v", err)
	}
	if err := db.UpsertDailyRevenue(ctx, "shop", "USD", first); err != nil {
		t.Fatalf("UpsertDailyRevenue() failed: %v", err)
	}

	got, err := db.GetDailyRevenue(ctx, "shop", "NZD", time.Time{})
	if err != nil {
		t.Fatalf("GetDailyRevenue() failed: %v", err)
	}

	want := []models.DailyRevenuePoint{
		{Day: day("2024-02-01"), Revenue: 10, Orders: 1},
		{Day: day("2024-02-02"), Revenue: 25, Orders: 3},
		{Day: day("2024-02-03"), Revenue: 30, Orders: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("GetDailyRevenue() returned %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Day.Equal(want[i].Day) || got[i].Revenue != want[i].Revenue || got[i].Orders != want[i].Orders {
			t.Errorf("point %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	since, err := db.GetDailyRevenue(ctx, "shop", "NZD", day("2024-02-02"))
	if err != nil {
		t.Fatalf("GetDailyRevenue() failed: %v", err)
	}
	if len(since) != 2 {
		t.Errorf("GetDailyRevenue(since) returned %d points, want 2", len(since))
	}
}

func TestUpsertDailyRevenue_Empty(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	if err := db.UpsertDailyRevenue(context.Background(), "shop", "NZD", nil); err != nil {
		t.Errorf("UpsertDailyRevenue(nil) = %v, want nil", err)
	}
}
