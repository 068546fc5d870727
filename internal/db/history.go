package db

import (
	"context"
	"fmt"
	"time"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	dayLayout       = "2006-01-02"
)

// InsertSnapshot stores one refresh outcome and sets snapshot.ID.
func (db *DB) InsertSnapshot(ctx context.Context, snapshot *models.SalesSnapshot) error {
	query := `
		INSERT INTO sales_snapshots (
			cycle_id, project_id, currency, revenue, orders, today_revenue,
			yesterday_revenue, growth_percent, stripe_balance, paypal_balance,
			error_count, captured_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	captured := snapshot.CapturedAt
	if captured.IsZero() {
		captured = time.Now()
	}

	result, err := db.ExecContext(ctx, query,
		snapshot.CycleID,
		snapshot.ProjectID,
		snapshot.Currency,
		snapshot.Revenue,
		snapshot.Orders,
		snapshot.TodayRevenue,
		snapshot.YesterdayRevenue,
		snapshot.GrowthPercent,
		snapshot.StripeBalance,
		snapshot.PayPalBalance,
		snapshot.ErrorCount,
		captured.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sales snapshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		snapshot.ID = id
	}

	return nil
}

// GetSnapshots returns the latest snapshots of a project, newest first.
func (db *DB) GetSnapshots(ctx context.Context, projectID string, limit int) ([]models.SalesSnapshot, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, cycle_id, project_id, currency, revenue, orders, today_revenue,
			   yesterday_revenue, growth_percent, stripe_balance, paypal_balance,
			   error_count, captured_at
		FROM sales_snapshots
		WHERE project_id = ?
		ORDER BY captured_at DESC, id DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(ctx, query, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshots []models.SalesSnapshot
	for rows.Next() {
		var s models.SalesSnapshot
		var captured string

		if err := rows.Scan(
			&s.ID,
			&s.CycleID,
			&s.ProjectID,
			&s.Currency,
			&s.Revenue,
			&s.Orders,
			&s.TodayRevenue,
			&s.YesterdayRevenue,
			&s.GrowthPercent,
			&s.StripeBalance,
			&s.PayPalBalance,
			&s.ErrorCount,
			&captured,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sales snapshot: %w", err)
		}

		if t, err := time.ParseInLocation(timestampLayout, captured, time.UTC); err == nil {
			s.CapturedAt = t
		}
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}

// PruneSnapshots deletes snapshots captured before the cutoff and returns
// how many were removed.
func (db *DB) PruneSnapshots(ctx context.Context, before time.Time) (int64, error) {
	result, err := db.ExecContext(ctx,
		"DELETE FROM sales_snapshots WHERE captured_at < ?",
		before.UTC().Format(timestampLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune sales snapshots: %w", err)
	}
	return result.RowsAffected()
}

// UpsertDailyRevenue writes one row per day for the project and currency,
// replacing rows already stored for the same day.
func (db *DB) UpsertDailyRevenue(ctx context.Context, projectID, currency string, points []models.DailyRevenuePoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin daily revenue transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO daily_revenue (project_id, day, currency, revenue, orders, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, day, currency) DO UPDATE SET
			revenue = excluded.revenue,
			orders = excluded.orders,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare daily revenue upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(timestampLayout)
	for _, p := range points {
		if _, err := stmt.ExecContext(ctx,
			projectID,
			p.Day.UTC().Format(dayLayout),
			currency,
			p.Revenue,
			p.Orders,
			now,
		); err != nil {
			return fmt.Errorf("failed to upsert daily revenue: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit daily revenue: %w", err)
	}
	return nil
}

// GetDailyRevenue returns stored daily revenue in ascending day order. A zero
// since returns every stored day.
func (db *DB) GetDailyRevenue(ctx context.Context, projectID, currency string, since time.Time) ([]models.DailyRevenuePoint, error) {
	query := `
		SELECT day, revenue, orders
		FROM daily_revenue
		WHERE project_id = ? AND currency = ? AND day >= ?
		ORDER BY day ASC
	`

	from := ""
	if !since.IsZero() {
		from = since.UTC().Format(dayLayout)
	}

	rows, err := db.QueryContext(ctx, query, projectID, currency, from)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily revenue: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []models.DailyRevenuePoint
	for rows.Next() {
		var p models.DailyRevenuePoint
		var day string

		if err := rows.Scan(&day, &p.Revenue, &p.Orders); err != nil {
			return nil, fmt.Errorf("failed to scan daily revenue: %w", err)
		}
		if t, err := time.Parse(dayLayout, day); err == nil {
			p.Day = t
		}
		points = append(points, p)
	}

	return points, rows.Err()
}
