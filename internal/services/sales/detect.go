package sales

import "github.com/j-veylop/revenue-dashboard-tui/internal/models"

// DetectNewSales reports whether any project present in both snapshots has
// more orders in current than in previous.
func DetectNewSales(previous, current map[string]*models.SalesSummary) bool {
	return len(ProjectsWithNewSales(previous, current)) > 0
}

// ProjectsWithNewSales returns the ids whose order count increased, in no
// particular order. Projects missing from either snapshot are skipped.
func ProjectsWithNewSales(previous, current map[string]*models.SalesSummary) []string {
	var ids []string
	for id, cur := range current {
		old, ok := previous[id]
		if !ok || old == nil || cur == nil {
			continue
		}
		if cur.Orders > old.Orders {
			ids = append(ids, id)
		}
	}
	return ids
}
