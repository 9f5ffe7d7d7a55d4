package accounting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GroupSets groups entries by (date, set_id), preserving first-seen order of the groups.
func GroupSets(entries []domain.Entry) ([]domain.SetKey, map[domain.SetKey][]domain.Entry) {
	groups := make(map[domain.SetKey][]domain.Entry)
	var keys []domain.SetKey
	for _, e := range entries {
		k := e.SetKey()
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], e)
	}
	return keys, groups
}

// SortSetKeys orders keys by date, then set id.
func SortSetKeys(keys []domain.SetKey) {
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].Date.Equal(keys[j].Date) {
			return keys[i].Date.Before(keys[j].Date)
		}
		return keys[i].SetID < keys[j].SetID
	})
}

// ValidateSets checks that every set sums to zero within tolerance.
// Sets containing a carry-forward leg are opening balances and are left out of the report entirely.
func ValidateSets(entries []domain.Entry, tolerance decimal.Decimal) domain.ValidationReport {
	keys, groups := GroupSets(entries)
	SortSetKeys(keys)

	report := domain.ValidationReport{Unbalanced: []domain.UnbalancedSet{}}
	for _, k := range keys {
		legs := groups[k]
		if hasCarryForward(legs) {
			continue
		}
		report.SetCount++

		balance := Sum(legs)
		if WithinTolerance(balance, tolerance) {
			continue
		}
		report.Unbalanced = append(report.Unbalanced, domain.UnbalancedSet{
			SetID:           k.SetID,
			Date:            k.Date,
			EntryCount:      len(legs),
			Balance:         balance,
			DistinctRemarks: distinctRemarks(legs),
			RenderedLegs:    RenderLegs(legs),
		})
	}

	report.Balanced = len(report.Unbalanced) == 0
	if report.Balanced {
		report.Message = fmt.Sprintf("all %d sets balanced", report.SetCount)
	} else {
		report.Message = fmt.Sprintf("%d of %d sets unbalanced", len(report.Unbalanced), report.SetCount)
	}
	return report
}

// RenderLegs renders "subject:amount" pairs ordered by amount descending.
func RenderLegs(legs []domain.Entry) string {
	sorted := make([]domain.Entry, len(legs))
	copy(sorted, legs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount.GreaterThan(sorted[j].Amount)
	})
	parts := make([]string, 0, len(sorted))
	for _, e := range sorted {
		parts = append(parts, fmt.Sprintf("%s:%s", e.Subject, e.Amount.StringFixed(2)))
	}
	return strings.Join(parts, ", ")
}

func hasCarryForward(legs []domain.Entry) bool {
	for _, e := range legs {
		if e.Kind == domain.LegCarryForward {
			return true
		}
	}
	return false
}

func distinctRemarks(legs []domain.Entry) []string {
	seen := make(map[string]struct{}, len(legs))
	out := make([]string, 0, len(legs))
	for _, e := range legs {
		if _, ok := seen[e.Remarks]; ok {
			continue
		}
		seen[e.Remarks] = struct{}{}
		out = append(out, e.Remarks)
	}
	sort.Strings(out)
	return out
}
