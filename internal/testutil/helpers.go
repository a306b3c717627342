package testutil

import (
	"time"

	"github.com/samber/lo"

	"github.com/omnierp/taxengine/internal/types"
)

func containsString(values []string, value string) bool {
	return lo.Contains(values, value)
}

func matchesTimeRange(createdAt time.Time, tr *types.TimeRangeFilter) bool {
	if tr == nil {
		return true
	}
	if tr.StartTime != nil && createdAt.Before(*tr.StartTime) {
		return false
	}
	if tr.EndTime != nil && createdAt.After(*tr.EndTime) {
		return false
	}
	return true
}

func paginateItems[T any](items []T, f interface {
	IsUnlimited() bool
	GetLimit() int
	GetOffset() int
}) []T {
	if f == nil || f.IsUnlimited() {
		return items
	}

	offset := f.GetOffset()
	if offset >= len(items) {
		return nil
	}

	end := offset + f.GetLimit()
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
