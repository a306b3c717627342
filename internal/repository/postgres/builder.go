package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/types"
)

// queryBuilder accumulates WHERE conditions with positional placeholders.
// Conditions use a single %d verb for the argument position, e.g.
// "country_code = $%d".
type queryBuilder struct {
	conditions []string
	args       []interface{}
}

func (qb *queryBuilder) add(condition string, value interface{}) {
	qb.args = append(qb.args, value)
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, len(qb.args)))
}

func (qb *queryBuilder) addIn(column string, values []string) {
	if len(values) == 0 {
		return
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		qb.args = append(qb.args, v)
		placeholders[i] = fmt.Sprintf("$%d", len(qb.args))
	}
	qb.conditions = append(qb.conditions, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
}

func (qb *queryBuilder) addTimeRange(tr *types.TimeRangeFilter) {
	if tr == nil {
		return
	}
	if tr.StartTime != nil {
		qb.add("created_at >= $%d", *tr.StartTime)
	}
	if tr.EndTime != nil {
		qb.add("created_at <= $%d", *tr.EndTime)
	}
}

func (qb *queryBuilder) where() string {
	if len(qb.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(qb.conditions, " AND ")
}

// orderBy renders a safe ORDER BY clause. Sort columns are whitelisted since
// they originate from query parameters.
func orderBy(sort, order string, allowed map[string]bool) string {
	if !allowed[sort] {
		sort = types.FILTER_DEFAULT_SORT
	}
	if order != types.OrderAsc && order != types.OrderDesc {
		order = types.FILTER_DEFAULT_ORDER
	}
	return fmt.Sprintf(" ORDER BY %s %s", sort, order)
}

// paginate renders LIMIT/OFFSET for bounded queries; unlimited filters get
// neither
func paginate(f interface {
	IsUnlimited() bool
	GetLimit() int
	GetOffset() int
}) string {
	if f.IsUnlimited() {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", f.GetLimit(), f.GetOffset())
}

// requireRowAffected turns a zero-row update into a not found error so stale
// in-memory models surface instead of silently updating nothing
func requireRowAffected(result sql.Result, entity, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to update %s", entity).
			Mark(ierr.ErrDatabase)
	}
	if rows == 0 {
		return ierr.NewError(entity + " not found").
			WithHintf("The %s %s was not found", entity, id).
			WithReportableDetails(map[string]any{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
