package table

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/rewired-gh/peakstats/internal/models"
)

// FilterEquals returns the rows whose column equals value, in their original order.
// The value is converted to the column's type before comparison.
func (t *Table) FilterEquals(column string, value interface{}) (*Table, error) {
	return t.FilterMultiple(map[string]interface{}{column: value})
}

// FilterMultiple returns the rows matching every condition (column -> value).
// An empty condition set returns a copy of the whole table.
func (t *Table) FilterMultiple(conditions map[string]interface{}) (*Table, error) {
	names := t.df.Names()
	filters := make([]dataframe.F, 0, len(conditions))
	for column, value := range conditions {
		if !models.HasColumn(names, column) {
			return nil, &models.ColumnNotFoundError{Column: column}
		}
		filters = append(filters, dataframe.F{
			Colname:    column,
			Comparator: series.Eq,
			Comparando: value,
		})
	}
	if len(filters) == 0 {
		return &Table{source: t.source, df: t.df.Copy()}, nil
	}

	sub := t.df.FilterAggregation(dataframe.And, filters...)
	if sub.Err != nil {
		return nil, fmt.Errorf("failed to filter: %w", sub.Err)
	}
	return &Table{source: t.source, df: sub}, nil
}
