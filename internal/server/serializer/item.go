package serializer

import (
	"fmt"
	"strings"
	"time"

	"github.com/mdouchement/itemstore/internal/model"
)

// Item serializes the render of an item.
func Item(m *model.Item) map[string]any {
	return map[string]any{
		"id":         m.ID,
		"name":       m.Name,
		"value":      m.Value,
		"note":       m.Note,
		"created_at": m.CreatedAt.UTC(),
		"updated_at": utc(m.UpdatedAt),
	}
}

// Items serializes the render of several items.
func Items(items []*model.Item) []map[string]any {
	r := make([]map[string]any, 0, len(items))
	for _, m := range items {
		r = append(r, Item(m))
	}
	return r
}

// Stats serializes the aggregates of the value column.
func Stats(m *model.Stats) map[string]any {
	return map[string]any{
		"count": m.Count,
		"sum":   m.Sum,
		"min":   m.Min,
		"max":   m.Max,
		"avg":   m.Avg,
	}
}

// Schema serializes the column metadata of the items table.
func Schema(m *model.Schema) map[string]any {
	columns := make([]map[string]any, 0, len(m.Columns))
	for _, c := range m.Columns {
		columns = append(columns, map[string]any{
			"name":        c.Name,
			"type":        c.Type,
			"nullable":    c.Nullable,
			"primary_key": c.PrimaryKey,
			"unique":      c.Unique,
		})
	}

	return map[string]any{
		"table":   m.Table,
		"columns": columns,
	}
}

// TSV serializes the items as tab-separated values with a header line.
func TSV(items []*model.Item) string {
	var b strings.Builder
	b.WriteString("id\tname\tvalue\n")
	for _, m := range items {
		fmt.Fprintf(&b, "%d\t%s\t%s\n", m.ID, m.Name, m.Value)
	}
	return b.String()
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	v := t.UTC()
	return &v
}
