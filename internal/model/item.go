package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// ValuePrecision is the number of fractional digits kept for an item value.
	ValuePrecision = 2
	// ValueDigits is the total number of digits of an item value (NUMERIC(12,2)).
	ValueDigits = 12
)

// MaxValue is the exclusive upper bound of an item value.
var MaxValue = decimal.New(1, ValueDigits-ValuePrecision)

// An Item represents a database record and the rendered API response.
type Item struct {
	ID        int64           `json:"id"         gorm:"primaryKey;autoIncrement"`
	Name      string          `json:"name"       gorm:"type:text;not null;uniqueIndex:idx_items_name"`
	Value     decimal.Decimal `json:"value"      gorm:"type:numeric(12,2);not null;check:chk_items_value,value > 0"`
	Note      *string         `json:"note"       gorm:"type:text"`
	CreatedAt time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt *time.Time      `json:"updated_at" gorm:"autoUpdateTime:false"`
}

// TableName implements gorm's tabler interface.
func (Item) TableName() string {
	return TableItems
}

// NewItem returns a new item with a normalized name and value.
func NewItem(name string, value decimal.Decimal, note *string) *Item {
	return &Item{
		Name:  strings.TrimSpace(name),
		Value: RoundValue(value),
		Note:  note,
	}
}

// SetCreatedAt defines the item's creation date.
func (m *Item) SetCreatedAt(t time.Time) {
	m.CreatedAt = t
}

// SetUpdatedAt defines the item's last update date.
func (m *Item) SetUpdatedAt(t time.Time) {
	m.UpdatedAt = &t
}

// RoundValue rounds v to the stored precision.
func RoundValue(v decimal.Decimal) decimal.Decimal {
	return v.Round(ValuePrecision)
}

// ValidValue returns true if v satisfies the value column constraints.
func ValidValue(v decimal.Decimal) bool {
	return v.IsPositive() && v.LessThan(MaxValue)
}

// An ItemPatch holds the fields of a partial update.
// A nil field is left untouched. Note is cleared when NoteSet is true and Note is nil.
type ItemPatch struct {
	Name    *string
	Value   *decimal.Decimal
	Note    *string
	NoteSet bool
}

// Empty returns true if the patch does not change any field.
func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.Value == nil && !p.NoteSet
}

// Apply modifies m with the patched fields.
func (p ItemPatch) Apply(m *Item) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Value != nil {
		m.Value = *p.Value
	}
	if p.NoteSet {
		m.Note = p.Note
	}
}

// Columns returns the patched fields by column name.
func (p ItemPatch) Columns() map[string]any {
	columns := map[string]any{}
	if p.Name != nil {
		columns["name"] = *p.Name
	}
	if p.Value != nil {
		columns["value"] = *p.Value
	}
	if p.NoteSet {
		columns["note"] = p.Note
	}
	return columns
}
