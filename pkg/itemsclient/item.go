package itemsclient

import (
	"time"

	"github.com/shopspring/decimal"
)

type (
	// An Item is a named value stored by the server.
	Item struct {
		ID        int64           `json:"id"`
		Name      string          `json:"name"`
		Value     decimal.Decimal `json:"value"`
		Note      *string         `json:"note"`
		CreatedAt time.Time       `json:"created_at"`
		UpdatedAt *time.Time      `json:"updated_at"`
	}

	// ItemParams are the fields sent to create or replace an item.
	ItemParams struct {
		Name  string          `json:"name"`
		Value decimal.Decimal `json:"value"`
		Note  *string         `json:"note,omitempty"`
	}

	// An ItemPatch holds the fields of a partial update.
	// Nil fields are not sent. Note is sent as null when ClearNote is true.
	ItemPatch struct {
		Name      *string
		Value     *decimal.Decimal
		Note      *string
		ClearNote bool
	}

	// A SearchQuery filters the items returned by a search.
	SearchQuery struct {
		Name     string
		MinValue *decimal.Decimal
		MaxValue *decimal.Decimal
		Limit    int
	}

	// Stats aggregates the value column.
	Stats struct {
		Count int64            `json:"count"`
		Sum   decimal.Decimal  `json:"sum"`
		Min   *decimal.Decimal `json:"min"`
		Max   *decimal.Decimal `json:"max"`
		Avg   *decimal.Decimal `json:"avg"`
	}

	// A Schema describes the items table.
	Schema struct {
		Table   string   `json:"table"`
		Columns []Column `json:"columns"`
	}

	// A Column describes a table column.
	Column struct {
		Name       string `json:"name"`
		Type       string `json:"type"`
		Nullable   bool   `json:"nullable"`
		PrimaryKey bool   `json:"primary_key"`
		Unique     bool   `json:"unique"`
	}

	// Health is the result of a health check.
	Health struct {
		Status string    `json:"status"`
		Time   time.Time `json:"time"`
		Error  string    `json:"error"`
	}
)

func (p ItemPatch) body() map[string]any {
	body := map[string]any{}
	if p.Name != nil {
		body["name"] = *p.Name
	}
	if p.Value != nil {
		body["value"] = *p.Value
	}
	if p.Note != nil {
		body["note"] = *p.Note
	}
	if p.ClearNote {
		body["note"] = nil
	}
	return body
}
