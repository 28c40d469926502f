package model_test

import (
	"testing"

	"github.com/mdouchement/itemstore/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewItem(t *testing.T) {
	item := model.NewItem("  apple ", decimal.RequireFromString("1.005"), nil)

	assert.Equal(t, "apple", item.Name)
	assert.Equal(t, "1.01", item.Value.StringFixed(2))
	assert.Nil(t, item.Note)
}

func TestValidValue(t *testing.T) {
	assert.True(t, model.ValidValue(decimal.RequireFromString("0.01")))
	assert.True(t, model.ValidValue(decimal.RequireFromString("9999999999.99")))
	assert.False(t, model.ValidValue(decimal.Zero))
	assert.False(t, model.ValidValue(decimal.RequireFromString("-3")))
	assert.False(t, model.ValidValue(decimal.RequireFromString("10000000000")))
}

func TestItemPatch(t *testing.T) {
	note := "keep"
	item := &model.Item{Name: "a", Value: decimal.NewFromInt(1), Note: &note}

	var patch model.ItemPatch
	assert.True(t, patch.Empty())
	assert.Empty(t, patch.Columns())

	v := decimal.NewFromInt(7)
	patch.Value = &v
	assert.False(t, patch.Empty())
	patch.Apply(item)
	assert.Equal(t, "a", item.Name)
	assert.Equal(t, "7", item.Value.String())
	assert.Equal(t, "keep", *item.Note)

	patch = model.ItemPatch{NoteSet: true}
	assert.False(t, patch.Empty())
	assert.Equal(t, map[string]any{"note": (*string)(nil)}, patch.Columns())
	patch.Apply(item)
	assert.Nil(t, item.Note)
}

func TestNewStats(t *testing.T) {
	stats := model.NewStats(nil)
	assert.EqualValues(t, 0, stats.Count)
	assert.True(t, stats.Sum.IsZero())
	assert.Nil(t, stats.Min)
	assert.Nil(t, stats.Max)
	assert.Nil(t, stats.Avg)

	stats = model.NewStats([]*model.Item{
		{Value: decimal.RequireFromString("10")},
		{Value: decimal.RequireFromString("2.5")},
		{Value: decimal.RequireFromString("1")},
	})
	assert.EqualValues(t, 3, stats.Count)
	assert.Equal(t, "13.5", stats.Sum.String())
	assert.Equal(t, "1", stats.Min.String())
	assert.Equal(t, "10", stats.Max.String())
	assert.Equal(t, "4.5", stats.Avg.String())
}

func TestSearchParamsMatchValue(t *testing.T) {
	min := decimal.NewFromInt(50)
	p := model.SearchParams{MinValue: &min}

	assert.True(t, p.MatchValue(&model.Item{Value: decimal.NewFromInt(50)}))
	assert.False(t, p.MatchValue(&model.Item{Value: decimal.RequireFromString("49.99")}))

	max := decimal.NewFromInt(60)
	p.MaxValue = &max
	assert.True(t, p.MatchValue(&model.Item{Value: decimal.NewFromInt(60)}))
	assert.False(t, p.MatchValue(&model.Item{Value: decimal.RequireFromString("60.01")}))
}
