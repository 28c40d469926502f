package service

import (
	"strconv"
	"strings"

	"github.com/mdouchement/itemstore/internal/apierror"
	"github.com/mdouchement/itemstore/internal/model"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ItemParams are the fields used to create or replace an item.
type ItemParams struct {
	Name  string           `json:"name"  validate:"required"`
	Value *decimal.Decimal `json:"value" validate:"required,gt=0,lt=10000000000"`
	Note  *string          `json:"note"`
}

// Item returns the normalized item described by the params.
func (p ItemParams) Item() (*model.Item, error) {
	if p.Value == nil {
		return nil, apierror.InvalidParameters("value is required")
	}

	m := model.NewItem(p.Name, *p.Value, p.Note)
	if m.Name == "" {
		return nil, apierror.InvalidParameters("name is required")
	}
	if !model.ValidValue(m.Value) {
		return nil, apierror.InvalidParameters("value must be greater than 0 and lower than 10000000000")
	}
	return m, nil
}

// SearchParams are the query parameters of a search.
type SearchParams struct {
	Name     string `query:"name"`
	MinValue string `query:"min_value"`
	MaxValue string `query:"max_value"`
	Limit    string `query:"limit"`
}

// Model returns the validated search parameters.
func (p SearchParams) Model() (model.SearchParams, error) {
	params := model.SearchParams{
		Name:  strings.TrimSpace(p.Name),
		Limit: model.DefaultSearchLimit,
	}

	var err error
	if params.MinValue, err = bound("min_value", p.MinValue); err != nil {
		return params, err
	}
	if params.MaxValue, err = bound("max_value", p.MaxValue); err != nil {
		return params, err
	}

	if p.Limit != "" {
		params.Limit, err = strconv.Atoi(p.Limit)
		if err != nil || params.Limit < 1 || params.Limit > model.MaxSearchLimit {
			return params, apierror.InvalidParameters("limit must be an integer between 1 and 1000")
		}
	}

	return params, nil
}

func bound(name, s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, apierror.InvalidParameters(name + " must be a number")
	}
	return &d, nil
}

// ParseValue parses a decimal value from a user input.
func ParseValue(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	return d, errors.Wrap(err, "value must be number")
}
