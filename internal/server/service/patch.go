package service

import (
	"strings"

	"github.com/mdouchement/itemstore/internal/apierror"
	"github.com/mdouchement/itemstore/internal/model"
	"github.com/shopspring/decimal"
	"github.com/valyala/fastjson"
)

// ParsePatch parses the body of a partial update.
// An absent field is left untouched whereas a null note clears it.
func ParsePatch(body []byte) (model.ItemPatch, error) {
	var patch model.ItemPatch

	var p fastjson.Parser
	v, err := p.ParseBytes(body)
	if err != nil {
		return patch, apierror.InvalidParameters("Could not parse JSON body.")
	}
	o, err := v.Object()
	if err != nil {
		return patch, apierror.InvalidParameters("JSON body must be an object.")
	}

	if field := o.Get("name"); field != nil {
		raw, err := field.StringBytes()
		if err != nil {
			return patch, apierror.InvalidParameters("name must be a string")
		}

		name := strings.TrimSpace(string(raw))
		if name == "" {
			return patch, apierror.InvalidParameters("name is required")
		}
		patch.Name = &name
	}

	if field := o.Get("value"); field != nil {
		value, ok := number(field)
		if !ok {
			return patch, apierror.InvalidParameters("value must be a number")
		}

		value = model.RoundValue(value)
		if !model.ValidValue(value) {
			return patch, apierror.InvalidParameters("value must be greater than 0 and lower than 10000000000")
		}
		patch.Value = &value
	}

	if field := o.Get("note"); field != nil {
		patch.NoteSet = true

		switch field.Type() {
		case fastjson.TypeNull:
		case fastjson.TypeString:
			note := string(field.GetStringBytes())
			patch.Note = &note
		default:
			return patch, apierror.InvalidParameters("note must be a string or null")
		}
	}

	if patch.Empty() {
		return patch, apierror.InvalidParameters("At least one of name, value or note is required.")
	}
	return patch, nil
}

func number(v *fastjson.Value) (decimal.Decimal, bool) {
	var s string
	switch v.Type() {
	case fastjson.TypeNumber:
		s = v.String()
	case fastjson.TypeString:
		s = string(v.GetStringBytes())
	default:
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	return d, err == nil
}
