package service

import (
	"github.com/mdouchement/itemstore/internal/apierror"
	"github.com/mdouchement/itemstore/internal/model"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// SeedParams are used to bulk insert items.
type SeedParams struct {
	Items   []ItemParams `json:"items"   validate:"dive"`
	Replace bool         `json:"replace"`
}

// Models returns the normalized items to insert.
// The demo items are returned when no item is given.
func (p SeedParams) Models() ([]*model.Item, error) {
	if len(p.Items) == 0 {
		return DemoItems(), nil
	}

	items := make([]*model.Item, 0, len(p.Items))
	names := map[string]bool{}
	for _, params := range p.Items {
		m, err := params.Item()
		if err != nil {
			return nil, err
		}
		if names[m.Name] {
			return nil, apierror.InvalidParameters("duplicated name: " + m.Name)
		}

		names[m.Name] = true
		items = append(items, m)
	}
	return items, nil
}

// DemoItems returns the items inserted by a seed without payload.
func DemoItems() []*model.Item {
	note := func(s string) *string {
		return &s
	}

	return []*model.Item{
		model.NewItem("apple", decimal.RequireFromString("1.20"), note("red and crunchy")),
		model.NewItem("banana", decimal.RequireFromString("0.50"), nil),
		model.NewItem("cherry", decimal.RequireFromString("12.00"), note("seasonal")),
		model.NewItem("durian", decimal.RequireFromString("55.90"), note("smells strong")),
		model.NewItem("elderberry", decimal.RequireFromString("75.00"), nil),
	}
}

type seedFile struct {
	Replace bool `yaml:"replace"`
	Items   []struct {
		Name  string  `yaml:"name"`
		Value string  `yaml:"value"`
		Note  *string `yaml:"note"`
	} `yaml:"items"`
}

// ParseSeedFile parses a YAML seed file.
//
//	replace: true
//	items:
//	  - name: apple
//	    value: 1.20
//	    note: red and crunchy
func ParseSeedFile(data []byte) (SeedParams, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return SeedParams{}, errors.Wrap(err, "could not parse seed file")
	}

	params := SeedParams{
		Replace: file.Replace,
		Items:   make([]ItemParams, 0, len(file.Items)),
	}
	for _, item := range file.Items {
		value, err := ParseValue(item.Value)
		if err != nil {
			return SeedParams{}, errors.Wrapf(err, "item %s", item.Name)
		}

		params.Items = append(params.Items, ItemParams{
			Name:  item.Name,
			Value: &value,
			Note:  item.Note,
		})
	}
	return params, nil
}
