package structs

import (
	"github.com/oleiade/reflections"
	"github.com/pkg/errors"
)

// GetField returns the value of the provided obj field. obj can whether be a structure or pointer to structure.
func GetField(obj any, name string) (any, error) {
	v, err := reflections.GetField(obj, name)
	return v, errors.Wrapf(err, "field %s", name)
}

// Project returns the given fields of obj keyed by field name.
// All the exported fields are returned when no field is given.
func Project(obj any, fields ...string) (map[string]any, error) {
	if len(fields) == 0 {
		var err error
		fields, err = reflections.Fields(obj)
		if err != nil {
			return nil, errors.Wrap(err, "could not list fields")
		}
	}

	projection := make(map[string]any, len(fields))
	for _, name := range fields {
		v, err := GetField(obj, name)
		if err != nil {
			return nil, err
		}
		projection[name] = v
	}
	return projection, nil
}
