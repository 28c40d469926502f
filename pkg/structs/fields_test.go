package structs_test

import (
	"testing"

	"github.com/mdouchement/itemstore/pkg/structs"
	"github.com/stretchr/testify/assert"
)

type record struct {
	ID    int64
	Name  string
	Value float64
}

func TestGetField(t *testing.T) {
	v, err := structs.GetField(&record{Name: "apple"}, "Name")
	assert.NoError(t, err)
	assert.Equal(t, "apple", v)

	_, err = structs.GetField(&record{}, "Unknown")
	assert.Error(t, err)
}

func TestProject(t *testing.T) {
	r := &record{ID: 1, Name: "apple", Value: 4.2}

	p, err := structs.Project(r, "Name", "Value")
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"Name": "apple", "Value": 4.2}, p)

	p, err = structs.Project(r)
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"ID": int64(1), "Name": "apple", "Value": 4.2}, p)

	_, err = structs.Project(r, "Nope")
	assert.Error(t, err)
}
