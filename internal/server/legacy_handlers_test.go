package server_test

import (
	"net/http"
	"testing"

	"github.com/appleboy/gofight/v2"
	"github.com/stretchr/testify/assert"
)

func TestRequestLegacy(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	r.GET("/add").SetQuery(gofight.H{"name": " foo ", "value": "1.23"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.Equal(t, "ok: inserted\n", r.Body.String())
	})

	r.GET("/add").SetQuery(gofight.H{"name": "bar", "value": "42"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
	})

	r.GET("/list").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.Contains(t, r.HeaderMap.Get("Content-Type"), "text/plain")
		assert.Equal(t, "id\tname\tvalue\n1\tfoo\t1.23\n2\tbar\t42\n", r.Body.String())
	})
}

func TestRequestLegacy_Invalid(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	r.GET("/add").SetQuery(gofight.H{"name": "foo"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.Equal(t, "error: need ?name=...&value=...\n", r.Body.String())
	})

	r.GET("/add").SetQuery(gofight.H{"name": "foo", "value": "abc"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.Equal(t, "error: value must be number\n", r.Body.String())
	})

	r.GET("/add").SetQuery(gofight.H{"name": "foo", "value": "-2"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.Equal(t, "error: value must be positive\n", r.Body.String())
	})

	r.GET("/add").SetQuery(gofight.H{"name": "foo", "value": "1"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
	})

	r.GET("/add").SetQuery(gofight.H{"name": "foo", "value": "2"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusConflict, r.Code)
		assert.Equal(t, "error: An item with this name already exists.\n", r.Body.String())
	})

	r.GET("/list").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, "id\tname\tvalue\n1\tfoo\t1\n", r.Body.String())
	})
}
