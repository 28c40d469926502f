package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/itemstore/internal/apierror"
	"github.com/mdouchement/itemstore/internal/database"
	"github.com/mdouchement/itemstore/internal/model"
	"github.com/mdouchement/itemstore/internal/server/serializer"
	"github.com/mdouchement/itemstore/internal/server/service"
)

// legacy contains the plain-text handlers of the first demo.
type legacy struct {
	db database.Client
}

// Add inserts an item from the query parameters (e.g. ?name=foo&value=42).
func (h *legacy) Add(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("name"))
	value := c.QueryParam("value")
	if name == "" || value == "" {
		return c.String(http.StatusBadRequest, "error: need ?name=...&value=...\n")
	}

	v, err := service.ParseValue(value)
	if err != nil {
		return c.String(http.StatusBadRequest, "error: value must be number\n")
	}

	m := model.NewItem(name, v, nil)
	if !model.ValidValue(m.Value) {
		return c.String(http.StatusBadRequest, "error: value must be positive\n")
	}

	if err = h.db.CreateItem(m); err != nil {
		err = failure(h.db, err)
		if apierr, ok := err.(*apierror.APIError); ok {
			return c.String(apierror.StatusCode(apierr), "error: "+apierr.Error()+"\n")
		}
		return err
	}

	return c.String(http.StatusOK, "ok: inserted\n")
}

// List returns the items in a tab-separated plain-text payload.
func (h *legacy) List(c echo.Context) error {
	items, err := h.db.FindItems()
	if err != nil {
		return err
	}

	return c.String(http.StatusOK, serializer.TSV(items))
}
