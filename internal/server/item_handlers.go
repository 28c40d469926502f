package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/itemstore/internal/apierror"
	"github.com/mdouchement/itemstore/internal/database"
	"github.com/mdouchement/itemstore/internal/server/serializer"
	"github.com/mdouchement/itemstore/internal/server/service"
)

// item contains all item handlers.
type item struct {
	db database.Client
}

///// List
////
//

// List returns all the items ordered by id.
func (h *item) List(c echo.Context) error {
	items, err := h.db.FindItems()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Items(items))
}

///// Create
////
//

// Create inserts a new item.
func (h *item) Create(c echo.Context) error {
	params, err := itemParams(c)
	if err != nil {
		return err
	}

	m, err := params.Item()
	if err != nil {
		return err
	}

	if err = h.db.CreateItem(m); err != nil {
		return failure(h.db, err)
	}

	return c.JSON(http.StatusCreated, serializer.Item(m))
}

///// Show
////
//

// Show returns the requested item.
func (h *item) Show(c echo.Context) error {
	id, err := itemID(c)
	if err != nil {
		return err
	}

	m, err := h.db.FindItem(id)
	if err != nil {
		return failure(h.db, err)
	}

	return c.JSON(http.StatusOK, serializer.Item(m))
}

///// Replace
////
//

// Replace replaces all the mutable fields of the requested item.
// An absent note is cleared.
func (h *item) Replace(c echo.Context) error {
	id, err := itemID(c)
	if err != nil {
		return err
	}

	params, err := itemParams(c)
	if err != nil {
		return err
	}

	m, err := params.Item()
	if err != nil {
		return err
	}
	m.ID = id

	if err = h.db.ReplaceItem(m); err != nil {
		return failure(h.db, err)
	}

	return c.JSON(http.StatusOK, serializer.Item(m))
}

///// Patch
////
//

// Patch updates only the given fields of the requested item.
func (h *item) Patch(c echo.Context) error {
	id, err := itemID(c)
	if err != nil {
		return err
	}

	var body json.RawMessage
	if err = bind(c, &body, "Could not get item params."); err != nil {
		return err
	}

	patch, err := service.ParsePatch(body)
	if err != nil {
		return err
	}

	m, err := h.db.PatchItem(id, patch)
	if err != nil {
		return failure(h.db, err)
	}

	return c.JSON(http.StatusOK, serializer.Item(m))
}

///// Delete
////
//

// Delete removes the requested item.
func (h *item) Delete(c echo.Context) error {
	id, err := itemID(c)
	if err != nil {
		return err
	}

	if err = h.db.DeleteItem(id); err != nil {
		return failure(h.db, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"deleted": id,
	})
}

///// Search
////
//

// Search filters the items by name and value.
func (h *item) Search(c echo.Context) error {
	var params service.SearchParams
	if err := c.Bind(&params); err != nil {
		return apierror.InvalidParameters("Could not get search params.")
	}

	search, err := params.Model()
	if err != nil {
		return err
	}

	items, err := h.db.SearchItems(search)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Items(items))
}

//
//
//

func itemID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.InvalidParameters("Invalid item id.")
	}
	return id, nil
}

func itemParams(c echo.Context) (params service.ItemParams, err error) {
	if err = bind(c, &params, "Could not get item params."); err != nil {
		return params, err
	}
	return params, c.Validate(&params)
}

// bind keeps the binder error of an empty body, any other failure is rendered with message.
func bind(c echo.Context, i any, message string) error {
	if err := c.Bind(i); err != nil {
		if c.Request().ContentLength == 0 {
			return err
		}
		return apierror.InvalidParameters(message)
	}
	return nil
}
