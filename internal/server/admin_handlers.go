package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/itemstore/internal/apierror"
	"github.com/mdouchement/itemstore/internal/database"
	"github.com/mdouchement/itemstore/internal/server/serializer"
	"github.com/mdouchement/itemstore/internal/server/service"
	"github.com/sirupsen/logrus"
)

// admin contains the handlers managing the items table.
type admin struct {
	db     database.Client
	logger logrus.FieldLogger
}

// Health performs a trivial query on the database.
func (h *admin) Health(c echo.Context) error {
	now, err := h.db.Ping()
	if err != nil {
		h.logger.WithError(err).Warn("Health check failed")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status": "error",
			"error":  err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
		"time":   now.UTC(),
	})
}

// Init creates the items table if it does not exist.
func (h *admin) Init(c echo.Context) error {
	if err := h.db.Init(); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  "ok",
		"message": "table ready",
	})
}

// Reset drops and recreates the items table.
func (h *admin) Reset(c echo.Context) error {
	if err := h.db.Reset(); err != nil {
		return err
	}
	h.logger.Info("Items table reset")

	return c.JSON(http.StatusOK, echo.Map{
		"status":  "ok",
		"message": "table reset",
	})
}

///// Seed
////
//

// Seed inserts the given items or the demo ones when the body is empty.
func (h *admin) Seed(c echo.Context) error {
	var params service.SeedParams
	if c.Request().ContentLength != 0 {
		if err := bind(c, &params, "Could not get seed params."); err != nil {
			return err
		}
		if err := c.Validate(&params); err != nil {
			return err
		}
	}

	if replace := c.QueryParam("replace"); replace != "" {
		v, err := strconv.ParseBool(replace)
		if err != nil {
			return apierror.InvalidParameters("replace must be a boolean")
		}
		params.Replace = params.Replace || v
	}

	items, err := params.Models()
	if err != nil {
		return err
	}

	n, err := h.db.Seed(items, params.Replace)
	if err != nil {
		return failure(h.db, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"affected": n,
	})
}

// Stats aggregates the value column.
func (h *admin) Stats(c echo.Context) error {
	stats, err := h.db.ItemStats()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Stats(stats))
}

// Schema returns the column metadata of the items table.
func (h *admin) Schema(c echo.Context) error {
	schema, err := h.db.Schema()
	if err != nil {
		if h.db.IsNotFound(err) {
			return apierror.NotFound("Items table does not exist.")
		}
		return err
	}

	return c.JSON(http.StatusOK, serializer.Schema(schema))
}
