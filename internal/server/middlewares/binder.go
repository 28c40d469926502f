package middlewares

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type binder struct {
	echo.DefaultBinder
	methodsWithBody map[string]bool
}

// NewBinder returns a binder that reads the body of POST, PUT and PATCH requests
// and the query parameters of the other ones.
// Path parameters are never bound, handlers read them explicitly.
func NewBinder() echo.Binder {
	return &binder{
		methodsWithBody: map[string]bool{
			http.MethodPost:  true,
			http.MethodPatch: true,
			http.MethodPut:   true,
		},
	}
}

// Bind implements the echo.Bind interface.
func (b *binder) Bind(i any, c echo.Context) error {
	req := c.Request()
	if !b.methodsWithBody[req.Method] {
		return b.BindQueryParams(c, i)
	}

	if req.ContentLength == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Request body can't be empty")
	}
	return b.BindBody(c, i)
}
