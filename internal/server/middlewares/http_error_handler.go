package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mdouchement/itemstore/internal/apierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// HTTPErrorHandler returns a middleware that formats rendered errors.
// Internal errors are logged with an id also sent to the client.
func HTTPErrorHandler(logger logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var apierr *apierror.APIError
		var httperr *echo.HTTPError

		switch {
		case errors.As(err, &apierr):
			status := apierror.StatusCode(apierr)
			if status < 500 {
				_ = c.JSON(status, apierr)
				return
			}

			internal(logger, err, c)
		case errors.As(err, &httperr):
			if httperr.Internal != nil {
				logger.Debugf("Error [ECHO]: %s", httperr.Internal)
			}
			_ = c.JSON(httperr.Code, echo.Map{
				"error": echo.Map{
					"message": httperr.Message,
				},
			})
		default:
			internal(logger, err, c)
		}
	}
}

func internal(logger logrus.FieldLogger, err error, c echo.Context) {
	id := uuid.Must(uuid.NewV4()).String()
	logger.WithField("error_id", id).Errorf("Error [%s]: %+v", id, err)

	_ = c.JSON(http.StatusInternalServerError, echo.Map{
		"error": echo.Map{
			"message": fmt.Sprintf("Unexpected error (id: %s)", id),
		},
	})
}
