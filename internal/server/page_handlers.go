package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// A Feature is displayed on the home page.
type Feature struct {
	Name        string
	Description string
}

// Features are the features listed on the home page.
var Features = []Feature{
	{Name: "Zero setup", Description: "Everything fits in a single binary plus one embedded HTML template."},
	{Name: "Go templates", Description: "Insert Go data into HTML using familiar {{ }} actions."},
	{Name: "Reusable layout", Description: "Keep your HTML organized with sections for header, content, and footer."},
}

// page contains the static and templated handlers.
type page struct{}

// Home renders the HTML page with the features list and the current time.
func (h *page) Home(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", echo.Map{
		"Title":       "itemstore",
		"Features":    Features,
		"CurrentTime": time.Now().UTC(),
	})
}

// Hello greets the world.
func (h *page) Hello(c echo.Context) error {
	return c.String(http.StatusOK, "Hello, World!")
}
