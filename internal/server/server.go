package server

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdouchement/itemstore/internal/apierror"
	"github.com/mdouchement/itemstore/internal/database"
	"github.com/mdouchement/itemstore/internal/server/middlewares"
	"github.com/sirupsen/logrus"
)

// A Controller is an Iversion Of Control pattern used to init the server package.
type Controller struct {
	Version  string
	Database database.Client
	Logger   *logrus.Logger
}

// EchoEngine instantiates the wep server.
func EchoEngine(ctrl Controller) *echo.Echo {
	if ctrl.Logger == nil {
		ctrl.Logger = logrus.StandardLogger()
	}

	engine := echo.New()
	engine.Use(middleware.Recover())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))
	engine.Use(middleware.Gzip())

	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${status}] ${method} ${uri} (${bytes_in}) ${latency_human}\n",
		Output: ctrl.Logger.Writer(),
	}))
	engine.Binder = middlewares.NewBinder()
	engine.Validator = middlewares.NewValidator()
	engine.Renderer = NewRenderer()
	// Error handler
	engine.HTTPErrorHandler = middlewares.HTTPErrorHandler(ctrl.Logger)

	////////////
	// Router //
	////////////

	router := engine.Group("")

	//
	// generic handlers
	//
	page := &page{}
	router.GET("/", page.Home)
	router.GET("/hello", page.Hello)
	router.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	})

	//
	// admin handlers
	//
	admin := &admin{
		db:     ctrl.Database,
		logger: ctrl.Logger,
	}
	router.GET("/health", admin.Health)
	router.GET("/init", admin.Init)
	router.POST("/reset", admin.Reset)
	router.POST("/seed", admin.Seed)
	router.GET("/stats", admin.Stats)
	router.GET("/schema", admin.Schema)

	//
	// item handlers
	//
	item := &item{
		db: ctrl.Database,
	}
	router.GET("/items", item.List)
	router.POST("/items", item.Create)
	router.GET("/items/:id", item.Show)
	router.PUT("/items/:id", item.Replace)
	router.PATCH("/items/:id", item.Patch)
	router.DELETE("/items/:id", item.Delete)
	router.GET("/search", item.Search)

	//
	// legacy handlers
	//
	legacy := &legacy{
		db: ctrl.Database,
	}
	router.GET("/add", legacy.Add)
	router.GET("/list", legacy.List)

	return engine
}

// PrintRoutes prints the Echo engin exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}

// failure converts database errors to rendered API errors.
func failure(db database.Client, err error) error {
	switch {
	case db.IsNotFound(err):
		return apierror.NotFound("Item not found.")
	case db.IsAlreadyExists(err):
		return apierror.AlreadyExists("An item with this name already exists.")
	case db.IsConstraintViolation(err):
		return apierror.ConstraintViolation("Item does not satisfy the table constraints.")
	}
	return err
}
