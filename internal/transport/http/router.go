package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/clientes_api/internal/authz"
	"github.com/Skotchmaster/clientes_api/internal/handlers"
	"github.com/Skotchmaster/clientes_api/internal/jwtmiddleware"
	"github.com/Skotchmaster/clientes_api/internal/logging"
	authmw "github.com/Skotchmaster/clientes_api/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/clientes_api/internal/middleware/logging"
	"github.com/Skotchmaster/clientes_api/internal/tokens"
)

type Deps struct {
	Logger          *slog.Logger
	Tokens          *tokens.Issuer
	Policy          authz.Policy
	AuthHandler     *handlers.AuthHandler
	ClientesHandler *handlers.ClientesHandler
	HealthHandler   *handlers.HealthHandler
}

// New builds the echo instance with the full middleware stack and routes.
func New(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(d.Logger))
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit("1M"))

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", d.HealthHandler.Live)
	e.GET("/health/ready", d.HealthHandler.Ready)

	e.POST("/register-test", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)

	bearer := jwtmiddleware.Bearer(d.Tokens)
	guard := func(op authz.Operation) []echo.MiddlewareFunc {
		return authmw.Guard(d.Policy, bearer, op)
	}

	e.GET("/clientes", d.ClientesHandler.List, guard(authz.ListClientes)...)
	e.POST("/clientes", d.ClientesHandler.Create, guard(authz.CreateCliente)...)
	e.GET("/clientes/search", d.ClientesHandler.Search, guard(authz.SearchClientes)...)
	e.DELETE("/clientes/:id", d.ClientesHandler.Delete, guard(authz.DeleteCliente)...)
}

// ErrorHandler renders every error as {"error": message}. Anything that is
// not an *echo.HTTPError becomes a generic 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "Error interno del servidor"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else if code < http.StatusInternalServerError {
			msg = http.StatusText(code)
		}
	} else {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, echo.Map{"error": msg})
	}
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("error_response_failed", "error", err)
	}
}
