package authmw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/clientes_api/internal/authz"
	"github.com/Skotchmaster/clientes_api/internal/jwtmiddleware"
	"github.com/Skotchmaster/clientes_api/internal/logging"
)

// RequireRole must run after jwtmiddleware.Bearer. It rejects with 403 any
// token whose rol is outside the allow-set of op.
func RequireRole(policy authz.Policy, op authz.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := jwtmiddleware.Claims(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token inválido o ausente")
			}
			if !policy.Allowed(op, claims.Rol) {
				logging.FromContext(c.Request().Context()).Warn("forbidden",
					"status", http.StatusForbidden,
					"operation", string(op),
					"rol", string(claims.Rol),
					"persona_id", claims.PersonaID,
				)
				return echo.NewHTTPError(http.StatusForbidden, "Permisos insuficientes")
			}
			return next(c)
		}
	}
}

// Guard returns the middleware chain for op: nothing for open operations,
// otherwise bearer verification followed by the role check.
func Guard(policy authz.Policy, bearer echo.MiddlewareFunc, op authz.Operation) []echo.MiddlewareFunc {
	if policy.IsOpen(op) {
		return nil
	}
	return []echo.MiddlewareFunc{bearer, RequireRole(policy, op)}
}
