package jwtmiddleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/clientes_api/internal/logging"
	"github.com/Skotchmaster/clientes_api/internal/tokens"
)

const ContextKey = "user"

// Bearer verifies the Authorization: Bearer token with the issuer's key.
// Missing, malformed or expired tokens stop the request with 401.
func Bearer(issuer *tokens.Issuer) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ContextKey,
		TokenLookup: "header:Authorization:Bearer ",
		KeyFunc:     issuer.KeyFunc,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(tokens.AccessClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logging.FromContext(c.Request().Context()).Warn("auth_failed",
				"status", http.StatusUnauthorized,
				"reason", err.Error(),
			)
			return echo.NewHTTPError(http.StatusUnauthorized, "Token inválido o ausente")
		},
	})
}

// Claims returns the access claims stored by Bearer.
func Claims(c echo.Context) (*tokens.AccessClaims, bool) {
	token, ok := c.Get(ContextKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, false
	}
	claims, ok := token.Claims.(*tokens.AccessClaims)
	return claims, ok
}
