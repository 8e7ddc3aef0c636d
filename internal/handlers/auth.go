package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/clientes_api/internal/logging"
	"github.com/Skotchmaster/clientes_api/internal/service"
)

const (
	msgInvalidBody = "Cuerpo de la solicitud inválido"
	msgInternal    = "Error interno del servidor"
)

type AuthHandler struct {
	Auth *service.AuthService
}

type registerRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Rol      string `json:"rol"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	id, err := h.Auth.Register(ctx, service.RegisterInput{
		Nombre:   req.Nombre,
		Email:    req.Email,
		Password: req.Password,
		Rol:      req.Rol,
	})
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidRole):
		l.Warn("register_failed", "status", 400, "reason", "invalid_rol", "rol", req.Rol)
		return echo.NewHTTPError(http.StatusBadRequest, "Rol inválido")
	case errors.Is(err, service.ErrValidation):
		l.Warn("register_failed", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, "Se requieren nombre, email y password")
	case errors.Is(err, service.ErrConflict):
		l.Warn("register_failed", "status", 409, "reason", "email_exists")
		return echo.NewHTTPError(http.StatusConflict, "El email ya está registrado")
	default:
		l.Error("register_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, msgInternal)
	}

	l.Info("register_success", "status", 201, "persona_id", id)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Usuario registrado exitosamente",
		"id":      id,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	token, rol, err := h.Auth.Login(ctx, req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrValidation):
		l.Warn("login_failed", "status", 400, "reason", "missing_fields")
		return echo.NewHTTPError(http.StatusBadRequest, "Se requieren email y password")
	case errors.Is(err, service.ErrInvalidCredentials):
		l.Warn("login_failed", "status", 401, "reason", "invalid_credentials")
		return echo.NewHTTPError(http.StatusUnauthorized, "Email o contraseña incorrectos")
	default:
		l.Error("login_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, msgInternal)
	}

	l.Info("login_successful", "rol", string(rol))
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token,
		"rol":          rol,
	})
}
