package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/clientes_api/internal/logging"
	"github.com/Skotchmaster/clientes_api/internal/models"
	"github.com/Skotchmaster/clientes_api/internal/service"
	"github.com/Skotchmaster/clientes_api/internal/util"
)

type ClientesHandler struct {
	Clientes *service.ClienteService
}

type createClienteRequest struct {
	Nombre          string  `json:"nombre"`
	ApellidoPaterno *string `json:"apellido_paterno"`
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ClientesHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "clientes_list")

	rows, err := h.Clientes.List(ctx)
	if err != nil {
		l.Error("list_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, msgInternal)
	}
	if rows == nil {
		rows = []models.ClienteRow{}
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *ClientesHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "clientes_create")

	var req createClienteRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	id, err := h.Clientes.Create(ctx, req.Nombre, req.ApellidoPaterno)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_failed", "status", 400, "reason", "missing_nombre")
			return echo.NewHTTPError(http.StatusBadRequest, "Se requiere el nombre")
		}
		l.Error("create_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error al procesar la solicitud")
	}

	l.Info("create_success", "status", 201, "persona_id", id)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Cliente agregado exitosamente",
		"id":      id,
	})
}

func (h *ClientesHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "clientes_delete")

	id, err := strconv.ParseUint(c.Param("id"), 10, strconv.IntSize)
	if err != nil {
		l.Warn("delete_error", "status", 400, "id", c.Param("id"))
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}

	if err := h.Clientes.Delete(ctx, uint(id)); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("delete_failed", "status", 404, "persona_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "Cliente no encontrado")
		}
		l.Error("delete_failed", "status", 500, "persona_id", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, msgInternal)
	}

	l.Info("delete_success", "status", 200, "persona_id", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Cliente eliminado exitosamente"})
}

func (h *ClientesHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "clientes_search")

	q := c.QueryParam("q")
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, size, err := util.Page(page, size)
	if err != nil {
		l.Warn("search_failed", "status", 400, "reason", "page_out_of_range", "page", page, "size", size)
		return echo.NewHTTPError(http.StatusBadRequest, "Página fuera de rango")
	}

	total, docs, err := h.Clientes.Search(ctx, q, from, size)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, "Se requiere el parámetro q")
	case errors.Is(err, service.ErrSearchUnavailable):
		l.Warn("search_failed", "status", 503, "reason", "index_not_configured")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Búsqueda no disponible")
	default:
		l.Error("search_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, msgInternal)
	}

	if docs == nil {
		docs = []models.ClienteDoc{}
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "clientes": docs})
}
