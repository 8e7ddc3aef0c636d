package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"github.com/Skotchmaster/clientes_api/internal/authz"
	"github.com/Skotchmaster/clientes_api/internal/db/dbtest"
	"github.com/Skotchmaster/clientes_api/internal/events"
	"github.com/Skotchmaster/clientes_api/internal/handlers"
	"github.com/Skotchmaster/clientes_api/internal/logging"
	"github.com/Skotchmaster/clientes_api/internal/repo"
	"github.com/Skotchmaster/clientes_api/internal/search"
	"github.com/Skotchmaster/clientes_api/internal/service"
	"github.com/Skotchmaster/clientes_api/internal/tokens"
)

type RouterSuite struct {
	suite.Suite
	e        *echo.Echo
	recorder *events.Recorder
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	gdb := dbtest.Open(s.T())
	r := repo.New(gdb, time.Second)
	issuer := tokens.NewIssuer([]byte("test-secret"), 15*time.Minute)
	s.recorder = &events.Recorder{}

	s.e = New(&Deps{
		Logger: logging.Nop(),
		Tokens: issuer,
		Policy: authz.DefaultPolicy(false),
		AuthHandler: &handlers.AuthHandler{Auth: &service.AuthService{
			Users: r, Tokens: issuer, Events: s.recorder,
		}},
		ClientesHandler: &handlers.ClientesHandler{Clientes: &service.ClienteService{
			Store: r, Index: search.NewMemory(), Events: s.recorder,
		}},
		HealthHandler: &handlers.HealthHandler{DB: gdb, Timeout: time.Second},
	})
}

func (s *RouterSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v))
}

func (s *RouterSuite) registerAndLogin(email, rol string) (uint, string) {
	rec := s.do(http.MethodPost, "/register-test", "", map[string]string{
		"nombre": "Ana", "email": email, "password": "pw", "rol": rol,
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var reg struct {
		ID uint `json:"id"`
	}
	s.decode(rec, &reg)

	rec = s.do(http.MethodPost, "/login", "", map[string]string{"email": email, "password": "pw"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var login struct {
		AccessToken string `json:"access_token"`
		Rol         string `json:"rol"`
	}
	s.decode(rec, &login)
	s.Require().Equal(rol, login.Rol)
	return reg.ID, login.AccessToken
}

func (s *RouterSuite) TestEmpleadoScenario() {
	anaID, token := s.registerAndLogin("a@x.com", "empleado")

	rec := s.do(http.MethodGet, "/clientes", token, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())

	path := fmt.Sprintf("/clientes/%d", anaID)
	rec = s.do(http.MethodDelete, path, token, nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodDelete, path, token, nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.JSONEq(`{"error":"Cliente no encontrado"}`, rec.Body.String())
}

func (s *RouterSuite) TestCreateThenListAsAdministrador() {
	_, token := s.registerAndLogin("admin@x.com", "administrador")

	rec := s.do(http.MethodPost, "/clientes", "", map[string]string{"nombre": "Juan"})
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/clientes", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var rows []map[string]any
	s.decode(rec, &rows)
	s.Require().Len(rows, 1)
	s.Equal("Juan", rows[0]["nombre"])
}

func (s *RouterSuite) TestClienteRoleForbidden() {
	id, token := s.registerAndLogin("c@x.com", "cliente")

	s.Equal(http.StatusForbidden, s.do(http.MethodGet, "/clientes", token, nil).Code)
	s.Equal(http.StatusForbidden, s.do(http.MethodDelete, fmt.Sprintf("/clientes/%d", id), token, nil).Code)
	s.Equal(http.StatusForbidden, s.do(http.MethodGet, "/clientes/search?q=ana", token, nil).Code)
}

func (s *RouterSuite) TestUnauthenticated() {
	rec := s.do(http.MethodGet, "/clientes", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	var body map[string]string
	s.decode(rec, &body)
	s.NotEmpty(body["error"])

	s.Equal(http.StatusUnauthorized, s.do(http.MethodDelete, "/clientes/1", "bad.token.value", nil).Code)
}

func (s *RouterSuite) TestCreateWithoutNombre() {
	rec := s.do(http.MethodPost, "/clientes", "", map[string]string{})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.JSONEq(`{"error":"Se requiere el nombre"}`, rec.Body.String())
}

func (s *RouterSuite) TestRegisterTwice() {
	body := map[string]string{"nombre": "Ana", "email": "dup@x.com", "password": "pw"}
	s.Equal(http.StatusCreated, s.do(http.MethodPost, "/register-test", "", body).Code)
	s.Equal(http.StatusConflict, s.do(http.MethodPost, "/register-test", "", body).Code)
}

func (s *RouterSuite) TestLoginWrongPassword() {
	s.registerAndLogin("a@x.com", "cliente")
	rec := s.do(http.MethodPost, "/login", "", map[string]string{"email": "a@x.com", "password": "nope"})
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RouterSuite) TestEventsPublished() {
	_, token := s.registerAndLogin("e@x.com", "empleado")

	rec := s.do(http.MethodPost, "/clientes", "", map[string]string{"nombre": "Juan"})
	s.Require().Equal(http.StatusCreated, rec.Code)
	var created struct {
		ID uint `json:"id"`
	}
	s.decode(rec, &created)
	s.Require().Equal(http.StatusOK, s.do(http.MethodDelete, fmt.Sprintf("/clientes/%d", created.ID), token, nil).Code)

	s.Equal([]string{
		events.TypeUserRegistered,
		events.TypeUserLoggedIn,
		events.TypeClienteCreated,
		events.TypeClienteDeleted,
	}, s.recorder.Types())
}

func (s *RouterSuite) TestSearchRoute() {
	_, token := s.registerAndLogin("e@x.com", "empleado")
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/clientes", "", map[string]string{"nombre": "Juan"}).Code)

	rec := s.do(http.MethodGet, "/clientes/search?q=juan", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var res struct {
		Total    int64            `json:"total"`
		Clientes []map[string]any `json:"clientes"`
	}
	s.decode(rec, &res)
	s.EqualValues(1, res.Total)
}

func (s *RouterSuite) TestSearchHugePageIsBadRequest() {
	_, token := s.registerAndLogin("e@x.com", "empleado")

	rec := s.do(http.MethodGet, "/clientes/search?q=jua&page=1000000000000000000", token, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.JSONEq(`{"error":"Página fuera de rango"}`, rec.Body.String())
}

func (s *RouterSuite) TestHealthAndNotFound() {
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/health/live", "", nil).Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/health/ready", "", nil).Code)

	rec := s.do(http.MethodGet, "/nope", "", nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), `"error"`)
}

func (s *RouterSuite) TestErrorHandlerHidesInternalErrors() {
	s.e.GET("/boom", func(c echo.Context) error { return errors.New("pq: relation does not exist") })

	rec := s.do(http.MethodGet, "/boom", "", nil)
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.JSONEq(`{"error":"Error interno del servidor"}`, rec.Body.String())
}

func (s *RouterSuite) TestPanicRecovered() {
	s.e.GET("/panic", func(c echo.Context) error { panic("boom") })

	rec := s.do(http.MethodGet, "/panic", "", nil)
	s.Equal(http.StatusInternalServerError, rec.Code)
}
