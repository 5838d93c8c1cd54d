package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	apphttp "github.com/jhoicas/pos-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testUserID = "00000000-0000-0000-0000-000000000001"

// fakeAuth resuelve tokens opacos "tok-<rol>" sin JWT ni base de datos.
type fakeAuth struct {
	principals map[string]*dto.Principal
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*dto.Principal, error) {
	if p, ok := f.principals[token]; ok {
		return p, nil
	}
	return nil, errors.New("token desconocido")
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{principals: map[string]*dto.Principal{
		"tok-admin":   {UserID: testUserID, Username: "admin", Role: entity.RoleAdmin, SessionID: "s1"},
		"tok-manager": {UserID: "u-manager", Username: "gerente", Role: entity.RoleManager, Permissions: []string{string(entity.PermReportsView)}},
		"tok-cashier": {UserID: "u-cashier", Username: "caja1", Role: entity.RoleCashier, Permissions: []string{string(entity.PermSalesCreate)}},
		"tok-sin-rol": {UserID: "u-legacy", Username: "legacy"},
	}}
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para resolver el token y cargar locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(newFakeAuth()),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// doRequest lanza una petición GET path y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body dto.ErrorResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, "/protected", "Bearer tok-admin")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"admin debe poder acceder a ruta restringida a admin")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["role"])
}

func TestRequireRole_CajeroAccedeRutaMultiRol(t *testing.T) {
	app := buildTestApp(entity.RoleManager, entity.RoleCashier)
	resp := doRequest(t, app, "/protected", "Bearer tok-cashier")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_CajeroBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, "/protected", "Bearer tok-cashier")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, resp))
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, "/protected", "Bearer tok-sin-rol")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_ROLE", errorCode(t, resp))
}

func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, "/protected", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, resp))
}

func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, "/protected", "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, resp))
}

func TestAuthMiddleware_EsquemaDistintoDeBearer_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, "/protected", "Basic YWRtaW46YWRtaW4=")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, resp))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireMinRole / RequirePermission
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireMinRole_Jerarquia(t *testing.T) {
	app := fiber.New()
	app.Get("/void", apphttp.AuthMiddleware(newFakeAuth()), apphttp.RequireMinRole(entity.RoleManager),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	cases := map[string]int{
		"Bearer tok-admin":   http.StatusOK,
		"Bearer tok-manager": http.StatusOK,
		"Bearer tok-cashier": http.StatusForbidden,
	}
	for header, want := range cases {
		resp := doRequest(t, app, "/void", header)
		assert.Equal(t, want, resp.StatusCode, header)
		resp.Body.Close()
	}
}

func TestRequirePermission_AdminPasaSiempre(t *testing.T) {
	app := fiber.New()
	app.Get("/users", apphttp.AuthMiddleware(newFakeAuth()), apphttp.RequirePermission(entity.PermUsersManage),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp := doRequest(t, app, "/users", "Bearer tok-admin")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequirePermission_SinCapacidad_Retorna403(t *testing.T) {
	app := fiber.New()
	app.Get("/reports", apphttp.AuthMiddleware(newFakeAuth()), apphttp.RequirePermission(entity.PermReportsView),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	ok := doRequest(t, app, "/reports", "Bearer tok-manager")
	assert.Equal(t, http.StatusOK, ok.StatusCode)
	ok.Body.Close()

	denied := doRequest(t, app, "/reports", "Bearer tok-cashier")
	defer denied.Body.Close()
	assert.Equal(t, http.StatusForbidden, denied.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, denied))
}

func TestHasPermission(t *testing.T) {
	assert.False(t, apphttp.HasPermission(nil, entity.PermSalesView))
	assert.True(t, apphttp.HasPermission(&dto.Principal{Role: entity.RoleAdmin}, entity.PermSettingsManage))
	assert.True(t, apphttp.HasPermission(&dto.Principal{Role: entity.RoleCashier, Permissions: []string{"sales.create"}}, entity.PermSalesCreate))
	assert.False(t, apphttp.HasPermission(&dto.Principal{Role: entity.RoleCashier}, entity.PermSalesCreate))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: identidad en locals
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeIdentidad(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(newFakeAuth()), func(c *fiber.Ctx) error {
		p := apphttp.GetPrincipal(c)
		return c.JSON(fiber.Map{
			"user_id":  apphttp.GetUserID(c),
			"username": p.Username,
			"role":     apphttp.GetRole(c),
			"session":  p.SessionID,
		})
	})

	resp := doRequest(t, app, "/me", "Bearer tok-admin")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, "admin", body["username"])
	assert.Equal(t, "admin", body["role"])
	assert.Equal(t, "s1", body["session"])
}
