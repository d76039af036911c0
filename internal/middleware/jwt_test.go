package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/smartlearn/autograde-api/internal/middleware"
)

const jwtTestSecret = "grading-test-secret"

func signClaims(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtTestSecret))
	require.NoError(t, err)
	return signed
}

func newJWTApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.JWTProtected(jwtTestSecret))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(uint)
		role, _ := c.Locals("user_role").(string)
		return c.JSON(fiber.Map{"user_id": userID, "role": role})
	})
	return app
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func performAuth(t *testing.T, app *fiber.App, authorization string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestJWTProtectedValidToken(t *testing.T) {
	app := newJWTApp()
	token := signClaims(t, jwt.MapClaims{"sub": 42, "role": "Teacher"})

	resp := performAuth(t, app, "Bearer "+token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	decodeBody(t, resp, &body)
	require.Equal(t, uint(42), body.UserID)
	require.Equal(t, "teacher", body.Role)
}

func TestJWTProtectedAcceptsLMSUserIDClaim(t *testing.T) {
	app := newJWTApp()
	token := signClaims(t, jwt.MapClaims{"userid": "17", "role": "student"})

	resp := performAuth(t, app, "Bearer "+token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	decodeBody(t, resp, &body)
	require.Equal(t, uint(17), body.UserID)
	require.Equal(t, "student", body.Role)
}

func TestJWTProtectedMissingHeader(t *testing.T) {
	app := newJWTApp()

	resp := performAuth(t, app, "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsNonBearerScheme(t *testing.T) {
	app := newJWTApp()

	resp := performAuth(t, app, "Basic dXNlcjpwYXNz")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsBadSignature(t *testing.T) {
	app := newJWTApp()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": 42})
	signed, err := token.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	resp := performAuth(t, app, "Bearer "+signed)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
