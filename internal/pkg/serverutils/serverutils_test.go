package serverutils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func newAdminApp(secret string) *fiber.App {
	app := fiber.New()
	app.Get("/admin", NewJwtMiddleware(secret), func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse("ok", ctx.Locals("user_id")))
	})
	return app
}

func TestJwtMiddleware(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name   string
		secret string
		header string
		want   int
	}{
		{"missing header", testSecret, "", fiber.StatusUnauthorized},
		{"wrong scheme", testSecret, "Basic abc", fiber.StatusUnauthorized},
		{"bad signature", testSecret, "Bearer " + signToken(t, "other", jwt.MapClaims{"role": "admin", "exp": exp}), fiber.StatusUnauthorized},
		{"not admin", testSecret, "Bearer " + signToken(t, testSecret, jwt.MapClaims{"role": "user", "exp": exp}), fiber.StatusForbidden},
		{"expired", testSecret, "Bearer " + signToken(t, testSecret, jwt.MapClaims{"role": "admin", "exp": time.Now().Add(-time.Hour).Unix()}), fiber.StatusUnauthorized},
		{"admin", testSecret, "Bearer " + signToken(t, testSecret, jwt.MapClaims{"role": "admin", "user_id": "u-1", "exp": exp}), fiber.StatusOK},
		{"secret not configured", "", "Bearer " + signToken(t, testSecret, jwt.MapClaims{"role": "admin", "exp": exp}), fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newAdminApp(tt.secret)
			req := httptest.NewRequest("GET", "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

type createReq struct {
	Name string `json:"name" validate:"required,max=5"`
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/validation", func(ctx *fiber.Ctx) error {
		return ValidateRequest(createReq{Name: ""})
	})
	app.Get("/fiber", func(ctx *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "nope")
	})
	app.Get("/ok", func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse[any]("fine", nil))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/validation", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var body BaseResponse[map[string]string]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "is required", body.Data["Name"])

	resp, err = app.Test(httptest.NewRequest("GET", "/fiber", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/ok", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestValidateRequestPasses(t *testing.T) {
	assert.NoError(t, ValidateRequest(createReq{Name: "abc"}))

	err := ValidateRequest(createReq{Name: "toolong"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["Name"], "at most 5")
}
