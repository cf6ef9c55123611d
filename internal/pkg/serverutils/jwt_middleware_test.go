package serverutils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signed(t *testing.T, role string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u-1",
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func TestJwtMiddleware(t *testing.T) {
	app := fiber.New()
	admin := app.Group("/admin", JwtMiddleware(testSecret), AdminOnly)
	admin.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocalUserId).(string))
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing token", header: "", status: 401},
		{name: "garbage token", header: "Bearer nope", status: 401},
		{name: "non admin", header: "Bearer " + signed(t, "editor"), status: 403},
		{name: "admin", header: "Bearer " + signed(t, "admin"), status: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
