package main

import (
	"net/http/httptest"
	"testing"

	"foguete-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	token, err := utils.GenerateJWT(42, "maria@salao.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := utils.ValidateJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "maria@salao.com", claims.Email)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	_, err := utils.ValidateJWT("nem-de-longe-um-token")
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/protected", utils.AuthMiddleware, func(c *fiber.Ctx) error {
		userID, _ := utils.UserIDFromContext(c)
		return c.JSON(fiber.Map{"user_id": userID})
	})

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{"Sem cabeçalho", "", 401},
		{"Formato errado", "Token abc", 401},
		{"Token inválido", "Bearer abc", 401},
		{"Token válido", "Bearer " + generateTestJWT(7), 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}
