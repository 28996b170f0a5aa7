package routes

import (
	"foguete-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes configura as rotas de autenticação
func SetupAuthRoutes(app *fiber.App, authController *controllers.AuthController) {
	auth := app.Group("/auth")

	// POST /auth/register - cadastro de conta
	auth.Post("/register", authController.Register)

	// POST /auth/login - login
	auth.Post("/login", authController.Login)

	// POST /auth/recover - recuperação de senha
	auth.Post("/recover", authController.Recover)
}
