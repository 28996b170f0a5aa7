package routes

import (
	"foguete-backend/controllers"
	"foguete-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupAssistantRoutes configura as rotas do assistente de IA
func SetupAssistantRoutes(app *fiber.App, assistantController *controllers.AssistantController) {
	assistant := app.Group("/assistant", utils.AuthMiddleware)

	// POST /assistant/chat - conversa com o assistente
	assistant.Post("/chat", assistantController.Chat)
}
