package routes

import (
	"foguete-backend/controllers"
	"foguete-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupWhatsAppRoutes configura as rotas do canal WhatsApp
func SetupWhatsAppRoutes(app *fiber.App, whatsappController *controllers.WhatsAppController) {
	// GET /whatsapp/webhook - desafio de verificação do provedor
	app.Get("/whatsapp/webhook", whatsappController.Verify)

	// POST /whatsapp/webhook - mensagens recebidas
	app.Post("/whatsapp/webhook", whatsappController.Webhook)

	conversations := app.Group("/whatsapp/conversations", utils.AuthMiddleware)

	// GET /whatsapp/conversations - conversas do canal
	conversations.Get("/", whatsappController.ListConversations)

	// GET /whatsapp/conversations/:id/messages - histórico de uma conversa
	conversations.Get("/:id/messages", whatsappController.GetMessages)
}
