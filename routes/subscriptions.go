package routes

import (
	"foguete-backend/controllers"
	"foguete-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupSubscriptionRoutes configura as rotas de planos e assinatura
func SetupSubscriptionRoutes(app *fiber.App, subscriptionController *controllers.SubscriptionController) {
	// GET /plans - planos disponíveis (público)
	app.Get("/plans", subscriptionController.ListPlans)

	subscription := app.Group("/subscription", utils.AuthMiddleware)

	// GET /subscription - assinatura atual
	subscription.Get("/", subscriptionController.Current)

	// PUT /subscription/plan - troca de plano
	subscription.Put("/plan", subscriptionController.ChangePlan)

	// POST /billing/webhook - eventos do provedor de cobrança
	app.Post("/billing/webhook", subscriptionController.BillingWebhook)
}
