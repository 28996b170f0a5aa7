package routes

import (
	"foguete-backend/controllers"
	"foguete-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupFinancialRoutes configura as rotas do financeiro
func SetupFinancialRoutes(app *fiber.App, financialController *controllers.FinancialController) {
	transactions := app.Group("/transactions", utils.AuthMiddleware)

	// POST /transactions - registro de receita/despesa
	transactions.Post("/", financialController.Create)

	// GET /transactions?type=&from=&to= - extrato
	transactions.Get("/", financialController.List)

	// GET /transactions/balance?from=&to= - saldo do período
	transactions.Get("/balance", financialController.Balance)

	// DELETE /transactions/:id - remoção de lançamento
	transactions.Delete("/:id", financialController.Delete)
}
