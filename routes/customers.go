package routes

import (
	"foguete-backend/controllers"
	"foguete-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupCustomerRoutes configura as rotas do CRM de clientes
func SetupCustomerRoutes(app *fiber.App, customerController *controllers.CustomerController) {
	customers := app.Group("/customers", utils.AuthMiddleware)

	// POST /customers - cadastro de cliente
	customers.Post("/", customerController.Create)

	// GET /customers - lista de clientes
	customers.Get("/", customerController.List)

	// GET /customers/search?q= - busca por nome, telefone ou email
	customers.Get("/search", customerController.Search)

	// GET /customers/:id - detalhe do cliente
	customers.Get("/:id", customerController.Get)

	// PUT /customers/:id - edição do cliente
	customers.Put("/:id", customerController.Update)

	// DELETE /customers/:id - desativação do cliente
	customers.Delete("/:id", customerController.Delete)
}
