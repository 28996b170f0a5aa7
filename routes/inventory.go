package routes

import (
	"foguete-backend/controllers"
	"foguete-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupInventoryRoutes configura as rotas de estoque
func SetupInventoryRoutes(app *fiber.App, inventoryController *controllers.InventoryController) {
	inventory := app.Group("/inventory", utils.AuthMiddleware)

	// POST /inventory - cadastro de item
	inventory.Post("/", inventoryController.CreateItem)

	// GET /inventory - lista de itens
	inventory.Get("/", inventoryController.ListItems)

	// GET /inventory/low-stock - itens abaixo do mínimo
	inventory.Get("/low-stock", inventoryController.LowStock)

	// PUT /inventory/:id - edição cadastral do item
	inventory.Put("/:id", inventoryController.UpdateItem)

	// POST /inventory/:id/movements - movimentação via ledger
	inventory.Post("/:id/movements", inventoryController.RegisterMovement)

	// GET /inventory/:id/movements - trilha de auditoria do item
	inventory.Get("/:id/movements", inventoryController.ListMovements)
}
