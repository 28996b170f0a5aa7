package routes

import (
	"foguete-backend/controllers"
	"foguete-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupProposalRoutes configura as rotas de propostas e contratos
func SetupProposalRoutes(app *fiber.App, proposalController *controllers.ProposalController) {
	proposals := app.Group("/proposals", utils.AuthMiddleware)

	// POST /proposals - criação de proposta com itens
	proposals.Post("/", proposalController.Create)

	// GET /proposals?status= - lista de propostas
	proposals.Get("/", proposalController.List)

	// GET /proposals/:id - detalhe com valor total
	proposals.Get("/:id", proposalController.Get)

	// PUT /proposals/:id/status - transição de status
	proposals.Put("/:id/status", proposalController.UpdateStatus)

	// DELETE /proposals/:id - remoção de rascunho
	proposals.Delete("/:id", proposalController.Delete)
}
