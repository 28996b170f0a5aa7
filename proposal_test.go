package main

import (
	"fmt"
	"testing"

	"foguete-backend/controllers"
	"foguete-backend/models"
	"foguete-backend/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupProposalTestApp() (*fiber.App, *gorm.DB, uint, uint) {
	db := setupTestDB()
	userID, _ := createTestUsers(db)

	customer := models.Customer{UserID: userID, Name: "Ana Pereira", IsActive: true}
	db.Create(&customer)

	app := fiber.New()
	routes.SetupProposalRoutes(app, controllers.NewProposalController(db))
	return app, db, userID, customer.ID
}

func TestCreateProposal(t *testing.T) {
	app, _, userID, customerID := setupProposalTestApp()

	status, body := doJSON(app, "POST", "/proposals/", controllers.ProposalRequest{
		CustomerID: customerID,
		Title:      "Pacote de noiva",
		Items: []controllers.ProposalItemRequest{
			{Description: "Penteado", Quantity: "1", UnitPrice: "200.00"},
			{Description: "Maquiagem", Quantity: "2", UnitPrice: "150.00"},
			{Description: "Prova", UnitPrice: "50.00"}, // quantidade padrão 1
		},
	}, userID)

	assert.Equal(t, 201, status)
	// 200 + 2*150 + 50
	assert.Equal(t, "550", body["total_value"])

	proposal := body["proposal"].(map[string]any)
	assert.Equal(t, "rascunho", proposal["status"])

	t.Run("Cliente inexistente é 400", func(t *testing.T) {
		status, _ := doJSON(app, "POST", "/proposals/", controllers.ProposalRequest{
			CustomerID: 99999,
			Title:      "Pacote",
		}, userID)
		assert.Equal(t, 400, status)
	})
}

func TestProposalStatusTransitions(t *testing.T) {
	app, db, userID, customerID := setupProposalTestApp()

	proposal := models.Proposal{UserID: userID, CustomerID: customerID, Title: "Pacote", Status: models.ProposalStatusDraft}
	db.Create(&proposal)
	target := fmt.Sprintf("/proposals/%d/status", proposal.ID)

	t.Run("Rascunho não pode ser aceita direto", func(t *testing.T) {
		status, _ := doJSON(app, "PUT", target, fiber.Map{"status": "aceita"}, userID)
		assert.Equal(t, 400, status)
	})

	t.Run("Rascunho para enviada", func(t *testing.T) {
		status, _ := doJSON(app, "PUT", target, fiber.Map{"status": "enviada"}, userID)
		assert.Equal(t, 200, status)
	})

	t.Run("Enviada para aceita", func(t *testing.T) {
		status, _ := doJSON(app, "PUT", target, fiber.Map{"status": "aceita"}, userID)
		assert.Equal(t, 200, status)
	})

	t.Run("Aceita é estado final", func(t *testing.T) {
		status, _ := doJSON(app, "PUT", target, fiber.Map{"status": "recusada"}, userID)
		assert.Equal(t, 400, status)
	})
}

func TestDeleteProposalOnlyDrafts(t *testing.T) {
	app, db, userID, customerID := setupProposalTestApp()

	draft := models.Proposal{UserID: userID, CustomerID: customerID, Title: "Rascunho", Status: models.ProposalStatusDraft}
	sent := models.Proposal{UserID: userID, CustomerID: customerID, Title: "Enviada", Status: models.ProposalStatusSent}
	db.Create(&draft)
	db.Create(&sent)

	status, _ := doJSON(app, "DELETE", fmt.Sprintf("/proposals/%d", draft.ID), nil, userID)
	assert.Equal(t, 200, status)

	status, _ = doJSON(app, "DELETE", fmt.Sprintf("/proposals/%d", sent.ID), nil, userID)
	assert.Equal(t, 400, status)

	var count int64
	db.Model(&models.Proposal{}).Where("user_id = ?", userID).Count(&count)
	assert.Equal(t, int64(1), count)
}
