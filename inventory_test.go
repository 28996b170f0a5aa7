package main

import (
	"context"
	"fmt"
	"testing"

	"foguete-backend/controllers"
	"foguete-backend/models"
	"foguete-backend/routes"
	"foguete-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupInventoryTestApp() (*fiber.App, *gorm.DB, uint) {
	db := setupTestDB()
	userID, _ := createTestUsers(db)

	app := fiber.New()
	ledger := services.NewStockLedger(db, nil, nil)
	routes.SetupInventoryRoutes(app, controllers.NewInventoryController(db, ledger, nil))
	return app, db, userID
}

func TestInventoryItemLifecycle(t *testing.T) {
	app, db, userID := setupInventoryTestApp()

	t.Run("Cadastro de item", func(t *testing.T) {
		status, body := doJSON(app, "POST", "/inventory/", controllers.ItemRequest{
			Name:        "Shampoo profissional",
			Unit:        "un",
			MinQuantity: "5",
			CostPrice:   "15.00",
			UnitPrice:   "45.00",
		}, userID)

		assert.Equal(t, 201, status)
		assert.Equal(t, "Shampoo profissional", body["name"])
	})

	t.Run("Edição não mexe no saldo", func(t *testing.T) {
		var item models.InventoryItem
		db.Where("user_id = ?", userID).First(&item)
		db.Model(&item).Update("current_stock", decimal.RequireFromString("10"))

		status, _ := doJSON(app, "PUT", fmt.Sprintf("/inventory/%d", item.ID), controllers.ItemRequest{
			Name:        "Shampoo profissional 500ml",
			Unit:        "un",
			MinQuantity: "5",
		}, userID)
		assert.Equal(t, 200, status)

		// O saldo só muda pelo ledger de movimentações
		db.First(&item, item.ID)
		assert.True(t, item.CurrentStock.Equal(decimal.RequireFromString("10")))
	})
}

func TestInventoryMovementEndpoint(t *testing.T) {
	app, db, userID := setupInventoryTestApp()
	itemID := createTestItem(db, userID, "Condicionador", "10")

	t.Run("Entrada com custo gera despesa", func(t *testing.T) {
		status, body := doJSON(app, "POST", fmt.Sprintf("/inventory/%d/movements", itemID), controllers.MovementRequest{
			Type:      "in",
			Quantity:  "20",
			Reason:    "compra do fornecedor",
			TotalCost: "300.00",
		}, userID)

		assert.Equal(t, 201, status)
		movement := body["movement"].(map[string]any)
		assert.Equal(t, "in", movement["type"])
		assert.NotNil(t, body["transaction"])

		var count int64
		db.Model(&models.FinancialTransaction{}).Where("user_id = ?", userID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Tipo inválido é 400", func(t *testing.T) {
		status, _ := doJSON(app, "POST", fmt.Sprintf("/inventory/%d/movements", itemID), controllers.MovementRequest{
			Type:     "transfer",
			Quantity: "1",
		}, userID)
		assert.Equal(t, 400, status)
	})

	t.Run("Item inexistente é 404", func(t *testing.T) {
		status, _ := doJSON(app, "POST", "/inventory/99999/movements", controllers.MovementRequest{
			Type:     "in",
			Quantity: "1",
		}, userID)
		assert.Equal(t, 404, status)
	})

	t.Run("Trilha de movimentações", func(t *testing.T) {
		status, body := doJSON(app, "GET", fmt.Sprintf("/inventory/%d/movements", itemID), nil, userID)
		assert.Equal(t, 200, status)
		assert.Equal(t, float64(1), body["total"])
	})
}

func TestLowStockEndpoint(t *testing.T) {
	app, db, userID := setupInventoryTestApp()

	db.Create(&models.InventoryItem{
		UserID:       userID,
		Name:         "Esmalte vermelho",
		CurrentStock: decimal.RequireFromString("2"),
		MinQuantity:  decimal.RequireFromString("5"),
		IsActive:     true,
	})
	db.Create(&models.InventoryItem{
		UserID:       userID,
		Name:         "Acetona",
		CurrentStock: decimal.RequireFromString("20"),
		MinQuantity:  decimal.RequireFromString("5"),
		IsActive:     true,
	})

	status, body := doJSON(app, "GET", "/inventory/low-stock", nil, userID)
	assert.Equal(t, 200, status)
	assert.Equal(t, float64(1), body["total"])
}

// contendedLedger simula o esgotamento das tentativas do lock otimista
type contendedLedger struct{}

func (contendedLedger) RegisterMovement(ctx context.Context, userID uint, req *services.StockMovementRequest) (*services.StockMovementResult, error) {
	return nil, services.ErrConcurrentUpdate
}

func TestMovementConcurrencyConflictReturns409(t *testing.T) {
	db := setupTestDB()
	userID, _ := createTestUsers(db)
	itemID := createTestItem(db, userID, "Base", "10")

	app := fiber.New()
	routes.SetupInventoryRoutes(app, controllers.NewInventoryController(db, contendedLedger{}, nil))

	status, body := doJSON(app, "POST", fmt.Sprintf("/inventory/%d/movements", itemID), controllers.MovementRequest{
		Type:     "out",
		Quantity: "1",
	}, userID)

	assert.Equal(t, 409, status)
	assert.Contains(t, body["message"], "tente novamente")
}
