package main

import (
	"context"
	"testing"

	"foguete-backend/models"
	"foguete-backend/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRegisterMovementIn(t *testing.T) {
	db := setupTestDB()
	userID, _ := createTestUsers(db)
	itemID := createTestItem(db, userID, "Shampoo profissional", "10")
	ledger := services.NewStockLedger(db, nil, nil)

	result, err := ledger.RegisterMovement(context.Background(), userID, &services.StockMovementRequest{
		ItemID:   itemID,
		Type:     models.MovementTypeIn,
		Quantity: decimal.RequireFromString("5"),
		Reason:   "compra do fornecedor",
	})

	assert.NoError(t, err)
	assert.True(t, result.Item.CurrentStock.Equal(decimal.RequireFromString("15")))
	assert.True(t, result.Movement.PreviousStock.Equal(decimal.RequireFromString("10")))
	assert.True(t, result.Movement.NewStock.Equal(decimal.RequireFromString("15")))
	assert.NotEmpty(t, result.Movement.ID)

	// O saldo persiste no banco
	var item models.InventoryItem
	db.First(&item, itemID)
	assert.True(t, item.CurrentStock.Equal(decimal.RequireFromString("15")))
}

func TestRegisterMovementOut(t *testing.T) {
	db := setupTestDB()
	userID, _ := createTestUsers(db)
	itemID := createTestItem(db, userID, "Creme hidratante", "10")
	ledger := services.NewStockLedger(db, nil, nil)

	result, err := ledger.RegisterMovement(context.Background(), userID, &services.StockMovementRequest{
		ItemID:   itemID,
		Type:     models.MovementTypeOut,
		Quantity: decimal.RequireFromString("3.5"),
		Reason:   "uso em atendimento",
	})

	assert.NoError(t, err)
	assert.True(t, result.Item.CurrentStock.Equal(decimal.RequireFromString("6.5")))
}

func TestRegisterMovementOutAllowsNegative(t *testing.T) {
	db := setupTestDB()
	userID, _ := createTestUsers(db)
	itemID := createTestItem(db, userID, "Esmalte", "2")
	ledger := services.NewStockLedger(db, nil, nil)

	// Saída maior que o saldo não é bloqueada; o saldo fica negativo
	result, err := ledger.RegisterMovement(context.Background(), userID, &services.StockMovementRequest{
		ItemID:   itemID,
		Type:     models.MovementTypeOut,
		Quantity: decimal.RequireFromString("5"),
	})

	assert.NoError(t, err)
	assert.True(t, result.Item.CurrentStock.Equal(decimal.RequireFromString("-3")))
}

func TestRegisterMovementAdjustment(t *testing.T) {
	db := setupTestDB()
	userID, _ := createTestUsers(db)
	itemID := createTestItem(db, userID, "Toalhas", "50")
	ledger := services.NewStockLedger(db, nil, nil)

	// Ajuste sobrescreve o saldo com o valor contado, não soma
	result, err := ledger.RegisterMovement(context.Background(), userID, &services.StockMovementRequest{
		ItemID:   itemID,
		Type:     models.MovementTypeAdjust,
		Quantity: decimal.RequireFromString("42"),
		Reason:   "contagem física",
	})

	assert.NoError(t, err)
	assert.True(t, result.Item.CurrentStock.Equal(decimal.RequireFromString("42")))
	assert.True(t, result.Movement.PreviousStock.Equal(decimal.RequireFromString("50")))
	assert.True(t, result.Movement.NewStock.Equal(decimal.RequireFromString("42")))
}

func TestRegisterMovementNotIdempotent(t *testing.T) {
	db := setupTestDB()
	userID, _ := createTestUsers(db)
	itemID := createTestItem(db, userID, "Pomada", "0")
	ledger := services.NewStockLedger(db, nil, nil)

	req := &services.StockMovementRequest{
		ItemID:   itemID,
		Type:     models.MovementTypeIn,
		Quantity: decimal.RequireFromString("5"),
	}

	// O mesmo pedido aplicado duas vezes conta duas vezes
	_, err := ledger.RegisterMovement(context.Background(), userID, req)
	assert.NoError(t, err)
	result, err := ledger.RegisterMovement(context.Background(), userID, req)
	assert.NoError(t, err)

	assert.True(t, result.Item.CurrentStock.Equal(decimal.RequireFromString("10")))

	var count int64
	db.Model(&models.StockMovement{}).Where("item_id = ?", itemID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestRegisterMovementValidation(t *testing.T) {
	db := setupTestDB()
	userID, _ := createTestUsers(db)
	itemID := createTestItem(db, userID, "Óleo essencial", "10")
	ledger := services.NewStockLedger(db, nil, nil)

	tests := []struct {
		name     string
		request  services.StockMovementRequest
		expected error
	}{
		{
			name: "Tipo desconhecido",
			request: services.StockMovementRequest{
				ItemID:   itemID,
				Type:     models.MovementType("transfer"),
				Quantity: decimal.RequireFromString("1"),
			},
			expected: services.ErrInvalidMovement,
		},
		{
			name: "Entrada com quantidade zero",
			request: services.StockMovementRequest{
				ItemID:   itemID,
				Type:     models.MovementTypeIn,
				Quantity: decimal.Zero,
			},
			expected: services.ErrInvalidMovement,
		},
		{
			name: "Saída com quantidade negativa",
			request: services.StockMovementRequest{
				ItemID:   itemID,
				Type:     models.MovementTypeOut,
				Quantity: decimal.RequireFromString("-1"),
			},
			expected: services.ErrInvalidMovement,
		},
		{
			name: "Ajuste para valor negativo",
			request: services.StockMovementRequest{
				ItemID:   itemID,
				Type:     models.MovementTypeAdjust,
				Quantity: decimal.RequireFromString("-1"),
			},
			expected: services.ErrInvalidMovement,
		},
		{
			name: "Item inexistente",
			request: services.StockMovementRequest{
				ItemID:   99999,
				Type:     models.MovementTypeIn,
				Quantity: decimal.RequireFromString("1"),
			},
			expected: services.ErrItemNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.RegisterMovement(context.Background(), userID, &tt.request)
			assert.ErrorIs(t, err, tt.expected)
		})
	}

	// Nenhuma movimentação inválida deixa rastro no ledger
	var count int64
	db.Model(&models.StockMovement{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRegisterMovementTenantIsolation(t *testing.T) {
	db := setupTestDB()
	user1, user2 := createTestUsers(db)
	itemID := createTestItem(db, user1, "Tinta", "10")
	ledger := services.NewStockLedger(db, nil, nil)

	// O item de um usuário é invisível para o outro
	_, err := ledger.RegisterMovement(context.Background(), user2, &services.StockMovementRequest{
		ItemID:   itemID,
		Type:     models.MovementTypeIn,
		Quantity: decimal.RequireFromString("1"),
	})

	assert.ErrorIs(t, err, services.ErrItemNotFound)
}

func TestRegisterMovementCreatesExpense(t *testing.T) {
	db := setupTestDB()
	userID, _ := createTestUsers(db)
	itemID := createTestItem(db, userID, "Shampoo profissional", "0")
	ledger := services.NewStockLedger(db, nil, nil)

	result, err := ledger.RegisterMovement(context.Background(), userID, &services.StockMovementRequest{
		ItemID:        itemID,
		Type:          models.MovementTypeIn,
		Quantity:      decimal.RequireFromString("10"),
		ReferenceType: "compra",
		TotalCost:     decimal.RequireFromString("150.00"),
	})

	assert.NoError(t, err)
	assert.NotNil(t, result.Transaction)
	assert.Empty(t, result.Warning)

	// Exatamente uma despesa, no valor do custo total, vinculada à movimentação
	var transactions []models.FinancialTransaction
	db.Where("user_id = ?", userID).Find(&transactions)
	assert.Len(t, transactions, 1)
	assert.Equal(t, models.TransactionTypeExpense, transactions[0].Type)
	assert.True(t, transactions[0].Amount.Equal(decimal.RequireFromString("150.00")))
	assert.Equal(t, result.Movement.ID, transactions[0].ReferenceID)
	assert.Equal(t, "estoque", transactions[0].Category)
}

func TestRegisterMovementNoExpenseWithoutCost(t *testing.T) {
	db := setupTestDB()
	userID, _ := createTestUsers(db)
	itemID := createTestItem(db, userID, "Shampoo profissional", "0")
	ledger := services.NewStockLedger(db, nil, nil)

	tests := []struct {
		name    string
		request services.StockMovementRequest
	}{
		{
			name: "Entrada sem custo",
			request: services.StockMovementRequest{
				ItemID:   itemID,
				Type:     models.MovementTypeIn,
				Quantity: decimal.RequireFromString("5"),
			},
		},
		{
			name: "Saída com custo informado",
			request: services.StockMovementRequest{
				ItemID:    itemID,
				Type:      models.MovementTypeOut,
				Quantity:  decimal.RequireFromString("1"),
				TotalCost: decimal.RequireFromString("50.00"),
			},
		},
		{
			name: "Ajuste com custo informado",
			request: services.StockMovementRequest{
				ItemID:    itemID,
				Type:      models.MovementTypeAdjust,
				Quantity:  decimal.RequireFromString("3"),
				TotalCost: decimal.RequireFromString("50.00"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ledger.RegisterMovement(context.Background(), userID, &tt.request)
			assert.NoError(t, err)
			assert.Nil(t, result.Transaction)
		})
	}

	var count int64
	db.Model(&models.FinancialTransaction{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestMovementTrailIsComplete(t *testing.T) {
	db := setupTestDB()
	userID, _ := createTestUsers(db)
	itemID := createTestItem(db, userID, "Condicionador", "0")
	ledger := services.NewStockLedger(db, nil, nil)

	steps := []struct {
		movementType models.MovementType
		quantity     string
		expected     string
	}{
		{models.MovementTypeIn, "20", "20"},
		{models.MovementTypeOut, "8", "12"},
		{models.MovementTypeAdjust, "15", "15"},
		{models.MovementTypeOut, "15", "0"},
	}

	for _, step := range steps {
		result, err := ledger.RegisterMovement(context.Background(), userID, &services.StockMovementRequest{
			ItemID:   itemID,
			Type:     step.movementType,
			Quantity: decimal.RequireFromString(step.quantity),
		})
		assert.NoError(t, err)
		assert.True(t, result.Item.CurrentStock.Equal(decimal.RequireFromString(step.expected)))
	}

	// A trilha encadeia: o new_stock de cada linha é o previous_stock da próxima
	var movements []models.StockMovement
	db.Where("item_id = ?", itemID).Order("created_at ASC").Find(&movements)
	assert.Len(t, movements, len(steps))
	for i := 1; i < len(movements); i++ {
		assert.True(t, movements[i].PreviousStock.Equal(movements[i-1].NewStock))
	}
}

func TestRegisterMovementExpenseFailureWarns(t *testing.T) {
	db := setupTestDB()
	userID, _ := createTestUsers(db)
	itemID := createTestItem(db, userID, "Shampoo profissional", "0")
	ledger := services.NewStockLedger(db, nil, nil)

	// Sem a tabela de transações o efeito secundário falha,
	// mas a movimentação já foi commitada e segue valendo
	assert.NoError(t, db.Migrator().DropTable(&models.FinancialTransaction{}))

	result, err := ledger.RegisterMovement(context.Background(), userID, &services.StockMovementRequest{
		ItemID:        itemID,
		Type:          models.MovementTypeIn,
		Quantity:      decimal.RequireFromString("5"),
		ReferenceType: "compra",
		TotalCost:     decimal.RequireFromString("100.00"),
	})

	assert.NoError(t, err)
	assert.Nil(t, result.Transaction)
	assert.NotEmpty(t, result.Warning)
	assert.True(t, result.Item.CurrentStock.Equal(decimal.RequireFromString("5")))

	var movementCount int64
	db.Model(&models.StockMovement{}).Where("item_id = ?", itemID).Count(&movementCount)
	assert.Equal(t, int64(1), movementCount)

	var item models.InventoryItem
	db.First(&item, itemID)
	assert.True(t, item.CurrentStock.Equal(decimal.RequireFromString("5")))
}

// fakeStockNotifier captura as notificações enviadas ao painel
type fakeStockNotifier struct {
	users    []uint
	messages []services.WSMessage
}

func (f *fakeStockNotifier) NotifyUser(userID uint, message services.WSMessage) {
	f.users = append(f.users, userID)
	f.messages = append(f.messages, message)
}

func TestRegisterMovementLowStockNotification(t *testing.T) {
	db := setupTestDB()
	userID, _ := createTestUsers(db)

	item := models.InventoryItem{
		UserID:       userID,
		Name:         "Acetona",
		Unit:         "un",
		CurrentStock: decimal.RequireFromString("10"),
		MinQuantity:  decimal.RequireFromString("5"),
		IsActive:     true,
	}
	db.Create(&item)

	notifier := &fakeStockNotifier{}
	ledger := services.NewStockLedger(db, notifier, nil)

	// Saída que mantém o saldo acima do mínimo não gera alerta
	_, err := ledger.RegisterMovement(context.Background(), userID, &services.StockMovementRequest{
		ItemID:   item.ID,
		Type:     models.MovementTypeOut,
		Quantity: decimal.RequireFromString("2"),
	})
	assert.NoError(t, err)
	assert.Empty(t, notifier.messages)

	// Saída que cruza o mínimo alerta o painel do dono
	_, err = ledger.RegisterMovement(context.Background(), userID, &services.StockMovementRequest{
		ItemID:   item.ID,
		Type:     models.MovementTypeOut,
		Quantity: decimal.RequireFromString("4"),
	})
	assert.NoError(t, err)
	assert.Len(t, notifier.messages, 1)
	assert.Equal(t, "estoque_baixo", notifier.messages[0].Type)
	assert.Equal(t, []uint{userID}, notifier.users)

	payload, ok := notifier.messages[0].Payload.(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "Acetona", payload["name"])
}
