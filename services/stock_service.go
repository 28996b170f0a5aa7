package services

import (
	"context"
	"errors"
	"time"

	"foguete-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Erros do ledger de estoque
var (
	ErrItemNotFound     = errors.New("item de estoque não encontrado")
	ErrInvalidMovement  = errors.New("movimentação de estoque inválida")
	ErrConcurrentUpdate = errors.New("conflito de atualização concorrente no item")
)

// maxVersionRetries limita as tentativas quando o lock otimista falha
const maxVersionRetries = 3

// StockMovementRequest representa o pedido de movimentação de estoque
type StockMovementRequest struct {
	ItemID        uint                `json:"item_id"`
	Type          models.MovementType `json:"type"`
	Quantity      decimal.Decimal     `json:"quantity"`
	Reason        string              `json:"reason"`
	ReferenceType string              `json:"reference_type"`
	// Custo total da compra; quando positivo em uma entrada, gera uma despesa
	TotalCost decimal.Decimal `json:"total_cost"`
}

// StockMovementResult representa o resultado da movimentação
type StockMovementResult struct {
	Item        *models.InventoryItem        `json:"item"`
	Movement    *models.StockMovement        `json:"movement"`
	Transaction *models.FinancialTransaction `json:"transaction,omitempty"`
	// Aviso de efeito secundário que falhou sem invalidar a movimentação
	Warning string `json:"warning,omitempty"`
}

// StockLedger registra movimentações de estoque.
//
// O saldo do item e a linha de movimentação são gravados na mesma
// transação; a despesa vinculada a uma compra é um efeito secundário
// criado depois do commit e a falha dela vira apenas um aviso.
type StockLedger struct {
	db       *gorm.DB
	notifier UserNotifier
	logger   *zap.Logger
}

// NewStockLedger cria uma nova instância do ledger
func NewStockLedger(db *gorm.DB, notifier UserNotifier, logger *zap.Logger) *StockLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockLedger{db: db, notifier: notifier, logger: logger}
}

// RegisterMovement aplica uma movimentação de estoque para o usuário.
//
// Semântica por tipo:
//   - in: soma Quantity ao saldo atual
//   - out: subtrai Quantity do saldo atual (pode ficar negativo; a
//     checagem de disponibilidade é responsabilidade de quem chama)
//   - adjustment: Quantity é o NOVO saldo absoluto do item; a linha de
//     movimentação registra o delta implícito via previous/new
func (s *StockLedger) RegisterMovement(ctx context.Context, userID uint, req *StockMovementRequest) (*StockMovementResult, error) {
	if err := validateMovementRequest(req); err != nil {
		return nil, err
	}

	logger := s.logger.With(
		zap.Uint("user_id", userID),
		zap.Uint("item_id", req.ItemID),
		zap.String("type", string(req.Type)),
		zap.String("quantity", req.Quantity.String()),
	)

	var item models.InventoryItem
	var movement models.StockMovement

	// Lock otimista: a coluna version protege o saldo compartilhado
	// contra o read-modify-write perdido entre requisições simultâneas
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("id = ? AND user_id = ?", req.ItemID, userID).First(&item).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrItemNotFound
				}
				return err
			}

			previous := item.CurrentStock
			newStock := computeNewStock(previous, req.Type, req.Quantity)

			updated := tx.Model(&models.InventoryItem{}).
				Where("id = ? AND version = ?", item.ID, item.Version).
				Updates(map[string]interface{}{
					"current_stock": newStock,
					"version":       item.Version + 1,
					"updated_at":    time.Now(),
				})
			if updated.Error != nil {
				return updated.Error
			}
			if updated.RowsAffected == 0 {
				// Outra requisição mexeu no item entre o SELECT e o UPDATE
				return ErrConcurrentUpdate
			}

			movement = models.StockMovement{
				ID:            uuid.NewString(),
				UserID:        userID,
				ItemID:        item.ID,
				Type:          req.Type,
				Quantity:      req.Quantity,
				Reason:        req.Reason,
				ReferenceType: req.ReferenceType,
				PreviousStock: previous,
				NewStock:      newStock,
			}
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}

			item.CurrentStock = newStock
			item.Version++
			return nil
		})

		if err == nil {
			break
		}
		if errors.Is(err, ErrConcurrentUpdate) && attempt < maxVersionRetries-1 {
			logger.Warn("conflito de versão no item, tentando novamente", zap.Int("attempt", attempt+1))
			continue
		}
		return nil, err
	}

	result := &StockMovementResult{Item: &item, Movement: &movement}

	// Efeito secundário: entrada com custo positivo gera uma despesa.
	// A movimentação já está gravada; falha aqui vira só um aviso.
	if req.Type == models.MovementTypeIn && req.TotalCost.IsPositive() {
		transaction := models.FinancialTransaction{
			UserID:        userID,
			Type:          models.TransactionTypeExpense,
			Amount:        req.TotalCost,
			Description:   "Compra de estoque: " + item.Name,
			Category:      "estoque",
			Date:          time.Now(),
			ReferenceType: "estoque",
			ReferenceID:   movement.ID,
		}
		if err := s.db.WithContext(ctx).Create(&transaction).Error; err != nil {
			logger.Warn("falha ao criar despesa vinculada à entrada de estoque", zap.Error(err))
			result.Warning = "movimentação registrada, mas a despesa vinculada não pôde ser criada"
		} else {
			result.Transaction = &transaction
		}
	}

	// Alerta de estoque baixo para o painel conectado
	if s.notifier != nil && item.IsLowStock() {
		s.notifier.NotifyUser(userID, WSMessage{
			Type: "estoque_baixo",
			Payload: map[string]interface{}{
				"item_id":       item.ID,
				"name":          item.Name,
				"current_stock": item.CurrentStock,
				"min_quantity":  item.MinQuantity,
			},
		})
	}

	logger.Info("movimentação de estoque registrada",
		zap.String("movement_id", movement.ID),
		zap.String("new_stock", movement.NewStock.String()),
	)

	return result, nil
}

// validateMovementRequest valida tipo e quantidade da movimentação
func validateMovementRequest(req *StockMovementRequest) error {
	switch req.Type {
	case models.MovementTypeIn, models.MovementTypeOut:
		if !req.Quantity.IsPositive() {
			return ErrInvalidMovement
		}
	case models.MovementTypeAdjust:
		if req.Quantity.IsNegative() {
			return ErrInvalidMovement
		}
	default:
		return ErrInvalidMovement
	}
	return nil
}

// computeNewStock calcula o novo saldo conforme o tipo de movimentação
func computeNewStock(previous decimal.Decimal, movementType models.MovementType, quantity decimal.Decimal) decimal.Decimal {
	switch movementType {
	case models.MovementTypeIn:
		return previous.Add(quantity)
	case models.MovementTypeOut:
		return previous.Sub(quantity)
	default:
		// adjustment: sobrescreve o saldo com o valor alvo
		return quantity
	}
}
