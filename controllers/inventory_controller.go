package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"foguete-backend/models"
	"foguete-backend/services"
	"foguete-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockMover aplica movimentações de estoque
type StockMover interface {
	RegisterMovement(ctx context.Context, userID uint, req *services.StockMovementRequest) (*services.StockMovementResult, error)
}

// InventoryController controlador de estoque
type InventoryController struct {
	DB     *gorm.DB
	Ledger StockMover
	Cache  services.SummaryCache
}

// NewInventoryController cria uma nova instância de InventoryController
func NewInventoryController(db *gorm.DB, ledger StockMover, cache services.SummaryCache) *InventoryController {
	return &InventoryController{DB: db, Ledger: ledger, Cache: cache}
}

// ItemRequest estrutura de criação/edição de item de estoque
type ItemRequest struct {
	Name        string `json:"name" validate:"required"`
	Unit        string `json:"unit"`
	MinQuantity string `json:"min_quantity"`
	CostPrice   string `json:"cost_price"`
	UnitPrice   string `json:"unit_price"`
}

// MovementRequest estrutura do pedido de movimentação de estoque
type MovementRequest struct {
	Type          string `json:"type" validate:"required,oneof=in out adjustment"`
	Quantity      string `json:"quantity" validate:"required"`
	Reason        string `json:"reason"`
	ReferenceType string `json:"reference_type"`
	TotalCost     string `json:"total_cost"`
}

// CreateItem cadastra um item de estoque
func (ic *InventoryController) CreateItem(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de dados inválido")
	}
	if strings.TrimSpace(req.Name) == "" {
		return badRequest(c, "Nome é obrigatório")
	}

	item := models.InventoryItem{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Unit:        req.Unit,
		MinQuantity: parseDecimalOrZero(req.MinQuantity),
		CostPrice:   parseDecimalOrZero(req.CostPrice),
		UnitPrice:   parseDecimalOrZero(req.UnitPrice),
		IsActive:    true,
	}
	if err := ic.DB.Create(&item).Error; err != nil {
		return internalError(c, "Erro ao cadastrar o item")
	}

	return c.Status(201).JSON(item)
}

// ListItems retorna os itens de estoque do usuário
func (ic *InventoryController) ListItems(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var items []models.InventoryItem
	if err := ic.DB.Where("user_id = ? AND is_active = ?", userID, true).
		Order("name ASC").Find(&items).Error; err != nil {
		return internalError(c, "Erro ao listar o estoque")
	}

	return c.JSON(fiber.Map{"items": items, "total": len(items)})
}

// LowStock retorna os itens abaixo da quantidade mínima
func (ic *InventoryController) LowStock(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var items []models.InventoryItem
	if err := ic.DB.
		Where("user_id = ? AND is_active = ? AND current_stock <= min_quantity", userID, true).
		Order("name ASC").Find(&items).Error; err != nil {
		return internalError(c, "Erro ao listar o estoque baixo")
	}

	return c.JSON(fiber.Map{"items": items, "total": len(items)})
}

// UpdateItem edita os dados cadastrais do item (o saldo só muda pelo ledger)
func (ic *InventoryController) UpdateItem(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var item models.InventoryItem
	if err := ic.DB.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&item).Error; err != nil {
		return notFound(c, "Item não encontrado")
	}

	var req ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de dados inválido")
	}
	if strings.TrimSpace(req.Name) == "" {
		return badRequest(c, "Nome é obrigatório")
	}

	item.Name = strings.TrimSpace(req.Name)
	item.Unit = req.Unit
	item.MinQuantity = parseDecimalOrZero(req.MinQuantity)
	item.CostPrice = parseDecimalOrZero(req.CostPrice)
	item.UnitPrice = parseDecimalOrZero(req.UnitPrice)

	if err := ic.DB.Save(&item).Error; err != nil {
		return internalError(c, "Erro ao atualizar o item")
	}

	// min_quantity muda a lista de estoque baixo do resumo
	invalidateDaySummary(c, ic.Cache, userID, time.Now())
	return c.JSON(item)
}

// RegisterMovement aplica uma movimentação de estoque via ledger
func (ic *InventoryController) RegisterMovement(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	itemID, err := c.ParamsInt("id")
	if err != nil || itemID <= 0 {
		return badRequest(c, "ID de item inválido")
	}

	var req MovementRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de dados inválido")
	}

	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		return badRequest(c, "Quantidade inválida")
	}

	result, err := ic.Ledger.RegisterMovement(c.Context(), userID, &services.StockMovementRequest{
		ItemID:        uint(itemID),
		Type:          models.MovementType(req.Type),
		Quantity:      quantity,
		Reason:        req.Reason,
		ReferenceType: req.ReferenceType,
		TotalCost:     parseDecimalOrZero(req.TotalCost),
	})
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			return notFound(c, "Item não encontrado")
		}
		if errors.Is(err, services.ErrInvalidMovement) {
			return badRequest(c, "Movimentação inválida: confira tipo e quantidade")
		}
		if errors.Is(err, services.ErrConcurrentUpdate) {
			return conflict(c, "Item atualizado por outra requisição, tente novamente")
		}
		return internalError(c, "Erro ao registrar a movimentação")
	}

	// A lista de estoque baixo e a despesa vinculada entram no resumo do dia
	invalidateDaySummary(c, ic.Cache, userID, time.Now())
	return c.Status(201).JSON(result)
}

// ListMovements retorna a trilha de auditoria de um item
func (ic *InventoryController) ListMovements(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var item models.InventoryItem
	if err := ic.DB.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&item).Error; err != nil {
		return notFound(c, "Item não encontrado")
	}

	var movements []models.StockMovement
	if err := ic.DB.Where("item_id = ? AND user_id = ?", item.ID, userID).
		Order("created_at DESC").Limit(100).Find(&movements).Error; err != nil {
		return internalError(c, "Erro ao listar as movimentações")
	}

	return c.JSON(fiber.Map{"item": item, "movements": movements, "total": len(movements)})
}

// parseDecimalOrZero converte o campo para decimal, zero quando vazio/inválido
func parseDecimalOrZero(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return parsed
}
