package controllers

import (
	"strings"
	"time"

	"foguete-backend/models"
	"foguete-backend/services"
	"foguete-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FinancialController controlador do financeiro
type FinancialController struct {
	DB    *gorm.DB
	Cache services.SummaryCache
}

// NewFinancialController cria uma nova instância de FinancialController
func NewFinancialController(db *gorm.DB, cache services.SummaryCache) *FinancialController {
	return &FinancialController{DB: db, Cache: cache}
}

// TransactionRequest estrutura de criação de transação financeira
type TransactionRequest struct {
	Type        string `json:"type" validate:"required,oneof=receita despesa"`
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category"`
	Date        string `json:"date"` // 2006-01-02, padrão hoje
	CustomerID  *uint  `json:"customer_id"`
}

// Create registra uma transação financeira
func (fc *FinancialController) Create(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de dados inválido")
	}

	kind := models.TransactionType(req.Type)
	if kind != models.TransactionTypeIncome && kind != models.TransactionTypeExpense {
		return badRequest(c, "Tipo deve ser 'receita' ou 'despesa'")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return badRequest(c, "Valor deve ser um número positivo")
	}

	if strings.TrimSpace(req.Description) == "" {
		return badRequest(c, "Descrição é obrigatória")
	}

	date := time.Now()
	if req.Date != "" {
		date, err = time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			return badRequest(c, "Data inválida, use o formato 2006-01-02")
		}
	}

	transaction := models.FinancialTransaction{
		UserID:      userID,
		Type:        kind,
		Amount:      amount,
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		Date:        date,
		CustomerID:  req.CustomerID,
	}
	if err := fc.DB.Create(&transaction).Error; err != nil {
		return internalError(c, "Erro ao registrar a transação")
	}

	invalidateDaySummary(c, fc.Cache, userID, transaction.Date)
	return c.Status(201).JSON(transaction)
}

// List retorna as transações do usuário em um período opcional
func (fc *FinancialController) List(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	query := fc.DB.Where("user_id = ?", userID)
	if kind := c.Query("type"); kind != "" {
		query = query.Where("type = ?", kind)
	}
	if from := c.Query("from"); from != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", from, time.Local); err == nil {
			query = query.Where("date >= ?", parsed)
		}
	}
	if to := c.Query("to"); to != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", to, time.Local); err == nil {
			query = query.Where("date < ?", parsed.AddDate(0, 0, 1))
		}
	}

	var transactions []models.FinancialTransaction
	if err := query.Order("date DESC").Limit(200).Find(&transactions).Error; err != nil {
		return internalError(c, "Erro ao listar as transações")
	}

	return c.JSON(fiber.Map{"transactions": transactions, "total": len(transactions)})
}

// Balance calcula receitas, despesas e saldo do período
func (fc *FinancialController) Balance(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	from, err := time.ParseInLocation("2006-01-02", c.Query("from"), time.Local)
	if err != nil {
		return badRequest(c, "Parâmetro from inválido, use o formato 2006-01-02")
	}
	to, err := time.ParseInLocation("2006-01-02", c.Query("to"), time.Local)
	if err != nil {
		return badRequest(c, "Parâmetro to inválido, use o formato 2006-01-02")
	}

	balance, err := services.PeriodBalance(c.Context(), fc.DB, userID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return internalError(c, "Erro ao calcular o saldo")
	}

	return c.JSON(balance)
}

// Delete remove uma transação
func (fc *FinancialController) Delete(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var transaction models.FinancialTransaction
	if err := fc.DB.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&transaction).Error; err != nil {
		return notFound(c, "Transação não encontrada")
	}

	if err := fc.DB.Delete(&transaction).Error; err != nil {
		return internalError(c, "Erro ao remover a transação")
	}

	invalidateDaySummary(c, fc.Cache, userID, transaction.Date)
	return c.JSON(fiber.Map{"success": true, "message": "Transação removida"})
}
