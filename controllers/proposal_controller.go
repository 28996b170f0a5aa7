package controllers

import (
	"strings"
	"time"

	"foguete-backend/models"
	"foguete-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProposalController controlador de propostas e contratos
type ProposalController struct {
	DB *gorm.DB
}

// NewProposalController cria uma nova instância de ProposalController
func NewProposalController(db *gorm.DB) *ProposalController {
	return &ProposalController{DB: db}
}

// ProposalItemRequest linha de serviço/produto da proposta
type ProposalItemRequest struct {
	Description string `json:"description" validate:"required"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

// ProposalRequest estrutura de criação de proposta
type ProposalRequest struct {
	CustomerID uint                  `json:"customer_id" validate:"required"`
	Title      string                `json:"title" validate:"required"`
	Notes      string                `json:"notes"`
	ValidUntil string                `json:"valid_until"` // 2006-01-02
	Items      []ProposalItemRequest `json:"items"`
}

// transições de status permitidas
var allowedTransitions = map[models.ProposalStatus][]models.ProposalStatus{
	models.ProposalStatusDraft: {models.ProposalStatusSent},
	models.ProposalStatusSent:  {models.ProposalStatusAccepted, models.ProposalStatusRejected},
}

// Create cadastra uma proposta com seus itens
func (pc *ProposalController) Create(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req ProposalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de dados inválido")
	}
	if strings.TrimSpace(req.Title) == "" {
		return badRequest(c, "Título é obrigatório")
	}

	var customer models.Customer
	if err := pc.DB.Where("id = ? AND user_id = ?", req.CustomerID, userID).First(&customer).Error; err != nil {
		return badRequest(c, "Cliente não encontrado")
	}

	proposal := models.Proposal{
		UserID:     userID,
		CustomerID: customer.ID,
		Title:      strings.TrimSpace(req.Title),
		Notes:      req.Notes,
		Status:     models.ProposalStatusDraft,
	}

	if req.ValidUntil != "" {
		validUntil, err := time.ParseInLocation("2006-01-02", req.ValidUntil, time.Local)
		if err != nil {
			return badRequest(c, "valid_until inválido, use o formato 2006-01-02")
		}
		proposal.ValidUntil = &validUntil
	}

	for _, itemReq := range req.Items {
		if strings.TrimSpace(itemReq.Description) == "" {
			return badRequest(c, "Item da proposta sem descrição")
		}
		quantity := parseDecimalOrZero(itemReq.Quantity)
		if quantity.IsZero() {
			quantity = decimal.NewFromInt(1)
		}
		proposal.Items = append(proposal.Items, models.ProposalItem{
			Description: strings.TrimSpace(itemReq.Description),
			Quantity:    quantity,
			UnitPrice:   parseDecimalOrZero(itemReq.UnitPrice),
		})
	}

	if err := pc.DB.Create(&proposal).Error; err != nil {
		return internalError(c, "Erro ao criar a proposta")
	}

	return c.Status(201).JSON(fiber.Map{"proposal": proposal, "total_value": proposal.Total()})
}

// List retorna as propostas do usuário
func (pc *ProposalController) List(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	query := pc.DB.Preload("Customer").Preload("Items").Where("user_id = ?", userID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var proposals []models.Proposal
	if err := query.Order("created_at DESC").Find(&proposals).Error; err != nil {
		return internalError(c, "Erro ao listar as propostas")
	}

	return c.JSON(fiber.Map{"proposals": proposals, "total": len(proposals)})
}

// Get retorna uma proposta com itens e valor total
func (pc *ProposalController) Get(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var proposal models.Proposal
	if err := pc.DB.Preload("Customer").Preload("Items").
		Where("id = ? AND user_id = ?", c.Params("id"), userID).
		First(&proposal).Error; err != nil {
		return notFound(c, "Proposta não encontrada")
	}

	return c.JSON(fiber.Map{"proposal": proposal, "total_value": proposal.Total()})
}

// UpdateStatus aplica uma transição de status (rascunho→enviada→aceita/recusada)
func (pc *ProposalController) UpdateStatus(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var proposal models.Proposal
	if err := pc.DB.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&proposal).Error; err != nil {
		return notFound(c, "Proposta não encontrada")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de dados inválido")
	}

	target := models.ProposalStatus(req.Status)
	if !transitionAllowed(proposal.Status, target) {
		return badRequest(c, "Transição de status inválida: "+string(proposal.Status)+" → "+req.Status)
	}

	proposal.Status = target
	if err := pc.DB.Save(&proposal).Error; err != nil {
		return internalError(c, "Erro ao atualizar a proposta")
	}

	return c.JSON(proposal)
}

// Delete remove uma proposta em rascunho
func (pc *ProposalController) Delete(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var proposal models.Proposal
	if err := pc.DB.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&proposal).Error; err != nil {
		return notFound(c, "Proposta não encontrada")
	}

	if proposal.Status != models.ProposalStatusDraft {
		return badRequest(c, "Apenas propostas em rascunho podem ser removidas")
	}

	pc.DB.Where("proposal_id = ?", proposal.ID).Delete(&models.ProposalItem{})
	if err := pc.DB.Delete(&proposal).Error; err != nil {
		return internalError(c, "Erro ao remover a proposta")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Proposta removida"})
}

func transitionAllowed(from, to models.ProposalStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
