package controllers

import (
	"os"
	"time"

	"foguete-backend/models"
	"foguete-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SubscriptionController controlador da assinatura do Foguete Gestão
type SubscriptionController struct {
	DB *gorm.DB
}

// NewSubscriptionController cria uma nova instância de SubscriptionController
func NewSubscriptionController(db *gorm.DB) *SubscriptionController {
	return &SubscriptionController{DB: db}
}

// ListPlans retorna os planos disponíveis
func (sc *SubscriptionController) ListPlans(c *fiber.Ctx) error {
	var plans []models.Plan
	if err := sc.DB.Where("is_active = ?", true).Order("monthly_price ASC").Find(&plans).Error; err != nil {
		return internalError(c, "Erro ao listar os planos")
	}
	return c.JSON(fiber.Map{"plans": plans})
}

// Current retorna a assinatura do usuário autenticado
func (sc *SubscriptionController) Current(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var subscription models.Subscription
	if err := sc.DB.Preload("Plan").Where("user_id = ?", userID).First(&subscription).Error; err != nil {
		return notFound(c, "Assinatura não encontrada")
	}

	return c.JSON(subscription)
}

// ChangePlan troca o plano da assinatura do usuário
func (sc *SubscriptionController) ChangePlan(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req struct {
		PlanCode string `json:"plan_code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de dados inválido")
	}

	var plan models.Plan
	if err := sc.DB.Where("code = ? AND is_active = ?", req.PlanCode, true).First(&plan).Error; err != nil {
		return notFound(c, "Plano não encontrado")
	}

	var subscription models.Subscription
	err := sc.DB.Where("user_id = ?", userID).First(&subscription).Error
	if err != nil {
		subscription = models.Subscription{UserID: userID}
	}

	subscription.PlanID = plan.ID
	subscription.Status = models.SubscriptionStatusActive
	subscription.CurrentPeriodEnd = time.Now().AddDate(0, 1, 0)

	if subscription.ID == 0 {
		err = sc.DB.Create(&subscription).Error
	} else {
		err = sc.DB.Save(&subscription).Error
	}
	if err != nil {
		return internalError(c, "Erro ao alterar o plano")
	}

	subscription.Plan = plan
	return c.JSON(subscription)
}

// BillingWebhookEvent evento enviado pelo provedor de cobrança
type BillingWebhookEvent struct {
	Type           string `json:"type"` // payment.confirmed, payment.failed, subscription.canceled
	SubscriptionID string `json:"subscription_id"`
	PeriodEnd      string `json:"period_end"` // RFC3339
}

// BillingWebhook registra transições de status vindas do provedor externo.
// A autenticidade é checada por um segredo compartilhado no cabeçalho.
func (sc *SubscriptionController) BillingWebhook(c *fiber.Ctx) error {
	secret := os.Getenv("BILLING_WEBHOOK_SECRET")
	if secret == "" || c.Get("X-Webhook-Secret") != secret {
		return c.Status(401).JSON(fiber.Map{"error": true, "message": "Webhook não autorizado"})
	}

	var event BillingWebhookEvent
	if err := c.BodyParser(&event); err != nil {
		return badRequest(c, "Formato de evento inválido")
	}

	var subscription models.Subscription
	if err := sc.DB.Where("external_id = ?", event.SubscriptionID).First(&subscription).Error; err != nil {
		return notFound(c, "Assinatura não encontrada")
	}

	switch event.Type {
	case "payment.confirmed":
		subscription.Status = models.SubscriptionStatusActive
		if periodEnd, err := time.Parse(time.RFC3339, event.PeriodEnd); err == nil {
			subscription.CurrentPeriodEnd = periodEnd
		}
	case "payment.failed":
		subscription.Status = models.SubscriptionStatusPastDue
	case "subscription.canceled":
		subscription.Status = models.SubscriptionStatusCanceled
	default:
		return badRequest(c, "Tipo de evento desconhecido: "+event.Type)
	}

	if err := sc.DB.Save(&subscription).Error; err != nil {
		return internalError(c, "Erro ao processar o evento")
	}

	return c.JSON(fiber.Map{"success": true})
}
