package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"foguete-backend/controllers"
	"foguete-backend/models"
	"foguete-backend/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupSubscriptionTestApp(t *testing.T) (*fiber.App, *gorm.DB, uint) {
	t.Setenv("BILLING_WEBHOOK_SECRET", "segredo-de-teste")

	db := setupTestDB()
	userID, _ := createTestUsers(db)

	db.Create(&models.Plan{Code: "gratuito", Name: "Gratuito", MonthlyPrice: decimal.Zero, IsActive: true})
	db.Create(&models.Plan{Code: "pro", Name: "Foguete Pro", MonthlyPrice: decimal.RequireFromString("49.90"), IsActive: true})

	app := fiber.New()
	routes.SetupSubscriptionRoutes(app, controllers.NewSubscriptionController(db))
	return app, db, userID
}

func TestListPlansIsPublic(t *testing.T) {
	app, _, _ := setupSubscriptionTestApp(t)

	status, body := doJSON(app, "GET", "/plans", nil, 0)
	assert.Equal(t, 200, status)
	assert.Len(t, body["plans"], 2)
}

func TestChangePlan(t *testing.T) {
	app, db, userID := setupSubscriptionTestApp(t)

	status, body := doJSON(app, "PUT", "/subscription/plan", fiber.Map{"plan_code": "pro"}, userID)
	assert.Equal(t, 200, status)
	assert.Equal(t, "ativa", body["status"])

	var subscription models.Subscription
	assert.NoError(t, db.Where("user_id = ?", userID).First(&subscription).Error)
	assert.True(t, subscription.CurrentPeriodEnd.After(time.Now()))

	t.Run("Plano inexistente é 404", func(t *testing.T) {
		status, _ := doJSON(app, "PUT", "/subscription/plan", fiber.Map{"plan_code": "platina"}, userID)
		assert.Equal(t, 404, status)
	})
}

func TestBillingWebhook(t *testing.T) {
	app, db, userID := setupSubscriptionTestApp(t)

	var plan models.Plan
	db.Where("code = ?", "pro").First(&plan)
	subscription := models.Subscription{
		UserID:     userID,
		PlanID:     plan.ID,
		Status:     models.SubscriptionStatusActive,
		ExternalID: "sub_123",
	}
	db.Create(&subscription)

	postEvent := func(secret string, event controllers.BillingWebhookEvent) int {
		jsonData, _ := json.Marshal(event)
		req := httptest.NewRequest("POST", "/billing/webhook", bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")
		if secret != "" {
			req.Header.Set("X-Webhook-Secret", secret)
		}
		resp, _ := app.Test(req)
		return resp.StatusCode
	}

	t.Run("Sem segredo é 401", func(t *testing.T) {
		status := postEvent("", controllers.BillingWebhookEvent{Type: "payment.confirmed", SubscriptionID: "sub_123"})
		assert.Equal(t, 401, status)
	})

	t.Run("Pagamento falhou marca inadimplente", func(t *testing.T) {
		status := postEvent("segredo-de-teste", controllers.BillingWebhookEvent{Type: "payment.failed", SubscriptionID: "sub_123"})
		assert.Equal(t, 200, status)

		db.First(&subscription, subscription.ID)
		assert.Equal(t, models.SubscriptionStatusPastDue, subscription.Status)
	})

	t.Run("Pagamento confirmado reativa e estende o período", func(t *testing.T) {
		periodEnd := time.Now().AddDate(0, 1, 0).Format(time.RFC3339)
		status := postEvent("segredo-de-teste", controllers.BillingWebhookEvent{
			Type:           "payment.confirmed",
			SubscriptionID: "sub_123",
			PeriodEnd:      periodEnd,
		})
		assert.Equal(t, 200, status)

		db.First(&subscription, subscription.ID)
		assert.Equal(t, models.SubscriptionStatusActive, subscription.Status)
		assert.True(t, subscription.CurrentPeriodEnd.After(time.Now()))
	})

	t.Run("Cancelamento", func(t *testing.T) {
		status := postEvent("segredo-de-teste", controllers.BillingWebhookEvent{Type: "subscription.canceled", SubscriptionID: "sub_123"})
		assert.Equal(t, 200, status)

		db.First(&subscription, subscription.ID)
		assert.Equal(t, models.SubscriptionStatusCanceled, subscription.Status)
	})

	t.Run("Evento desconhecido é 400", func(t *testing.T) {
		status := postEvent("segredo-de-teste", controllers.BillingWebhookEvent{Type: "refund.issued", SubscriptionID: "sub_123"})
		assert.Equal(t, 400, status)
	})

	t.Run("Assinatura desconhecida é 404", func(t *testing.T) {
		status := postEvent("segredo-de-teste", controllers.BillingWebhookEvent{Type: "payment.confirmed", SubscriptionID: "sub_999"})
		assert.Equal(t, 404, status)
	})
}
