package controllers

import (
	"os"

	"foguete-backend/models"
	"foguete-backend/services"
	"foguete-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// WhatsAppController controlador do canal de vendas via WhatsApp
type WhatsAppController struct {
	DB      *gorm.DB
	Service *services.WhatsAppService
}

// NewWhatsAppController cria uma nova instância de WhatsAppController
func NewWhatsAppController(db *gorm.DB, service *services.WhatsAppService) *WhatsAppController {
	return &WhatsAppController{DB: db, Service: service}
}

// webhookPayload é o formato (estilo Cloud API) do webhook de entrada
type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Metadata struct {
					DisplayPhoneNumber string `json:"display_phone_number"`
				} `json:"metadata"`
				Contacts []struct {
					Profile struct {
						Name string `json:"name"`
					} `json:"profile"`
					WaID string `json:"wa_id"`
				} `json:"contacts"`
				Messages []struct {
					ID   string `json:"id"`
					From string `json:"from"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
					Type string `json:"type"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// Verify responde ao desafio de verificação do provedor
func (wc *WhatsAppController) Verify(c *fiber.Ctx) error {
	verifyToken := os.Getenv("WHATSAPP_VERIFY_TOKEN")
	if verifyToken == "" || c.Query("hub.verify_token") != verifyToken {
		return c.Status(403).JSON(fiber.Map{"error": true, "message": "Token de verificação inválido"})
	}
	return c.SendString(c.Query("hub.challenge"))
}

// Webhook processa mensagens recebidas do WhatsApp
func (wc *WhatsAppController) Webhook(c *fiber.Ctx) error {
	var payload webhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "Formato de evento inválido")
	}

	processed := 0
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			value := change.Value

			// O telefone do negócio identifica o tenant dono do canal
			var owner models.User
			if err := wc.DB.Where("business_phone = ?", value.Metadata.DisplayPhoneNumber).First(&owner).Error; err != nil {
				continue
			}

			contactNames := make(map[string]string, len(value.Contacts))
			for _, contact := range value.Contacts {
				contactNames[contact.WaID] = contact.Profile.Name
			}

			for _, message := range value.Messages {
				if message.Type != "text" || message.Text.Body == "" {
					continue
				}
				_, err := wc.Service.HandleInbound(
					c.Context(),
					owner.ID,
					message.From,
					contactNames[message.From],
					message.ID,
					message.Text.Body,
				)
				if err == nil {
					processed++
				}
			}
		}
	}

	// O provedor só precisa do 200; reentregas são deduplicadas pelo serviço
	return c.JSON(fiber.Map{"success": true, "processed": processed})
}

// ListConversations retorna as conversas do canal para o painel
func (wc *WhatsAppController) ListConversations(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var conversations []models.Conversation
	if err := wc.DB.Preload("Customer").
		Where("user_id = ?", userID).
		Order("last_message_at DESC").
		Find(&conversations).Error; err != nil {
		return internalError(c, "Erro ao listar as conversas")
	}

	return c.JSON(fiber.Map{"conversations": conversations, "total": len(conversations)})
}

// GetMessages retorna as mensagens de uma conversa
func (wc *WhatsAppController) GetMessages(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var conversation models.Conversation
	if err := wc.DB.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&conversation).Error; err != nil {
		return notFound(c, "Conversa não encontrada")
	}

	var messages []models.WhatsAppMessage
	if err := wc.DB.Where("conversation_id = ?", conversation.ID).
		Order("id ASC").
		Find(&messages).Error; err != nil {
		return internalError(c, "Erro ao listar as mensagens")
	}

	return c.JSON(fiber.Map{"conversation": conversation, "messages": messages, "total": len(messages)})
}
