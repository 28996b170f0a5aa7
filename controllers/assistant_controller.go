package controllers

import (
	"errors"
	"strings"

	"foguete-backend/services"
	"foguete-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// AssistantController controlador do assistente de IA
type AssistantController struct {
	Assistant *services.AssistantService
}

// NewAssistantController cria uma nova instância de AssistantController
func NewAssistantController(assistant *services.AssistantService) *AssistantController {
	return &AssistantController{Assistant: assistant}
}

// ChatRequest estrutura do pedido de conversa com o assistente
type ChatRequest struct {
	Messages []services.ChatMessage `json:"messages" validate:"required"`
}

// Chat processa uma rodada de conversa com o assistente
func (ac *AssistantController) Chat(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Necessário estar autenticado"})
	}

	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Formato de dados inválido"})
	}
	if len(req.Messages) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Envie ao menos uma mensagem"})
	}
	last := req.Messages[len(req.Messages)-1]
	if strings.TrimSpace(last.Content) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Mensagem vazia"})
	}

	result, err := ac.Assistant.Chat(c.Context(), userID, req.Messages)
	if err != nil {
		// Erros do endpoint do modelo viram mensagens específicas, sem retry
		switch {
		case errors.Is(err, services.ErrUpstreamRateLimit):
			return c.Status(429).JSON(fiber.Map{
				"error": "Muitas solicitações ao assistente. Aguarde alguns segundos e tente de novo.",
			})
		case errors.Is(err, services.ErrUpstreamQuota):
			return c.Status(402).JSON(fiber.Map{
				"error": "Os créditos de IA da sua conta acabaram. Verifique seu plano.",
			})
		default:
			return c.Status(500).JSON(fiber.Map{
				"error": "O assistente está indisponível no momento. Tente novamente.",
			})
		}
	}

	response := fiber.Map{"message": result.Message}
	if len(result.ToolsUsed) > 0 {
		response["tools_used"] = result.ToolsUsed
	}
	return c.JSON(response)
}
