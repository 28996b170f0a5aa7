package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"foguete-backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// historyWindow limita quantas mensagens da conversa vão para o modelo
const historyWindow = 10

// WhatsAppSender abstrai o envio de mensagens de texto pelo provedor
type WhatsAppSender interface {
	SendText(ctx context.Context, toPhone, text string) error
}

// CloudAPISender envia mensagens pela API estilo WhatsApp Cloud
type CloudAPISender struct {
	httpClient *http.Client
	token      string
	phoneID    string
	baseURL    string
}

// NewCloudAPISender cria o sender a partir das variáveis de ambiente
func NewCloudAPISender() *CloudAPISender {
	baseURL := os.Getenv("WHATSAPP_API_URL")
	if baseURL == "" {
		baseURL = "https://graph.facebook.com/v18.0"
	}
	return &CloudAPISender{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		token:      os.Getenv("WHATSAPP_TOKEN"),
		phoneID:    os.Getenv("WHATSAPP_PHONE_ID"),
		baseURL:    baseURL,
	}
}

// SendText envia uma mensagem de texto para o telefone informado
func (s *CloudAPISender) SendText(ctx context.Context, toPhone, text string) error {
	if s.token == "" || s.phoneID == "" {
		return errors.New("canal WhatsApp não configurado")
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                toPhone,
		"type":              "text",
		"text":              map[string]string{"body": text},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneID)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Set("Authorization", "Bearer "+s.token)
	request.Header.Set("Content-Type", "application/json")

	response, err := s.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		return fmt.Errorf("provedor WhatsApp retornou status %d", response.StatusCode)
	}
	return nil
}

// WhatsAppService processa o canal de vendas via WhatsApp.
//
// Mensagem recebida → conversa persistida → assistente de IA → resposta
// persistida e enviada de volta pelo provedor.
type WhatsAppService struct {
	db        *gorm.DB
	assistant *AssistantService
	sender    WhatsAppSender
	hub       *Hub
	logger    *zap.Logger
}

// NewWhatsAppService cria o serviço do canal WhatsApp
func NewWhatsAppService(db *gorm.DB, assistant *AssistantService, sender WhatsAppSender, hub *Hub, logger *zap.Logger) *WhatsAppService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatsAppService{
		db:        db,
		assistant: assistant,
		sender:    sender,
		hub:       hub,
		logger:    logger,
	}
}

// HandleInbound processa uma mensagem recebida do contato e responde
func (s *WhatsAppService) HandleInbound(ctx context.Context, userID uint, contactPhone, contactName, externalID, text string) (*models.WhatsAppMessage, error) {
	logger := s.logger.With(
		zap.Uint("user_id", userID),
		zap.String("contact_phone", contactPhone),
	)

	// Webhooks podem ser reentregues; o external_id deduplica
	if externalID != "" {
		var existing models.WhatsAppMessage
		err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&existing).Error
		if err == nil {
			logger.Info("mensagem duplicada ignorada", zap.String("external_id", externalID))
			return &existing, nil
		}
	}

	conversation, err := s.findOrCreateConversation(ctx, userID, contactPhone, contactName)
	if err != nil {
		return nil, err
	}

	inbound := models.WhatsAppMessage{
		ConversationID: conversation.ID,
		Direction:      models.MessageDirectionIn,
		Text:           text,
		ExternalID:     externalID,
	}
	if err := s.db.WithContext(ctx).Create(&inbound).Error; err != nil {
		return nil, err
	}

	history, err := s.conversationHistory(ctx, conversation.ID)
	if err != nil {
		return nil, err
	}

	replyText := "Desculpe, não consegui processar sua mensagem agora. Tente novamente em instantes."
	result, err := s.assistant.Chat(ctx, userID, history)
	if err != nil {
		logger.Warn("assistente falhou na conversa do WhatsApp", zap.Error(err))
	} else {
		replyText = result.Message
	}

	outbound := models.WhatsAppMessage{
		ConversationID: conversation.ID,
		Direction:      models.MessageDirectionOut,
		Text:           replyText,
	}
	if err := s.db.WithContext(ctx).Create(&outbound).Error; err != nil {
		return nil, err
	}

	s.db.WithContext(ctx).Model(conversation).Update("last_message_at", time.Now())

	if err := s.sender.SendText(ctx, contactPhone, replyText); err != nil {
		// A conversa fica registrada mesmo quando o provedor falha
		logger.Warn("falha ao enviar resposta pelo provedor", zap.Error(err))
	}

	if s.hub != nil {
		s.hub.NotifyUser(userID, WSMessage{
			Type: "whatsapp_message",
			Payload: map[string]any{
				"conversation_id": conversation.ID,
				"contact_phone":   contactPhone,
				"text":            text,
				"reply":           replyText,
			},
		})
	}

	return &outbound, nil
}

// findOrCreateConversation localiza a conversa do contato ou abre uma nova
func (s *WhatsAppService) findOrCreateConversation(ctx context.Context, userID uint, contactPhone, contactName string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND contact_phone = ?", userID, contactPhone).
		First(&conversation).Error
	if err == nil {
		return &conversation, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conversation = models.Conversation{
		UserID:        userID,
		ContactPhone:  contactPhone,
		ContactName:   contactName,
		LastMessageAt: time.Now(),
	}

	// Se o telefone já é de um cliente cadastrado, vincula a conversa
	var customer models.Customer
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND phone = ?", userID, contactPhone).
		First(&customer).Error; err == nil {
		conversation.CustomerID = &customer.ID
		if conversation.ContactName == "" {
			conversation.ContactName = customer.Name
		}
	}

	if err := s.db.WithContext(ctx).Create(&conversation).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

// conversationHistory devolve as últimas mensagens no formato do assistente
func (s *WhatsAppService) conversationHistory(ctx context.Context, conversationID uint) ([]ChatMessage, error) {
	var stored []models.WhatsAppMessage
	if err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id DESC").
		Limit(historyWindow).
		Find(&stored).Error; err != nil {
		return nil, err
	}

	// A consulta vem do mais novo para o mais antigo; invertemos
	history := make([]ChatMessage, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		role := "user"
		if stored[i].Direction == models.MessageDirectionOut {
			role = "assistant"
		}
		history = append(history, ChatMessage{Role: role, Content: stored[i].Text})
	}
	return history, nil
}
