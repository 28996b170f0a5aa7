package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"foguete-backend/models"

	openrouter "github.com/revrost/go-openrouter"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Erros mapeados da API do modelo
var (
	ErrUpstreamRateLimit = errors.New("limite de requisições do modelo excedido")
	ErrUpstreamQuota     = errors.New("créditos do modelo esgotados")
	ErrEmptyCompletion   = errors.New("o modelo não retornou nenhuma resposta")
)

// maxToolRounds limita as rodadas de ferramentas antes da resposta final
const maxToolRounds = 3

// ModelClient abstrai o endpoint de chat-completions (fake nos testes)
type ModelClient interface {
	CreateChatCompletion(ctx context.Context, request openrouter.ChatCompletionRequest) (openrouter.ChatCompletionResponse, error)
}

// ChatMessage representa uma mensagem do histórico enviado pelo cliente
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResult representa a resposta final do assistente
type ChatResult struct {
	Message   string   `json:"message"`
	ToolsUsed []string `json:"tools_used,omitempty"`
}

// AssistantService é o despachante de ferramentas do assistente de IA.
//
// Fluxo: histórico + prompt de sistema + schema das ferramentas vão para o
// modelo com tool_choice auto; cada tool call pedida é executada em sequência
// pela tabela de despacho e o resultado (sucesso ou erro) volta para o modelo,
// por no máximo maxToolRounds rodadas.
type AssistantService struct {
	db     *gorm.DB
	ledger *StockLedger
	client ModelClient
	model  string
	logger *zap.Logger
}

// NewAssistantService cria o serviço do assistente
func NewAssistantService(db *gorm.DB, ledger *StockLedger, client ModelClient, logger *zap.Logger) *AssistantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	model := os.Getenv("ASSISTANT_MODEL")
	if model == "" {
		model = "openai/gpt-4o-mini"
	}
	return &AssistantService{
		db:     db,
		ledger: ledger,
		client: client,
		model:  model,
		logger: logger,
	}
}

// Chat processa uma rodada de conversa do usuário com o assistente
func (s *AssistantService) Chat(ctx context.Context, userID uint, history []ChatMessage) (*ChatResult, error) {
	registry := s.buildToolRegistry(userID)

	messages := make([]openrouter.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openrouter.ChatCompletionMessage{
		Role:    openrouter.ChatMessageRoleSystem,
		Content: openrouter.Content{Text: s.systemPrompt(ctx, userID)},
	})
	for _, m := range history {
		role := openrouter.ChatMessageRoleUser
		if m.Role == "assistant" {
			role = openrouter.ChatMessageRoleAssistant
		}
		messages = append(messages, openrouter.ChatCompletionMessage{
			Role:    role,
			Content: openrouter.Content{Text: m.Content},
		})
	}

	toolsUsed := []string{}

	for round := 0; round < maxToolRounds; round++ {
		response, err := s.client.CreateChatCompletion(ctx, openrouter.ChatCompletionRequest{
			Model:      s.model,
			Messages:   messages,
			Tools:      registry.Schemas(),
			ToolChoice: "auto",
		})
		if err != nil {
			return nil, mapUpstreamError(err)
		}
		if len(response.Choices) == 0 {
			return nil, ErrEmptyCompletion
		}

		assistantMessage := response.Choices[0].Message
		if len(assistantMessage.ToolCalls) == 0 {
			// Estado terminal: o modelo respondeu sem pedir ferramentas
			return &ChatResult{Message: assistantMessage.Content.Text, ToolsUsed: toolsUsed}, nil
		}

		messages = append(messages, assistantMessage)
		for _, toolCall := range assistantMessage.ToolCalls {
			toolsUsed = append(toolsUsed, toolCall.Function.Name)
			output := s.executeTool(ctx, registry, toolCall)
			messages = append(messages, openrouter.ChatCompletionMessage{
				Role:       openrouter.ChatMessageRoleTool,
				Content:    openrouter.Content{Text: output},
				Name:       toolCall.Function.Name,
				ToolCallID: toolCall.ID,
			})
		}
	}

	// Limite de rodadas atingido: força uma resposta final sem ferramentas
	response, err := s.client.CreateChatCompletion(ctx, openrouter.ChatCompletionRequest{
		Model:    s.model,
		Messages: messages,
	})
	if err != nil {
		return nil, mapUpstreamError(err)
	}
	if len(response.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	return &ChatResult{Message: response.Choices[0].Message.Content.Text, ToolsUsed: toolsUsed}, nil
}

// executeTool executa uma tool call; falhas viram um resultado de erro
// estruturado que volta para a conversa em vez de abortar o lote
func (s *AssistantService) executeTool(ctx context.Context, registry *ToolRegistry, toolCall openrouter.ToolCall) string {
	definition, ok := registry.Get(toolCall.Function.Name)
	if !ok {
		return toolErrorJSON("ferramenta desconhecida: " + toolCall.Function.Name)
	}

	var params map[string]any
	if toolCall.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(toolCall.Function.Arguments), &params); err != nil {
			return toolErrorJSON("argumentos inválidos: " + err.Error())
		}
	}
	if params == nil {
		params = map[string]any{}
	}

	output, err := definition.Handler(ctx, params)
	if err != nil {
		s.logger.Warn("ferramenta do assistente falhou",
			zap.String("tool", toolCall.Function.Name),
			zap.Error(err),
		)
		return toolErrorJSON(err.Error())
	}
	return output
}

// systemPrompt monta o prompt fixo com o contexto do negócio e a data atual
func (s *AssistantService) systemPrompt(ctx context.Context, userID uint) string {
	businessName := "o negócio"
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err == nil {
		if user.BusinessName != "" {
			businessName = user.BusinessName
		} else {
			businessName = "o negócio de " + user.Name
		}
	}

	return fmt.Sprintf(`Você é o assistente do Foguete Gestão para %s.
Hoje é %s.
Você ajuda o dono do negócio a gerenciar agenda, clientes, finanças, estoque e tarefas.
Use as ferramentas disponíveis quando a pergunta exigir dados ou ações; nunca invente números.
Responda sempre em português, de forma curta e direta.`,
		businessName,
		time.Now().Format("02/01/2006"),
	)
}

// mapUpstreamError traduz erros da API do modelo para a taxonomia do serviço
func mapUpstreamError(err error) error {
	var apiError *openrouter.APIError
	if errors.As(err, &apiError) {
		switch apiError.HTTPStatusCode {
		case 429:
			return ErrUpstreamRateLimit
		case 402:
			return ErrUpstreamQuota
		}
	}
	return err
}

func toolErrorJSON(message string) string {
	data, _ := json.Marshal(map[string]string{"erro": message})
	return string(data)
}
