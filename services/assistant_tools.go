package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"foguete-backend/models"

	openrouter "github.com/revrost/go-openrouter"
	"github.com/shopspring/decimal"
)

// ToolHandler executa uma ferramenta com os argumentos vindos do modelo
type ToolHandler func(ctx context.Context, params map[string]any) (string, error)

// ToolDefinition descreve uma ferramenta disponível para o assistente
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
	Handler     ToolHandler
}

// ToolRegistry é a tabela de despacho indexada por nome de ferramenta
type ToolRegistry struct {
	tools map[string]ToolDefinition
	order []string
}

// NewToolRegistry cria um registro vazio
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]ToolDefinition)}
}

// Register adiciona uma ferramenta ao registro
func (r *ToolRegistry) Register(def ToolDefinition) {
	if _, exists := r.tools[def.Name]; !exists {
		r.order = append(r.order, def.Name)
	}
	r.tools[def.Name] = def
}

// Get retorna a ferramenta pelo nome
func (r *ToolRegistry) Get(name string) (ToolDefinition, bool) {
	def, ok := r.tools[name]
	return def, ok
}

// Schemas retorna o schema de todas as ferramentas no formato da API do modelo
func (r *ToolRegistry) Schemas() []openrouter.Tool {
	schemas := make([]openrouter.Tool, 0, len(r.order))
	for _, name := range r.order {
		def := r.tools[name]
		schemas = append(schemas, openrouter.Tool{
			Type: openrouter.ToolTypeFunction,
			Function: &openrouter.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.InputSchema,
			},
		})
	}
	return schemas
}

// buildToolRegistry monta o registro fixo de ferramentas do assistente.
// Os handlers são closures que capturam o banco e o usuário autenticado.
func (s *AssistantService) buildToolRegistry(userID uint) *ToolRegistry {
	registry := NewToolRegistry()

	registry.Register(ToolDefinition{
		Name:        "criar_agendamento",
		Description: "Cria um agendamento de serviço. Informe título, data e hora de início. Se o nome do cliente for informado e não existir, o cliente é criado automaticamente.",
		InputSchema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"titulo": map[string]any{
					"type":        "string",
					"description": "Título ou serviço do agendamento (ex: 'Corte de cabelo').",
				},
				"data_hora": map[string]any{
					"type":        "string",
					"description": "Data e hora de início no formato '2006-01-02 15:04'.",
				},
				"duracao_minutos": map[string]any{
					"type":        "integer",
					"description": "Duração em minutos (padrão: 60).",
				},
				"cliente_nome": map[string]any{
					"type":        "string",
					"description": "Nome do cliente (opcional).",
				},
				"preco": map[string]any{
					"type":        "number",
					"description": "Preço do serviço em reais (opcional).",
				},
			},
			"required": []string{"titulo", "data_hora"},
		},
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			return s.toolCreateAppointment(ctx, userID, params)
		},
	})

	registry.Register(ToolDefinition{
		Name:        "listar_agendamentos",
		Description: "Lista os agendamentos de um dia com horário, serviço e cliente.",
		InputSchema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"data": map[string]any{
					"type":        "string",
					"description": "Dia no formato '2006-01-02'. Se não informado, usa hoje.",
				},
			},
			"required": []string{},
		},
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			return s.toolListAppointments(ctx, userID, params)
		},
	})

	registry.Register(ToolDefinition{
		Name:        "criar_cliente",
		Description: "Cadastra um novo cliente com nome e, opcionalmente, telefone e email.",
		InputSchema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"nome": map[string]any{
					"type":        "string",
					"description": "Nome do cliente.",
				},
				"telefone": map[string]any{
					"type":        "string",
					"description": "Telefone do cliente (opcional).",
				},
				"email": map[string]any{
					"type":        "string",
					"description": "Email do cliente (opcional).",
				},
			},
			"required": []string{"nome"},
		},
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			return s.toolCreateCustomer(ctx, userID, params)
		},
	})

	registry.Register(ToolDefinition{
		Name:        "buscar_cliente",
		Description: "Busca clientes por nome, telefone ou email. A busca é parcial e não diferencia maiúsculas.",
		InputSchema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"busca": map[string]any{
					"type":        "string",
					"description": "Texto a procurar no nome, telefone ou email.",
				},
			},
			"required": []string{"busca"},
		},
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			return s.toolSearchCustomers(ctx, userID, params)
		},
	})

	registry.Register(ToolDefinition{
		Name:        "registrar_transacao",
		Description: "Registra uma transação financeira de receita ou despesa.",
		InputSchema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"tipo": map[string]any{
					"type":        "string",
					"description": "Tipo da transação: 'receita' ou 'despesa'.",
				},
				"valor": map[string]any{
					"type":        "number",
					"description": "Valor em reais.",
				},
				"descricao": map[string]any{
					"type":        "string",
					"description": "Descrição do lançamento.",
				},
				"categoria": map[string]any{
					"type":        "string",
					"description": "Categoria do lançamento (opcional).",
				},
			},
			"required": []string{"tipo", "valor", "descricao"},
		},
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			return s.toolRecordTransaction(ctx, userID, params)
		},
	})

	registry.Register(ToolDefinition{
		Name:        "ver_saldo",
		Description: "Calcula receitas, despesas e saldo de um período.",
		InputSchema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"data_inicio": map[string]any{
					"type":        "string",
					"description": "Início do período no formato '2006-01-02'.",
				},
				"data_fim": map[string]any{
					"type":        "string",
					"description": "Fim do período no formato '2006-01-02'.",
				},
			},
			"required": []string{"data_inicio", "data_fim"},
		},
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			return s.toolPeriodBalance(ctx, userID, params)
		},
	})

	registry.Register(ToolDefinition{
		Name:        "adicionar_estoque",
		Description: "Registra entrada de estoque para um item existente, buscado pelo nome. Se houver custo total da compra, uma despesa é lançada automaticamente.",
		InputSchema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"item_nome": map[string]any{
					"type":        "string",
					"description": "Nome do item de estoque.",
				},
				"quantidade": map[string]any{
					"type":        "number",
					"description": "Quantidade que entrou.",
				},
				"custo_total": map[string]any{
					"type":        "number",
					"description": "Custo total da compra em reais (opcional).",
				},
				"motivo": map[string]any{
					"type":        "string",
					"description": "Motivo da entrada (opcional).",
				},
			},
			"required": []string{"item_nome", "quantidade"},
		},
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			return s.toolAddStock(ctx, userID, params)
		},
	})

	registry.Register(ToolDefinition{
		Name:        "ajustar_estoque",
		Description: "Ajusta o saldo de um item de estoque para um novo valor absoluto (contagem de inventário).",
		InputSchema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"item_nome": map[string]any{
					"type":        "string",
					"description": "Nome do item de estoque.",
				},
				"nova_quantidade": map[string]any{
					"type":        "number",
					"description": "Novo saldo absoluto do item.",
				},
				"motivo": map[string]any{
					"type":        "string",
					"description": "Motivo do ajuste (opcional).",
				},
			},
			"required": []string{"item_nome", "nova_quantidade"},
		},
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			return s.toolAdjustStock(ctx, userID, params)
		},
	})

	registry.Register(ToolDefinition{
		Name:        "criar_tarefa",
		Description: "Cria uma tarefa ou lembrete, com data limite opcional.",
		InputSchema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"titulo": map[string]any{
					"type":        "string",
					"description": "Título da tarefa.",
				},
				"data_limite": map[string]any{
					"type":        "string",
					"description": "Data limite no formato '2006-01-02' (opcional).",
				},
			},
			"required": []string{"titulo"},
		},
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			return s.toolCreateTask(ctx, userID, params)
		},
	})

	registry.Register(ToolDefinition{
		Name:        "resumo_do_dia",
		Description: "Resumo de hoje: agendamentos, receitas, despesas, tarefas pendentes e itens com estoque baixo.",
		InputSchema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties":           map[string]any{},
			"required":             []string{},
		},
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			return s.toolDaySummary(ctx, userID)
		},
	})

	return registry
}

// ── handlers das ferramentas ──

func (s *AssistantService) toolCreateAppointment(ctx context.Context, userID uint, params map[string]any) (string, error) {
	title := paramString(params, "titulo")
	startRaw := paramString(params, "data_hora")
	if title == "" || startRaw == "" {
		return "", errors.New("titulo e data_hora são obrigatórios")
	}

	start, err := parseDateTime(startRaw)
	if err != nil {
		return "", err
	}

	duration := 60
	if v, ok := params["duracao_minutos"].(float64); ok && v > 0 {
		duration = int(v)
	}

	appointment := models.Appointment{
		UserID:    userID,
		Title:     title,
		StartTime: start,
		EndTime:   start.Add(time.Duration(duration) * time.Minute),
		Status:    models.AppointmentStatusScheduled,
		Price:     paramDecimal(params, "preco"),
	}

	// Cliente pelo nome: reutiliza o cadastro ou cria na hora
	if name := paramString(params, "cliente_nome"); name != "" {
		var customer models.Customer
		err := s.db.WithContext(ctx).
			Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name).
			First(&customer).Error
		if err != nil {
			customer = models.Customer{UserID: userID, Name: name, IsActive: true}
			if err := s.db.WithContext(ctx).Create(&customer).Error; err != nil {
				return "", err
			}
		}
		appointment.CustomerID = &customer.ID
	}

	var sameDay []models.Appointment
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	s.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND start_time >= ? AND start_time < ?",
			userID, models.AppointmentStatusScheduled, dayStart, dayStart.AddDate(0, 0, 1)).
		Find(&sameDay)

	if err := s.db.WithContext(ctx).Create(&appointment).Error; err != nil {
		return "", err
	}

	result := map[string]any{
		"id":     appointment.ID,
		"titulo": appointment.Title,
		"inicio": appointment.StartTime.Format("2006-01-02 15:04"),
		"fim":    appointment.EndTime.Format("2006-01-02 15:04"),
	}
	for _, other := range sameDay {
		if other.Overlaps(appointment.StartTime, appointment.EndTime) {
			result["aviso"] = "Conflito de horário com: " + other.Title
			break
		}
	}
	return toolJSON(result)
}

func (s *AssistantService) toolListAppointments(ctx context.Context, userID uint, params map[string]any) (string, error) {
	day := time.Now()
	if raw := paramString(params, "data"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return "", err
		}
		day = parsed
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var appointments []models.Appointment
	if err := s.db.WithContext(ctx).Preload("Customer").
		Where("user_id = ? AND start_time >= ? AND start_time < ?", userID, dayStart, dayEnd).
		Order("start_time ASC").
		Find(&appointments).Error; err != nil {
		return "", err
	}

	entries := make([]map[string]any, 0, len(appointments))
	for _, a := range appointments {
		entry := map[string]any{
			"id":     a.ID,
			"titulo": a.Title,
			"inicio": a.StartTime.Format("15:04"),
			"status": a.Status,
		}
		if a.Customer != nil {
			entry["cliente"] = a.Customer.Name
		}
		entries = append(entries, entry)
	}

	return toolJSON(map[string]any{
		"data":         dayStart.Format("2006-01-02"),
		"total":        len(entries),
		"agendamentos": entries,
	})
}

func (s *AssistantService) toolCreateCustomer(ctx context.Context, userID uint, params map[string]any) (string, error) {
	name := paramString(params, "nome")
	if name == "" {
		return "", errors.New("nome é obrigatório")
	}

	customer := models.Customer{
		UserID:   userID,
		Name:     name,
		Phone:    paramString(params, "telefone"),
		Email:    strings.ToLower(paramString(params, "email")),
		IsActive: true,
	}
	if err := s.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return "", err
	}

	return toolJSON(map[string]any{
		"id":       customer.ID,
		"nome":     customer.Name,
		"telefone": customer.Phone,
		"email":    customer.Email,
	})
}

func (s *AssistantService) toolSearchCustomers(ctx context.Context, userID uint, params map[string]any) (string, error) {
	query := paramString(params, "busca")
	if query == "" {
		return "", errors.New("busca é obrigatória")
	}

	like := "%" + strings.ToLower(query) + "%"
	var customers []models.Customer
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND (LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?)", userID, like, like, like).
		Limit(10).
		Find(&customers).Error; err != nil {
		return "", err
	}

	entries := make([]map[string]any, 0, len(customers))
	for _, c := range customers {
		entries = append(entries, map[string]any{
			"id":       c.ID,
			"nome":     c.Name,
			"telefone": c.Phone,
			"email":    c.Email,
		})
	}

	return toolJSON(map[string]any{"total": len(entries), "clientes": entries})
}

func (s *AssistantService) toolRecordTransaction(ctx context.Context, userID uint, params map[string]any) (string, error) {
	kind := models.TransactionType(paramString(params, "tipo"))
	if kind != models.TransactionTypeIncome && kind != models.TransactionTypeExpense {
		return "", errors.New("tipo deve ser 'receita' ou 'despesa'")
	}

	amount := paramDecimal(params, "valor")
	if !amount.IsPositive() {
		return "", errors.New("valor deve ser positivo")
	}

	description := paramString(params, "descricao")
	if description == "" {
		return "", errors.New("descricao é obrigatória")
	}

	transaction := models.FinancialTransaction{
		UserID:      userID,
		Type:        kind,
		Amount:      amount,
		Description: description,
		Category:    paramString(params, "categoria"),
		Date:        time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&transaction).Error; err != nil {
		return "", err
	}

	return toolJSON(map[string]any{
		"id":        transaction.ID,
		"tipo":      transaction.Type,
		"valor":     transaction.Amount,
		"descricao": transaction.Description,
	})
}

func (s *AssistantService) toolPeriodBalance(ctx context.Context, userID uint, params map[string]any) (string, error) {
	from, err := time.ParseInLocation("2006-01-02", paramString(params, "data_inicio"), time.Local)
	if err != nil {
		return "", errors.New("data_inicio inválida, use o formato 2006-01-02")
	}
	to, err := time.ParseInLocation("2006-01-02", paramString(params, "data_fim"), time.Local)
	if err != nil {
		return "", errors.New("data_fim inválida, use o formato 2006-01-02")
	}

	balance, err := PeriodBalance(ctx, s.db, userID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return "", err
	}

	return toolJSON(map[string]any{
		"periodo":  paramString(params, "data_inicio") + " a " + paramString(params, "data_fim"),
		"receitas": balance.Income,
		"despesas": balance.Expense,
		"saldo":    balance.Balance,
	})
}

func (s *AssistantService) toolAddStock(ctx context.Context, userID uint, params map[string]any) (string, error) {
	item, err := s.findItemByName(ctx, userID, paramString(params, "item_nome"))
	if err != nil {
		return "", err
	}

	quantity := paramDecimal(params, "quantidade")
	reason := paramString(params, "motivo")
	if reason == "" {
		reason = "Entrada via assistente"
	}

	result, err := s.ledger.RegisterMovement(ctx, userID, &StockMovementRequest{
		ItemID:        item.ID,
		Type:          models.MovementTypeIn,
		Quantity:      quantity,
		Reason:        reason,
		ReferenceType: "assistente",
		TotalCost:     paramDecimal(params, "custo_total"),
	})
	if err != nil {
		return "", err
	}

	out := map[string]any{
		"item":           item.Name,
		"saldo_anterior": result.Movement.PreviousStock,
		"saldo_atual":    result.Movement.NewStock,
	}
	if result.Warning != "" {
		out["aviso"] = result.Warning
	}
	return toolJSON(out)
}

func (s *AssistantService) toolAdjustStock(ctx context.Context, userID uint, params map[string]any) (string, error) {
	item, err := s.findItemByName(ctx, userID, paramString(params, "item_nome"))
	if err != nil {
		return "", err
	}

	reason := paramString(params, "motivo")
	if reason == "" {
		reason = "Ajuste via assistente"
	}

	result, err := s.ledger.RegisterMovement(ctx, userID, &StockMovementRequest{
		ItemID:        item.ID,
		Type:          models.MovementTypeAdjust,
		Quantity:      paramDecimal(params, "nova_quantidade"),
		Reason:        reason,
		ReferenceType: "assistente",
	})
	if err != nil {
		return "", err
	}

	return toolJSON(map[string]any{
		"item":           item.Name,
		"saldo_anterior": result.Movement.PreviousStock,
		"saldo_atual":    result.Movement.NewStock,
	})
}

func (s *AssistantService) toolCreateTask(ctx context.Context, userID uint, params map[string]any) (string, error) {
	title := paramString(params, "titulo")
	if title == "" {
		return "", errors.New("titulo é obrigatório")
	}

	task := models.Task{UserID: userID, Title: title}
	if raw := paramString(params, "data_limite"); raw != "" {
		due, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return "", errors.New("data_limite inválida, use o formato 2006-01-02")
		}
		task.DueDate = &due
	}

	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return "", err
	}

	return toolJSON(map[string]any{"id": task.ID, "titulo": task.Title})
}

func (s *AssistantService) toolDaySummary(ctx context.Context, userID uint) (string, error) {
	summary, err := DaySummary(ctx, s.db, userID, time.Now())
	if err != nil {
		return "", err
	}
	return toolJSON(summary)
}

// ── helpers ──

func (s *AssistantService) findItemByName(ctx context.Context, userID uint, name string) (*models.InventoryItem, error) {
	if name == "" {
		return nil, errors.New("item_nome é obrigatório")
	}
	var item models.InventoryItem
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(name) LIKE ?", userID, "%"+strings.ToLower(name)+"%").
		First(&item).Error
	if err != nil {
		return nil, errors.New("item de estoque não encontrado: " + name)
	}
	return &item, nil
}

// paramString lê um argumento string da ferramenta
func paramString(params map[string]any, key string) string {
	value, _ := params[key].(string)
	return strings.TrimSpace(value)
}

// paramDecimal lê um argumento numérico (o modelo pode mandar número ou string)
func paramDecimal(params map[string]any, key string) decimal.Decimal {
	switch value := params[key].(type) {
	case float64:
		return decimal.NewFromFloat(value)
	case string:
		parsed, err := decimal.NewFromString(value)
		if err == nil {
			return parsed
		}
	}
	return decimal.Zero
}

// parseDateTime aceita os formatos de data/hora que o modelo costuma gerar
func parseDateTime(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", time.RFC3339} {
		if parsed, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, errors.New("data_hora inválida, use o formato 2006-01-02 15:04")
}

// toolJSON serializa o resultado da ferramenta para o modelo
func toolJSON(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
