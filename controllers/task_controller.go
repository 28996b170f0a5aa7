package controllers

import (
	"strings"
	"time"

	"foguete-backend/models"
	"foguete-backend/services"
	"foguete-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TaskController controlador de tarefas e lembretes
type TaskController struct {
	DB    *gorm.DB
	Cache services.SummaryCache
}

// NewTaskController cria uma nova instância de TaskController
func NewTaskController(db *gorm.DB, cache services.SummaryCache) *TaskController {
	return &TaskController{DB: db, Cache: cache}
}

// TaskRequest estrutura de criação de tarefa
type TaskRequest struct {
	Title   string `json:"title" validate:"required"`
	DueDate string `json:"due_date"` // 2006-01-02
}

// Create cria uma tarefa
func (tc *TaskController) Create(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de dados inválido")
	}
	if strings.TrimSpace(req.Title) == "" {
		return badRequest(c, "Título é obrigatório")
	}

	task := models.Task{UserID: userID, Title: strings.TrimSpace(req.Title)}
	if req.DueDate != "" {
		due, err := time.ParseInLocation("2006-01-02", req.DueDate, time.Local)
		if err != nil {
			return badRequest(c, "Data limite inválida, use o formato 2006-01-02")
		}
		task.DueDate = &due
	}

	if err := tc.DB.Create(&task).Error; err != nil {
		return internalError(c, "Erro ao criar a tarefa")
	}

	// O contador de pendências entra no resumo de qualquer dia consultado
	invalidateDaySummary(c, tc.Cache, userID, time.Now())
	return c.Status(201).JSON(task)
}

// List retorna as tarefas do usuário (pendentes primeiro)
func (tc *TaskController) List(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	query := tc.DB.Where("user_id = ?", userID)
	if c.Query("pending") == "true" {
		query = query.Where("done = ?", false)
	}

	var tasks []models.Task
	if err := query.Order("done ASC").Order("due_date ASC").Find(&tasks).Error; err != nil {
		return internalError(c, "Erro ao listar as tarefas")
	}

	return c.JSON(fiber.Map{"tasks": tasks, "total": len(tasks)})
}

// Complete marca uma tarefa como concluída
func (tc *TaskController) Complete(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var task models.Task
	if err := tc.DB.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&task).Error; err != nil {
		return notFound(c, "Tarefa não encontrada")
	}

	task.Done = true
	if err := tc.DB.Save(&task).Error; err != nil {
		return internalError(c, "Erro ao concluir a tarefa")
	}

	invalidateDaySummary(c, tc.Cache, userID, time.Now())
	return c.JSON(task)
}

// Delete remove uma tarefa
func (tc *TaskController) Delete(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var task models.Task
	if err := tc.DB.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&task).Error; err != nil {
		return notFound(c, "Tarefa não encontrada")
	}

	if err := tc.DB.Delete(&task).Error; err != nil {
		return internalError(c, "Erro ao remover a tarefa")
	}

	invalidateDaySummary(c, tc.Cache, userID, time.Now())
	return c.JSON(fiber.Map{"success": true, "message": "Tarefa removida"})
}
