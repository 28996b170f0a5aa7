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

// AppointmentController controlador da agenda
type AppointmentController struct {
	DB    *gorm.DB
	Cache services.SummaryCache
}

// NewAppointmentController cria uma nova instância de AppointmentController
func NewAppointmentController(db *gorm.DB, cache services.SummaryCache) *AppointmentController {
	return &AppointmentController{DB: db, Cache: cache}
}

// AppointmentRequest estrutura de criação/edição de agendamento
type AppointmentRequest struct {
	CustomerID *uint  `json:"customer_id"`
	Title      string `json:"title" validate:"required"`
	Notes      string `json:"notes"`
	StartTime  string `json:"start_time" validate:"required"` // 2006-01-02 15:04
	EndTime    string `json:"end_time"`
	Price      string `json:"price"`
	Status     string `json:"status"`
}

// Create cria um agendamento; sobreposição de horário vira aviso, não erro
func (ac *AppointmentController) Create(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req AppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de dados inválido")
	}

	appointment, err := ac.buildAppointment(userID, &req)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if appointment.Status == "" {
		appointment.Status = models.AppointmentStatusScheduled
	}

	warning := ac.overlapWarning(userID, appointment, 0)

	if err := ac.DB.Create(appointment).Error; err != nil {
		return internalError(c, "Erro ao criar o agendamento")
	}

	invalidateDaySummary(c, ac.Cache, userID, appointment.StartTime)

	response := fiber.Map{"appointment": appointment}
	if warning != "" {
		response["warning"] = warning
	}
	return c.Status(201).JSON(response)
}

// List retorna os agendamentos do usuário em um intervalo opcional
func (ac *AppointmentController) List(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	query := ac.DB.Preload("Customer").Where("user_id = ?", userID)

	if from := c.Query("from"); from != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", from, time.Local); err == nil {
			query = query.Where("start_time >= ?", parsed)
		}
	}
	if to := c.Query("to"); to != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", to, time.Local); err == nil {
			query = query.Where("start_time < ?", parsed.AddDate(0, 0, 1))
		}
	}

	var appointments []models.Appointment
	if err := query.Order("start_time ASC").Find(&appointments).Error; err != nil {
		return internalError(c, "Erro ao listar os agendamentos")
	}

	return c.JSON(fiber.Map{"appointments": appointments, "total": len(appointments)})
}

// Day retorna os agendamentos de um dia específico
func (ac *AppointmentController) Day(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	day, err := time.ParseInLocation("2006-01-02", c.Params("date"), time.Local)
	if err != nil {
		return badRequest(c, "Data inválida, use o formato 2006-01-02")
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	var appointments []models.Appointment
	if err := ac.DB.Preload("Customer").
		Where("user_id = ? AND start_time >= ? AND start_time < ?", userID, dayStart, dayStart.AddDate(0, 0, 1)).
		Order("start_time ASC").
		Find(&appointments).Error; err != nil {
		return internalError(c, "Erro ao listar os agendamentos")
	}

	return c.JSON(fiber.Map{"date": c.Params("date"), "appointments": appointments, "total": len(appointments)})
}

// Update edita um agendamento existente
func (ac *AppointmentController) Update(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var appointment models.Appointment
	if err := ac.DB.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&appointment).Error; err != nil {
		return notFound(c, "Agendamento não encontrado")
	}

	var req AppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de dados inválido")
	}

	updated, err := ac.buildAppointment(userID, &req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	warning := ac.overlapWarning(userID, updated, appointment.ID)

	// O agendamento pode ter mudado de dia; limpa o cache dos dois
	previousStart := appointment.StartTime

	appointment.CustomerID = updated.CustomerID
	appointment.Title = updated.Title
	appointment.Notes = updated.Notes
	appointment.StartTime = updated.StartTime
	appointment.EndTime = updated.EndTime
	appointment.Price = updated.Price
	if updated.Status != "" {
		appointment.Status = updated.Status
	}

	if err := ac.DB.Save(&appointment).Error; err != nil {
		return internalError(c, "Erro ao atualizar o agendamento")
	}

	invalidateDaySummary(c, ac.Cache, userID, previousStart)
	invalidateDaySummary(c, ac.Cache, userID, appointment.StartTime)

	response := fiber.Map{"appointment": appointment}
	if warning != "" {
		response["warning"] = warning
	}
	return c.JSON(response)
}

// Cancel marca um agendamento como cancelado
func (ac *AppointmentController) Cancel(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var appointment models.Appointment
	if err := ac.DB.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&appointment).Error; err != nil {
		return notFound(c, "Agendamento não encontrado")
	}

	appointment.Status = models.AppointmentStatusCanceled
	if err := ac.DB.Save(&appointment).Error; err != nil {
		return internalError(c, "Erro ao cancelar o agendamento")
	}

	invalidateDaySummary(c, ac.Cache, userID, appointment.StartTime)
	return c.JSON(fiber.Map{"success": true, "message": "Agendamento cancelado"})
}

// buildAppointment valida o pedido e monta o modelo
func (ac *AppointmentController) buildAppointment(userID uint, req *AppointmentRequest) (*models.Appointment, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fiber.NewError(400, "Título é obrigatório")
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", req.StartTime, time.Local)
	if err != nil {
		return nil, fiber.NewError(400, "start_time inválido, use o formato 2006-01-02 15:04")
	}

	end := start.Add(time.Hour)
	if req.EndTime != "" {
		end, err = time.ParseInLocation("2006-01-02 15:04", req.EndTime, time.Local)
		if err != nil {
			return nil, fiber.NewError(400, "end_time inválido, use o formato 2006-01-02 15:04")
		}
		if !end.After(start) {
			return nil, fiber.NewError(400, "end_time deve ser depois de start_time")
		}
	}

	price := decimal.Zero
	if req.Price != "" {
		price, err = decimal.NewFromString(req.Price)
		if err != nil || price.IsNegative() {
			return nil, fiber.NewError(400, "Preço inválido")
		}
	}

	if req.CustomerID != nil {
		var customer models.Customer
		if err := ac.DB.Where("id = ? AND user_id = ?", *req.CustomerID, userID).First(&customer).Error; err != nil {
			return nil, fiber.NewError(400, "Cliente não encontrado")
		}
	}

	return &models.Appointment{
		UserID:     userID,
		CustomerID: req.CustomerID,
		Title:      strings.TrimSpace(req.Title),
		Notes:      req.Notes,
		StartTime:  start,
		EndTime:    end,
		Status:     models.AppointmentStatus(req.Status),
		Price:      price,
	}, nil
}

// overlapWarning avisa quando o horário conflita com outro agendamento ativo
func (ac *AppointmentController) overlapWarning(userID uint, appointment *models.Appointment, excludeID uint) string {
	var conflict models.Appointment
	query := ac.DB.Where(
		"user_id = ? AND status = ? AND start_time < ? AND end_time > ?",
		userID, models.AppointmentStatusScheduled, appointment.EndTime, appointment.StartTime,
	)
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.First(&conflict).Error; err == nil {
		return "Conflito de horário com: " + conflict.Title
	}
	return ""
}
