package controllers

import (
	"strings"

	"foguete-backend/models"
	"foguete-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CustomerController controlador do CRM de clientes
type CustomerController struct {
	DB *gorm.DB
}

// NewCustomerController cria uma nova instância de CustomerController
func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{DB: db}
}

// CustomerRequest estrutura de criação/edição de cliente
type CustomerRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=255"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

// Create cadastra um novo cliente
func (cc *CustomerController) Create(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de dados inválido")
	}
	if strings.TrimSpace(req.Name) == "" {
		return badRequest(c, "Nome é obrigatório")
	}

	customer := models.Customer{
		UserID:   userID,
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(req.Email),
		Phone:    req.Phone,
		Notes:    req.Notes,
		IsActive: true,
	}
	if err := cc.DB.Create(&customer).Error; err != nil {
		return internalError(c, "Erro ao cadastrar o cliente")
	}

	return c.Status(201).JSON(customer)
}

// List retorna os clientes do usuário
func (cc *CustomerController) List(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var customers []models.Customer
	query := cc.DB.Where("user_id = ?", userID)
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("name ASC").Find(&customers).Error; err != nil {
		return internalError(c, "Erro ao listar os clientes")
	}

	return c.JSON(fiber.Map{"customers": customers, "total": len(customers)})
}

// Search busca clientes por nome, telefone ou email
func (cc *CustomerController) Search(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return badRequest(c, "Parâmetro q é obrigatório")
	}

	like := "%" + strings.ToLower(q) + "%"
	var customers []models.Customer
	if err := cc.DB.
		Where("user_id = ? AND (LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?)", userID, like, like, like).
		Limit(20).
		Find(&customers).Error; err != nil {
		return internalError(c, "Erro na busca de clientes")
	}

	return c.JSON(fiber.Map{"customers": customers, "total": len(customers)})
}

// Get retorna um cliente pelo ID
func (cc *CustomerController) Get(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var customer models.Customer
	if err := cc.DB.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&customer).Error; err != nil {
		return notFound(c, "Cliente não encontrado")
	}

	return c.JSON(customer)
}

// Update atualiza os dados de um cliente
func (cc *CustomerController) Update(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var customer models.Customer
	if err := cc.DB.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&customer).Error; err != nil {
		return notFound(c, "Cliente não encontrado")
	}

	var req CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de dados inválido")
	}
	if strings.TrimSpace(req.Name) == "" {
		return badRequest(c, "Nome é obrigatório")
	}

	customer.Name = strings.TrimSpace(req.Name)
	customer.Email = strings.ToLower(req.Email)
	customer.Phone = req.Phone
	customer.Notes = req.Notes

	if err := cc.DB.Save(&customer).Error; err != nil {
		return internalError(c, "Erro ao atualizar o cliente")
	}

	return c.JSON(customer)
}

// Delete desativa um cliente (soft delete: o histórico continua ligado a ele)
func (cc *CustomerController) Delete(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var customer models.Customer
	if err := cc.DB.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&customer).Error; err != nil {
		return notFound(c, "Cliente não encontrado")
	}

	customer.IsActive = false
	if err := cc.DB.Save(&customer).Error; err != nil {
		return internalError(c, "Erro ao remover o cliente")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Cliente removido"})
}
