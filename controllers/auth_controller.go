package controllers

import (
	"regexp"
	"strings"

	"foguete-backend/models"
	"foguete-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthController controlador de autenticação
type AuthController struct {
	DB *gorm.DB
}

// NewAuthController cria uma nova instância de AuthController
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// RegisterRequest estrutura do pedido de cadastro
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	BusinessName    string `json:"business_name"`
	Segment         string `json:"segment"`
}

// LoginRequest estrutura do pedido de login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RecoverRequest estrutura do pedido de recuperação de senha
type RecoverRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// AuthResponse estrutura da resposta de autenticação
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
	User    struct {
		ID           uint   `json:"id"`
		Name         string `json:"name"`
		Email        string `json:"email"`
		BusinessName string `json:"business_name"`
	} `json:"user,omitempty"`
}

// Register processa o cadastro de um novo dono de negócio
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: "Formato de dados inválido",
		})
	}

	if err := ac.validateRegisterRequest(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	// Verificamos se o usuário já existe
	var existingUser models.User
	if err := ac.DB.Where("email = ?", strings.ToLower(req.Email)).First(&existingUser).Error; err == nil {
		return c.Status(409).JSON(AuthResponse{
			Success: false,
			Message: "Já existe uma conta com este email",
		})
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Message: "Erro ao criar a conta",
		})
	}

	user := models.User{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hashedPassword,
		BusinessName: req.BusinessName,
		Segment:      req.Segment,
		IsActive:     true,
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Message: "Erro ao criar a conta",
		})
	}

	// Toda conta nova começa no plano gratuito
	var freePlan models.Plan
	if err := ac.DB.Where("code = ?", "gratuito").First(&freePlan).Error; err == nil {
		ac.DB.Create(&models.Subscription{
			UserID: user.ID,
			PlanID: freePlan.ID,
			Status: models.SubscriptionStatusActive,
		})
	}

	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Message: "Erro ao gerar o token",
		})
	}

	return c.Status(201).JSON(buildAuthResponse("Conta criada com sucesso", token, &user))
}

// Login processa o login do usuário
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: "Formato de dados inválido",
		})
	}

	if err := ac.validateLoginRequest(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	var user models.User
	if err := ac.DB.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
		return c.Status(401).JSON(AuthResponse{
			Success: false,
			Message: "Email ou senha incorretos",
		})
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return c.Status(401).JSON(AuthResponse{
			Success: false,
			Message: "Email ou senha incorretos",
		})
	}

	if !user.IsActive {
		return c.Status(401).JSON(AuthResponse{
			Success: false,
			Message: "Conta bloqueada",
		})
	}

	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Message: "Erro ao gerar o token",
		})
	}

	return c.JSON(buildAuthResponse("Login realizado com sucesso", token, &user))
}

// Recover processa o pedido de recuperação de senha
func (ac *AuthController) Recover(c *fiber.Ctx) error {
	var req RecoverRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: "Formato de dados inválido",
		})
	}

	if !isValidEmail(req.Email) {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: "Formato de email inválido",
		})
	}

	// Resposta idêntica exista ou não a conta (não vazamos emails cadastrados)
	return c.JSON(AuthResponse{
		Success: true,
		Message: "Se existir uma conta com este email, enviaremos as instruções de recuperação",
	})
}

// Métodos auxiliares de validação

func (ac *AuthController) validateRegisterRequest(req *RegisterRequest) error {
	if req.Name == "" {
		return fiber.NewError(400, "Nome é obrigatório")
	}
	if len(req.Name) < 2 || len(req.Name) > 50 {
		return fiber.NewError(400, "Nome deve ter entre 2 e 50 caracteres")
	}
	if !isValidEmail(req.Email) {
		return fiber.NewError(400, "Formato de email inválido")
	}
	if len(req.Password) < 6 {
		return fiber.NewError(400, "Senha deve ter no mínimo 6 caracteres")
	}
	if req.Password != req.ConfirmPassword {
		return fiber.NewError(400, "As senhas não conferem")
	}
	return nil
}

func (ac *AuthController) validateLoginRequest(req *LoginRequest) error {
	if !isValidEmail(req.Email) {
		return fiber.NewError(400, "Formato de email inválido")
	}
	if req.Password == "" {
		return fiber.NewError(400, "Senha é obrigatória")
	}
	return nil
}

func buildAuthResponse(message, token string, user *models.User) AuthResponse {
	response := AuthResponse{
		Success: true,
		Message: message,
		Token:   token,
	}
	response.User.ID = user.ID
	response.User.Name = user.Name
	response.User.Email = user.Email
	response.User.BusinessName = user.BusinessName
	return response
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
