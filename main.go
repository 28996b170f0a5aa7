package main

import (
	"log"
	"os"
	"time"

	"foguete-backend/controllers"
	"foguete-backend/models"
	"foguete-backend/routes"
	"foguete-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	openrouter "github.com/revrost/go-openrouter"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// Variáveis de ambiente do .env (se existir)
	godotenv.Load()

	// Inicialização do banco de dados
	db, err := models.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Automigração
	db.AutoMigrate(&models.User{}, &models.Customer{}, &models.Appointment{}, &models.FinancialTransaction{}, &models.InventoryItem{}, &models.StockMovement{}, &models.Task{}, &models.Proposal{}, &models.ProposalItem{}, &models.Plan{}, &models.Subscription{}, &models.Conversation{}, &models.WhatsAppMessage{})

	// Planos padrão
	initDefaultPlans(db)

	// Logger estruturado dos serviços
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer zapLogger.Sync()

	// Criação do app Fiber
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
				"code":    code,
			})
		},
	})

	// Middleware
	app.Use(logger.New())

	// CORS
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000,http://127.0.0.1:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Hub de notificações do painel
	hub := services.NewHub()
	go hub.Run()

	// Serviços
	ledger := services.NewStockLedger(db, hub, zapLogger)
	modelClient := openrouter.NewClient(os.Getenv("OPENROUTER_API_KEY"))
	assistantService := services.NewAssistantService(db, ledger, modelClient, zapLogger)
	whatsappService := services.NewWhatsAppService(db, assistantService, services.NewCloudAPISender(), hub, zapLogger)
	dashboardCache := services.NewDashboardCache()

	// Controladores
	authController := controllers.NewAuthController(db)
	customerController := controllers.NewCustomerController(db)
	appointmentController := controllers.NewAppointmentController(db, dashboardCache)
	financialController := controllers.NewFinancialController(db, dashboardCache)
	inventoryController := controllers.NewInventoryController(db, ledger, dashboardCache)
	taskController := controllers.NewTaskController(db, dashboardCache)
	proposalController := controllers.NewProposalController(db)
	subscriptionController := controllers.NewSubscriptionController(db)
	dashboardController := controllers.NewDashboardController(db, dashboardCache)
	assistantController := controllers.NewAssistantController(assistantService)
	whatsappController := controllers.NewWhatsAppController(db, whatsappService)

	// Rotas
	routes.SetupAuthRoutes(app, authController)
	routes.SetupCustomerRoutes(app, customerController)
	routes.SetupAppointmentRoutes(app, appointmentController)
	routes.SetupFinancialRoutes(app, financialController)
	routes.SetupInventoryRoutes(app, inventoryController)
	routes.SetupTaskRoutes(app, taskController)
	routes.SetupProposalRoutes(app, proposalController)
	routes.SetupSubscriptionRoutes(app, subscriptionController)
	routes.SetupDashboardRoutes(app, dashboardController)
	routes.SetupAssistantRoutes(app, assistantController)
	routes.SetupWhatsAppRoutes(app, whatsappController)

	// WebSocket do painel
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		hub.HandleWebSocket(c)
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"message":   "Foguete Gestão backend is running",
			"timestamp": time.Now().Unix(),
		})
	})

	// Início do servidor
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(app.Listen(":" + port))
}

// initDefaultPlans garante os planos padrão de assinatura
func initDefaultPlans(db *gorm.DB) {
	defaultPlans := []models.Plan{
		{Code: "gratuito", Name: "Gratuito", MonthlyPrice: decimal.Zero, IsActive: true},
		{Code: "pro", Name: "Foguete Pro", MonthlyPrice: decimal.NewFromFloat(49.90), IsActive: true},
	}

	var count int64
	db.Model(&models.Plan{}).Count(&count)

	if count == 0 {
		log.Println("Criando planos padrão...")
		for _, plan := range defaultPlans {
			if err := db.Create(&plan).Error; err != nil {
				log.Printf("Erro ao criar o plano '%s': %v", plan.Code, err)
			} else {
				log.Printf("Plano criado: %s", plan.Name)
			}
		}
	}
}
