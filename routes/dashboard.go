package routes

import (
	"foguete-backend/controllers"
	"foguete-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupDashboardRoutes configura as rotas do dashboard
func SetupDashboardRoutes(app *fiber.App, dashboardController *controllers.DashboardController) {
	dashboard := app.Group("/dashboard", utils.AuthMiddleware)

	// GET /dashboard?date= - resumo do dia
	dashboard.Get("/", dashboardController.GetDaySummary)
}
