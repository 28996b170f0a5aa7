package routes

import (
	"foguete-backend/controllers"
	"foguete-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupAppointmentRoutes configura as rotas da agenda
func SetupAppointmentRoutes(app *fiber.App, appointmentController *controllers.AppointmentController) {
	appointments := app.Group("/appointments", utils.AuthMiddleware)

	// POST /appointments - criação de agendamento
	appointments.Post("/", appointmentController.Create)

	// GET /appointments?from=&to= - lista por intervalo
	appointments.Get("/", appointmentController.List)

	// GET /appointments/day/:date - agenda de um dia
	appointments.Get("/day/:date", appointmentController.Day)

	// PUT /appointments/:id - edição
	appointments.Put("/:id", appointmentController.Update)

	// DELETE /appointments/:id - cancelamento
	appointments.Delete("/:id", appointmentController.Cancel)
}
