package routes

import (
	"foguete-backend/controllers"
	"foguete-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupTaskRoutes configura as rotas de tarefas
func SetupTaskRoutes(app *fiber.App, taskController *controllers.TaskController) {
	tasks := app.Group("/tasks", utils.AuthMiddleware)

	// POST /tasks - criação de tarefa
	tasks.Post("/", taskController.Create)

	// GET /tasks?pending=true - lista de tarefas
	tasks.Get("/", taskController.List)

	// POST /tasks/:id/complete - conclusão de tarefa
	tasks.Post("/:id/complete", taskController.Complete)

	// DELETE /tasks/:id - remoção
	tasks.Delete("/:id", taskController.Delete)
}
