package main

import (
	"fmt"
	"testing"

	"foguete-backend/controllers"
	"foguete-backend/models"
	"foguete-backend/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupTaskTestApp() (*fiber.App, *gorm.DB, uint) {
	db := setupTestDB()
	userID, _ := createTestUsers(db)

	app := fiber.New()
	routes.SetupTaskRoutes(app, controllers.NewTaskController(db, nil))
	return app, db, userID
}

func TestTaskLifecycle(t *testing.T) {
	app, db, userID := setupTaskTestApp()

	t.Run("Criação com data limite", func(t *testing.T) {
		status, body := doJSON(app, "POST", "/tasks/", controllers.TaskRequest{
			Title:   "Ligar para fornecedor",
			DueDate: "2026-09-05",
		}, userID)

		assert.Equal(t, 201, status)
		assert.Equal(t, "Ligar para fornecedor", body["title"])
		assert.Equal(t, false, body["done"])
	})

	t.Run("Sem título é 400", func(t *testing.T) {
		status, _ := doJSON(app, "POST", "/tasks/", controllers.TaskRequest{DueDate: "2026-09-05"}, userID)
		assert.Equal(t, 400, status)
	})

	t.Run("Concluir e filtrar pendentes", func(t *testing.T) {
		status, _ := doJSON(app, "POST", "/tasks/", controllers.TaskRequest{Title: "Comprar produtos"}, userID)
		assert.Equal(t, 201, status)

		var task models.Task
		db.Where("user_id = ? AND title = ?", userID, "Ligar para fornecedor").First(&task)

		status, body := doJSON(app, "POST", fmt.Sprintf("/tasks/%d/complete", task.ID), nil, userID)
		assert.Equal(t, 200, status)
		assert.Equal(t, true, body["done"])

		status, body = doJSON(app, "GET", "/tasks/?pending=true", nil, userID)
		assert.Equal(t, 200, status)
		assert.Equal(t, float64(1), body["total"])

		status, body = doJSON(app, "GET", "/tasks/", nil, userID)
		assert.Equal(t, 200, status)
		assert.Equal(t, float64(2), body["total"])
	})
}
