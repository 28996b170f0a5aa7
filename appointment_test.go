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

func setupAppointmentTestApp() (*fiber.App, *gorm.DB, uint) {
	db := setupTestDB()
	userID, _ := createTestUsers(db)

	app := fiber.New()
	routes.SetupAppointmentRoutes(app, controllers.NewAppointmentController(db, nil))
	return app, db, userID
}

func TestCreateAppointment(t *testing.T) {
	app, db, userID := setupAppointmentTestApp()

	t.Run("Criação com duração padrão", func(t *testing.T) {
		status, body := doJSON(app, "POST", "/appointments/", controllers.AppointmentRequest{
			Title:     "Corte de cabelo",
			StartTime: "2026-09-01 14:00",
			Price:     "60.00",
		}, userID)

		assert.Equal(t, 201, status)
		appointment := body["appointment"].(map[string]any)
		assert.Equal(t, "Corte de cabelo", appointment["title"])
		assert.Equal(t, "agendado", appointment["status"])
		assert.Nil(t, body["warning"])

		// Sem end_time a duração é de uma hora
		var stored models.Appointment
		db.Where("user_id = ?", userID).First(&stored)
		assert.Equal(t, float64(1), stored.EndTime.Sub(stored.StartTime).Hours())
	})

	t.Run("Data inválida é 400", func(t *testing.T) {
		status, _ := doJSON(app, "POST", "/appointments/", controllers.AppointmentRequest{
			Title:     "Corte",
			StartTime: "amanhã às 14h",
		}, userID)
		assert.Equal(t, 400, status)
	})

	t.Run("Cliente de outro usuário é 400", func(t *testing.T) {
		otherCustomer := models.Customer{UserID: userID + 100, Name: "Intruso", IsActive: true}
		db.Create(&otherCustomer)

		status, _ := doJSON(app, "POST", "/appointments/", controllers.AppointmentRequest{
			Title:      "Corte",
			StartTime:  "2026-09-01 16:00",
			CustomerID: &otherCustomer.ID,
		}, userID)
		assert.Equal(t, 400, status)
	})
}

func TestAppointmentOverlapWarning(t *testing.T) {
	app, _, userID := setupAppointmentTestApp()

	status, _ := doJSON(app, "POST", "/appointments/", controllers.AppointmentRequest{
		Title:     "Manicure",
		StartTime: "2026-09-01 10:00",
		EndTime:   "2026-09-01 11:00",
	}, userID)
	assert.Equal(t, 201, status)

	// Sobreposição de horário não bloqueia, só avisa
	status, body := doJSON(app, "POST", "/appointments/", controllers.AppointmentRequest{
		Title:     "Pedicure",
		StartTime: "2026-09-01 10:30",
		EndTime:   "2026-09-01 11:30",
	}, userID)
	assert.Equal(t, 201, status)
	assert.Contains(t, body["warning"], "Manicure")

	// Horário encostado (fim = início) não conflita
	status, body = doJSON(app, "POST", "/appointments/", controllers.AppointmentRequest{
		Title:     "Escova",
		StartTime: "2026-09-01 11:30",
		EndTime:   "2026-09-01 12:30",
	}, userID)
	assert.Equal(t, 201, status)
	assert.Nil(t, body["warning"])
}

func TestAppointmentDayAndCancel(t *testing.T) {
	app, db, userID := setupAppointmentTestApp()

	for _, start := range []string{"2026-09-01 09:00", "2026-09-01 15:00", "2026-09-02 09:00"} {
		status, _ := doJSON(app, "POST", "/appointments/", controllers.AppointmentRequest{
			Title:     "Atendimento",
			StartTime: start,
		}, userID)
		assert.Equal(t, 201, status)
	}

	status, body := doJSON(app, "GET", "/appointments/day/2026-09-01", nil, userID)
	assert.Equal(t, 200, status)
	assert.Equal(t, float64(2), body["total"])

	var appointment models.Appointment
	db.Where("user_id = ?", userID).First(&appointment)

	status, _ = doJSON(app, "DELETE", fmt.Sprintf("/appointments/%d", appointment.ID), nil, userID)
	assert.Equal(t, 200, status)

	// Cancelar não apaga, só muda o status
	db.First(&appointment, appointment.ID)
	assert.Equal(t, models.AppointmentStatusCanceled, appointment.Status)
}
