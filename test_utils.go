package main

import (
	"time"

	"foguete-backend/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB cria um banco de dados de teste em memória
func setupTestDB() *gorm.DB {
	db, _ := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	db.AutoMigrate(&models.User{}, &models.Customer{}, &models.Appointment{}, &models.FinancialTransaction{}, &models.InventoryItem{}, &models.StockMovement{}, &models.Task{}, &models.Proposal{}, &models.ProposalItem{}, &models.Plan{}, &models.Subscription{}, &models.Conversation{}, &models.WhatsAppMessage{})
	return db
}

// createTestUsers cria dois donos de negócio de teste e retorna seus IDs
func createTestUsers(db *gorm.DB) (uint, uint) {
	user1 := models.User{
		Name:          "Maria Silva",
		Email:         "maria@salao.com",
		PasswordHash:  "hash1",
		BusinessName:  "Salão da Maria",
		BusinessPhone: "5511999990001",
		IsActive:      true,
	}
	user2 := models.User{
		Name:          "João Souza",
		Email:         "joao@barbearia.com",
		PasswordHash:  "hash2",
		BusinessName:  "Barbearia do João",
		BusinessPhone: "5511999990002",
		IsActive:      true,
	}

	db.Create(&user1)
	db.Create(&user2)

	return user1.ID, user2.ID
}

// createTestItem cria um item de estoque com o saldo inicial informado
func createTestItem(db *gorm.DB, userID uint, name string, stock string) uint {
	item := models.InventoryItem{
		UserID:       userID,
		Name:         name,
		Unit:         "un",
		CurrentStock: decimal.RequireFromString(stock),
		IsActive:     true,
	}
	db.Create(&item)
	return item.ID
}

// generateTestJWT cria um token JWT de teste para o usuário indicado
func generateTestJWT(userID uint) string {
	secretKey := "foguete-secret-key-change-in-production"
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(secretKey))
	return tokenString
}
