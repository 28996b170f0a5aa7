package models

import (
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// User representa o dono do negócio autenticado no sistema
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"not null"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"` // Escondemos o hash da senha no JSON
	IsActive     bool   `json:"is_active" gorm:"default:true"`
	// Dados do negócio
	BusinessName  string    `json:"business_name" gorm:"default:''"`
	BusinessPhone string    `json:"business_phone" gorm:"default:''"` // Telefone do canal WhatsApp
	Segment       string    `json:"segment" gorm:"default:''"`        // Ramo de atuação (salão, oficina, etc)
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// InitDB inicializa a conexão com o banco de dados
func InitDB() (*gorm.DB, error) {
	// Usamos PostgreSQL quando DATABASE_URL está definida (produção)
	databaseURL := os.Getenv("DATABASE_URL")

	if databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		return db, nil
	}

	// SQLite para desenvolvimento local
	db, err := gorm.Open(sqlite.Open("foguete.db"), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// BeforeCreate hook para definir o tempo de criação
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate hook para atualizar o tempo de modificação
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
