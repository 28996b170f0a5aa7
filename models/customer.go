package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer representa um cliente do negócio (CRM)
type Customer struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	UserID   uint   `json:"user_id" gorm:"not null;index"` // Dono do negócio (tenant)
	Name     string `json:"name" gorm:"not null;size:255"`
	Email    string `json:"email" gorm:"default:''"`
	Phone    string `json:"phone" gorm:"default:'';index"`
	Notes    string `json:"notes" gorm:"type:text;default:''"`
	IsActive bool   `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relações
	Owner User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate hook para definir o tempo de criação
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate hook para atualizar o tempo de modificação
func (c *Customer) BeforeUpdate(tx *gorm.DB) error {
	c.UpdatedAt = time.Now()
	return nil
}
