package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Plan representa um plano de assinatura do Foguete Gestão
type Plan struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Code         string          `json:"code" gorm:"uniqueIndex;not null"` // gratuito, pro
	Name         string          `json:"name" gorm:"not null"`
	MonthlyPrice decimal.Decimal `json:"monthly_price" gorm:"type:decimal(20,2);default:0"`
	IsActive     bool            `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time       `json:"created_at"`
}

// SubscriptionStatus representa o status da assinatura
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "ativa"
	SubscriptionStatusPastDue  SubscriptionStatus = "inadimplente"
	SubscriptionStatusCanceled SubscriptionStatus = "cancelada"
)

// Subscription representa a assinatura de um usuário em um plano
type Subscription struct {
	ID               uint               `json:"id" gorm:"primaryKey"`
	UserID           uint               `json:"user_id" gorm:"not null;uniqueIndex"`
	PlanID           uint               `json:"plan_id" gorm:"not null"`
	Status           SubscriptionStatus `json:"status" gorm:"default:'ativa'"`
	CurrentPeriodEnd time.Time          `json:"current_period_end"`
	// Identificador da assinatura no provedor de cobrança externo
	ExternalID string `json:"external_id" gorm:"default:'';index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relações
	Plan Plan `json:"plan" gorm:"foreignKey:PlanID"`
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate hook para definir o tempo de criação
func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate hook para atualizar o tempo de modificação
func (s *Subscription) BeforeUpdate(tx *gorm.DB) error {
	s.UpdatedAt = time.Now()
	return nil
}
