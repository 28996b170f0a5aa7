package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation representa uma conversa do canal WhatsApp com um contato
type Conversation struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"not null;index"`
	ContactPhone  string    `json:"contact_phone" gorm:"not null;index"`
	ContactName   string    `json:"contact_name" gorm:"default:''"`
	CustomerID    *uint     `json:"customer_id" gorm:"index"` // Vinculado quando o contato vira cliente
	LastMessageAt time.Time `json:"last_message_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relações
	Customer *Customer         `json:"customer" gorm:"foreignKey:CustomerID"`
	Messages []WhatsAppMessage `json:"messages" gorm:"foreignKey:ConversationID"`
}

// BeforeCreate hook para definir o tempo de criação
func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate hook para atualizar o tempo de modificação
func (c *Conversation) BeforeUpdate(tx *gorm.DB) error {
	c.UpdatedAt = time.Now()
	return nil
}

// MessageDirection representa o sentido da mensagem no canal
type MessageDirection string

const (
	MessageDirectionIn  MessageDirection = "in"  // recebida do contato
	MessageDirectionOut MessageDirection = "out" // enviada pelo assistente
)

// WhatsAppMessage representa uma mensagem trocada no canal WhatsApp
type WhatsAppMessage struct {
	ID             uint             `json:"id" gorm:"primaryKey"`
	ConversationID uint             `json:"conversation_id" gorm:"not null;index"`
	Direction      MessageDirection `json:"direction" gorm:"not null"`
	Text           string           `json:"text" gorm:"type:text"`
	// ID da mensagem no provedor (para deduplicação de webhooks reentregues)
	ExternalID string    `json:"external_id" gorm:"default:'';index"`
	CreatedAt  time.Time `json:"created_at"`

	// Relações
	Conversation Conversation `json:"-" gorm:"foreignKey:ConversationID"`
}

// BeforeCreate hook para definir o tempo de criação
func (m *WhatsAppMessage) BeforeCreate(tx *gorm.DB) error {
	m.CreatedAt = time.Now()
	return nil
}
