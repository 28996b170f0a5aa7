package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AppointmentStatus representa o status de um agendamento
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "agendado"
	AppointmentStatusDone      AppointmentStatus = "concluido"
	AppointmentStatusCanceled  AppointmentStatus = "cancelado"
)

// Appointment representa um agendamento de serviço
type Appointment struct {
	ID         uint              `json:"id" gorm:"primaryKey"`
	UserID     uint              `json:"user_id" gorm:"not null;index"`
	CustomerID *uint             `json:"customer_id" gorm:"index"` // Opcional: encaixe sem cadastro
	Title      string            `json:"title" gorm:"not null;size:255"`
	Notes      string            `json:"notes" gorm:"type:text;default:''"`
	StartTime  time.Time         `json:"start_time" gorm:"not null;index"`
	EndTime    time.Time         `json:"end_time" gorm:"not null"`
	Status     AppointmentStatus `json:"status" gorm:"default:'agendado'"`
	Price      decimal.Decimal   `json:"price" gorm:"type:decimal(20,2);default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relações
	Customer *Customer `json:"customer" gorm:"foreignKey:CustomerID"`
}

// BeforeCreate hook para definir o tempo de criação
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate hook para atualizar o tempo de modificação
func (a *Appointment) BeforeUpdate(tx *gorm.DB) error {
	a.UpdatedAt = time.Now()
	return nil
}

// Overlaps verifica se dois agendamentos se sobrepõem no tempo
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartTime.Before(end) && start.Before(a.EndTime)
}
