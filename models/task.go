package models

import (
	"time"

	"gorm.io/gorm"
)

// Task representa uma tarefa/lembrete do dono do negócio
type Task struct {
	ID      uint       `json:"id" gorm:"primaryKey"`
	UserID  uint       `json:"user_id" gorm:"not null;index"`
	Title   string     `json:"title" gorm:"not null;size:255"`
	DueDate *time.Time `json:"due_date" gorm:"index"`
	Done    bool       `json:"done" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook para definir o tempo de criação
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate hook para atualizar o tempo de modificação
func (t *Task) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return nil
}
