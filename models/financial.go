package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType representa o tipo de transação financeira
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "receita"
	TransactionTypeExpense TransactionType = "despesa"
)

// FinancialTransaction representa um lançamento financeiro (receita ou despesa)
type FinancialTransaction struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uint            `json:"user_id" gorm:"not null;index"`
	Type        TransactionType `json:"type" gorm:"not null;index"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Description string          `json:"description" gorm:"not null;size:255"`
	Category    string          `json:"category" gorm:"default:''"`
	Date        time.Time       `json:"date" gorm:"not null;index"`
	CustomerID  *uint           `json:"customer_id" gorm:"index"`
	// Preenchido quando o lançamento nasce de uma movimentação de estoque
	ReferenceType string `json:"reference_type" gorm:"default:''"`
	ReferenceID   string `json:"reference_id" gorm:"default:'';index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relações
	Customer *Customer `json:"customer" gorm:"foreignKey:CustomerID"`
}

// BeforeCreate hook para definir o tempo de criação
func (t *FinancialTransaction) BeforeCreate(tx *gorm.DB) error {
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	if t.Date.IsZero() {
		t.Date = time.Now()
	}
	return nil
}

// BeforeUpdate hook para atualizar o tempo de modificação
func (t *FinancialTransaction) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return nil
}

// PeriodBalance representa o resumo financeiro de um período
type PeriodBalance struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}
