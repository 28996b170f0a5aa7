package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProposalStatus representa o status de uma proposta/contrato
type ProposalStatus string

const (
	ProposalStatusDraft    ProposalStatus = "rascunho"
	ProposalStatusSent     ProposalStatus = "enviada"
	ProposalStatusAccepted ProposalStatus = "aceita"
	ProposalStatusRejected ProposalStatus = "recusada"
)

// Proposal representa uma proposta comercial ou contrato
type Proposal struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	UserID     uint           `json:"user_id" gorm:"not null;index"`
	CustomerID uint           `json:"customer_id" gorm:"not null;index"`
	Title      string         `json:"title" gorm:"not null;size:255"`
	Notes      string         `json:"notes" gorm:"type:text;default:''"`
	Status     ProposalStatus `json:"status" gorm:"default:'rascunho'"`
	ValidUntil *time.Time     `json:"valid_until"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relações
	Customer Customer       `json:"customer" gorm:"foreignKey:CustomerID"`
	Items    []ProposalItem `json:"items" gorm:"foreignKey:ProposalID"`
}

// ProposalItem representa uma linha de serviço/produto dentro da proposta
type ProposalItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	ProposalID  uint            `json:"proposal_id" gorm:"not null;index"`
	Description string          `json:"description" gorm:"not null;size:255"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:decimal(20,4);default:1"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(20,2);default:0"`
}

// Total calcula o valor total da proposta a partir dos itens
func (p *Proposal) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range p.Items {
		total = total.Add(item.Quantity.Mul(item.UnitPrice))
	}
	return total
}

// BeforeCreate hook para definir o tempo de criação
func (p *Proposal) BeforeCreate(tx *gorm.DB) error {
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate hook para atualizar o tempo de modificação
func (p *Proposal) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return nil
}
