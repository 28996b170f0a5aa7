package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovementType representa o tipo de movimentação de estoque
type MovementType string

const (
	MovementTypeIn     MovementType = "in"         // entrada
	MovementTypeOut    MovementType = "out"        // saída
	MovementTypeAdjust MovementType = "adjustment" // ajuste para um valor absoluto
)

// InventoryItem representa um item de estoque
//
// CurrentStock é mutado somente pelo StockLedger; a coluna Version
// é o lock otimista que impede updates perdidos entre requisições
// concorrentes no mesmo item.
type InventoryItem struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	UserID       uint            `json:"user_id" gorm:"not null;index"`
	Name         string          `json:"name" gorm:"not null;size:255;index"`
	Unit         string          `json:"unit" gorm:"default:'un'"` // un, kg, l, m...
	CurrentStock decimal.Decimal `json:"current_stock" gorm:"type:decimal(20,4);default:0"`
	MinQuantity  decimal.Decimal `json:"min_quantity" gorm:"type:decimal(20,4);default:0"`
	CostPrice    decimal.Decimal `json:"cost_price" gorm:"type:decimal(20,2);default:0"`
	UnitPrice    decimal.Decimal `json:"unit_price" gorm:"type:decimal(20,2);default:0"`
	Version      int64           `json:"-" gorm:"not null;default:0"`
	IsActive     bool            `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook para definir o tempo de criação
func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	i.CreatedAt = time.Now()
	i.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate hook para atualizar o tempo de modificação
func (i *InventoryItem) BeforeUpdate(tx *gorm.DB) error {
	i.UpdatedAt = time.Now()
	return nil
}

// IsLowStock indica se o item está abaixo da quantidade mínima
func (i *InventoryItem) IsLowStock() bool {
	return i.CurrentStock.LessThanOrEqual(i.MinQuantity)
}

// StockMovement representa um registro imutável da trilha de auditoria
// do estoque. Linhas são somente inseridas, nunca alteradas ou removidas.
type StockMovement struct {
	ID            string          `json:"id" gorm:"size:36;primaryKey"` // uuid
	UserID        uint            `json:"user_id" gorm:"not null;index"`
	ItemID        uint            `json:"item_id" gorm:"not null;index"`
	Type          MovementType    `json:"type" gorm:"not null"`
	Quantity      decimal.Decimal `json:"quantity" gorm:"type:decimal(20,4);not null"`
	Reason        string          `json:"reason" gorm:"default:''"`
	ReferenceType string          `json:"reference_type" gorm:"default:''"` // compra, venda, ajuste manual...
	PreviousStock decimal.Decimal `json:"previous_stock" gorm:"type:decimal(20,4);not null"`
	NewStock      decimal.Decimal `json:"new_stock" gorm:"type:decimal(20,4);not null"`
	CreatedAt     time.Time       `json:"created_at"`

	// Relações
	Item InventoryItem `json:"-" gorm:"foreignKey:ItemID"`
}

// BeforeCreate hook para definir o tempo de criação
func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	m.CreatedAt = time.Now()
	return nil
}
