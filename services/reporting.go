package services

import (
	"context"
	"time"

	"foguete-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PeriodBalance calcula receitas, despesas e saldo do período [from, toExclusive)
func PeriodBalance(ctx context.Context, db *gorm.DB, userID uint, from, toExclusive time.Time) (*models.PeriodBalance, error) {
	income, err := sumTransactions(ctx, db, userID, models.TransactionTypeIncome, from, toExclusive)
	if err != nil {
		return nil, err
	}
	expense, err := sumTransactions(ctx, db, userID, models.TransactionTypeExpense, from, toExclusive)
	if err != nil {
		return nil, err
	}

	return &models.PeriodBalance{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}, nil
}

func sumTransactions(ctx context.Context, db *gorm.DB, userID uint, kind models.TransactionType, from, toExclusive time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := db.WithContext(ctx).Model(&models.FinancialTransaction{}).
		Where("user_id = ? AND type = ? AND date >= ? AND date < ?", userID, kind, from, toExclusive).
		Select("COALESCE(SUM(amount), 0)").
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// DaySummaryAppointment é a linha de agendamento dentro do resumo do dia
type DaySummaryAppointment struct {
	Time     string `json:"horario"`
	Title    string `json:"titulo"`
	Customer string `json:"cliente,omitempty"`
	Status   string `json:"status"`
}

// DaySummaryData agrega os números do dia para o dashboard e o assistente
type DaySummaryData struct {
	Date         string                  `json:"data"`
	Appointments []DaySummaryAppointment `json:"agendamentos"`
	Income       decimal.Decimal         `json:"receitas"`
	Expense      decimal.Decimal         `json:"despesas"`
	Balance      decimal.Decimal         `json:"saldo"`
	PendingTasks int64                   `json:"tarefas_pendentes"`
	LowStock     []string                `json:"estoque_baixo"`
}

// DaySummary monta o resumo de um dia do negócio
func DaySummary(ctx context.Context, db *gorm.DB, userID uint, day time.Time) (*DaySummaryData, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var appointments []models.Appointment
	if err := db.WithContext(ctx).Preload("Customer").
		Where("user_id = ? AND start_time >= ? AND start_time < ?", userID, dayStart, dayEnd).
		Order("start_time ASC").
		Find(&appointments).Error; err != nil {
		return nil, err
	}

	balance, err := PeriodBalance(ctx, db, userID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	var pendingTasks int64
	if err := db.WithContext(ctx).Model(&models.Task{}).
		Where("user_id = ? AND done = ?", userID, false).
		Count(&pendingTasks).Error; err != nil {
		return nil, err
	}

	var lowStockItems []models.InventoryItem
	if err := db.WithContext(ctx).
		Where("user_id = ? AND is_active = ? AND current_stock <= min_quantity", userID, true).
		Find(&lowStockItems).Error; err != nil {
		return nil, err
	}

	summary := &DaySummaryData{
		Date:         dayStart.Format("2006-01-02"),
		Appointments: make([]DaySummaryAppointment, 0, len(appointments)),
		Income:       balance.Income,
		Expense:      balance.Expense,
		Balance:      balance.Balance,
		PendingTasks: pendingTasks,
		LowStock:     make([]string, 0, len(lowStockItems)),
	}

	for _, a := range appointments {
		entry := DaySummaryAppointment{
			Time:   a.StartTime.Format("15:04"),
			Title:  a.Title,
			Status: string(a.Status),
		}
		if a.Customer != nil {
			entry.Customer = a.Customer.Name
		}
		summary.Appointments = append(summary.Appointments, entry)
	}

	for _, item := range lowStockItems {
		summary.LowStock = append(summary.LowStock, item.Name)
	}

	return summary, nil
}
