package controllers

import (
	"time"

	"foguete-backend/services"
	"foguete-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DashboardController controlador do resumo do dia na tela inicial
type DashboardController struct {
	DB    *gorm.DB
	Cache services.SummaryCache
}

// NewDashboardController cria uma nova instância de DashboardController
func NewDashboardController(db *gorm.DB, cache services.SummaryCache) *DashboardController {
	return &DashboardController{DB: db, Cache: cache}
}

// invalidateDaySummary limpa o resumo em cache do dia afetado por uma escrita
func invalidateDaySummary(c *fiber.Ctx, cache services.SummaryCache, userID uint, day time.Time) {
	if cache != nil {
		cache.Invalidate(c.Context(), userID, day.Format("2006-01-02"))
	}
}

// GetDaySummary retorna o resumo do dia (agenda, caixa, tarefas, estoque)
func (dc *DashboardController) GetDaySummary(c *fiber.Ctx) error {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return badRequest(c, "Data inválida, use o formato 2006-01-02")
		}
		day = parsed
	}

	dayKey := day.Format("2006-01-02")
	if dc.Cache != nil {
		if cached, ok := dc.Cache.GetDaySummary(c.Context(), userID, dayKey); ok {
			return c.JSON(cached)
		}
	}

	summary, err := services.DaySummary(c.Context(), dc.DB, userID, day)
	if err != nil {
		return internalError(c, "Erro ao montar o resumo do dia")
	}

	if dc.Cache != nil {
		dc.Cache.SetDaySummary(c.Context(), userID, dayKey, summary)
	}
	return c.JSON(summary)
}
