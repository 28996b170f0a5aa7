package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// dashboardCacheTTL controla por quanto tempo o resumo do dia fica em cache
const dashboardCacheTTL = 60 * time.Second

// SummaryCache é o contrato do cache do resumo do dia. Os controladores
// que gravam dados exibidos no resumo chamam Invalidate após a escrita
// para o painel não mostrar números velhos dentro do TTL.
type SummaryCache interface {
	GetDaySummary(ctx context.Context, userID uint, day string) (*DaySummaryData, bool)
	SetDaySummary(ctx context.Context, userID uint, day string, summary *DaySummaryData)
	Invalidate(ctx context.Context, userID uint, day string)
}

// DashboardCache guarda o resumo do dia no Redis para aliviar o banco.
// Com client nil o cache fica desligado e tudo vai direto ao banco.
type DashboardCache struct {
	client *redis.Client
}

// NewDashboardCache conecta no Redis quando REDIS_URL está definida
func NewDashboardCache() *DashboardCache {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return &DashboardCache{}
	}

	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return &DashboardCache{}
	}

	return &DashboardCache{client: redis.NewClient(options)}
}

// GetDaySummary busca o resumo em cache; ok=false em miss ou cache desligado
func (c *DashboardCache) GetDaySummary(ctx context.Context, userID uint, day string) (*DaySummaryData, bool) {
	if c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, c.key(userID, day)).Bytes()
	if err != nil {
		return nil, false
	}

	var summary DaySummaryData
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, false
	}
	return &summary, true
}

// SetDaySummary grava o resumo no cache; erros de cache são ignorados
func (c *DashboardCache) SetDaySummary(ctx context.Context, userID uint, day string, summary *DaySummaryData) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.key(userID, day), data, dashboardCacheTTL)
}

// Invalidate remove o resumo do dia do cache (após escrita relevante)
func (c *DashboardCache) Invalidate(ctx context.Context, userID uint, day string) {
	if c.client == nil {
		return
	}
	c.client.Del(ctx, c.key(userID, day))
}

func (c *DashboardCache) key(userID uint, day string) string {
	return fmt.Sprintf("dashboard:%d:%s", userID, day)
}
