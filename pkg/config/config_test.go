package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.False(t, cfg.DB.Enabled(), "sin DB_HOST ni DATABASE_URL se usa el catálogo en memoria")
	assert.Equal(t, 14, cfg.Recommendation.ReplenishAfterDays)
	assert.Equal(t, 2, cfg.Recommendation.MinRepeatPurchases)
	assert.Equal(t, 12, cfg.Recommendation.MergeLimit)
	assert.Equal(t, 10*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "30-M", cfg.RateLimit.AssistantRate)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("REC_REPLENISH_AFTER_DAYS", "21")
	v.Set("AI_PROVIDER", "Anthropic")
	v.Set("AI_TIMEOUT", "3")
	v.Set("DB_HOST", "db.local")
	v.Set("DB_PASSWORD", "p@ss/word")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 21, cfg.Recommendation.ReplenishAfterDays)
	assert.Equal(t, "anthropic", cfg.AI.Provider)
	assert.Equal(t, 3*time.Second, cfg.AI.Timeout)
	assert.True(t, cfg.DB.Enabled())
	assert.Contains(t, cfg.DB.ConnectionString(), "p%40ss%2Fword@db.local:5432/pos")
}

func TestFromViper_StockThresholdsInconsistentes(t *testing.T) {
	v := viper.New()
	v.Set("STOCK_LOW_THRESHOLD", "50")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_TaxRate(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "10", cfg.Sales.TaxRatePercent.String())

	v := viper.New()
	v.Set("SALES_TAX_RATE", "abc")
	_, err = fromViper(v)
	assert.Error(t, err)
}
