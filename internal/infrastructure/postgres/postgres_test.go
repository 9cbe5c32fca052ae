package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-insights-api/pkg/config"
)

func TestNewPoolConfig(t *testing.T) {
	cfg := config.DBConfig{
		Host: "127.0.0.1", Port: 5433, User: "pos", Password: "secret",
		DBName: "pos", SSLMode: "disable", MaxConns: 10, MinConns: 40,
	}

	pc, err := newPoolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", pc.ConnConfig.Host)
	assert.Equal(t, uint16(5433), pc.ConnConfig.Port)
	assert.Equal(t, "pos", pc.ConnConfig.Database)
	assert.Equal(t, int32(10), pc.MaxConns)
	assert.Equal(t, int32(10), pc.MinConns, "min_conns no supera max_conns")
	assert.NotNil(t, pc.AfterConnect)
}

func TestDatabaseURLWithIPv4(t *testing.T) {
	assert.Equal(t, "postgres://u:p@10.0.0.5:5432/db?sslmode=require",
		databaseURLWithIPv4("postgres://u:p@10.0.0.5/db?sslmode=require"))
	assert.Equal(t, "postgres://u:p@[::1]:5432/db",
		databaseURLWithIPv4("postgres://u:p@[::1]:5432/db"), "IPv6 literal se deja igual")
	assert.Equal(t, "::not a url", databaseURLWithIPv4("::not a url"))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("timeout")))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%coil%", likePattern("coil"))
	assert.Equal(t, `%50\%\_off\\%`, likePattern(`50%_off\`))
}

func TestListByIDs_SinIDsNoConsulta(t *testing.T) {
	list, err := NewProductRepository(nil).ListByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}
