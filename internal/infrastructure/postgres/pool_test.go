package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-saas-api/pkg/config"
)

func TestBuildPoolConfig(t *testing.T) {
	cfg := config.DBConfig{
		Host: "db", Port: 5432, User: "erp", Password: "secreto", DBName: "erp", SSLMode: "disable",
		MaxConns: 10, MinConns: 3, ForceIPv4: true,
	}
	pc, err := buildPoolConfig(cfg)
	require.NoError(t, err)

	assert.EqualValues(t, 10, pc.MaxConns)
	assert.EqualValues(t, 3, pc.MinConns)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.NotNil(t, pc.ConnConfig.DialFunc)
	assert.NotNil(t, pc.AfterConnect)
}

func TestBuildPoolConfig_DatabaseURLYMinimoInvalido(t *testing.T) {
	cfg := config.DBConfig{
		DatabaseURL: "postgres://u:p@supabase.example:6543/postgres?sslmode=require",
		MaxConns:    4, MinConns: 9,
	}
	pc, err := buildPoolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "supabase.example", pc.ConnConfig.Host)
	assert.EqualValues(t, 6543, pc.ConnConfig.Port)
	assert.EqualValues(t, 4, pc.MaxConns)
	assert.EqualValues(t, 0, pc.MinConns)
}

func TestBuildPoolConfig_DSNInvalido(t *testing.T) {
	_, err := buildPoolConfig(config.DBConfig{DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}
