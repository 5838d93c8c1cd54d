package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "secreto")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 60, cfg.JWT.AccessMinutes)
	assert.Equal(t, 168, cfg.JWT.RefreshHours)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, time.Hour, cfg.Auth.SessionSweepPeriod)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestFromViper_MySQLUsaPuerto3306(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "secreto")
	v.Set("DB_DRIVER", "MySQL")
	v.Set("DB_USER", "pos")
	v.Set("DB_PASSWORD", "p@ss")
	v.Set("DB_NAME", "tienda")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, DriverMySQL, cfg.DB.Driver)
	assert.Equal(t, 3306, cfg.DB.Port)
	dsn := cfg.DB.ConnectionString()
	assert.Contains(t, dsn, "pos:p@ss@tcp(localhost:3306)/tienda")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "clientFoundRows=true")
}

func TestFromViper_PuertoComoString(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "secreto")
	v.Set("HTTP_PORT", "9090")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestFromViper_Errores(t *testing.T) {
	t.Run("sin secret", func(t *testing.T) {
		_, err := fromViper(viper.New())
		assert.Error(t, err)
	})
	t.Run("driver desconocido", func(t *testing.T) {
		v := viper.New()
		v.Set("JWT_SECRET", "x")
		v.Set("DB_DRIVER", "sqlite")
		_, err := fromViper(v)
		assert.Error(t, err)
	})
}

func TestFromViper_DriverMemory(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "secreto")
	v.Set("DB_DRIVER", "memory")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.DB.Driver)
}

func TestDBConfig_MigrateURL(t *testing.T) {
	pg := DBConfig{Driver: DriverPostgres, DatabaseURL: "postgresql://u:p@db:5432/pos?sslmode=disable"}
	assert.Equal(t, "pgx5://u:p@db:5432/pos?sslmode=disable", pg.MigrateURL())

	my := DBConfig{Driver: DriverMySQL, Host: "db", Port: 3306, User: "u", Password: "p", DBName: "pos"}
	assert.True(t, strings.HasPrefix(my.MigrateURL(), "mysql://u:p@tcp(db:3306)/pos?"))
	assert.Contains(t, my.MigrateURL(), "multiStatements=true")
}

func TestDBConfig_DSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Driver: DriverPostgres, Host: "db", Port: 5432, User: "u", Password: "a/b@c", DBName: "pos", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:a%2Fb%40c@db:5432/pos?sslmode=disable", c.ConnectionString())
}
