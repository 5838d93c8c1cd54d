package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

// Drivers de base de datos soportados.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMemory   = "memory" // sin persistencia, solo desarrollo local
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	DB     DBConfig
	JWT    JWTConfig
	HTTP   HTTPConfig
	Auth   AuthConfig
	Seed   SeedConfig
	Stripe StripeConfig
	Twilio TwilioConfig
	Redis  RedisConfig
	AMQP   AMQPConfig
	Report ReportConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de la base de datos relacional (PostgreSQL o MySQL).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	Driver      string // postgres | mysql | memory
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	AutoMigrate bool
}

// MigrateURL URL para golang-migrate: pgx5:// para PostgreSQL, mysql:// + DSN para MySQL.
func (c DBConfig) MigrateURL() string {
	dsn := c.ConnectionString()
	if c.Driver == DriverMySQL {
		return "mysql://" + dsn
	}
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

// ConnectionString devuelve el DSN a usar según el driver: DATABASE_URL si está definido, si no el construido.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.Driver == DriverMySQL {
		return c.MySQLDSN()
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// MySQLDSN devuelve el DSN de go-sql-driver/mysql. ParseTime es obligatorio para escanear DATETIME en time.Time;
// ClientFoundRows hace que un UPDATE sin cambios reporte la fila encontrada.
func (c DBConfig) MySQLDSN() string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
	mc.DBName = c.DBName
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.MultiStatements = true
	mc.ClientFoundRows = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret        string
	AccessMinutes int
	RefreshHours  int
	Issuer        string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins string // lista separada por comas; "*" permite todos
	BodyLimitMB int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthConfig parámetros de hashing y sesiones.
type AuthConfig struct {
	BcryptCost         int
	SessionSweepPeriod time.Duration
}

// SeedConfig datos del usuario administrador inicial.
type SeedConfig struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// StripeConfig credenciales del procesador de tarjetas. SecretKey vacío = pasarela deshabilitada.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	BaseURL       string
	Currency      string
}

// TwilioConfig credenciales del proveedor SMS/WhatsApp. AccountSID vacío = envíos deshabilitados.
type TwilioConfig struct {
	AccountSID   string
	AuthToken    string
	FromNumber   string
	WhatsAppFrom string
}

// RedisConfig caché opcional de tokens revocados. Addr vacío = deshabilitado.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AMQPConfig publicación opcional de eventos de dominio. URL vacío = deshabilitado.
type AMQPConfig struct {
	URL      string
	Exchange string
}

// ReportConfig opciones de exportación de reportes.
type ReportConfig struct {
	Currency string
	Locale   string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_DRIVER, DB_HOST, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	driver := strings.ToLower(getString(v, "DB_DRIVER", DriverPostgres))
	defaultPort := 5432
	if driver == DriverMySQL {
		defaultPort = 3306
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "pos-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			Driver:      driver,
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", defaultPort),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "pos"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),
		},
		JWT: JWTConfig{
			Secret:        getString(v, "JWT_SECRET", ""),
			AccessMinutes: getInt(v, "JWT_ACCESS_MINUTES", 60),
			RefreshHours:  getInt(v, "JWT_REFRESH_HOURS", 168),
			Issuer:        getString(v, "JWT_ISSUER", "pos-api"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			CORSOrigins: getString(v, "CORS_ORIGIN", "*"),
			BodyLimitMB: getInt(v, "HTTP_BODY_LIMIT_MB", 4),
		},
		Auth: AuthConfig{
			BcryptCost:         getInt(v, "BCRYPT_COST", 12),
			SessionSweepPeriod: getDuration(v, "SESSION_SWEEP_INTERVAL", time.Hour),
		},
		Seed: SeedConfig{
			AdminUsername: getString(v, "SEED_ADMIN_USERNAME", "admin"),
			AdminEmail:    getString(v, "SEED_ADMIN_EMAIL", "admin@pos.local"),
			AdminPassword: getString(v, "SEED_ADMIN_PASSWORD", "admin123"),
		},
		Stripe: StripeConfig{
			SecretKey:     getString(v, "STRIPE_SECRET_KEY", ""),
			WebhookSecret: getString(v, "STRIPE_WEBHOOK_SECRET", ""),
			BaseURL:       getString(v, "STRIPE_BASE_URL", "https://api.stripe.com"),
			Currency:      getString(v, "STRIPE_CURRENCY", "usd"),
		},
		Twilio: TwilioConfig{
			AccountSID:   getString(v, "TWILIO_ACCOUNT_SID", ""),
			AuthToken:    getString(v, "TWILIO_AUTH_TOKEN", ""),
			FromNumber:   getString(v, "TWILIO_PHONE_NUMBER", ""),
			WhatsAppFrom: getString(v, "TWILIO_WHATSAPP_NUMBER", ""),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		AMQP: AMQPConfig{
			URL:      getString(v, "AMQP_URL", ""),
			Exchange: getString(v, "AMQP_EXCHANGE", "pos.events"),
		},
		Report: ReportConfig{
			Currency: getString(v, "REPORT_CURRENCY", "USD"),
			Locale:   getString(v, "REPORT_LOCALE", "en-US"),
		},
	}

	switch cfg.DB.Driver {
	case DriverPostgres, DriverMySQL, DriverMemory:
	default:
		return nil, fmt.Errorf("DB_DRIVER no soportado: %q (use postgres, mysql o memory)", cfg.DB.Driver)
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET es obligatorio")
	}
	if cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 31 {
		return nil, fmt.Errorf("BCRYPT_COST fuera de rango: %d", cfg.Auth.BcryptCost)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if v.IsSet(key) {
		if d := v.GetDuration(key); d > 0 {
			return d
		}
	}
	return def
}
