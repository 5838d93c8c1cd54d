package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/pos-api/internal/app"
	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/application/setup"
	"github.com/jhoicas/pos-api/internal/infrastructure/barcode"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
	"github.com/jhoicas/pos-api/internal/infrastructure/migrations"
	"github.com/jhoicas/pos-api/internal/infrastructure/mysql"
	infrapdf "github.com/jhoicas/pos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-api/internal/infrastructure/rabbitmq"
	infraredis "github.com/jhoicas/pos-api/internal/infrastructure/redis"
	"github.com/jhoicas/pos-api/internal/infrastructure/stripe"
	"github.com/jhoicas/pos-api/internal/infrastructure/twilio"
	httpRouter "github.com/jhoicas/pos-api/internal/interfaces/http"
	"github.com/jhoicas/pos-api/pkg/config"
	"github.com/jhoicas/pos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	repos, closeDB := openStore(ctx, cfg, log)
	defer closeDB()

	svc := app.Services{
		Gateway: stripe.NewClient(cfg.Stripe, log),
		PDF:     infrapdf.NewReportRenderer(cfg.Report.Currency, cfg.Report.Locale),
		Barcode: barcode.NewRenderer(),
	}
	// Adaptadores opcionales: solo se asignan al puerto si están configurados.
	if m := twilio.NewMessenger(cfg.Twilio); m != nil {
		svc.Messenger = m
	} else {
		log.Warn().Msg("Twilio no configurado: las notificaciones quedarán como fallidas")
	}

	var closers []io.Closer
	if cfg.Redis.Addr != "" {
		bl, err := infraredis.NewTokenBlacklist(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		svc.Blacklist = bl
		closers = append(closers, bl)
	}
	if cfg.AMQP.URL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, log.Component("events"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		svc.Events = pub
		closers = append(closers, pub)
	}

	container := app.New(repos, svc, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  time.Duration(cfg.JWT.AccessMinutes) * time.Minute,
		RefreshTTL: time.Duration(cfg.JWT.RefreshHours) * time.Hour,
		BcryptCost: cfg.Auth.BcryptCost,
	}, log)

	if err := container.Seeder.Run(ctx, setup.AdminSeed{
		Username:   cfg.Seed.AdminUsername,
		Email:      cfg.Seed.AdminEmail,
		Password:   cfg.Seed.AdminPassword,
		BcryptCost: cfg.Auth.BcryptCost,
	}); err != nil {
		log.Fatal().Err(err).Msg("datos iniciales")
	}

	go container.Auth.RunSessionSweeper(ctx, cfg.Auth.SessionSweepPeriod)

	fapp := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
	})
	fapp.Use(recover.New())
	fapp.Use(requestid.New())
	fapp.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	fapp.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	fapp.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS API",
	}))

	fapp.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "db_driver": cfg.DB.Driver})
	})

	httpRouter.Router(fapp, container.Deps)

	go func() {
		if err := fapp.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := fapp.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	for _, c := range closers {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("cierre de adaptador")
		}
	}

	log.Info().Msg("aplicación detenida")
}

// openStore abre la base del driver configurado, aplica migraciones si corresponde
// y devuelve los repositorios y su función de cierre.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (app.Repositories, func()) {
	if cfg.DB.Driver == config.DriverMemory {
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
		return app.FromMemory(memory.New()), func() {}
	}

	if cfg.DB.AutoMigrate {
		m, err := migrations.New(cfg.DB, log)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		if err := m.Up(); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("cierre del migrador")
		}
	}

	switch cfg.DB.Driver {
	case config.DriverMySQL:
		db, err := mysql.NewDB(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a MySQL")
		}
		store := mysql.NewStore(db)
		return app.FromMySQL(store), func() { _ = store.Close() }
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		store := postgres.NewStore(pool)
		return app.FromPostgres(store), func() { _ = store.Close() }
	}
}
