// migrate aplica el esquema embebido sobre la base de DB_DRIVER (postgres o mysql).
//
// Uso: go run ./cmd/migrate [-log-level debug] up|down|version|force <n>
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/pos-api/internal/infrastructure/migrations"
	"github.com/jhoicas/pos-api/pkg/config"
	"github.com/jhoicas/pos-api/pkg/logger"
)

func main() {
	logLevel := flag.String("log-level", "info", "trace, debug, info, warn, error")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: *logLevel})

	if cfg.DB.Driver == config.DriverMemory {
		log.Fatal().Msg("DB_DRIVER=memory no tiene esquema que migrar")
	}

	m, err := migrations.New(cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrador")
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("cierre del migrador")
		}
	}()

	switch args[0] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		var (
			v     uint
			dirty bool
		)
		v, dirty, err = m.Version()
		if err == nil {
			log.Info().Uint("version", v).Bool("dirty", dirty).Str("driver", cfg.DB.Driver).Msg("versión del esquema")
		}
	case "force":
		if len(args) < 2 {
			log.Fatal().Msg("uso: migrate force <versión>")
		}
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			log.Fatal().Str("value", args[1]).Msg("versión inválida")
		}
		err = m.Force(n)
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", args[0]).Msg("migración fallida")
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Uso: migrate [flags] <comando>

Comandos:
  up            aplica las migraciones pendientes
  down          revierte todas las migraciones
  version       muestra la versión actual
  force <n>     fija la versión sin ejecutar SQL`)
}
