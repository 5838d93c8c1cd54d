// Package migrations aplica el esquema embebido con golang-migrate.
// Cada dialecto tiene su propio directorio bajo sql/.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/jhoicas/pos-api/pkg/config"
	"github.com/jhoicas/pos-api/pkg/logger"
)

//go:embed sql
var files embed.FS

// Migrator envuelve migrate.Migrate con logging.
type Migrator struct {
	m   *migrate.Migrate
	log *logger.Logger
}

// Source devuelve el sistema de archivos con las migraciones del driver.
func Source(driver string) (fs.FS, error) {
	switch driver {
	case config.DriverPostgres, config.DriverMySQL:
		return fs.Sub(files, "sql/"+driver)
	}
	return nil, fmt.Errorf("migraciones: driver no soportado %q", driver)
}

// New construye el migrador para la base configurada.
func New(cfg config.DBConfig, log *logger.Logger) (*Migrator, error) {
	sub, err := Source(cfg.Driver)
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("migraciones: fuente embebida: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.MigrateURL())
	if err != nil {
		return nil, fmt.Errorf("migraciones: conectar: %w", err)
	}
	return &Migrator{m: m, log: log.Component("migrate")}, nil
}

// Up aplica las migraciones pendientes. Volver a ejecutarlo no hace nada.
func (m *Migrator) Up() error {
	err := m.m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info().Msg("esquema al día")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migraciones up: %w", err)
	}
	version, dirty, _ := m.m.Version()
	m.log.Info().Uint("version", version).Bool("dirty", dirty).Msg("migraciones aplicadas")
	return nil
}

// Down revierte todas las migraciones.
func (m *Migrator) Down() error {
	err := m.m.Down()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("migraciones down: %w", err)
	}
	m.log.Warn().Msg("esquema revertido")
	return nil
}

// Version versión actual; 0 si nunca se migró.
func (m *Migrator) Version() (uint, bool, error) {
	v, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Force fija la versión sin ejecutar SQL (para salir de un estado dirty).
func (m *Migrator) Force(version int) error {
	if err := m.m.Force(version); err != nil {
		return fmt.Errorf("migraciones force %d: %w", version, err)
	}
	m.log.Warn().Int("version", version).Msg("versión forzada")
	return nil
}

// Close libera la fuente y la conexión.
func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}
