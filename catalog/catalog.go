// Package catalog persists weapon definitions with gorm on sqlite or postgres
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/lixenwraith/ordnance/config"
)

var (
	ErrNotFound      = errors.New("definition not found")
	ErrUnknownDriver = errors.New("unknown catalog driver")
)

// Record is one stored definition; the full definition travels as JSON
type Record struct {
	ID         uint   `gorm:"primarykey"`
	Slug       string `gorm:"uniqueIndex;size:128;not null"`
	Name       string `gorm:"size:128;not null"`
	Launcher   string `gorm:"size:32;index"`
	Definition datatypes.JSONType[config.Definition]
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Record) TableName() string { return "weapon_definitions" }

func slugOf(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Store reads and writes definitions
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open connects to the configured backend and migrates the schema
func Open(cfg config.CatalogConfig, log zerolog.Logger) (*Store, error) {
	var (
		db  *gorm.DB
		err error
	)
	gcfg := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}
	switch cfg.Driver {
	case config.DriverSQLite, "":
		path := cfg.DSN
		if path == "" {
			path = ":memory:"
		}
		db, err = gorm.Open(sqlite.Open(path), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite catalog: %w", err)
		}
		// Each connection to :memory: is a separate database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("access sql interface: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		log.Info().Str("path", path).Msg("Using SQLite catalog")
	case config.DriverPostgres:
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		}), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres catalog: %w", err)
		}
		log.Info().Msg("Using Postgres catalog")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	return New(db, log)
}

// New wraps an open connection and migrates the schema
func New(db *gorm.DB, log zerolog.Logger) (*Store, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// Save validates d and inserts or replaces the definition with the same name
func (s *Store) Save(ctx context.Context, d config.Definition) error {
	return s.save(s.db.WithContext(ctx), d)
}

func (s *Store) save(tx *gorm.DB, d config.Definition) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("save %q: %w", d.Name, err)
	}
	kind, _ := d.Kind()
	rec := Record{
		Slug:       slugOf(d.Name),
		Name:       d.Name,
		Launcher:   kind.String(),
		Definition: datatypes.NewJSONType(d),
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "launcher", "definition", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save %q: %w", d.Name, err)
	}
	s.log.Debug().Str("weapon", d.Name).Str("launcher", rec.Launcher).Msg("Definition saved")
	return nil
}

// Import saves every definition in one transaction; nothing is stored if any fails
func (s *Store) Import(ctx context.Context, defs []config.Definition) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range defs {
			if err := s.save(tx, d); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get returns the definition called name, case-insensitively
func (s *Store) Get(ctx context.Context, name string) (config.Definition, error) {
	var rec Record
	err := s.db.WithContext(ctx).Where("slug = ?", slugOf(name)).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return config.Definition{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return config.Definition{}, fmt.Errorf("get %q: %w", name, err)
	}
	return rec.Definition.Data(), nil
}

// List returns every definition ordered by name, optionally filtered by launcher kind
func (s *Store) List(ctx context.Context, launcher string) ([]config.Definition, error) {
	q := s.db.WithContext(ctx).Order("slug")
	if launcher != "" {
		q = q.Where("launcher = ?", strings.ToLower(launcher))
	}
	var recs []Record
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}
	out := make([]config.Definition, len(recs))
	for i, r := range recs {
		out[i] = r.Definition.Data()
	}
	return out, nil
}

// Delete removes the definition called name
func (s *Store) Delete(ctx context.Context, name string) error {
	res := s.db.WithContext(ctx).Where("slug = ?", slugOf(name)).Delete(&Record{})
	if res.Error != nil {
		return fmt.Errorf("delete %q: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

// Count returns the number of stored definitions
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Record{}).Count(&n).Error
	return n, err
}

// Close releases the connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
