// Package backend selects and opens the persistence backend from
// configuration. All backends satisfy storage.Repository, so the rest of
// the application never knows which one is active.
package backend

import (
	"fmt"

	"contas/internal/config"
	"contas/internal/log"
	"contas/internal/storage"
)

// Type identifies a persistence backend.
type Type string

const (
	Memory Type = "memory"
	SQLite Type = "sqlite"
)

func (t Type) String() string { return string(t) }

// IsValid reports whether t names a known backend.
func (t Type) IsValid() bool {
	switch t {
	case Memory, SQLite:
		return true
	}
	return false
}

// Config holds what a backend needs to open.
type Config struct {
	Type         Type
	SQLiteDBPath string
}

// FromAppConfig derives a backend config from the application config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	t := Type(appConfig.DataBackend)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:         t,
		SQLiteDBPath: appConfig.SQLiteDBPath,
	}, nil
}

// Result bundles an open repository with its cleanup.
type Result struct {
	Repository storage.Repository
	Cleanup    func() error
}

// Factory opens repositories from backend configs.
type Factory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Factory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// Open creates the repository named by the config.
func (f *Factory) Open(cfg Config) (*Result, error) {
	switch cfg.Type {
	case SQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite repository: %w", err)
		}
		f.logger.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Repository: repo, Cleanup: repo.Close}, nil

	case Memory:
		repo := storage.NewMemoryRepository()
		f.logger.Info("Initialized memory backend")
		return &Result{Repository: repo, Cleanup: repo.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
