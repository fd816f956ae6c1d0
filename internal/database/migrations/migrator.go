package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/vladimiradmaev/health-tracker/internal/logger"
	"gorm.io/gorm"
)

//go:embed sql/*.sql
var embedded embed.FS

// Migration represents a database migration
type Migration struct {
	ID   string
	Up   func(*gorm.DB) error
	Down func(*gorm.DB) error
}

// Registry holds migrations keyed by ID; IDs run in lexical order.
type Registry struct {
	migrations map[string]Migration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{migrations: make(map[string]Migration)}
}

// Default returns a registry loaded with the embedded SQL migrations.
func Default() (*Registry, error) {
	r := NewRegistry()
	if err := r.LoadSQL(embedded, "sql"); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds a new migration to the registry
func (r *Registry) Register(id string, up, down func(*gorm.DB) error) {
	r.migrations[id] = Migration{
		ID:   id,
		Up:   up,
		Down: down,
	}
}

// IDs returns the registered migration IDs in execution order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.migrations))
	for id := range r.migrations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Run executes all pending migrations
func (r *Registry) Run(db *gorm.DB) error {
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var executed []MigrationRecord
	if err := db.Find(&executed).Error; err != nil {
		return fmt.Errorf("failed to get executed migrations: %w", err)
	}

	executedMap := make(map[string]bool)
	for _, m := range executed {
		executedMap[m.ID] = true
	}

	for _, id := range r.IDs() {
		if executedMap[id] {
			continue
		}
		migration := r.migrations[id]
		logger.Info("Running migration", "id", id)
		if err := migration.Up(db); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", id, err)
		}

		record := MigrationRecord{ID: id}
		if err := db.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to record migration %s: %w", id, err)
		}
		logger.Info("Completed migration", "id", id)
	}

	return nil
}

// MigrationRecord represents a record of executed migrations
type MigrationRecord struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}

// LoadSQL registers every .sql file in dir of fsys; the file name minus
// extension becomes the migration ID.
func (r *Registry) LoadSQL(fsys fs.FS, dir string) error {
	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}
		id := strings.TrimSuffix(file.Name(), ".sql")

		content, err := fs.ReadFile(fsys, path.Join(dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file.Name(), err)
		}

		statement := string(content)
		r.Register(id, func(db *gorm.DB) error {
			return db.Exec(statement).Error
		}, nil) // No down migration for SQL files
	}

	return nil
}
