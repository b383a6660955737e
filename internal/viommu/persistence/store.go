// Package persistence saves and restores a core.Device's domain/endpoint/
// mapping state to a SQLite file, so viommud survives a restart without
// replaying every ATTACH/MAP the guest has issued since boot.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jimyag/viommu/internal/viommu/core"
	"github.com/jimyag/viommu/internal/viommu/persistence/model"
	"github.com/jimyag/viommu/internal/viommu/wire"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // pure-Go driver, no CGO
)

// ErrFutureSchema is returned by Load when the on-disk snapshot was
// written by a newer schema version than this binary understands.
type ErrFutureSchema struct {
	Found, Want int
}

func (e *ErrFutureSchema) Error() string {
	return fmt.Sprintf("persistence: snapshot schema version %d is newer than supported version %d", e.Found, e.Want)
}

// Store is the SQLite-backed snapshot store.
type Store struct {
	db *gorm.DB
}

// New opens (creating if necessary) the SQLite database at dbPath and
// migrates it to the current schema.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dbPath,
		Conn:       sqlDB,
	}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open gorm database: %w", err)
	}

	if err := db.AutoMigrate(
		&model.SnapshotMeta{},
		&model.Domain{},
		&model.Endpoint{},
		&model.DomainMember{},
		&model.Mapping{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying gorm handle, for callers (tests, migrations)
// that need direct query access.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save replaces the stored snapshot with snap, stamping it with the
// current schema version. The whole write runs in one transaction so a
// reader never observes a partially-replaced snapshot.
func (s *Store) Save(ctx context.Context, snap core.Snapshot) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Mapping{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&model.DomainMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&model.Domain{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&model.Endpoint{}).Error; err != nil {
			return err
		}

		for _, se := range snap.Endpoints {
			if err := tx.Create(&model.Endpoint{ID: se.ID}).Error; err != nil {
				return err
			}
		}

		for _, sd := range snap.Domains {
			if err := tx.Create(&model.Domain{ID: sd.ID}).Error; err != nil {
				return err
			}
			for _, epID := range sd.Members {
				if err := tx.Create(&model.DomainMember{DomainID: sd.ID, EndpointID: epID}).Error; err != nil {
					return err
				}
			}
			for _, m := range sd.Mappings {
				row := model.Mapping{
					DomainID: sd.ID,
					Low:      m.Low,
					High:     m.High,
					Phys:     m.Phys,
					Perm:     uint8(m.Perm),
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}

		meta := model.SnapshotMeta{ID: 1, Version: model.SchemaVersion, SavedAt: time.Now()}
		return tx.Save(&meta).Error
	})
}

// Load reads the stored snapshot. It returns a zero-value core.Snapshot,
// no error, if nothing has been saved yet.
func (s *Store) Load(ctx context.Context) (core.Snapshot, error) {
	db := s.db.WithContext(ctx)

	var meta model.SnapshotMeta
	if err := db.First(&meta).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return core.Snapshot{}, nil
		}
		return core.Snapshot{}, fmt.Errorf("load snapshot meta: %w", err)
	}
	if meta.Version > model.SchemaVersion {
		return core.Snapshot{}, &ErrFutureSchema{Found: meta.Version, Want: model.SchemaVersion}
	}

	var endpoints []model.Endpoint
	if err := db.Find(&endpoints).Error; err != nil {
		return core.Snapshot{}, fmt.Errorf("load endpoints: %w", err)
	}

	var domains []model.Domain
	if err := db.Find(&domains).Error; err != nil {
		return core.Snapshot{}, fmt.Errorf("load domains: %w", err)
	}

	var members []model.DomainMember
	if err := db.Find(&members).Error; err != nil {
		return core.Snapshot{}, fmt.Errorf("load domain members: %w", err)
	}

	var mappings []model.Mapping
	if err := db.Find(&mappings).Error; err != nil {
		return core.Snapshot{}, fmt.Errorf("load mappings: %w", err)
	}

	membersByDomain := make(map[uint32][]uint32)
	for _, m := range members {
		membersByDomain[m.DomainID] = append(membersByDomain[m.DomainID], m.EndpointID)
	}

	mappingsByDomain := make(map[uint32][]core.SnapshotMapping)
	for _, m := range mappings {
		mappingsByDomain[m.DomainID] = append(mappingsByDomain[m.DomainID], core.SnapshotMapping{
			Low:  m.Low,
			High: m.High,
			Phys: m.Phys,
			Perm: wire.Permission(m.Perm),
		})
	}

	snap := core.Snapshot{}
	for _, ep := range endpoints {
		snap.Endpoints = append(snap.Endpoints, core.SnapshotEndpoint{ID: ep.ID})
	}
	for _, d := range domains {
		snap.Domains = append(snap.Domains, core.SnapshotDomain{
			ID:       d.ID,
			Mappings: mappingsByDomain[d.ID],
			Members:  membersByDomain[d.ID],
		})
	}

	return snap, nil
}
