// Package model holds the gorm row types persistence.Store migrates and
// queries.
package model

import "time"

// SchemaVersion is the current persistence schema version. Store.Load
// rejects any SnapshotMeta row with a Version greater than this; an
// older viommud binary must not silently misread a newer snapshot.
const SchemaVersion = 1

// SnapshotMeta is the single-row table recording which schema version the
// rest of the tables were written under.
type SnapshotMeta struct {
	ID      uint      `gorm:"primaryKey;column:id"`
	Version int       `gorm:"not null;column:version"`
	SavedAt time.Time `gorm:"not null;column:saved_at"`
}

func (SnapshotMeta) TableName() string { return "snapshot_meta" }

// Domain is one persisted domain (core.Domain minus its in-memory tree).
type Domain struct {
	ID uint32 `gorm:"primaryKey;column:id"`
}

func (Domain) TableName() string { return "domains" }

// Endpoint is one persisted endpoint (core.Endpoint).
type Endpoint struct {
	ID uint32 `gorm:"primaryKey;column:id"`
}

func (Endpoint) TableName() string { return "endpoints" }

// DomainMember links an endpoint to the domain it is currently bound to.
type DomainMember struct {
	ID         uint   `gorm:"primaryKey;autoIncrement;column:id"`
	DomainID   uint32 `gorm:"not null;index:idx_members_domain_id;column:domain_id"`
	EndpointID uint32 `gorm:"not null;uniqueIndex;column:endpoint_id"`
}

func (DomainMember) TableName() string { return "domain_members" }

// Mapping is one persisted IOVA->physical mapping within a domain.
type Mapping struct {
	ID       uint   `gorm:"primaryKey;autoIncrement;column:id"`
	DomainID uint32 `gorm:"not null;index:idx_mappings_domain_id;column:domain_id"`
	Low      uint64 `gorm:"not null;column:low"`
	High     uint64 `gorm:"not null;column:high"`
	Phys     uint64 `gorm:"not null;column:phys"`
	Perm     uint8  `gorm:"not null;column:perm"`
}

func (Mapping) TableName() string { return "mappings" }
