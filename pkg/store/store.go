// Copyright (c) 2025, The Skopos Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package store persists collected snapshots for the dashboard-facing
// boundary. The reference implementation is a SQLite file; the snapshot
// payload is stored as one JSON blob per (system, cycle) row so schema
// evolution never requires a column migration.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"k8s.io/utils/clock"

	"github.com/hpc-stack/skopos/pkg/stats"
)

// Store is the persistence boundary the snapshotter hands cycles to.
type Store interface {
	// Save persists one snapshot. The snapshot is not mutated.
	Save(ctx context.Context, snap *stats.Snapshot) error

	// Recent returns up to limit snapshots for one system, newest first.
	Recent(ctx context.Context, system string, limit int) ([]*stats.Snapshot, error)

	// Prune deletes snapshots older than the retention window and
	// reports how many rows went.
	Prune(ctx context.Context) (int64, error)

	Close() error
}

// SnapshotRow is the storage schema: identity columns for querying, the
// full snapshot as a JSON blob.
type SnapshotRow struct {
	ID        uint64    `gorm:"primaryKey"`
	System    string    `gorm:"index:idx_system_ts"`
	CycleID   string    `gorm:"index"`
	Timestamp time.Time `gorm:"index:idx_system_ts"`
	Data      []byte    `gorm:"type:blob"`
}

// SQLStore is the SQLite-backed Store.
type SQLStore struct {
	db        *gorm.DB
	retention time.Duration
	clock     clock.PassiveClock
}

// Open opens or creates the snapshot database at path and migrates the
// schema. Retention bounds Prune; zero retention disables pruning.
func Open(path string, retention time.Duration) (*SQLStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store %s: %w", path, err)
	}
	if err := db.AutoMigrate(&SnapshotRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate snapshot store: %w", err)
	}
	return &SQLStore{
		db:        db,
		retention: retention,
		clock:     clock.RealClock{},
	}, nil
}

// Save implements Store.
func (s *SQLStore) Save(ctx context.Context, snap *stats.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("refusing to persist snapshot: %w", err)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	row := SnapshotRow{
		System:    snap.System,
		CycleID:   snap.CycleID,
		Timestamp: snap.Timestamp,
		Data:      data,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

// Recent implements Store.
func (s *SQLStore) Recent(ctx context.Context, system string, limit int) ([]*stats.Snapshot, error) {
	var rows []SnapshotRow
	err := s.db.WithContext(ctx).
		Where("system = ?", system).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	snaps := make([]*stats.Snapshot, 0, len(rows))
	for i := range rows {
		var snap stats.Snapshot
		if err := json.Unmarshal(rows[i].Data, &snap); err != nil {
			// One corrupt row must not hide the rest of the history.
			continue
		}
		snaps = append(snaps, &snap)
	}
	return snaps, nil
}

// Prune implements Store.
func (s *SQLStore) Prune(ctx context.Context) (int64, error) {
	if s.retention <= 0 {
		return 0, nil
	}
	cutoff := s.clock.Now().Add(-s.retention)
	res := s.db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&SnapshotRow{})
	return res.RowsAffected, res.Error
}

// Close implements Store.
func (s *SQLStore) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
