// Copyright 2026 PingCAP, Inc.
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

package handle

import (
	"sync"

	"github.com/google/btree"
	"github.com/pingcap/errors"
	"github.com/pingcap/tidb-selectivity/pkg/statistics"
	"github.com/pingcap/tidb-selectivity/pkg/statistics/handle/logutil"
	"github.com/pingcap/tidb-selectivity/pkg/statistics/handle/metrics"
	"github.com/pingcap/tidb-selectivity/pkg/statistics/handle/storage"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const btreeDegree = 16

type tableItem struct {
	stats *statistics.Stats
	name  string
}

func lessTableItem(a, b tableItem) bool {
	return a.name < b.name
}

// Snapshot is an immutable view of the statistics of all tables.
type Snapshot struct {
	tables  *btree.BTreeG[tableItem]
	version uint64
}

func newSnapshot() *Snapshot {
	return &Snapshot{tables: btree.NewG(btreeDegree, lessTableItem)}
}

// Get returns the statistics of a table, or false if the table has none.
func (s *Snapshot) Get(table string) (*statistics.Stats, bool) {
	item, ok := s.tables.Get(tableItem{name: table})
	return item.stats, ok
}

// Tables returns the names of the tables in ascending order.
func (s *Snapshot) Tables() []string {
	names := make([]string, 0, s.tables.Len())
	s.tables.Ascend(func(item tableItem) bool {
		names = append(names, item.name)
		return true
	})
	return names
}

// Len returns the number of tables.
func (s *Snapshot) Len() int {
	return s.tables.Len()
}

// Version increases by one on every published change.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// Handle publishes statistics snapshots. Readers never block, a new snapshot
// replaces the old one atomically so an estimation sees one consistent state.
type Handle struct {
	snapshot atomic.Pointer[Snapshot]
	// mu serializes writers.
	mu sync.Mutex
}

// NewHandle creates a Handle with no statistics.
func NewHandle() *Handle {
	h := &Handle{}
	h.snapshot.Store(newSnapshot())
	return h
}

// Snapshot returns the current snapshot.
func (h *Handle) Snapshot() *Snapshot {
	return h.snapshot.Load()
}

// Get retrieves the statistics of a table from the current snapshot.
func (h *Handle) Get(table string) (*statistics.Stats, bool) {
	stats, ok := h.snapshot.Load().Get(table)
	if ok {
		metrics.CacheHitCounter.Inc()
	} else {
		metrics.CacheMissCounter.Inc()
	}
	return stats, ok
}

// GetTableStats retrieves the statistics of a table, a table without statistics gets EmptyStats.
func (h *Handle) GetTableStats(table string) *statistics.Stats {
	stats, ok := h.Get(table)
	if !ok {
		return statistics.EmptyStats
	}
	return stats
}

// Tables returns the names of the tables with statistics in ascending order.
func (h *Handle) Tables() []string {
	return h.snapshot.Load().Tables()
}

// Update publishes the given table statistics and drops the deleted tables using copy on write.
func (h *Handle) Update(tables map[string]*statistics.Stats, deleted ...string) {
	if len(tables) == 0 && len(deleted) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	old := h.snapshot.Load()
	newSnap := &Snapshot{tables: old.tables.Clone(), version: old.version + 1}
	for name, stats := range tables {
		if stats == nil {
			continue
		}
		newSnap.tables.ReplaceOrInsert(tableItem{name: name, stats: stats})
		metrics.UpdateTableCounter.Inc()
	}
	for _, name := range deleted {
		if _, ok := newSnap.tables.Delete(tableItem{name: name}); ok {
			metrics.DeleteTableCounter.Inc()
		}
	}
	h.snapshot.Store(newSnap)
	metrics.TablesGauge.Set(float64(newSnap.tables.Len()))
	logutil.StatsLogger().Debug("statistics snapshot published",
		zap.Uint64("version", newSnap.version),
		zap.Int("updated", len(tables)),
		zap.Int("deleted", len(deleted)),
		zap.Int("tables", newSnap.tables.Len()))
}

// LoadFile reads a statistics file and publishes every table in it.
func (h *Handle) LoadFile(path string, opts ...statistics.BuildOption) error {
	tables, err := storage.LoadTableStats(path, opts...)
	if err != nil {
		metrics.LoadFileFailedCounter.Inc()
		logutil.StatsLogger().Warn("load statistics file failed", zap.String("path", path), zap.Error(err))
		return errors.Trace(err)
	}
	metrics.LoadFileSuccessCounter.Inc()
	h.Update(tables)
	logutil.StatsLogger().Info("statistics file loaded", zap.String("path", path), zap.Int("tables", len(tables)))
	return nil
}
