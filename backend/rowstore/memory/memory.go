// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package memory

import (
	"bytes"
	"sync"
	"unsafe"

	"github.com/Fantom-foundation/MatrixStore/backend/rowkey"
	"github.com/Fantom-foundation/MatrixStore/backend/rowstore"
	"github.com/Fantom-foundation/MatrixStore/common"
	"github.com/cockroachdb/errors"
	"github.com/google/btree"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const btreeDegree = 32

var errClosed = errors.New("memory store closed")

// Store is an in-memory rowstore.Store implementation keeping all cells in
// a single B-tree ordered by cell key.
type Store struct {
	mu      sync.RWMutex
	cells   *btree.BTree
	catalog map[string]rowstore.Metadata
	nextID  uint32
	closed  bool
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		cells:   btree.New(btreeDegree),
		catalog: make(map[string]rowstore.Metadata),
		nextID:  1,
	}
}

type cell struct {
	key   rowkey.CellKey
	value float64
}

func (c *cell) Less(than btree.Item) bool {
	return bytes.Compare(c.key[:], than.(*cell).key[:]) < 0
}

func pivot(row rowkey.RowKey, column rowkey.ColumnKey) *cell {
	return &cell{key: rowkey.Join(row, column)}
}

func (s *Store) Get(row rowkey.RowKey, column rowkey.ColumnKey) (float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, false, rowstore.Unavailable(errClosed)
	}
	item := s.cells.Get(pivot(row, column))
	if item == nil {
		return 0, false, nil
	}
	return item.(*cell).value, true, nil
}

func (s *Store) GetColumns(row rowkey.RowKey, columns []rowkey.ColumnKey) ([]rowstore.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, rowstore.Unavailable(errClosed)
	}
	sorted := rowstore.SortedColumns(columns)
	res := make([]rowstore.Entry, 0, len(sorted))
	for _, column := range sorted {
		if item := s.cells.Get(pivot(row, column)); item != nil {
			res = append(res, rowstore.Entry{Column: column, Value: item.(*cell).value})
		}
	}
	return res, nil
}

func (s *Store) GetRow(row rowkey.RowKey) ([]rowstore.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, rowstore.Unavailable(errClosed)
	}
	var res []rowstore.Entry
	s.cells.AscendGreaterOrEqual(pivot(row, rowkey.ColumnKey{}), func(i btree.Item) bool {
		c := i.(*cell)
		if c.key.Row() != row {
			return false
		}
		res = append(res, rowstore.Entry{Column: c.key.Column(), Value: c.value})
		return true
	})
	return res, nil
}

func (s *Store) PutRow(row rowkey.RowKey, entries []rowstore.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return rowstore.Unavailable(errClosed)
	}
	for _, entry := range entries {
		s.cells.ReplaceOrInsert(&cell{key: rowkey.Join(row, entry.Column), value: entry.Value})
	}
	return nil
}

func (s *Store) Delete(row rowkey.RowKey, column rowkey.ColumnKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return rowstore.Unavailable(errClosed)
	}
	s.cells.Delete(pivot(row, column))
	return nil
}

func (s *Store) Scan(start, limit rowkey.RowKey, visit func(rowkey.RowKey, []rowstore.Entry) error) error {
	// Rows are collected under the lock and visited without it, so the
	// visitor may access the store.
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return rowstore.Unavailable(errClosed)
	}
	var rows []rowkey.RowKey
	var records [][]rowstore.Entry
	s.cells.AscendRange(pivot(start, rowkey.ColumnKey{}), pivot(limit, rowkey.ColumnKey{}), func(i btree.Item) bool {
		c := i.(*cell)
		row := c.key.Row()
		if len(rows) == 0 || rows[len(rows)-1] != row {
			rows = append(rows, row)
			records = append(records, nil)
		}
		records[len(records)-1] = append(records[len(records)-1], rowstore.Entry{Column: c.key.Column(), Value: c.value})
		return true
	})
	s.mu.RUnlock()

	for i, row := range rows {
		if err := visit(row, records[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) DeleteRange(start, limit rowkey.RowKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return rowstore.Unavailable(errClosed)
	}
	s.deleteRange(start, limit)
	return nil
}

func (s *Store) deleteRange(start, limit rowkey.RowKey) {
	var victims []btree.Item
	s.cells.AscendRange(pivot(start, rowkey.ColumnKey{}), pivot(limit, rowkey.ColumnKey{}), func(i btree.Item) bool {
		victims = append(victims, i)
		return true
	})
	for _, victim := range victims {
		s.cells.Delete(victim)
	}
}

func (s *Store) CreateMatrix(identity string, rows, columns int) (rowstore.Metadata, error) {
	if err := rowstore.CheckDimensions(rows, columns); err != nil {
		return rowstore.Metadata{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return rowstore.Metadata{}, rowstore.Unavailable(errClosed)
	}
	if _, exists := s.catalog[identity]; exists {
		return rowstore.Metadata{}, errors.Wrapf(rowstore.ErrMatrixExists, "%s", identity)
	}
	meta := rowstore.Metadata{Identity: identity, Rows: rows, Columns: columns}
	for {
		meta.ID = s.nextID
		s.nextID++
		if identity != "" {
			break
		}
		if _, exists := s.catalog[rowstore.GeneratedIdentity(meta.ID)]; !exists {
			meta.Identity = rowstore.GeneratedIdentity(meta.ID)
			break
		}
	}
	s.catalog[meta.Identity] = meta
	return meta, nil
}

func (s *Store) LookupMatrix(identity string) (rowstore.Metadata, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return rowstore.Metadata{}, false, rowstore.Unavailable(errClosed)
	}
	meta, exists := s.catalog[identity]
	return meta, exists, nil
}

func (s *Store) ListMatrices() ([]rowstore.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, rowstore.Unavailable(errClosed)
	}
	identities := maps.Keys(s.catalog)
	slices.Sort(identities)
	res := make([]rowstore.Metadata, 0, len(identities))
	for _, identity := range identities {
		res = append(res, s.catalog[identity])
	}
	return res, nil
}

func (s *Store) DropMatrix(identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return rowstore.Unavailable(errClosed)
	}
	meta, exists := s.catalog[identity]
	if !exists {
		return errors.Wrapf(rowstore.ErrUnknownMatrix, "%s", identity)
	}
	s.deleteRange(rowkey.NewCodec(meta.ID).MatrixSpan())
	delete(s.catalog, identity)
	return nil
}

// Flush the store
func (s *Store) Flush() error {
	return nil // no-op for in-memory database
}

// Close the store
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// GetMemoryFootprint provides the size of the store in memory in bytes
func (s *Store) GetMemoryFootprint() *common.MemoryFootprint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mf := common.NewMemoryFootprint(unsafe.Sizeof(*s))
	mf.AddChild("cells", common.NewMemoryFootprint(uintptr(s.cells.Len())*(unsafe.Sizeof(cell{})+unsafe.Sizeof(uintptr(0)))))
	mf.AddChild("catalog", common.NewMemoryFootprint(uintptr(len(s.catalog))*unsafe.Sizeof(rowstore.Metadata{})))
	return mf
}
