// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ldb

import (
	"bytes"
	"sync"
	"unsafe"

	"github.com/Fantom-foundation/MatrixStore/backend"
	"github.com/Fantom-foundation/MatrixStore/backend/rowkey"
	"github.com/Fantom-foundation/MatrixStore/backend/rowstore"
	"github.com/Fantom-foundation/MatrixStore/common"
	"github.com/cockroachdb/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const metadataSize = 12

// deleteBatchSize bounds the number of keys removed by a single write.
const deleteBatchSize = 1024

// catalogLocks holds one lock per database, so that stores sharing a
// database never hand out the same matrix id.
var catalogLocks sync.Map // backend.LevelDB -> *sync.Mutex

func catalogLock(db backend.LevelDB) *sync.Mutex {
	lock, _ := catalogLocks.LoadOrStore(db, new(sync.Mutex))
	return lock.(*sync.Mutex)
}

var sequenceKey = []byte{byte(backend.MatrixSequenceKey)}

// Store is a LevelDB based rowstore.Store implementation. Every non-zero
// cell is a database entry keyed by its cell key, so a row record is the
// set of entries sharing the row key as a prefix.
type Store struct {
	db      backend.LevelDB
	closer  func() error
	catalog *sync.Mutex // serializes catalog updates of the database
}

// NewStore creates a store on top of the given database. The database is
// not closed when the store is closed.
func NewStore(db backend.LevelDB) *Store {
	return &Store{db: db, catalog: catalogLock(db)}
}

// Open opens a LevelDB database in the given directory and creates a store
// owning it.
func Open(directory string) (*Store, error) {
	db, err := backend.OpenLevelDb(directory, nil)
	if err != nil {
		return nil, rowstore.Unavailable(err)
	}
	return &Store{db: db, closer: db.Close, catalog: catalogLock(db)}, nil
}

func (s *Store) Get(row rowkey.RowKey, column rowkey.ColumnKey) (float64, bool, error) {
	key := rowkey.Join(row, column)
	data, err := s.db.Get(key[:], nil)
	if err == leveldb.ErrNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, rowstore.Unavailable(err)
	}
	value, err := rowkey.DecodeValue(data)
	if err != nil {
		return 0, false, errors.Wrapf(err, "corrupted cell %v", key)
	}
	return value, true, nil
}

func (s *Store) GetColumns(row rowkey.RowKey, columns []rowkey.ColumnKey) ([]rowstore.Entry, error) {
	sorted := rowstore.SortedColumns(columns)
	res := make([]rowstore.Entry, 0, len(sorted))
	for _, column := range sorted {
		value, found, err := s.Get(row, column)
		if err != nil {
			return nil, err
		}
		if found {
			res = append(res, rowstore.Entry{Column: column, Value: value})
		}
	}
	return res, nil
}

func (s *Store) GetRow(row rowkey.RowKey) ([]rowstore.Entry, error) {
	r := util.BytesPrefix(row[:])
	iter := s.db.NewIterator(r, nil)
	defer iter.Release()

	var res []rowstore.Entry
	for iter.Next() {
		key, err := rowkey.CellKeyFromBytes(iter.Key())
		if err != nil {
			return nil, err
		}
		value, err := rowkey.DecodeValue(iter.Value())
		if err != nil {
			return nil, errors.Wrapf(err, "corrupted cell %v", key)
		}
		res = append(res, rowstore.Entry{Column: key.Column(), Value: value})
	}
	if err := iter.Error(); err != nil {
		return nil, rowstore.Unavailable(err)
	}
	return res, nil
}

func (s *Store) PutRow(row rowkey.RowKey, entries []rowstore.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := new(leveldb.Batch)
	for _, entry := range entries {
		key := rowkey.Join(row, entry.Column)
		value := rowkey.EncodeValue(entry.Value)
		batch.Put(key[:], value[:])
	}
	return rowstore.Unavailable(s.db.Write(batch, nil))
}

func (s *Store) Delete(row rowkey.RowKey, column rowkey.ColumnKey) error {
	key := rowkey.Join(row, column)
	return rowstore.Unavailable(s.db.Delete(key[:], nil))
}

func (s *Store) Scan(start, limit rowkey.RowKey, visit func(rowkey.RowKey, []rowstore.Entry) error) error {
	iter := s.db.NewIterator(&util.Range{Start: start[:], Limit: limit[:]}, nil)
	defer iter.Release()

	var current rowkey.RowKey
	var entries []rowstore.Entry
	for iter.Next() {
		key, err := rowkey.CellKeyFromBytes(iter.Key())
		if err != nil {
			return err
		}
		value, err := rowkey.DecodeValue(iter.Value())
		if err != nil {
			return errors.Wrapf(err, "corrupted cell %v", key)
		}
		if row := key.Row(); row != current {
			if len(entries) > 0 {
				if err := visit(current, entries); err != nil {
					return err
				}
			}
			current, entries = row, nil
		}
		entries = append(entries, rowstore.Entry{Column: key.Column(), Value: value})
	}
	if err := iter.Error(); err != nil {
		return rowstore.Unavailable(err)
	}
	if len(entries) > 0 {
		return visit(current, entries)
	}
	return nil
}

func (s *Store) DeleteRange(start, limit rowkey.RowKey) error {
	return s.deleteRange(&util.Range{Start: start[:], Limit: limit[:]})
}

func (s *Store) deleteRange(r *util.Range) error {
	iter := s.db.NewIterator(r, nil)
	defer iter.Release()

	batch := new(leveldb.Batch)
	for iter.Next() {
		batch.Delete(bytes.Clone(iter.Key()))
		if batch.Len() >= deleteBatchSize {
			if err := s.db.Write(batch, nil); err != nil {
				return rowstore.Unavailable(err)
			}
			batch.Reset()
		}
	}
	if err := iter.Error(); err != nil {
		return rowstore.Unavailable(err)
	}
	if batch.Len() == 0 {
		return nil
	}
	return rowstore.Unavailable(s.db.Write(batch, nil))
}

func (s *Store) CreateMatrix(identity string, rows, columns int) (rowstore.Metadata, error) {
	if err := rowstore.CheckDimensions(rows, columns); err != nil {
		return rowstore.Metadata{}, err
	}
	s.catalog.Lock()
	defer s.catalog.Unlock()

	if identity != "" {
		if _, exists, err := s.LookupMatrix(identity); err != nil {
			return rowstore.Metadata{}, err
		} else if exists {
			return rowstore.Metadata{}, errors.Wrapf(rowstore.ErrMatrixExists, "%s", identity)
		}
	}

	next, err := s.nextID()
	if err != nil {
		return rowstore.Metadata{}, err
	}
	meta := rowstore.Metadata{Identity: identity, Rows: rows, Columns: columns}
	for {
		meta.ID = next
		next++
		if identity != "" {
			break
		}
		_, exists, err := s.LookupMatrix(rowstore.GeneratedIdentity(meta.ID))
		if err != nil {
			return rowstore.Metadata{}, err
		}
		if !exists {
			meta.Identity = rowstore.GeneratedIdentity(meta.ID)
			break
		}
	}

	batch := new(leveldb.Batch)
	batch.Put(sequenceKey, idSerializer.ToBytes(next))
	batch.Put(catalogKey(meta.Identity), encodeMetadata(meta))
	if err := s.db.Write(batch, nil); err != nil {
		return rowstore.Metadata{}, rowstore.Unavailable(err)
	}
	return meta, nil
}

func (s *Store) nextID() (uint32, error) {
	data, err := s.db.Get(sequenceKey, nil)
	if err == leveldb.ErrNotFound {
		return 1, nil
	}
	if err != nil {
		return 0, rowstore.Unavailable(err)
	}
	return idSerializer.FromBytes(data), nil
}

func (s *Store) LookupMatrix(identity string) (rowstore.Metadata, bool, error) {
	data, err := s.db.Get(catalogKey(identity), nil)
	if err == leveldb.ErrNotFound {
		return rowstore.Metadata{}, false, nil
	}
	if err != nil {
		return rowstore.Metadata{}, false, rowstore.Unavailable(err)
	}
	meta, err := decodeMetadata(identity, data)
	if err != nil {
		return rowstore.Metadata{}, false, err
	}
	return meta, true, nil
}

func (s *Store) ListMatrices() ([]rowstore.Metadata, error) {
	iter := s.db.NewIterator(util.BytesPrefix([]byte{byte(backend.MatrixCatalogKey)}), nil)
	defer iter.Release()

	var res []rowstore.Metadata
	for iter.Next() {
		meta, err := decodeMetadata(string(iter.Key()[1:]), iter.Value())
		if err != nil {
			return nil, err
		}
		res = append(res, meta)
	}
	if err := iter.Error(); err != nil {
		return nil, rowstore.Unavailable(err)
	}
	return res, nil
}

func (s *Store) DropMatrix(identity string) error {
	s.catalog.Lock()
	defer s.catalog.Unlock()

	meta, exists, err := s.LookupMatrix(identity)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Wrapf(rowstore.ErrUnknownMatrix, "%s", identity)
	}
	start, limit := rowkey.NewCodec(meta.ID).MatrixSpan()
	if err := s.DeleteRange(start, limit); err != nil {
		return err
	}
	return rowstore.Unavailable(s.db.Delete(catalogKey(identity), nil))
}

// Flush the store
func (s *Store) Flush() error {
	return nil // no-op for ldb database
}

// Close the store, closing the database if it is owned by the store.
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	closer := s.closer
	s.closer = nil
	catalogLocks.Delete(s.db)
	return closer()
}

// GetMemoryFootprint provides the size of the store in memory in bytes
func (s *Store) GetMemoryFootprint() *common.MemoryFootprint {
	mf := common.NewMemoryFootprint(unsafe.Sizeof(*s))
	mf.AddChild("levelDb", s.db.GetMemoryFootprint())
	return mf
}

var idSerializer common.Serializer[uint32] = common.Identifier32Serializer{}

func catalogKey(identity string) []byte {
	return backend.ToDBKey(backend.MatrixCatalogKey, []byte(identity))
}

func encodeMetadata(meta rowstore.Metadata) []byte {
	res := make([]byte, metadataSize)
	idSerializer.CopyBytes(meta.ID, res[0:4])
	idSerializer.CopyBytes(uint32(meta.Rows), res[4:8])
	idSerializer.CopyBytes(uint32(meta.Columns), res[8:12])
	return res
}

func decodeMetadata(identity string, data []byte) (rowstore.Metadata, error) {
	if len(data) != metadataSize {
		return rowstore.Metadata{}, errors.Newf("corrupted catalog record of %s: %x", identity, data)
	}
	return rowstore.Metadata{
		Identity: identity,
		ID:       idSerializer.FromBytes(data[0:4]),
		Rows:     int(idSerializer.FromBytes(data[4:8])),
		Columns:  int(idSerializer.FromBytes(data[8:12])),
	}, nil
}
