// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package sqlite

import (
	"database/sql"
	"sync"
	"unsafe"

	"github.com/Fantom-foundation/MatrixStore/backend/rowkey"
	"github.com/Fantom-foundation/MatrixStore/backend/rowstore"
	"github.com/Fantom-foundation/MatrixStore/common"
	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"
)

var (
	// See https://www.sqlite.org/pragma.html
	kConfigureConnection = []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -65536", // abs(N*1024) = 64MB
	}
)

// Keys are stored as BLOBs, which SQLite compares with memcmp; thus the
// ordering of the row keys is preserved by the primary key index.
const (
	kCreateEntryTable = "CREATE TABLE IF NOT EXISTS entry (row_key BLOB NOT NULL, col_key BLOB NOT NULL, value BLOB NOT NULL, PRIMARY KEY (row_key, col_key)) WITHOUT ROWID"
	kGetStmt          = "SELECT value FROM entry WHERE row_key = ? AND col_key = ?"
	kGetRowStmt       = "SELECT col_key, value FROM entry WHERE row_key = ? ORDER BY col_key"
	kPutStmt          = "INSERT OR REPLACE INTO entry(row_key, col_key, value) VALUES (?,?,?)"
	kDeleteStmt       = "DELETE FROM entry WHERE row_key = ? AND col_key = ?"
	kScanStmt         = "SELECT row_key, col_key, value FROM entry WHERE row_key >= ? AND row_key < ? ORDER BY row_key, col_key LIMIT ?"
	kDeleteRangeStmt  = "DELETE FROM entry WHERE row_key >= ? AND row_key < ?"

	kCreateMatrixTable = "CREATE TABLE IF NOT EXISTS matrix (identity TEXT PRIMARY KEY, id INTEGER NOT NULL UNIQUE, row_count INTEGER NOT NULL, column_count INTEGER NOT NULL)"
	kAddMatrixStmt     = "INSERT INTO matrix(identity, id, row_count, column_count) VALUES (?,?,?,?)"
	kGetMatrixStmt     = "SELECT id, row_count, column_count FROM matrix WHERE identity = ?"
	kListMatricesStmt  = "SELECT identity, id, row_count, column_count FROM matrix ORDER BY identity"
	kDropMatrixStmt    = "DELETE FROM matrix WHERE identity = ?"

	kCreateSequenceTable = "CREATE TABLE IF NOT EXISTS sequence (name TEXT PRIMARY KEY, next INTEGER NOT NULL)"
	kGetSequenceStmt     = "SELECT next FROM sequence WHERE name = 'matrix'"
	kSetSequenceStmt     = "INSERT OR REPLACE INTO sequence(name, next) VALUES ('matrix', ?)"
)

// scanBatchSize is the number of entries fetched at once while scanning.
const scanBatchSize = 256

// Store is a SQLite based rowstore.Store implementation. Each non-zero cell
// is a record of the entry table.
type Store struct {
	db              *sql.DB
	getStmt         *sql.Stmt
	getRowStmt      *sql.Stmt
	putStmt         *sql.Stmt
	deleteStmt      *sql.Stmt
	scanStmt        *sql.Stmt
	deleteRangeStmt *sql.Stmt
	addMatrixStmt   *sql.Stmt
	getMatrixStmt   *sql.Stmt
	listStmt        *sql.Stmt
	dropMatrixStmt  *sql.Stmt
	getSequenceStmt *sql.Stmt
	setSequenceStmt *sql.Stmt
	catalog         sync.Mutex
	lock            common.LockFile
}

// Open opens or creates the SQLite database in the given file. The file is
// guarded by a lock file, so it can be used by a single store at a time.
func Open(file string) (*Store, error) {
	lock, err := common.CreateLockFile(file + ".lock")
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", "file:"+file)
	if err != nil {
		return nil, errors.CombineErrors(rowstore.Unavailable(errors.Wrap(err, "failed to open SQLite")), lock.Release())
	}
	// a single connection serializes writers, avoiding busy errors
	db.SetMaxOpenConns(1)

	store, err := setup(db)
	if err != nil {
		return nil, errors.CombineErrors(err, errors.CombineErrors(db.Close(), lock.Release()))
	}
	store.lock = lock
	return store, nil
}

func setup(db *sql.DB) (*Store, error) {
	for _, cmd := range kConfigureConnection {
		if _, err := db.Exec(cmd); err != nil {
			return nil, rowstore.Unavailable(errors.Wrapf(err, "failed to configure connection with %s", cmd))
		}
	}
	for _, cmd := range []string{kCreateEntryTable, kCreateMatrixTable, kCreateSequenceTable} {
		if _, err := db.Exec(cmd); err != nil {
			return nil, rowstore.Unavailable(errors.Wrapf(err, "failed to create table with %s", cmd))
		}
	}

	s := &Store{db: db}
	statements := []struct {
		target **sql.Stmt
		query  string
	}{
		{&s.getStmt, kGetStmt},
		{&s.getRowStmt, kGetRowStmt},
		{&s.putStmt, kPutStmt},
		{&s.deleteStmt, kDeleteStmt},
		{&s.scanStmt, kScanStmt},
		{&s.deleteRangeStmt, kDeleteRangeStmt},
		{&s.addMatrixStmt, kAddMatrixStmt},
		{&s.getMatrixStmt, kGetMatrixStmt},
		{&s.listStmt, kListMatricesStmt},
		{&s.dropMatrixStmt, kDropMatrixStmt},
		{&s.getSequenceStmt, kGetSequenceStmt},
		{&s.setSequenceStmt, kSetSequenceStmt},
	}
	for _, stmt := range statements {
		prepared, err := db.Prepare(stmt.query)
		if err != nil {
			return nil, rowstore.Unavailable(errors.Wrapf(err, "failed to prepare %s", stmt.query))
		}
		*stmt.target = prepared
	}
	return s, nil
}

func (s *Store) Get(row rowkey.RowKey, column rowkey.ColumnKey) (float64, bool, error) {
	var data []byte
	err := s.getStmt.QueryRow(row[:], column[:]).Scan(&data)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, rowstore.Unavailable(err)
	}
	value, err := rowkey.DecodeValue(data)
	if err != nil {
		return 0, false, err
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
	rows, err := s.getRowStmt.Query(row[:])
	if err != nil {
		return nil, rowstore.Unavailable(err)
	}
	defer rows.Close()

	var res []rowstore.Entry
	for rows.Next() {
		var column, data []byte
		if err := rows.Scan(&column, &data); err != nil {
			return nil, rowstore.Unavailable(err)
		}
		key, err := rowkey.ColumnKeyFromBytes(column)
		if err != nil {
			return nil, err
		}
		value, err := rowkey.DecodeValue(data)
		if err != nil {
			return nil, err
		}
		res = append(res, rowstore.Entry{Column: key, Value: value})
	}
	if err := rows.Err(); err != nil {
		return nil, rowstore.Unavailable(err)
	}
	return res, nil
}

func (s *Store) PutRow(row rowkey.RowKey, entries []rowstore.Entry) (err error) {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return rowstore.Unavailable(err)
	}
	defer func() {
		if err != nil {
			err = errors.CombineErrors(err, tx.Rollback())
		}
	}()

	put := tx.Stmt(s.putStmt)
	for _, entry := range entries {
		value := rowkey.EncodeValue(entry.Value)
		if _, err = put.Exec(row[:], entry.Column[:], value[:]); err != nil {
			return rowstore.Unavailable(err)
		}
	}
	return rowstore.Unavailable(tx.Commit())
}

func (s *Store) Delete(row rowkey.RowKey, column rowkey.ColumnKey) error {
	_, err := s.deleteStmt.Exec(row[:], column[:])
	return rowstore.Unavailable(err)
}

func (s *Store) Scan(start, limit rowkey.RowKey, visit func(rowkey.RowKey, []rowstore.Entry) error) error {
	from := start[:]
	for {
		batch, complete, err := s.scanEntries(from, limit[:])
		if err != nil {
			return err
		}
		if !complete {
			// the last row of the batch may be cut off
			if len(batch) == 1 {
				if batch[0].entries, err = s.GetRow(batch[0].key); err != nil {
					return err
				}
			} else {
				batch = batch[:len(batch)-1]
			}
		}
		for _, row := range batch {
			if len(row.entries) == 0 {
				continue // deleted since listed
			}
			if err := visit(row.key, row.entries); err != nil {
				return err
			}
		}
		if complete {
			return nil
		}
		last := batch[len(batch)-1].key
		from = append(last[:], 0)
	}
}

type scannedRow struct {
	key     rowkey.RowKey
	entries []rowstore.Entry
}

// scanEntries fetches up to scanBatchSize entries starting at from, grouped
// by row. The result is complete if no entries before limit were left out.
func (s *Store) scanEntries(from, limit []byte) ([]scannedRow, bool, error) {
	rows, err := s.scanStmt.Query(from, limit, scanBatchSize)
	if err != nil {
		return nil, false, rowstore.Unavailable(err)
	}
	defer rows.Close()

	var res []scannedRow
	count := 0
	for rows.Next() {
		var rowData, columnData, valueData []byte
		if err := rows.Scan(&rowData, &columnData, &valueData); err != nil {
			return nil, false, rowstore.Unavailable(err)
		}
		row, err := rowkey.RowKeyFromBytes(rowData)
		if err != nil {
			return nil, false, err
		}
		column, err := rowkey.ColumnKeyFromBytes(columnData)
		if err != nil {
			return nil, false, err
		}
		value, err := rowkey.DecodeValue(valueData)
		if err != nil {
			return nil, false, err
		}
		if len(res) == 0 || res[len(res)-1].key != row {
			res = append(res, scannedRow{key: row})
		}
		last := &res[len(res)-1]
		last.entries = append(last.entries, rowstore.Entry{Column: column, Value: value})
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, false, rowstore.Unavailable(err)
	}
	return res, count < scanBatchSize, nil
}

func (s *Store) DeleteRange(start, limit rowkey.RowKey) error {
	_, err := s.deleteRangeStmt.Exec(start[:], limit[:])
	return rowstore.Unavailable(err)
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

	var next int64 = 1
	if err := s.getSequenceStmt.QueryRow().Scan(&next); err != nil && err != sql.ErrNoRows {
		return rowstore.Metadata{}, rowstore.Unavailable(err)
	}
	meta := rowstore.Metadata{Identity: identity, Rows: rows, Columns: columns}
	for {
		meta.ID = uint32(next)
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

	tx, err := s.db.Begin()
	if err != nil {
		return rowstore.Metadata{}, rowstore.Unavailable(err)
	}
	if _, err := tx.Stmt(s.setSequenceStmt).Exec(next); err != nil {
		return rowstore.Metadata{}, rowstore.Unavailable(errors.CombineErrors(err, tx.Rollback()))
	}
	if _, err := tx.Stmt(s.addMatrixStmt).Exec(meta.Identity, meta.ID, meta.Rows, meta.Columns); err != nil {
		return rowstore.Metadata{}, rowstore.Unavailable(errors.CombineErrors(err, tx.Rollback()))
	}
	if err := tx.Commit(); err != nil {
		return rowstore.Metadata{}, rowstore.Unavailable(err)
	}
	return meta, nil
}

func (s *Store) LookupMatrix(identity string) (rowstore.Metadata, bool, error) {
	meta := rowstore.Metadata{Identity: identity}
	err := s.getMatrixStmt.QueryRow(identity).Scan(&meta.ID, &meta.Rows, &meta.Columns)
	if err == sql.ErrNoRows {
		return rowstore.Metadata{}, false, nil
	}
	if err != nil {
		return rowstore.Metadata{}, false, rowstore.Unavailable(err)
	}
	return meta, true, nil
}

func (s *Store) ListMatrices() ([]rowstore.Metadata, error) {
	rows, err := s.listStmt.Query()
	if err != nil {
		return nil, rowstore.Unavailable(err)
	}
	defer rows.Close()

	var res []rowstore.Metadata
	for rows.Next() {
		var meta rowstore.Metadata
		if err := rows.Scan(&meta.Identity, &meta.ID, &meta.Rows, &meta.Columns); err != nil {
			return nil, rowstore.Unavailable(err)
		}
		res = append(res, meta)
	}
	if err := rows.Err(); err != nil {
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
	tx, err := s.db.Begin()
	if err != nil {
		return rowstore.Unavailable(err)
	}
	if _, err := tx.Stmt(s.deleteRangeStmt).Exec(start[:], limit[:]); err != nil {
		return rowstore.Unavailable(errors.CombineErrors(err, tx.Rollback()))
	}
	if _, err := tx.Stmt(s.dropMatrixStmt).Exec(identity); err != nil {
		return rowstore.Unavailable(errors.CombineErrors(err, tx.Rollback()))
	}
	return rowstore.Unavailable(tx.Commit())
}

// Flush the store
func (s *Store) Flush() error {
	return nil // all updates are committed immediately
}

// Close the store and release its lock
func (s *Store) Close() error {
	if !s.lock.Valid() {
		return nil
	}
	return errors.CombineErrors(s.db.Close(), s.lock.Release())
}

// GetMemoryFootprint provides the size of the store in memory in bytes
func (s *Store) GetMemoryFootprint() *common.MemoryFootprint {
	return common.NewMemoryFootprint(unsafe.Sizeof(*s))
}
