// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package backend

import (
	"github.com/Fantom-foundation/MatrixStore/common"
	"github.com/pbnjay/memory"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// TableSpace divides a key-value storage into spaces by adding a prefix to the key.
type TableSpace byte

const (
	// MatrixEntryKey is a tablespace for the non-zero entries of all matrices
	MatrixEntryKey TableSpace = 'E'
	// MatrixCatalogKey is a tablespace mapping matrix identities to their metadata
	MatrixCatalogKey TableSpace = 'D'
	// MatrixSequenceKey is a tablespace for the matrix id counter
	MatrixSequenceKey TableSpace = 'S'
)

// ToDBKey converts the input key to its respective table space key.
func ToDBKey(t TableSpace, key []byte) []byte {
	res := make([]byte, 0, len(key)+1)
	res = append(res, byte(t))
	return append(res, key...)
}

// LevelDB is an interface missing in original LevelDB design.
// It contains methods common for the LevelDB instance and its Transactions.
// It allows for easy switching between transactional and non-transactional accesses.
type LevelDB interface {
	// Get gets the value for the given key. It returns ErrNotFound if the
	// DB does not contain the key.
	Get(key []byte, ro *opt.ReadOptions) (value []byte, err error)

	// Has returns true if the DB does contain the given key.
	Has(key []byte, ro *opt.ReadOptions) (bool, error)

	// NewIterator returns an iterator for the latest snapshot of the
	// underlying DB, sliced to the given range. A nil Range.Start is treated
	// as a key before all keys in the DB. And a nil Range.Limit is treated as
	// a key after all keys in the DB.
	//
	// The iterator must be released after use, by calling Release method.
	NewIterator(slice *util.Range, ro *opt.ReadOptions) iterator.Iterator

	// Put sets the value for the given key. It overwrites any previous value
	// for that key.
	Put(key, value []byte, wo *opt.WriteOptions) error

	// Delete deletes the value for the given key.
	Delete(key []byte, wo *opt.WriteOptions) error

	// Write applies the given batch to the DB atomically.
	Write(batch *leveldb.Batch, wo *opt.WriteOptions) error

	common.MemoryFootprintProvider
}

const (
	minBlockCache = 8 << 20
	maxBlockCache = 512 << 20
)

// DefaultLevelDbOptions returns LevelDB options with the block cache sized
// to 1/64 of the system memory, bounded to [8 MiB, 512 MiB], and a write
// buffer of half that size.
func DefaultLevelDbOptions() *opt.Options {
	cache := uint64(minBlockCache)
	if total := memory.TotalMemory(); total > 0 {
		cache = total / 64
	}
	if cache < minBlockCache {
		cache = minBlockCache
	}
	if cache > maxBlockCache {
		cache = maxBlockCache
	}
	return &opt.Options{
		BlockCacheCapacity: int(cache),
		WriteBuffer:        int(cache / 2),
	}
}

// OpenLevelDb opens the LevelDB connection and provides it wrapped in memory-footprint-reporting object.
// Nil options are replaced by DefaultLevelDbOptions.
func OpenLevelDb(path string, options *opt.Options) (*LevelDbMemoryFootprintWrapper, error) {
	if options == nil {
		options = DefaultLevelDbOptions()
	}
	ldb, err := leveldb.OpenFile(path, options)
	if err != nil {
		return nil, err
	}
	return &LevelDbMemoryFootprintWrapper{ldb, uintptr(options.GetWriteBuffer())}, nil
}

// LevelDbMemoryFootprintWrapper is a LevelDB wrapper adding a memory footprint providing method.
type LevelDbMemoryFootprintWrapper struct {
	*leveldb.DB
	writeBuffer uintptr
}

func (wrapper *LevelDbMemoryFootprintWrapper) GetMemoryFootprint() *common.MemoryFootprint {
	mf := common.NewMemoryFootprint(0)
	mf.AddChild("writeBuffer", common.NewMemoryFootprint(wrapper.writeBuffer))
	var ldbStats leveldb.DBStats
	if err := wrapper.DB.Stats(&ldbStats); err != nil {
		return mf // closed databases report no block cache
	}
	mf.AddChild("blockCache", common.NewMemoryFootprint(uintptr(ldbStats.BlockCacheSize)))
	return mf
}
