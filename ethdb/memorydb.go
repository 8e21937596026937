// Copyright 2018 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package ethdb

import (
	"sync"

	"github.com/PigCharid/go-rlp/common"
	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/memdb"
)

// MemoryDatabase is an ephemeral key-value store on top of goleveldb's
// in-memory skiplist. Apart from basic data storage functionality it also
// supports batch writes and iterating over the keyspace in binary-alphabetical
// order.
type MemoryDatabase struct {
	db   *memdb.DB
	lock sync.RWMutex
}

// NewMemoryDatabase returns a wrapped memdb compatible with KeyValueStore.
func NewMemoryDatabase() *MemoryDatabase {
	return NewMemoryDatabaseWithCap(0)
}

// NewMemoryDatabaseWithCap returns a wrapped memdb with an initial buffer of
// size bytes.
func NewMemoryDatabaseWithCap(size int) *MemoryDatabase {
	return &MemoryDatabase{
		db: memdb.New(comparer.DefaultComparer, size),
	}
}

// Close deallocates the internal buffer and ensures any consecutive data
// access op fails with an error.
func (db *MemoryDatabase) Close() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	db.db = nil
	return nil
}

// Has retrieves if a key is present in the key-value store.
func (db *MemoryDatabase) Has(key []byte) (bool, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.db == nil {
		return false, errClosed
	}
	return db.db.Contains(key), nil
}

// Get retrieves the given key if it's present in the key-value store.
func (db *MemoryDatabase) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.db == nil {
		return nil, errClosed
	}
	entry, err := db.db.Get(key)
	if err == memdb.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return common.CopyBytes(entry), nil
}

// Put inserts the given value into the key-value store.
func (db *MemoryDatabase) Put(key []byte, value []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.db == nil {
		return errClosed
	}
	return db.db.Put(key, value)
}

// Delete removes the key from the key-value store.
func (db *MemoryDatabase) Delete(key []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.db == nil {
		return errClosed
	}
	if err := db.db.Delete(key); err != nil && err != memdb.ErrNotFound {
		return err
	}
	return nil
}

// NewBatch creates a write-only key-value store that buffers changes to its host
// database until a final write is called.
func (db *MemoryDatabase) NewBatch() Batch {
	return &memoryBatch{db: db}
}

// NewIterator creates a binary-alphabetical iterator over a subset
// of database content with a particular key prefix, starting at a particular
// initial key (or after, if it does not exist).
func (db *MemoryDatabase) NewIterator(prefix []byte, start []byte) Iterator {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.db == nil {
		return &errIterator{err: errClosed}
	}
	return db.db.NewIterator(bytesPrefixRange(prefix, start))
}

// Len returns the number of entries currently present in the memory database.
func (db *MemoryDatabase) Len() int {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.db == nil {
		return 0
	}
	return db.db.Len()
}

// keyvalue is a key-value tuple tagged with a deletion field to allow creating
// memory-database write batches.
type keyvalue struct {
	key    []byte
	value  []byte
	delete bool
}

// memoryBatch is a write-only memory batch that commits changes to its host
// database when Write is called. A batch cannot be used concurrently.
type memoryBatch struct {
	db     *MemoryDatabase
	writes []keyvalue
	size   int
}

// Put inserts the given value into the batch for later committing.
func (b *memoryBatch) Put(key, value []byte) error {
	b.writes = append(b.writes, keyvalue{common.CopyBytes(key), common.CopyBytes(value), false})
	b.size += len(key) + len(value)
	return nil
}

// Delete inserts the a key removal into the batch for later committing.
func (b *memoryBatch) Delete(key []byte) error {
	b.writes = append(b.writes, keyvalue{common.CopyBytes(key), nil, true})
	b.size += len(key)
	return nil
}

// ValueSize retrieves the amount of data queued up for writing.
func (b *memoryBatch) ValueSize() int {
	return b.size
}

// Write flushes any accumulated data to the memory database.
func (b *memoryBatch) Write() error {
	b.db.lock.Lock()
	defer b.db.lock.Unlock()

	if b.db.db == nil {
		return errClosed
	}
	for _, kv := range b.writes {
		if kv.delete {
			if err := b.db.db.Delete(kv.key); err != nil && err != memdb.ErrNotFound {
				return err
			}
			continue
		}
		if err := b.db.db.Put(kv.key, kv.value); err != nil {
			return err
		}
	}
	return nil
}

// Reset resets the batch for reuse.
func (b *memoryBatch) Reset() {
	b.writes = b.writes[:0]
	b.size = 0
}

// Replay replays the batch contents.
func (b *memoryBatch) Replay(w KeyValueWriter) error {
	for _, kv := range b.writes {
		if kv.delete {
			if err := w.Delete(kv.key); err != nil {
				return err
			}
			continue
		}
		if err := w.Put(kv.key, kv.value); err != nil {
			return err
		}
	}
	return nil
}

// errIterator is an iterator over nothing that reports err.
type errIterator struct {
	err error
}

func (it *errIterator) Next() bool    { return false }
func (it *errIterator) Error() error  { return it.err }
func (it *errIterator) Key() []byte   { return nil }
func (it *errIterator) Value() []byte { return nil }
func (it *errIterator) Release()      {}
