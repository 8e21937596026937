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

package trie

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PigCharid/go-rlp/common"
	"github.com/PigCharid/go-rlp/ethdb"
	"github.com/PigCharid/go-rlp/log"
	"github.com/VictoriaMetrics/fastcache"
)

var errNodeNotFound = errors.New("not found")

// Config defines all necessary options for database.
type Config struct {
	Cache int // Memory allowance (MB) to use for caching trie nodes in memory
}

// Database is an intermediate write layer between the trie data structures and
// the disk database. The aim is to accumulate trie writes in-memory and only
// periodically flush a couple tries to disk.
// 提交的节点先缓存在dirties里，Commit时才写入磁盘
type Database struct {
	diskdb ethdb.KeyValueStore // Persistent storage for matured trie nodes
	cleans *fastcache.Cache    // GC friendly memory cache of clean node RLPs

	dirties     map[common.Hash][]byte // RLP encoded nodes not yet flushed to disk
	dirtiesSize int                    // Storage size of the dirty node cache

	lock sync.RWMutex
}

// NewDatabase creates a new trie database to store ephemeral trie content before
// its written out to disk.
func NewDatabase(diskdb ethdb.KeyValueStore) *Database {
	return NewDatabaseWithConfig(diskdb, nil)
}

// NewDatabaseWithConfig creates a new trie database to store ephemeral trie content
// before its written out to disk or garbage collected. It also acts as a read cache
// for nodes loaded from disk.
func NewDatabaseWithConfig(diskdb ethdb.KeyValueStore, config *Config) *Database {
	var cleans *fastcache.Cache
	if config != nil && config.Cache > 0 {
		cleans = fastcache.New(config.Cache * 1024 * 1024)
	}
	return &Database{
		diskdb:  diskdb,
		cleans:  cleans,
		dirties: make(map[common.Hash][]byte),
	}
}

// DiskDB retrieves the persistent storage backing the trie database.
func (db *Database) DiskDB() ethdb.KeyValueStore {
	return db.diskdb
}

// insert caches an encoded node in the dirty set. Nodes already cached are
// left untouched since the hash commits to the content.
func (db *Database) insert(hash common.Hash, blob []byte) {
	db.lock.Lock()
	defer db.lock.Unlock()

	if _, ok := db.dirties[hash]; ok {
		return
	}
	db.dirties[hash] = common.CopyBytes(blob)
	db.dirtiesSize += common.HashLength + len(blob)
}

// node retrieves a trie node by hash and decodes it.
func (db *Database) node(hash common.Hash) (node, error) {
	blob, err := db.Node(hash)
	if err != nil {
		return nil, err
	}
	n, err := decodeNode(hash[:], blob)
	if err != nil {
		log.Error("Corrupted trie node", "hash", hash, "err", err)
		return nil, err
	}
	return n, nil
}

// Node retrieves an encoded trie node from memory. If it cannot be found
// cached, the method queries the persistent database for the content.
func (db *Database) Node(hash common.Hash) ([]byte, error) {
	// It doesn't make sense to retrieve the metaroot
	if hash == (common.Hash{}) {
		return nil, errNodeNotFound
	}
	// Retrieve the node from the clean cache if available
	if db.cleans != nil {
		if enc := db.cleans.Get(nil, hash[:]); enc != nil {
			return enc, nil
		}
	}
	db.lock.RLock()
	dirty := db.dirties[hash]
	db.lock.RUnlock()

	if dirty != nil {
		return common.CopyBytes(dirty), nil
	}
	enc, err := db.diskdb.Get(hash[:])
	if err != nil {
		return nil, err
	}
	if len(enc) == 0 {
		return nil, errNodeNotFound
	}
	if db.cleans != nil {
		db.cleans.Set(hash[:], enc)
	}
	return enc, nil
}

// Size returns the number of dirty nodes and their storage size.
func (db *Database) Size() (int, int) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	return len(db.dirties), db.dirtiesSize
}

// Commit iterates over all the children of a particular node, writes them out
// to disk and removes them from the dirty set. Nodes not reachable from root
// stay cached.
func (db *Database) Commit(root common.Hash, report bool) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	var (
		start   = time.Now()
		batch   = db.diskdb.NewBatch()
		flushed = make(map[common.Hash]int)
		size    int
	)
	if err := db.commit(root, batch, flushed); err != nil {
		log.Error("Failed to commit trie from trie database", "err", err)
		return err
	}
	// Trie mostly committed to disk, flush any batch leftovers
	if err := batch.Write(); err != nil {
		log.Error("Failed to write trie to disk", "err", err)
		return err
	}
	for hash, n := range flushed {
		// Move the flushed node into the clean cache to prevent insta-reloads
		if db.cleans != nil {
			db.cleans.Set(hash[:], db.dirties[hash])
		}
		delete(db.dirties, hash)
		size += n
	}
	db.dirtiesSize -= size

	logger := log.Info
	if !report {
		logger = log.Debug
	}
	logger("Persisted trie from memory database", "nodes", len(flushed), "size", size, "time", time.Since(start),
		"livenodes", len(db.dirties), "livesize", db.dirtiesSize)
	return nil
}

// commit is the private locked version of Commit.
func (db *Database) commit(hash common.Hash, batch ethdb.Batch, flushed map[common.Hash]int) error {
	// If the node does not exist, it's a previously committed node
	blob, ok := db.dirties[hash]
	if !ok {
		return nil
	}
	if _, ok := flushed[hash]; ok {
		return nil
	}
	n, err := decodeNode(hash[:], blob)
	if err != nil {
		return fmt.Errorf("node %x: %w", hash, err)
	}
	var childErr error
	forGatherChildren(n, func(child common.Hash) {
		if childErr == nil {
			childErr = db.commit(child, batch, flushed)
		}
	})
	if childErr != nil {
		return childErr
	}
	if err := batch.Put(hash[:], blob); err != nil {
		return err
	}
	flushed[hash] = common.HashLength + len(blob)

	// If we've reached an optimal batch size, commit and start over
	if batch.ValueSize() >= ethdb.IdealBatchSize {
		if err := batch.Write(); err != nil {
			return err
		}
		batch.Reset()
	}
	return nil
}

// forGatherChildren traverses the node hierarchy of a collapsed storage node and
// invokes the callback for all the hashnode children.
func forGatherChildren(n node, onChild func(hash common.Hash)) {
	switch n := n.(type) {
	case *shortNode:
		forGatherChildren(n.Val, onChild)
	case *fullNode:
		for i := 0; i < 16; i++ {
			forGatherChildren(n.Children[i], onChild)
		}
	case hashNode:
		onChild(common.BytesToHash(n))
	case valueNode, nil:
	default:
		panic(fmt.Sprintf("unknown node type: %T", n))
	}
}
