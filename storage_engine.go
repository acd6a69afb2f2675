package main

import (
	"fmt"
	"sync"

	"github.com/ember-db/EmberDB/buffer_pool_manager"
	"github.com/ember-db/EmberDB/trie"
)

const (
	poolSize  = 64
	replacerK = 2
)

// StorageEngine wires the buffer pool to a disk manager and keeps the
// catalog in a persistent trie. Each catalog update publishes a new trie
// version under the catalog mutex, readers take a snapshot and descend it
// without further synchronization.
type StorageEngine struct {
	bufferPool buffer_pool_manager.BufferPoolManager

	catalogMutex *sync.Mutex
	catalog      trie.Trie
}

func NewStorageEngine(filePath string) (*StorageEngine, error) {

	disk, err := buffer_pool_manager.NewDirectIODiskManager(filePath)

	if err != nil {
		return nil, err
	}

	bufferPool := buffer_pool_manager.NewSimpleBufferPoolManager(poolSize, replacerK, disk, buffer_pool_manager.NoopLogManager{})

	return &StorageEngine{
		bufferPool:   bufferPool,
		catalogMutex: &sync.Mutex{},
		catalog:      trie.New(),
	}, nil
}

// CreateTable allocates a root page for the table and records it in the
// catalog.
func (engine *StorageEngine) CreateTable(name string) (buffer_pool_manager.PageID, error) {

	guard := engine.bufferPool.NewPageGuarded()

	if !guard.IsBound() {
		return buffer_pool_manager.INVALID_PAGE_ID, fmt.Errorf("can't allocate root page for table %q", name)
	}

	rootPageId := guard.PageId()
	guard.Drop()

	engine.catalogMutex.Lock()
	engine.catalog = trie.Put(engine.catalog, []byte("table/"+name), rootPageId)
	engine.catalogMutex.Unlock()

	return rootPageId, nil
}

// LookupTable returns the root page ID recorded for the table.
func (engine *StorageEngine) LookupTable(name string) (buffer_pool_manager.PageID, bool) {

	rootPageId, exists := trie.Get[buffer_pool_manager.PageID](engine.snapshot(), []byte("table/"+name))

	if !exists {
		return buffer_pool_manager.INVALID_PAGE_ID, false
	}

	return *rootPageId, true
}

// DropTable removes the table's catalog entry and deletes its root page.
func (engine *StorageEngine) DropTable(name string) bool {

	rootPageId, exists := engine.LookupTable(name)

	if !exists {
		return false
	}

	if !engine.bufferPool.DeletePage(rootPageId) {
		return false
	}

	engine.catalogMutex.Lock()
	engine.catalog = engine.catalog.Remove([]byte("table/" + name))
	engine.catalogMutex.Unlock()

	return true
}

// SetOption records a string valued engine option in the catalog.
func (engine *StorageEngine) SetOption(name string, value string) {

	engine.catalogMutex.Lock()
	engine.catalog = trie.Put(engine.catalog, []byte("option/"+name), value)
	engine.catalogMutex.Unlock()
}

// GetOption returns a previously recorded engine option.
func (engine *StorageEngine) GetOption(name string) (string, bool) {

	value, exists := trie.Get[string](engine.snapshot(), []byte("option/"+name))

	if !exists {
		return "", false
	}

	return *value, true
}

func (engine *StorageEngine) snapshot() trie.Trie {

	engine.catalogMutex.Lock()
	defer engine.catalogMutex.Unlock()

	return engine.catalog
}

// Close flushes all dirty pages and shuts the disk manager down.
func (engine *StorageEngine) Close() error {
	return engine.bufferPool.Close()
}
