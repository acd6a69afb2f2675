package buffer_pool_manager

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// InMemoryDiskManager backs pages with a concurrent map instead of a file.
// It expands to accommodate any page ID read or written, reads of unknown
// pages yield zero pages. Used by tests and as a scratch backing store.
type InMemoryDiskManager struct {
	pages *xsync.MapOf[PageID, []byte]
}

func NewInMemoryDiskManager() *InMemoryDiskManager {

	return &InMemoryDiskManager{
		pages: xsync.NewMapOf[PageID, []byte](),
	}
}

// ReadPage copies the stored page into buffer, or zeroes the buffer if the
// page was never written.
func (disk *InMemoryDiskManager) ReadPage(pageId PageID, buffer []byte) error {

	data, exists := disk.pages.Load(pageId)

	if !exists {
		clear(buffer)
		return nil
	}

	copy(buffer, data)

	return nil
}

// WritePage stores a copy of the page, detached from the caller's buffer.
func (disk *InMemoryDiskManager) WritePage(pageId PageID, data []byte) error {

	stored := make([]byte, PAGE_SIZE)
	copy(stored, data)

	disk.pages.Store(pageId, stored)

	return nil
}

// ShutDown discards all stored pages.
func (disk *InMemoryDiskManager) ShutDown() error {

	disk.pages.Clear()

	return nil
}
