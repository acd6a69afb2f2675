package buffer_pool_manager

// DiskManager moves fixed size pages between memory and the backing store.
// Page I/O is synchronous, callers may block.
type DiskManager interface {

	// ReadPage fills buffer with the PAGE_SIZE bytes stored for the given
	// page ID. Reading a page that was never written yields a zero page.
	ReadPage(pageId PageID, buffer []byte) error

	// WritePage persists PAGE_SIZE bytes for the given page ID.
	WritePage(pageId PageID, data []byte) error

	// ShutDown flushes and closes the backing store.
	ShutDown() error
}
