package buffer_pool_manager

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/ncw/directio"
)

// DirectIODiskManager uses Direct I/O to move pages directly between process
// memory and the disk controller, bypassing the kernel page cache.

// This is useful because:
// 1. It prevents page data from being cached twice, once in the kernel page
//    cache and once in the buffer pool.
// 2. It gives the buffer pool complete control over when data reaches disk.

type DirectIODiskManager struct {
	file *os.File

	mutex *sync.Mutex
}

func NewDirectIODiskManager(filePath string) (*DirectIODiskManager, error) {

	if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
		slog.Info("database file does not exist, creating new file...", "filePath", filePath, "at", "DirectIODiskManager")
	}

	slog.Info("opening file in DIRECT I/O mode", "filePath", filePath, "at", "DirectIODiskManager")

	file, err := openFileDirectIO(filePath, os.O_RDWR|os.O_CREATE, 0644)

	if err != nil {
		slog.Error("failed to open file in DIRECT I/O mode", "error", err.Error(), "at", "DirectIODiskManager")
		return nil, err
	}

	return &DirectIODiskManager{
		file:  file,
		mutex: &sync.Mutex{},
	}, nil
}

// ReadPage reads the page at the page's file offset through an aligned block,
// O_DIRECT requires buffers aligned to the filesystem block size. Reads past
// the end of the file yield a zero page.
func (disk *DirectIODiskManager) ReadPage(pageId PageID, buffer []byte) error {

	block := directio.AlignedBlock(PAGE_SIZE)

	n, err := disk.file.ReadAt(block, int64(pageId)*PAGE_SIZE)

	if errors.Is(err, io.EOF) {
		clear(block[n:])
		copy(buffer, block)
		return nil
	}

	if err != nil {
		slog.Error("failed to read page", "pageId", pageId, "error", err.Error(), "at", "DirectIODiskManager")
		return err
	}

	if n != PAGE_SIZE {
		return fmt.Errorf("incomplete read")
	}

	copy(buffer, block)

	return nil
}

// WritePage persists the page at the page's file offset through an aligned
// block.
func (disk *DirectIODiskManager) WritePage(pageId PageID, data []byte) error {

	block := directio.AlignedBlock(PAGE_SIZE)
	copy(block, data)

	n, err := disk.file.WriteAt(block, int64(pageId)*PAGE_SIZE)

	if err != nil {
		slog.Error("failed to write page", "pageId", pageId, "error", err.Error(), "at", "DirectIODiskManager")
		return err
	}

	if n != PAGE_SIZE {
		return fmt.Errorf("incomplete write")
	}

	return nil
}

// ShutDown closes the file. Direct I/O writes are already on disk, no sync
// is needed.
func (disk *DirectIODiskManager) ShutDown() error {

	disk.mutex.Lock()
	defer disk.mutex.Unlock()

	slog.Info("shutting down disk manager", "file", disk.file.Name(), "at", "DirectIODiskManager")

	return disk.file.Close()
}
