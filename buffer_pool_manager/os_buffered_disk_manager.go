package buffer_pool_manager

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// OSBufferedDiskManager stores pages in a single file going through the
// kernel page cache.
type OSBufferedDiskManager struct {
	file *os.File

	mutex *sync.Mutex
}

func NewOSBufferedDiskManager(filePath string) (*OSBufferedDiskManager, error) {

	f, err := os.OpenFile(filePath, os.O_RDWR|os.O_CREATE, 0644)

	if err != nil {
		return nil, err
	}

	return &OSBufferedDiskManager{
		file:  f,
		mutex: &sync.Mutex{},
	}, nil
}

// ReadPage fills buffer with the page stored at the page's file offset.
// Reads past the end of the file yield a zero page, the page has been
// allocated but never written.
func (disk *OSBufferedDiskManager) ReadPage(pageId PageID, buffer []byte) error {

	// ReadAt calls the pread system call, which reads at the offset without
	// moving the file cursor, so concurrent page reads do not interfere.
	n, err := disk.file.ReadAt(buffer, int64(pageId)*PAGE_SIZE)

	if errors.Is(err, io.EOF) {
		clear(buffer[n:])
		return nil
	}

	if err != nil {
		return err
	}

	if n != len(buffer) {
		return fmt.Errorf("incomplete read")
	}

	return nil
}

// WritePage persists the page at the page's file offset, growing the file if
// needed.
func (disk *OSBufferedDiskManager) WritePage(pageId PageID, data []byte) error {

	// WriteAt calls the pwrite system call, which writes at the offset
	// without moving the file cursor.
	n, err := disk.file.WriteAt(data, int64(pageId)*PAGE_SIZE)

	if err != nil {
		return err
	}

	if n != len(data) {
		return fmt.Errorf("incomplete write")
	}

	return nil
}

// ShutDown flushes the file to stable storage and closes it.
func (disk *OSBufferedDiskManager) ShutDown() error {

	disk.mutex.Lock()
	defer disk.mutex.Unlock()

	slog.Info("shutting down disk manager", "file", disk.file.Name(), "at", "OSBufferedDiskManager")

	if err := disk.file.Sync(); err != nil {
		slog.Error("failed to sync file", "error", err.Error(), "at", "OSBufferedDiskManager")
		return err
	}

	return disk.file.Close()
}
