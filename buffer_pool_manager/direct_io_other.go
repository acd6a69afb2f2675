//go:build !linux

package buffer_pool_manager

import (
	"os"

	"github.com/ncw/directio"
)

// openFileDirectIO opens the file with caching disabled using the platform
// specific mechanism (F_NOCACHE on darwin, FILE_FLAG_NO_BUFFERING on
// windows).
func openFileDirectIO(filePath string, flags int, permissions os.FileMode) (*os.File, error) {
	return directio.OpenFile(filePath, flags, permissions)
}
