package buffer_pool_manager

import "errors"

var (
	// ErrInvalidPageId is returned when a page is requested with INVALID_PAGE_ID
	// or a negative page ID.
	ErrInvalidPageId = errors.New("invalid page id")

	// ErrBufferPoolFull is returned when every frame is pinned and no frame can
	// be evicted. Callers should unpin pages and retry.
	ErrBufferPoolFull = errors.New("no free or evictable frame available")
)
