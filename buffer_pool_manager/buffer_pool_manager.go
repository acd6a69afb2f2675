package buffer_pool_manager

import (
	"log/slog"
	"sync"
)

// BufferPoolManager mediates between the disk manager and a fixed set of
// in-memory frames. Pages are pinned while in use, flushed when dirty, and
// evicted according to the replacement policy once unpinned.
type BufferPoolManager interface {
	NewPage() (*Frame, error)
	FetchPage(pageId PageID, accessType ...AccessType) (*Frame, error)
	UnpinPage(pageId PageID, dirty bool, accessType ...AccessType) bool
	FlushPage(pageId PageID) bool
	FlushAllPages()
	DeletePage(pageId PageID) bool
	GetPoolSize() int

	NewPageGuarded() BasicPageGuard
	FetchPageBasic(pageId PageID) BasicPageGuard
	FetchPageRead(pageId PageID) ReadPageGuard
	FetchPageWrite(pageId PageID) WritePageGuard

	Close() error
}

type SimpleBufferPoolManager struct {

	// mutex serializes all mutations of the page table, free list, frame
	// metadata and replacer state.
	mutex *sync.Mutex

	frames    []*Frame
	pageTable map[PageID]FrameID

	// freeFrames holds the frames that hold no resident page.
	// Frames are popped from the front and returned to the back (FIFO).
	freeFrames []FrameID

	replacer Replacer
	disk     DiskManager
	log      LogManager

	// nextPageId is the next page ID to hand out. Page IDs are allocated
	// monotonically starting from 0 and are never recycled.
	nextPageId PageID
}

// NewSimpleBufferPoolManager allocates poolSize frames, places all of them on
// the free list, and creates an LRU-K replacer with the given k. The optional
// log manager is notified before every page write back.
func NewSimpleBufferPoolManager(poolSize int, k int, disk DiskManager, logManager ...LogManager) *SimpleBufferPoolManager {

	frames := make([]*Frame, poolSize)
	freeFrames := make([]FrameID, poolSize)

	for i := 0; i < poolSize; i++ {
		frames[i] = newFrame()
		freeFrames[i] = FrameID(i)
	}

	pool := &SimpleBufferPoolManager{
		mutex:      &sync.Mutex{},
		frames:     frames,
		pageTable:  make(map[PageID]FrameID, poolSize),
		freeFrames: freeFrames,
		replacer:   NewLRUKReplacer(poolSize, k),
		disk:       disk,
	}

	if len(logManager) > 0 {
		pool.log = logManager[0]
	}

	return pool
}

// NewPage allocates a fresh page ID, binds it to an available frame with a
// zeroed buffer, and returns the frame pinned once.
func (pool *SimpleBufferPoolManager) NewPage() (*Frame, error) {

	pool.mutex.Lock()
	defer pool.mutex.Unlock()

	frameId, ok := pool.getAvailableFrameId()

	if !ok {
		return nil, ErrBufferPoolFull
	}

	frame := pool.frames[frameId]

	if frame.dirty {
		if err := pool.flushFrame(frame); err != nil {
			slog.Error("failed to write back dirty victim", "pageId", frame.pageId, "error", err.Error())
			delete(pool.pageTable, frame.pageId)
			frame.reset()
			pool.freeFrames = append(pool.freeFrames, frameId)
			return nil, err
		}
	}

	delete(pool.pageTable, frame.pageId)

	pageId := pool.allocatePage()

	frame.reset()
	frame.pageId = pageId

	pool.pinFrame(frame, frameId, AccessTypeUnknown)

	return frame, nil
}

// FetchPage returns the frame holding the requested page, reading it from
// disk into an available frame on a miss. The returned frame is pinned, the
// caller must unpin it once done.
func (pool *SimpleBufferPoolManager) FetchPage(pageId PageID, accessType ...AccessType) (*Frame, error) {

	pool.mutex.Lock()
	defer pool.mutex.Unlock()

	if pageId == INVALID_PAGE_ID || pageId < 0 {
		return nil, ErrInvalidPageId
	}

	hint := AccessTypeUnknown

	if len(accessType) > 0 {
		hint = accessType[0]
	}

	// A cache hit must not dirty the frame, only mutable access reported
	// through UnpinPage does.
	if frameId, exists := pool.pageTable[pageId]; exists {
		frame := pool.frames[frameId]
		pool.pinFrame(frame, frameId, hint)
		return frame, nil
	}

	frameId, ok := pool.getAvailableFrameId()

	if !ok {
		return nil, ErrBufferPoolFull
	}

	frame := pool.frames[frameId]

	if frame.dirty {
		if err := pool.flushFrame(frame); err != nil {
			slog.Error("failed to write back dirty victim", "pageId", frame.pageId, "error", err.Error())
			delete(pool.pageTable, frame.pageId)
			frame.reset()
			pool.freeFrames = append(pool.freeFrames, frameId)
			return nil, err
		}
	}

	delete(pool.pageTable, frame.pageId)

	if err := pool.disk.ReadPage(pageId, frame.data); err != nil {
		slog.Error("failed to read page from disk", "pageId", pageId, "error", err.Error())
		frame.reset()
		pool.freeFrames = append(pool.freeFrames, frameId)
		return nil, err
	}

	frame.pageId = pageId
	frame.pinCount = 0
	frame.dirty = false

	pool.pinFrame(frame, frameId, hint)

	return frame, nil
}

// UnpinPage decrements the pin count of a resident page, marking the frame
// evictable when the count reaches zero. The dirty flag is sticky: once a
// frame is dirty, unpinning with dirty=false does not clear it.
// Returns false if the page is not resident or its pin count is already zero.
func (pool *SimpleBufferPoolManager) UnpinPage(pageId PageID, dirty bool, accessType ...AccessType) bool {

	pool.mutex.Lock()
	defer pool.mutex.Unlock()

	frameId, exists := pool.pageTable[pageId]

	if !exists {
		return false
	}

	frame := pool.frames[frameId]

	if frame.pinCount <= 0 {
		return false
	}

	frame.dirty = frame.dirty || dirty
	frame.pinCount--

	if frame.pinCount == 0 {
		pool.replacer.SetEvictable(frameId, true)
	}

	return true
}

// FlushPage writes the page's buffer to disk and clears its dirty flag,
// regardless of pin count. Returns false if the page ID was never allocated
// or the page is not resident.
func (pool *SimpleBufferPoolManager) FlushPage(pageId PageID) bool {

	pool.mutex.Lock()
	defer pool.mutex.Unlock()

	if pageId == INVALID_PAGE_ID || pageId >= pool.nextPageId {
		return false
	}

	frameId, exists := pool.pageTable[pageId]

	if !exists {
		return false
	}

	if err := pool.flushFrame(pool.frames[frameId]); err != nil {
		slog.Error("failed to flush page", "pageId", pageId, "error", err.Error())
		return false
	}

	return true
}

// FlushAllPages writes every resident dirty page to disk.
func (pool *SimpleBufferPoolManager) FlushAllPages() {

	pool.mutex.Lock()
	defer pool.mutex.Unlock()

	for _, frame := range pool.frames {

		if frame.pageId == INVALID_PAGE_ID || !frame.dirty {
			continue
		}

		if err := pool.flushFrame(frame); err != nil {
			slog.Error("failed to flush page", "pageId", frame.pageId, "error", err.Error())
		}
	}
}

// DeletePage removes an unpinned page from the pool, returning its frame to
// the free list. The page ID is retired, not recycled. Deleting a page that
// is not resident succeeds trivially, deleting a pinned page fails.
func (pool *SimpleBufferPoolManager) DeletePage(pageId PageID) bool {

	pool.mutex.Lock()
	defer pool.mutex.Unlock()

	frameId, exists := pool.pageTable[pageId]

	if !exists {
		return true
	}

	frame := pool.frames[frameId]

	if frame.pinCount > 0 {
		return false
	}

	delete(pool.pageTable, pageId)

	// Discard the frame's access history so it cannot skew future evictions.
	pool.replacer.Remove(frameId)

	frame.reset()
	pool.freeFrames = append(pool.freeFrames, frameId)

	return true
}

// GetPoolSize returns the number of frames in the pool.
func (pool *SimpleBufferPoolManager) GetPoolSize() int {
	return len(pool.frames)
}

// Close flushes all dirty pages and shuts the disk manager down.
func (pool *SimpleBufferPoolManager) Close() error {

	pool.FlushAllPages()

	return pool.disk.ShutDown()
}

// getAvailableFrameId pops the front of the free list, falling back to the
// replacer when no free frame exists. Fails when the pool is full and no
// frame is evictable.
func (pool *SimpleBufferPoolManager) getAvailableFrameId() (FrameID, bool) {

	if len(pool.freeFrames) > 0 {

		frameId := pool.freeFrames[0]
		pool.freeFrames = pool.freeFrames[1:]

		return frameId, true
	}

	return pool.replacer.Evict()
}

// pinFrame makes the page resident in the page table, increments its pin
// count, and records the access with the replacer.
func (pool *SimpleBufferPoolManager) pinFrame(frame *Frame, frameId FrameID, accessType AccessType) {

	pool.pageTable[frame.pageId] = frameId
	frame.pinCount++

	pool.replacer.RecordAccess(frameId, accessType)
	pool.replacer.SetEvictable(frameId, false)
}

// flushFrame writes the frame's page to disk and clears the dirty flag.
// The log manager, if any, is notified before the physical write.
func (pool *SimpleBufferPoolManager) flushFrame(frame *Frame) error {

	if pool.log != nil {
		pool.log.BeforeFlush(frame.pageId)
	}

	if err := pool.disk.WritePage(frame.pageId, frame.data); err != nil {
		return err
	}

	frame.dirty = false

	return nil
}

// allocatePage hands out the next page ID.
func (pool *SimpleBufferPoolManager) allocatePage() PageID {

	pageId := pool.nextPageId
	pool.nextPageId++

	return pageId
}
