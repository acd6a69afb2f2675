package buffer_pool_manager

import "log/slog"

// BasicPageGuard is a scoped ownership token over a pinned page. A guard is
// either bound to a frame or empty, the zero value is an empty guard.
//
// Guards are move-only: copying a bound guard by value would double-unpin the
// page on drop, transfer ownership with MoveTo instead. Dropping an empty
// guard is a no-op, so a guard is always safe to Drop on every exit path.
type BasicPageGuard struct {
	bufferPool *SimpleBufferPoolManager
	frame      *Frame

	// wroteData is set once a mutable view of the page has been handed out,
	// it is passed as the dirty hint when the guard unpins the page.
	wroteData bool
}

// NewPageGuarded creates a page and wraps the pinned frame in a basic guard.
// Returns an empty guard if no frame is available.
func (pool *SimpleBufferPoolManager) NewPageGuarded() BasicPageGuard {

	frame, err := pool.NewPage()

	if err != nil {
		slog.Error("failed to create page for guard", "error", err.Error())
		return BasicPageGuard{}
	}

	return BasicPageGuard{bufferPool: pool, frame: frame}
}

// FetchPageBasic fetches a page and wraps the pinned frame in a basic guard.
// Returns an empty guard if the page cannot be fetched.
func (pool *SimpleBufferPoolManager) FetchPageBasic(pageId PageID) BasicPageGuard {

	frame, err := pool.FetchPage(pageId)

	if err != nil {
		slog.Error("failed to fetch page for guard", "pageId", pageId, "error", err.Error())
		return BasicPageGuard{}
	}

	return BasicPageGuard{bufferPool: pool, frame: frame}
}

// Data returns a read view of the guarded page, or nil for an empty guard.
func (guard *BasicPageGuard) Data() []byte {

	if guard.frame == nil {
		return nil
	}

	return guard.frame.Data()
}

// DataMut returns a mutable view of the guarded page, or nil for an empty
// guard. The page will be reported dirty when the guard is dropped.
func (guard *BasicPageGuard) DataMut() []byte {

	if guard.frame == nil {
		return nil
	}

	guard.wroteData = true

	return guard.frame.DataMut()
}

// PageId returns the guarded page's ID, or INVALID_PAGE_ID for an empty guard.
func (guard *BasicPageGuard) PageId() PageID {

	if guard.frame == nil {
		return INVALID_PAGE_ID
	}

	return guard.frame.PageId()
}

// IsBound returns true while the guard references a live frame.
func (guard *BasicPageGuard) IsBound() bool {
	return guard.frame != nil
}

// MoveTo transfers ownership of the binding to dst. If dst is already bound
// its previous binding is released first. After the transfer the receiver is
// empty and does nothing on Drop. Moving a guard onto itself is a no-op.
func (guard *BasicPageGuard) MoveTo(dst *BasicPageGuard) {

	if guard == dst {
		return
	}

	dst.Drop()

	*dst = *guard

	guard.bufferPool = nil
	guard.frame = nil
	guard.wroteData = false
}

// Drop unpins the guarded page, passing the cumulative mutable access bit as
// the dirty hint, and empties the guard. Dropping an empty guard is a no-op.
func (guard *BasicPageGuard) Drop() {

	if guard.frame == nil {
		return
	}

	guard.bufferPool.UnpinPage(guard.frame.pageId, guard.wroteData)

	guard.bufferPool = nil
	guard.frame = nil
	guard.wroteData = false
}

// ReadPageGuard additionally holds the page's shared latch for the lifetime
// of the guard. It exposes no mutable view of the page.
type ReadPageGuard struct {
	guard BasicPageGuard
}

// FetchPageRead fetches a page and acquires its shared latch before
// returning, while the page is already pinned. The latch is taken outside
// the pool mutex so that latch waits cannot block unrelated pool traffic.
// Returns an empty guard if the page cannot be fetched.
func (pool *SimpleBufferPoolManager) FetchPageRead(pageId PageID) ReadPageGuard {

	frame, err := pool.FetchPage(pageId)

	if err != nil {
		slog.Error("failed to fetch page for read guard", "pageId", pageId, "error", err.Error())
		return ReadPageGuard{}
	}

	frame.RLatch()

	return ReadPageGuard{guard: BasicPageGuard{bufferPool: pool, frame: frame}}
}

// Data returns a read view of the guarded page, or nil for an empty guard.
func (guard *ReadPageGuard) Data() []byte {
	return guard.guard.Data()
}

// PageId returns the guarded page's ID, or INVALID_PAGE_ID for an empty guard.
func (guard *ReadPageGuard) PageId() PageID {
	return guard.guard.PageId()
}

// IsBound returns true while the guard references a live frame.
func (guard *ReadPageGuard) IsBound() bool {
	return guard.guard.IsBound()
}

// MoveTo transfers ownership of the binding (including the held latch) to
// dst, releasing dst's previous binding first. Self-move is a no-op.
func (guard *ReadPageGuard) MoveTo(dst *ReadPageGuard) {

	if guard == dst {
		return
	}

	dst.Drop()

	dst.guard = guard.guard
	guard.guard = BasicPageGuard{}
}

// Drop releases the shared latch, then unpins the page. A read guard never
// dirties the page. Dropping an empty guard is a no-op.
func (guard *ReadPageGuard) Drop() {

	if guard.guard.frame == nil {
		return
	}

	frame := guard.guard.frame

	frame.RUnlatch()
	guard.guard.bufferPool.UnpinPage(frame.pageId, false)

	guard.guard = BasicPageGuard{}
}

// WritePageGuard additionally holds the page's exclusive latch for the
// lifetime of the guard.
type WritePageGuard struct {
	guard BasicPageGuard
}

// FetchPageWrite fetches a page and acquires its exclusive latch before
// returning, while the page is already pinned. The latch is taken outside
// the pool mutex so that latch waits cannot block unrelated pool traffic.
// Returns an empty guard if the page cannot be fetched.
func (pool *SimpleBufferPoolManager) FetchPageWrite(pageId PageID) WritePageGuard {

	frame, err := pool.FetchPage(pageId)

	if err != nil {
		slog.Error("failed to fetch page for write guard", "pageId", pageId, "error", err.Error())
		return WritePageGuard{}
	}

	frame.WLatch()

	return WritePageGuard{guard: BasicPageGuard{bufferPool: pool, frame: frame}}
}

// Data returns a read view of the guarded page, or nil for an empty guard.
func (guard *WritePageGuard) Data() []byte {
	return guard.guard.Data()
}

// DataMut returns a mutable view of the guarded page, or nil for an empty
// guard.
func (guard *WritePageGuard) DataMut() []byte {
	return guard.guard.DataMut()
}

// PageId returns the guarded page's ID, or INVALID_PAGE_ID for an empty guard.
func (guard *WritePageGuard) PageId() PageID {
	return guard.guard.PageId()
}

// IsBound returns true while the guard references a live frame.
func (guard *WritePageGuard) IsBound() bool {
	return guard.guard.IsBound()
}

// MoveTo transfers ownership of the binding (including the held latch) to
// dst, releasing dst's previous binding first. Self-move is a no-op.
func (guard *WritePageGuard) MoveTo(dst *WritePageGuard) {

	if guard == dst {
		return
	}

	dst.Drop()

	dst.guard = guard.guard
	guard.guard = BasicPageGuard{}
}

// Drop releases the exclusive latch, then unpins the page. A write guard
// always reports the page dirty. Dropping an empty guard is a no-op.
func (guard *WritePageGuard) Drop() {

	if guard.guard.frame == nil {
		return
	}

	frame := guard.guard.frame

	frame.WUnlatch()
	guard.guard.bufferPool.UnpinPage(frame.pageId, true)

	guard.guard = BasicPageGuard{}
}
