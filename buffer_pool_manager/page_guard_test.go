package buffer_pool_manager

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type PageGuardTestSuite struct {
	suite.Suite
	disk       *InMemoryDiskManager
	bufferPool *SimpleBufferPoolManager
}

func (gs *PageGuardTestSuite) SetupTest() {

	gs.disk = NewInMemoryDiskManager()
	gs.bufferPool = NewSimpleBufferPoolManager(5, 2, gs.disk)
}

func (gs *PageGuardTestSuite) TearDownTest() {

	gs.Require().NoError(gs.disk.ShutDown())
}

func (gs *PageGuardTestSuite) TestGuardMove() {

	frame, err := gs.bufferPool.NewPage()

	gs.Require().NoError(err)
	gs.Require().Equal(PageID(0), frame.PageId())
	gs.Require().Equal(1, frame.PinCount())

	gs.Require().True(gs.bufferPool.UnpinPage(0, false))

	guard := gs.bufferPool.FetchPageBasic(0)

	gs.Require().True(guard.IsBound())
	gs.Require().Equal(1, frame.PinCount())

	var moved BasicPageGuard

	guard.MoveTo(&moved)

	// after the transfer the source is empty and the pin count is unchanged.
	gs.Assert().False(guard.IsBound())
	gs.Assert().Equal(1, frame.PinCount())
	gs.Assert().Equal(frame.Data()[0], moved.Data()[0])
	gs.Assert().Equal(PageID(0), moved.PageId())

	// dropping the emptied source does nothing.
	guard.Drop()
	gs.Assert().Equal(1, frame.PinCount())

	moved.Drop()
	gs.Assert().Equal(0, frame.PinCount())
}

func (gs *PageGuardTestSuite) TestMoveToSelfIsNoOp() {

	frame, err := gs.bufferPool.NewPage()

	gs.Require().NoError(err)
	gs.Require().True(gs.bufferPool.UnpinPage(frame.PageId(), false))

	guard := gs.bufferPool.FetchPageBasic(frame.PageId())

	guard.MoveTo(&guard)

	gs.Assert().True(guard.IsBound())
	gs.Assert().Equal(1, frame.PinCount())

	guard.Drop()
}

func (gs *PageGuardTestSuite) TestMoveOntoBoundGuardReleasesPreviousBinding() {

	frame0, err := gs.bufferPool.NewPage()
	gs.Require().NoError(err)

	frame1, err := gs.bufferPool.NewPage()
	gs.Require().NoError(err)

	gs.Require().True(gs.bufferPool.UnpinPage(frame0.PageId(), false))
	gs.Require().True(gs.bufferPool.UnpinPage(frame1.PageId(), false))

	guard0 := gs.bufferPool.FetchPageBasic(frame0.PageId())
	guard1 := gs.bufferPool.FetchPageBasic(frame1.PageId())

	guard0.MoveTo(&guard1)

	// the destination's previous binding was released before adoption.
	gs.Assert().Equal(0, frame1.PinCount())
	gs.Assert().Equal(1, frame0.PinCount())
	gs.Assert().Equal(frame0.PageId(), guard1.PageId())

	guard1.Drop()

	gs.Assert().Equal(0, frame0.PinCount())
}

func (gs *PageGuardTestSuite) TestTenReadGuards() {

	frame, err := gs.bufferPool.NewPage()

	gs.Require().NoError(err)
	gs.Require().True(gs.bufferPool.UnpinPage(0, false))

	guards := make([]ReadPageGuard, 10)

	for i := 0; i < 10; i++ {
		guards[i] = gs.bufferPool.FetchPageRead(0)
		gs.Require().True(guards[i].IsBound())
	}

	gs.Assert().Equal(10, frame.PinCount())

	guards[0].Drop()

	gs.Assert().Equal(9, frame.PinCount())

	for i := 1; i < 10; i++ {
		guards[i].Drop()
	}

	gs.Assert().Equal(0, frame.PinCount())
}

func (gs *PageGuardTestSuite) TestWriteThenReadRoundTrip() {

	guard := gs.bufferPool.NewPageGuarded()

	gs.Require().True(guard.IsBound())
	gs.Require().Equal(PageID(0), guard.PageId())

	copy(guard.DataMut(), []byte("World"))

	guard.Drop()

	// fill every frame with freshly pinned pages, page 0 gets evicted.
	for i := 0; i < 5; i++ {

		frame, err := gs.bufferPool.NewPage()

		gs.Require().NoError(err)
		gs.Require().NotNil(frame)
	}

	gs.Require().True(gs.bufferPool.UnpinPage(1, false))

	// fetching page 0 for writing must succeed by evicting page 1.
	writeGuard := gs.bufferPool.FetchPageWrite(0)

	gs.Require().True(writeGuard.IsBound())
	gs.Assert().Equal([]byte("World"), writeGuard.Data()[:5])

	clear(writeGuard.DataMut()[:16])
	copy(writeGuard.DataMut(), []byte("ChangedData"))

	var movedWriteGuard WritePageGuard

	writeGuard.MoveTo(&movedWriteGuard)
	movedWriteGuard.Drop()

	readGuard := gs.bufferPool.FetchPageRead(0)

	gs.Require().True(readGuard.IsBound())
	gs.Assert().Equal([]byte("ChangedData"), readGuard.Data()[:11])

	readGuard.Drop()
}

func (gs *PageGuardTestSuite) TestEmptyGuardDropIsHarmless() {

	var basic BasicPageGuard
	var read ReadPageGuard
	var write WritePageGuard

	basic.Drop()
	basic.Drop()
	read.Drop()
	write.Drop()

	gs.Assert().False(basic.IsBound())
	gs.Assert().Nil(basic.Data())
	gs.Assert().Equal(INVALID_PAGE_ID, basic.PageId())
}

func (gs *PageGuardTestSuite) TestFetchFailureYieldsEmptyGuard() {

	guard := gs.bufferPool.FetchPageBasic(INVALID_PAGE_ID)

	gs.Assert().False(guard.IsBound())

	guard.Drop()
}

func (gs *PageGuardTestSuite) TestBasicGuardDirtyHint() {

	guard := gs.bufferPool.NewPageGuarded()

	gs.Require().True(guard.IsBound())

	pageId := guard.PageId()

	// a guard that only read the page must not dirty it.
	_ = guard.Data()
	guard.Drop()

	frame, err := gs.bufferPool.FetchPage(pageId)

	gs.Require().NoError(err)
	gs.Assert().False(frame.IsDirty())

	gs.Require().True(gs.bufferPool.UnpinPage(pageId, false))

	// a guard that requested a mutable view dirties it on drop.
	guard = gs.bufferPool.FetchPageBasic(pageId)
	copy(guard.DataMut(), []byte("dirty"))
	guard.Drop()

	gs.Assert().True(frame.IsDirty())
}

func TestPageGuard(t *testing.T) {

	suite.Run(t, new(PageGuardTestSuite))
}
