package buffer_pool_manager

import (
	"math"
	"sync"
)

// AccessType is a hint describing why a frame was accessed. The LRU-K policy
// ignores it, but it is plumbed through so scan resistant policies can be
// plugged in without an API change.
type AccessType int

const (
	AccessTypeUnknown AccessType = iota
	AccessTypeLookup
	AccessTypeScan
	AccessTypeIndex
)

// Replacer keeps track of frames that are candidates for eviction.
type Replacer interface {

	// RecordAccess registers an access to a frame at the current timestamp.
	RecordAccess(frameId FrameID, accessType AccessType)

	// SetEvictable marks a frame as evictable or pinned down.
	SetEvictable(frameId FrameID, evictable bool)

	// Remove stops tracking a frame entirely, discarding its access history.
	Remove(frameId FrameID)

	// Evict selects a victim frame according to the replacement policy and
	// stops tracking it. Returns false if no frame is evictable.
	Evict() (FrameID, bool)

	// Size returns the number of evictable frames.
	Size() int
}

// infiniteDistance is the backward k-distance of a frame with fewer than k
// recorded accesses.
const infiniteDistance = uint64(math.MaxUint64)

type lruKNode struct {
	frameId FrameID

	// history holds the timestamps of the last k accesses, oldest first.
	history []uint64

	evictable bool
}

// kDistance returns the age of the k-th most recent access, or
// infiniteDistance if the frame has been accessed fewer than k times.
func (node *lruKNode) kDistance(now uint64, k int) uint64 {

	if len(node.history) < k {
		return infiniteDistance
	}
	return now - node.history[len(node.history)-k]
}

// LRUKReplacer evicts the frame whose k-th most recent access lies furthest
// in the past. Frames with fewer than k accesses have infinite backward
// distance; ties between them are broken by evicting the frame with the
// oldest first access, which degenerates to plain LRU for k = 1.
type LRUKReplacer struct {

	// synchronizes access to the node store and the internal clock.
	mutex *sync.Mutex

	k         int
	numFrames int

	nodeStore map[FrameID]*lruKNode

	// currentTimestamp is a monotonically increasing logical clock,
	// incremented on every recorded access.
	currentTimestamp uint64

	evictableCount int
}

func NewLRUKReplacer(numFrames int, k int) *LRUKReplacer {

	return &LRUKReplacer{
		mutex:     &sync.Mutex{},
		k:         k,
		numFrames: numFrames,
		nodeStore: make(map[FrameID]*lruKNode, numFrames),
	}
}

// RecordAccess appends the current timestamp to the frame's history, creating
// the node on first access. Evictability is not changed.
func (replacer *LRUKReplacer) RecordAccess(frameId FrameID, accessType AccessType) {

	replacer.mutex.Lock()
	defer replacer.mutex.Unlock()

	timestamp := replacer.currentTimestamp
	replacer.currentTimestamp++

	node, exists := replacer.nodeStore[frameId]

	if !exists {
		node = &lruKNode{frameId: frameId}
		replacer.nodeStore[frameId] = node
	}

	node.history = append(node.history, timestamp)

	if len(node.history) > replacer.k {
		node.history = node.history[1:]
	}
}

// SetEvictable flips the evictable flag of a frame, adjusting the evictable
// count only on a state change. Untracked frames are ignored.
func (replacer *LRUKReplacer) SetEvictable(frameId FrameID, evictable bool) {

	replacer.mutex.Lock()
	defer replacer.mutex.Unlock()

	node, exists := replacer.nodeStore[frameId]

	if !exists {
		return
	}

	if node.evictable != evictable {

		node.evictable = evictable

		if evictable {
			replacer.evictableCount++
		} else {
			replacer.evictableCount--
		}
	}
}

// Remove stops tracking a frame, discarding its access history so it cannot
// skew future evictions. Removing an untracked frame is a no-op.
func (replacer *LRUKReplacer) Remove(frameId FrameID) {

	replacer.mutex.Lock()
	defer replacer.mutex.Unlock()

	node, exists := replacer.nodeStore[frameId]

	if !exists {
		return
	}

	if node.evictable {
		replacer.evictableCount--
	}

	delete(replacer.nodeStore, frameId)
}

// Evict selects the evictable frame with the largest backward k-distance.
// Ties at infinite distance are broken by the oldest first access. The chosen
// frame is removed from the replacer.
func (replacer *LRUKReplacer) Evict() (FrameID, bool) {

	replacer.mutex.Lock()
	defer replacer.mutex.Unlock()

	if replacer.evictableCount == 0 {
		return 0, false
	}

	now := replacer.currentTimestamp

	var victim *lruKNode
	var victimDistance uint64

	for _, node := range replacer.nodeStore {

		if !node.evictable {
			continue
		}

		distance := node.kDistance(now, replacer.k)

		if victim == nil {
			victim = node
			victimDistance = distance
			continue
		}

		if distance > victimDistance ||
			(distance == victimDistance && distance == infiniteDistance && node.history[0] < victim.history[0]) {
			victim = node
			victimDistance = distance
		}
	}

	delete(replacer.nodeStore, victim.frameId)
	replacer.evictableCount--

	return victim.frameId, true
}

// Size returns the number of evictable frames tracked by the replacer.
func (replacer *LRUKReplacer) Size() int {

	replacer.mutex.Lock()
	defer replacer.mutex.Unlock()

	return replacer.evictableCount
}
