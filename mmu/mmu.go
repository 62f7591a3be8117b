package mmu

import (
	"fmt"
	"log"

	"svm/faults"
	"svm/memory"
	"svm/vaddr"
)

/**
Two level address translation. The segment table lives in the two
reserved frames, every resident segment owns one page table frame, and
both table levels are brought in from the paging disk on demand.
*/

// Unit is the translation unit. It owns no state of its own: physical
// memory, the disk and the frame pool are shared with the rest of the
// machine and mutated in place, single threaded.
type Unit struct {
	PM   *memory.Physical
	Disk *memory.Disk
	Pool *memory.Pool

	// Debug turns on per step translation tracing.
	Debug bool

	// translation statistics, read by the status view
	Translations    int
	SegmentFaults   int
	BoundsFaults    int
	PageTableFaults int
	PageFaults      int
	Evictions       int

	// Trace keeps the most recent fault service events for the frame view.
	Trace *TraceBuffer

	log *log.Logger
}

// traceDepth is how many fault service events the unit remembers.
const traceDepth = 6

// NewUnit wires a translation unit to the shared machine state.
func NewUnit(pm *memory.Physical, disk *memory.Disk, pool *memory.Pool, logger *log.Logger) *Unit {
	return &Unit{PM: pm, Disk: disk, Pool: pool, Trace: NewTraceBuffer(traceDepth), log: logger}
}

// Translate resolves a 27 bit virtual address to a physical word
// address. A page table or page still on disk is brought in on the
// way; a full pool is relieved by evicting the least frequently used
// frame. A fault leaves no trace beyond the access counts already
// recorded.
func (u *Unit) Translate(va vaddr.VA) (int32, error) {
	u.Translations++
	if u.Debug {
		u.log.Printf("mmu: translate %s", va)
	}

	s := va.Segment()
	if s >= memory.NumSegments || u.PM.Words[2*s] == 0 {
		u.SegmentFaults++
		return 0, faults.New(faults.Segment, "segment %d absent", s)
	}
	size := u.PM.Words[2*s]
	if va.PageWord() >= int(size) {
		u.BoundsFaults++
		return 0, faults.New(faults.Bounds, "%s beyond segment size %d", va, size)
	}

	ptFrame, err := u.pageTableFrame(s)
	if err != nil {
		return 0, err
	}
	u.Pool.RecordAccess(ptFrame)

	frame, err := u.pageFrame(s, ptFrame, va.Page())
	if err != nil {
		return 0, err
	}
	u.Pool.RecordAccess(frame)

	pa := int32(frame*memory.WordsPerFrame + va.Offset())
	if u.Debug {
		u.log.Printf("mmu: %s -> %d", va, pa)
	}
	return pa, nil
}

// pageTableFrame returns the frame holding the page table of segment
// s. A table on disk is faulted in as a whole block, so lookups
// inside it stay meaningful afterwards.
func (u *Unit) pageTableFrame(s int) (int, error) {
	slot := 2*s + 1
	entry := DecodeEntry(u.PM.Words[slot])
	switch entry.Kind {
	case Resident:
		return entry.Frame, nil
	case OnDisk:
		u.PageTableFaults++
		frame, err := u.obtainFrame()
		if err != nil {
			return 0, fmt.Errorf("page table fault, segment %d: %w", s, err)
		}
		copy(u.PM.Words[frame*memory.WordsPerFrame:(frame+1)*memory.WordsPerFrame],
			u.Disk.Blocks[entry.Block][:])
		u.PM.Words[slot] = Entry{Kind: Resident, Frame: frame}.Encode()
		u.Trace.Append(fmt.Sprintf("pt fault: segment %d, block %d -> frame %d", s, entry.Block, frame))
		if u.Debug {
			u.log.Printf("mmu: page table of segment %d read from block %d into frame %d",
				s, entry.Block, frame)
		}
		return frame, nil
	default:
		u.SegmentFaults++
		return 0, faults.New(faults.Segment, "segment %d has no page table", s)
	}
}

// pageFrame returns the frame backing page p of segment s. A page on
// disk only has its mapping rewritten, the contents are not copied.
func (u *Unit) pageFrame(s, ptFrame, p int) (int, error) {
	entry := DecodeEntry(u.PM.FrameWord(ptFrame, p))
	switch entry.Kind {
	case Resident:
		return entry.Frame, nil
	case OnDisk:
		u.PageFaults++
		frame, err := u.obtainFrame()
		if err != nil {
			return 0, fmt.Errorf("page fault, segment %d page %d: %w", s, p, err)
		}
		u.PM.SetFrameWord(ptFrame, p, Entry{Kind: Resident, Frame: frame}.Encode())
		u.Trace.Append(fmt.Sprintf("page fault: segment %d page %d -> frame %d", s, p, frame))
		if u.Debug {
			u.log.Printf("mmu: page %d of segment %d mapped to frame %d", p, s, frame)
		}
		return frame, nil
	default:
		u.SegmentFaults++
		return 0, faults.New(faults.Segment, "segment %d page %d not mapped", s, p)
	}
}

// obtainFrame finds a frame for fault service: the next free one
// while the pool has capacity, otherwise the LFU victim is evicted
// and its index reused. Fails only when the pool is full and nothing
// is eligible for eviction.
func (u *Unit) obtainFrame() (int, error) {
	if !u.Pool.Full() {
		return u.Pool.NextFreeFrame(), nil
	}
	victim, ok := u.Pool.EvictCandidate()
	if !ok {
		return 0, faults.New(faults.PoolExhausted, "frame pool exhausted, no eviction candidate")
	}
	u.Pool.Evict(victim)
	u.Pool.Reserve(victim)
	u.Evictions++
	u.Trace.Append(fmt.Sprintf("evicted frame %d", victim))
	if u.Debug {
		u.log.Printf("mmu: evicted frame %d for reuse", victim)
	}
	return victim, nil
}
