package alloc

import (
	"log"

	"svm/faults"
	"svm/memory"
)

/**
Contiguous block allocator on the frame pool. A second, independent
consumer of the same frames the paging path fills: no paging
indirection, just raw runs of consecutive frames, with LFU eviction
making room when the pool runs tight.
*/

// Block records one outstanding allocation: its frames, in order.
// Contiguous when created; eviction may punch holes later, and the
// run is never re-coalesced.
type Block struct {
	Frames []int
}

// Allocator hands out contiguous frame runs. It shares the pool and
// the access counters with the translation unit and keeps its own
// allocation table, keyed by the starting physical address of each
// run.
type Allocator struct {
	Pool *memory.Pool

	// Debug turns on allocation tracing.
	Debug bool

	// allocator statistics, read by the status view
	Mallocs   int
	Frees     int
	Reallocs  int
	Evictions int

	blocks map[int32]*Block
	log    *log.Logger
}

// New wires an allocator to the shared frame pool.
func New(pool *memory.Pool, logger *log.Logger) *Allocator {
	return &Allocator{Pool: pool, blocks: make(map[int32]*Block), log: logger}
}

// Malloc reserves a run of consecutive free frames covering size
// words and returns the physical address of the run's first word.
// The scan starts at the pool cursor and wraps once past the end of
// memory, so frames freed below the cursor stay reachable. When no
// run is long enough, the least frequently used frame is evicted and
// the scan retried, at most once per frame of physical memory.
func (a *Allocator) Malloc(size int32) (int32, error) {
	if size <= 0 {
		return 0, faults.New(faults.AllocationFailed, "malloc of %d words", size)
	}
	need := framesFor(size)
	for try := 0; try < memory.TotalFrames; try++ {
		start, ok := a.findRun(need)
		if !ok {
			victim, ok := a.Pool.EvictCandidate()
			if !ok {
				return 0, faults.New(faults.PoolExhausted, "frame pool exhausted, no eviction candidate")
			}
			a.Pool.Evict(victim)
			a.dropFrame(victim)
			a.Evictions++
			if a.Debug {
				a.log.Printf("alloc: evicted frame %d looking for a run of %d", victim, need)
			}
			continue
		}
		frames := make([]int, need)
		for i := range frames {
			frames[i] = start + i
			a.Pool.Reserve(start + i)
		}
		a.Pool.SetHint(start + need)
		addr := int32(start * memory.WordsPerFrame)
		a.blocks[addr] = &Block{Frames: frames}
		a.Mallocs++
		if a.Debug {
			a.log.Printf("alloc: %d words -> frames [%d..%d], address %d",
				size, start, start+need-1, addr)
		}
		return addr, nil
	}
	return 0, faults.New(faults.AllocationFailed, "no run of %d frames within the retry budget", need)
}

// Free releases every frame of the allocation starting at addr and
// forgets the record.
func (a *Allocator) Free(addr int32) error {
	b, ok := a.blocks[addr]
	if !ok {
		return faults.New(faults.InvalidFree, "free of unknown address %d", addr)
	}
	a.releaseBlock(addr, b)
	a.Frees++
	return nil
}

// Realloc resizes the allocation starting at addr. Equal frame counts
// are a no-op, shrinking trims the trailing frames in place, growing
// takes a fresh run and releases the old one. No words are copied
// between runs. A failed grow leaves the old allocation untouched.
func (a *Allocator) Realloc(addr, newSize int32) (int32, error) {
	b, ok := a.blocks[addr]
	if !ok {
		return 0, faults.New(faults.InvalidFree, "realloc of unknown address %d", addr)
	}
	if newSize <= 0 {
		return 0, faults.New(faults.AllocationFailed, "realloc to %d words", newSize)
	}
	need := framesFor(newSize)
	switch {
	case need == len(b.Frames):
		a.Reallocs++
		return addr, nil
	case need < len(b.Frames):
		for _, f := range b.Frames[need:] {
			a.Pool.Release(f)
		}
		b.Frames = b.Frames[:need]
		a.Reallocs++
		return addr, nil
	default:
		newAddr, err := a.Malloc(newSize)
		if err != nil {
			return 0, err
		}
		a.releaseBlock(addr, b)
		a.Reallocs++
		return newAddr, nil
	}
}

// Outstanding returns the number of live allocation records.
func (a *Allocator) Outstanding() int {
	return len(a.blocks)
}

// BlockFrames returns the frames behind the allocation starting at
// addr, or false when no such allocation exists.
func (a *Allocator) BlockFrames(addr int32) ([]int, bool) {
	b, ok := a.blocks[addr]
	if !ok {
		return nil, false
	}
	return b.Frames, true
}

// findRun looks for need consecutive free frames, first between the
// pool cursor and the end of memory, then from the first non-reserved
// frame up to the cursor. A run never spans the end of memory and
// never starts at a frame whose address still keys a live record:
// eviction can free the first frame of a block without retiring its
// address.
func (a *Allocator) findRun(need int) (int, bool) {
	start := a.Pool.Hint()
	if start < memory.ReservedFrames {
		start = memory.ReservedFrames
	}
	if start > memory.TotalFrames {
		start = memory.TotalFrames
	}
	if s, ok := a.scan(start, memory.TotalFrames, need); ok {
		return s, true
	}
	return a.scan(memory.ReservedFrames, start, need)
}

func (a *Allocator) scan(from, to, need int) (int, bool) {
	run := 0
	for f := from; f < to; f++ {
		if a.Pool.Used(f) {
			run = 0
			continue
		}
		run++
		if run < need {
			continue
		}
		start := f - need + 1
		if _, live := a.blocks[int32(start*memory.WordsPerFrame)]; live {
			run--
			continue
		}
		return start, true
	}
	return 0, false
}

// dropFrame removes an evicted frame from whichever allocation record
// owned it, deleting the record once nothing is left of it. The
// record keeps its original starting address even when the first
// frame is gone.
func (a *Allocator) dropFrame(frame int) {
	for addr, b := range a.blocks {
		for i, f := range b.Frames {
			if f != frame {
				continue
			}
			b.Frames = append(b.Frames[:i], b.Frames[i+1:]...)
			if len(b.Frames) == 0 {
				delete(a.blocks, addr)
			}
			return
		}
	}
}

// releaseBlock returns every frame of b to the pool and retires the
// record, unless the address has since been reclaimed by a different
// block: a grow can land its fresh run on the old starting frame once
// eviction has consumed the old block entirely.
func (a *Allocator) releaseBlock(addr int32, b *Block) {
	for _, f := range b.Frames {
		a.Pool.Release(f)
	}
	if a.blocks[addr] == b {
		delete(a.blocks, addr)
	}
}

// framesFor returns the frame count covering size words.
func framesFor(size int32) int {
	return int((size + memory.WordsPerFrame - 1) / memory.WordsPerFrame)
}
