package alloc

import (
	"testing"

	"svm/faults"
	"svm/logger"
	"svm/memory"
)

func newTestAllocator() *Allocator {
	return New(memory.NewPool(), logger.New(""))
}

func TestAllocator_MallocFree(t *testing.T) {
	a := newTestAllocator()
	addr, err := a.Malloc(1000)
	if err != nil {
		t.Fatalf("Malloc() error = %v", err)
	}
	if want := int32(2 * memory.WordsPerFrame); addr != want {
		t.Errorf("Malloc() = %v, want %v", addr, want)
	}
	if !a.Pool.Used(2) || !a.Pool.Used(3) {
		t.Error("allocated frames not marked used")
	}
	frames, ok := a.BlockFrames(addr)
	if !ok || len(frames) != 2 {
		t.Fatalf("BlockFrames() = %v, %v, want two frames", frames, ok)
	}

	// free restores the pre-malloc pool state
	if err := a.Free(addr); err != nil {
		t.Fatalf("Free() error = %v", err)
	}
	if a.Pool.Used(2) || a.Pool.Used(3) {
		t.Error("frames still used after Free")
	}
	if got := a.Outstanding(); got != 0 {
		t.Errorf("Outstanding() = %v, want 0", got)
	}
	if got := a.Pool.UsedCount(); got != memory.ReservedFrames {
		t.Errorf("UsedCount() = %v after Free, want %v", got, memory.ReservedFrames)
	}
}

func TestAllocator_MallocSizes(t *testing.T) {
	tests := []struct {
		name       string
		size       int32
		wantFrames int
	}{
		{"single word", 1, 1},
		{"exactly one frame", 512, 1},
		{"one word over", 513, 2},
		{"three frames", 1500, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAllocator()
			addr, err := a.Malloc(tt.size)
			if err != nil {
				t.Fatalf("Malloc(%d) error = %v", tt.size, err)
			}
			frames, _ := a.BlockFrames(addr)
			if len(frames) != tt.wantFrames {
				t.Errorf("Malloc(%d) took %d frames, want %d", tt.size, len(frames), tt.wantFrames)
			}
		})
	}
}

func TestAllocator_MallocRejectsDegenerate(t *testing.T) {
	a := newTestAllocator()
	if _, err := a.Malloc(0); !faults.Is(err, faults.AllocationFailed) {
		t.Errorf("Malloc(0) error = %v, want allocation failure", err)
	}
	if _, err := a.Malloc(-5); !faults.Is(err, faults.AllocationFailed) {
		t.Errorf("Malloc(-5) error = %v, want allocation failure", err)
	}
}

func TestAllocator_FreeUnknown(t *testing.T) {
	a := newTestAllocator()
	if err := a.Free(12345); !faults.Is(err, faults.InvalidFree) {
		t.Errorf("Free() error = %v, want invalid free", err)
	}
}

func TestAllocator_Realloc(t *testing.T) {
	a := newTestAllocator()
	addr, err := a.Malloc(3 * memory.WordsPerFrame) // frames 2,3,4
	if err != nil {
		t.Fatalf("Malloc() error = %v", err)
	}

	// same frame count: nothing moves
	same, err := a.Realloc(addr, 3*memory.WordsPerFrame-100)
	if err != nil || same != addr {
		t.Fatalf("Realloc() = %v, %v, want %v unchanged", same, err, addr)
	}

	// shrink in place
	small, err := a.Realloc(addr, memory.WordsPerFrame)
	if err != nil || small != addr {
		t.Fatalf("Realloc() = %v, %v, want %v in place", small, err, addr)
	}
	if a.Pool.Used(3) || a.Pool.Used(4) {
		t.Error("trailing frames still used after shrink")
	}

	// grow: fresh run, old one released
	big, err := a.Realloc(addr, 2*memory.WordsPerFrame)
	if err != nil {
		t.Fatalf("Realloc() error = %v", err)
	}
	if big == addr {
		t.Errorf("Realloc() = %v, want a new address", big)
	}
	if a.Pool.Used(2) {
		t.Error("old frame still used after grow")
	}
	if got := a.Outstanding(); got != 1 {
		t.Errorf("Outstanding() = %v, want 1", got)
	}
}

func TestAllocator_ReallocUnknown(t *testing.T) {
	a := newTestAllocator()
	before := a.Pool.UsedCount()
	if _, err := a.Realloc(999, 100); !faults.Is(err, faults.InvalidFree) {
		t.Errorf("Realloc() error = %v, want invalid free", err)
	}
	if got := a.Pool.UsedCount(); got != before {
		t.Errorf("UsedCount() = %v after failed realloc, want %v", got, before)
	}
	if got := a.Outstanding(); got != 0 {
		t.Errorf("Outstanding() = %v, want 0", got)
	}
}

func TestAllocator_MallocEvicts(t *testing.T) {
	a := newTestAllocator()
	for f := memory.ReservedFrames; f < memory.TotalFrames; f++ {
		a.Pool.Reserve(f)
	}
	addr, err := a.Malloc(memory.WordsPerFrame)
	if err != nil {
		t.Fatalf("Malloc() error = %v", err)
	}
	// frame 2 is the LFU victim and the wrapped scan picks it back up
	if want := int32(2 * memory.WordsPerFrame); addr != want {
		t.Errorf("Malloc() = %v, want %v", addr, want)
	}
	if got := a.Evictions; got != 1 {
		t.Errorf("Evictions = %v, want 1", got)
	}
}

func TestAllocator_EvictionShrinksRecord(t *testing.T) {
	a := newTestAllocator()
	first, err := a.Malloc(2 * memory.WordsPerFrame) // frames 2,3
	if err != nil {
		t.Fatalf("Malloc() error = %v", err)
	}
	for f := 4; f < memory.TotalFrames; f++ {
		a.Pool.Reserve(f)
	}
	// frame 3 has the lighter access history, so it gets stolen
	a.Pool.RecordAccess(2)

	second, err := a.Malloc(memory.WordsPerFrame)
	if err != nil {
		t.Fatalf("Malloc() error = %v", err)
	}
	if want := int32(3 * memory.WordsPerFrame); second != want {
		t.Errorf("Malloc() = %v, want %v", second, want)
	}
	frames, ok := a.BlockFrames(first)
	if !ok || len(frames) != 1 || frames[0] != 2 {
		t.Errorf("BlockFrames(first) = %v, %v, want [2]", frames, ok)
	}
	if got := a.Outstanding(); got != 2 {
		t.Errorf("Outstanding() = %v, want 2", got)
	}
}

func TestAllocator_ReallocGrowSameAddress(t *testing.T) {
	a := newTestAllocator()
	first, err := a.Malloc(2 * memory.WordsPerFrame) // frames 2,3
	if err != nil {
		t.Fatalf("Malloc() error = %v", err)
	}
	if _, err := a.Malloc(memory.WordsPerFrame); err != nil { // frame 4
		t.Fatalf("Malloc() error = %v", err)
	}
	for f := 5; f < memory.TotalFrames; f++ {
		a.Pool.Reserve(f)
	}

	// the grow drains both blocks through eviction and its fresh run
	// lands back on the old starting frame
	grown, err := a.Realloc(first, 3*memory.WordsPerFrame)
	if err != nil {
		t.Fatalf("Realloc() error = %v", err)
	}
	if grown != first {
		t.Errorf("Realloc() = %v, want %v", grown, first)
	}
	frames, ok := a.BlockFrames(grown)
	if !ok {
		t.Fatalf("BlockFrames(%d) missing after grow", grown)
	}
	for i, f := range []int{2, 3, 4} {
		if i >= len(frames) || frames[i] != f {
			t.Fatalf("BlockFrames(%d) = %v, want [2 3 4]", grown, frames)
		}
	}
	if got := a.Outstanding(); got != 1 {
		t.Errorf("Outstanding() = %v, want 1", got)
	}

	// the grown block is a live allocation: freeing it works and
	// returns its frames
	if err := a.Free(grown); err != nil {
		t.Fatalf("Free() error = %v", err)
	}
	for _, f := range []int{2, 3, 4} {
		if a.Pool.Used(f) {
			t.Errorf("frame %d still used after Free", f)
		}
	}
	if got := a.Outstanding(); got != 0 {
		t.Errorf("Outstanding() = %v, want 0", got)
	}
}

func TestAllocator_MallocSkipsEvictedRecordStart(t *testing.T) {
	a := newTestAllocator()
	first, err := a.Malloc(2 * memory.WordsPerFrame) // frames 2,3
	if err != nil {
		t.Fatalf("Malloc() error = %v", err)
	}
	for f := 4; f < memory.TotalFrames; f++ {
		a.Pool.Reserve(f)
	}
	// frame 2 is the coldest frame, so eviction steals it first, but
	// its address still keys the first block
	a.Pool.RecordAccess(3)

	second, err := a.Malloc(memory.WordsPerFrame)
	if err != nil {
		t.Fatalf("Malloc() error = %v", err)
	}
	if second == first {
		t.Fatalf("Malloc() = %v, collides with a live record", second)
	}
	frames, ok := a.BlockFrames(first)
	if !ok || len(frames) != 1 || frames[0] != 3 {
		t.Errorf("BlockFrames(first) = %v, %v, want [3]", frames, ok)
	}
	if got := a.Outstanding(); got != 2 {
		t.Errorf("Outstanding() = %v, want 2", got)
	}
}

func TestAllocator_MallocTooLarge(t *testing.T) {
	a := newTestAllocator()
	// a request the pool can never satisfy drains every candidate
	_, err := a.Malloc(memory.TotalFrames * memory.WordsPerFrame)
	if !faults.Is(err, faults.PoolExhausted) {
		t.Errorf("Malloc() error = %v, want pool exhausted", err)
	}
}
