package vm

import (
	"fmt"
	"log"
	"strings"

	"svm/alloc"
	"svm/console"
	"svm/memory"
	"svm/mmu"
	"svm/vaddr"
)

/**
The machine: physical memory, paging disk, frame pool, translation
unit and block allocator wired together, plus the init file loader
and the batch translation runner that drive them.
*/

// System definition.
type System struct {
	PM    *memory.Physical
	Disk  *memory.Disk
	Pool  *memory.Pool
	Mmu   *mmu.Unit
	Alloc *alloc.Allocator

	// console and status output:
	console console.Console
	log     *log.Logger

	// OnResult, when set, sees every address of a batch run together
	// with its result, -1 for faults. The gocui frontend feeds the
	// translations view through it.
	OnResult func(va vaddr.VA, pa int32)
}

// New wires up the machine: physical memory with the segment table in
// its reserved frames, the paging disk, the shared frame pool, the
// translation unit and the block allocator.
func New(c console.Console, debugMode bool, logg *log.Logger) *System {
	sys := new(System)
	sys.PM = new(memory.Physical)
	sys.Disk = new(memory.Disk)
	sys.Pool = memory.NewPool()
	sys.Mmu = mmu.NewUnit(sys.PM, sys.Disk, sys.Pool, logg)
	sys.Mmu.Debug = debugMode
	sys.Alloc = alloc.New(sys.Pool, logg)
	sys.Alloc.Debug = debugMode
	sys.console = c
	sys.log = logg

	_ = sys.console.WriteConsole("Initializing virtual memory unit.\n")
	return sys
}

// TranslateOne resolves a single address, mapping any fault to the -1
// sentinel of the batch interface.
func (sys *System) TranslateOne(va vaddr.VA) int32 {
	pa, err := sys.Mmu.Translate(va)
	if err != nil {
		return -1
	}
	return pa
}

// Stats returns a one line summary of the machine counters.
func (sys *System) Stats() string {
	return fmt.Sprintf(
		"translations: %d  faults: %d seg / %d bounds / %d pt / %d page  evictions: %d  malloc/free/realloc: %d/%d/%d",
		sys.Mmu.Translations, sys.Mmu.SegmentFaults, sys.Mmu.BoundsFaults,
		sys.Mmu.PageTableFaults, sys.Mmu.PageFaults,
		sys.Mmu.Evictions+sys.Alloc.Evictions,
		sys.Alloc.Mallocs, sys.Alloc.Frees, sys.Alloc.Reallocs)
}

// DumpPool returns a short frame pool summary for the status display.
func (sys *System) DumpPool() string {
	return fmt.Sprintf("frames used: %d/%d   highest: %d   cursor: %d   allocations: %d",
		sys.Pool.UsedCount(), memory.TotalFrames, sys.Pool.Highest(), sys.Pool.Hint(),
		sys.Alloc.Outstanding())
}

// RecentEvents returns the latest fault service events, one per line,
// oldest first.
func (sys *System) RecentEvents() string {
	return strings.Join(sys.Mmu.Trace.Lines(), "\n")
}

// DumpSegments lists the loaded segments the way the segment table
// sees them.
func (sys *System) DumpSegments() string {
	var b strings.Builder
	for s := 0; s < memory.NumSegments; s++ {
		size := sys.PM.Words[2*s]
		if size == 0 {
			continue
		}
		entry := mmu.DecodeEntry(sys.PM.Words[2*s+1])
		fmt.Fprintf(&b, "segment %d: %d words, page table %s\n", s, size, entry)
	}
	return b.String()
}
