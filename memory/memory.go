package memory

// memory geometry. Sizes match the modeled machine: 1024 frames of
// 512 words each, with a paging disk of the same block granularity.
const (
	// WordsPerFrame - words in one physical frame (and one disk block)
	WordsPerFrame = 512

	// TotalFrames - size of the physical frame pool
	TotalFrames = 1024

	// TotalWords - full extent of physical memory
	TotalWords = TotalFrames * WordsPerFrame

	// DiskBlocks - number of blocks on the paging disk
	DiskBlocks = 1024

	// ReservedFrames - frames 0 and 1 hold the segment table. They are
	// pinned for the lifetime of the machine: never handed out, never
	// evicted, never part of a block allocation.
	ReservedFrames = 2

	// NumSegments - two words per segment table entry across the two
	// reserved frames
	NumSegments = ReservedFrames * WordsPerFrame / 2
)

// Physical is the flat physical memory of the modeled machine. The
// segment table lives in the first two frames; resident page tables
// and pages occupy whole frames above them.
type Physical struct {
	Words [TotalWords]int32
}

// FrameWord reads the word at the given offset inside a frame.
func (p *Physical) FrameWord(frame, offset int) int32 {
	return p.Words[frame*WordsPerFrame+offset]
}

// SetFrameWord writes the word at the given offset inside a frame.
func (p *Physical) SetFrameWord(frame, offset int, w int32) {
	p.Words[frame*WordsPerFrame+offset] = w
}

// Disk is the paging store. Each block holds exactly one frame's worth
// of words: a full page table image, or the backing of one page. Only
// page table blocks are ever read back in this model; page contents
// stay untouched on a page-in.
type Disk struct {
	Blocks [DiskBlocks][WordsPerFrame]int32
}
