package memory

// Pool tracks ownership of the physical frame pool: which frames back
// a resident table, a resident page or a block allocation, plus the
// per-frame access counters the eviction policy ranks by. The two
// segment table frames are claimed before anything else runs.
type Pool struct {
	used     map[int]bool
	access   map[int]int
	nextFree int
	highest  int
}

// NewPool returns a pool with the segment table frames already taken.
func NewPool() *Pool {
	p := &Pool{
		used:     make(map[int]bool),
		access:   make(map[int]int),
		nextFree: ReservedFrames,
		highest:  ReservedFrames - 1,
	}
	for f := 0; f < ReservedFrames; f++ {
		p.used[f] = true
	}
	return p
}

// NextFreeFrame hands out the lowest unused frame at or above the
// search cursor and marks it used. The cursor only moves forward;
// frames released below it are found again solely through eviction.
// Capping the result at TotalFrames is the caller's job.
func (p *Pool) NextFreeFrame() int {
	frame := p.nextFree
	if frame < p.highest+1 {
		frame = p.highest + 1
	}
	for p.used[frame] {
		frame++
	}
	p.used[frame] = true
	p.nextFree = frame + 1
	return frame
}

// Reserve claims a specific frame and raises the high-water mark.
// Used by the init loader for frames named in the table file and by
// the block allocator for the runs it hands out.
func (p *Pool) Reserve(frame int) {
	p.used[frame] = true
	if frame > p.highest {
		p.highest = frame
	}
}

// Release returns a frame to the pool and drops its access counter.
// No-op when the frame is already free.
func (p *Pool) Release(frame int) {
	delete(p.used, frame)
	delete(p.access, frame)
}

// BumpHighest raises the high-water mark without claiming the frame.
// The init loader records page frames routed to a disk resident page
// table this way: they count toward the watermark but hold no
// physical frame yet.
func (p *Pool) BumpHighest(frame int) {
	if frame > p.highest {
		p.highest = frame
	}
}

// Used reports whether a frame is currently claimed.
func (p *Pool) Used(frame int) bool {
	return p.used[frame]
}

// UsedCount returns the number of claimed frames, reserved ones
// included.
func (p *Pool) UsedCount() int {
	return len(p.used)
}

// Full reports whether every frame of physical memory is claimed.
func (p *Pool) Full() bool {
	return len(p.used) >= TotalFrames
}

// Hint returns the current search cursor.
func (p *Pool) Hint() int {
	return p.nextFree
}

// SetHint moves the search cursor. The loader points it past the
// highest frame named during init; the block allocator advances it
// past each run it reserves.
func (p *Pool) SetHint(frame int) {
	p.nextFree = frame
}

// Highest returns the high-water mark over all frames referenced so
// far.
func (p *Pool) Highest() int {
	return p.highest
}
