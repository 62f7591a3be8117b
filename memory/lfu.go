package memory

// RecordAccess bumps the access counter of a frame. A translation
// counts both the page table frame and the final page frame once.
func (p *Pool) RecordAccess(frame int) {
	p.access[frame]++
}

// AccessCount returns the recorded access count of a frame. Frames
// never touched report 0.
func (p *Pool) AccessCount(frame int) int {
	return p.access[frame]
}

// EvictCandidate returns the used frame with the lowest access count,
// skipping the reserved segment table frames. Ties go to the lowest
// frame index, so the choice does not depend on map iteration order.
// The second result is false when no frame is eligible.
func (p *Pool) EvictCandidate() (int, bool) {
	best := -1
	bestCount := 0
	for frame := range p.used {
		if frame < ReservedFrames {
			continue
		}
		count := p.access[frame]
		if best < 0 || count < bestCount || (count == bestCount && frame < best) {
			best = frame
			bestCount = count
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// Evict releases a frame chosen for reuse. Table entries still naming
// the frame are not rewritten; a stale reference resolves into
// whatever the frame holds next.
func (p *Pool) Evict(frame int) {
	p.Release(frame)
}
