package vm

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"

	"svm/memory"
)

type triplet struct {
	a, b, c int32
}

// LoadInitFile establishes the segment and page tables from the init
// file. Line one holds segment triplets (id, size, page table frame
// or negative disk block), line two page triplets (segment, page,
// frame or negative disk block), each routed to the resident page
// table or to its disk block depending on the segment's residency at
// that point. Any malformed token aborts startup: the table layout
// cannot be trusted half built.
func (sys *System) LoadInitFile(path string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading init file: %w", err)
	}
	lines := strings.SplitN(string(data), "\n", 3)

	segments, err := parseTriplets(lines[0])
	if err != nil {
		return fmt.Errorf("init line 1: %w", err)
	}
	for _, t := range segments {
		if err := sys.loadSegment(t); err != nil {
			return fmt.Errorf("init line 1: %w", err)
		}
	}

	var pages []triplet
	if len(lines) > 1 {
		if pages, err = parseTriplets(lines[1]); err != nil {
			return fmt.Errorf("init line 2: %w", err)
		}
		for _, t := range pages {
			if err := sys.loadPage(t); err != nil {
				return fmt.Errorf("init line 2: %w", err)
			}
		}
	}

	sys.Pool.SetHint(sys.Pool.Highest() + 1)

	sys.log.Printf("init: %d segment entries, %d page entries, %d frames in use, highest frame %d",
		len(segments), len(pages), sys.Pool.UsedCount(), sys.Pool.Highest())
	_ = sys.console.WriteConsole(fmt.Sprintf("Loaded %s: %d segment entries, %d frames in use.\n",
		path, len(segments), sys.Pool.UsedCount()))
	return nil
}

// loadSegment writes one segment table entry: word 2s takes the size,
// word 2s+1 the page table location.
func (sys *System) loadSegment(t triplet) error {
	s, z, f := t.a, t.b, t.c
	if s < 0 || s >= memory.NumSegments {
		return fmt.Errorf("segment %d out of range", s)
	}
	if f >= memory.TotalFrames {
		return fmt.Errorf("segment %d: page table frame %d out of range", s, f)
	}
	if f > 0 && f < memory.ReservedFrames {
		return fmt.Errorf("segment %d: page table frame %d is reserved", s, f)
	}
	// compared without negating f: -f overflows at the int32 minimum
	if f <= -memory.DiskBlocks {
		return fmt.Errorf("segment %d: page table location %d beyond the disk", s, f)
	}
	sys.PM.Words[2*s] = z
	sys.PM.Words[2*s+1] = f
	if f > 0 {
		sys.Pool.Reserve(int(f))
	}
	return nil
}

// loadPage routes one page triplet: into the resident page table, or
// onto the disk block holding the page table when that table is not
// resident. A positive frame recorded on disk only raises the pool's
// high-water mark; a resident one claims the frame too.
func (sys *System) loadPage(t triplet) error {
	s, p, f := t.a, t.b, t.c
	if s < 0 || s >= memory.NumSegments {
		return fmt.Errorf("segment %d out of range", s)
	}
	if p < 0 || p >= memory.WordsPerFrame {
		return fmt.Errorf("segment %d: page %d out of range", s, p)
	}
	if f >= memory.TotalFrames {
		return fmt.Errorf("segment %d page %d: frame %d out of range", s, p, f)
	}
	if f > 0 && f < memory.ReservedFrames {
		return fmt.Errorf("segment %d page %d: frame %d is reserved", s, p, f)
	}
	if f <= -memory.DiskBlocks {
		return fmt.Errorf("segment %d page %d: location %d beyond the disk", s, p, f)
	}

	loc := sys.PM.Words[2*s+1]
	switch {
	case loc > 0: // page table resident
		sys.PM.SetFrameWord(int(loc), int(p), f)
		if f > 0 {
			sys.Pool.Reserve(int(f))
		}
	case loc < 0: // page table on disk
		sys.Disk.Blocks[-loc][p] = f
		if f > 0 {
			sys.Pool.BumpHighest(int(f))
		}
	default:
		return fmt.Errorf("page %d of segment %d, but the segment is absent", p, s)
	}
	return nil
}

// parseTriplets reads a whitespace separated list of integers, three
// at a time.
func parseTriplets(line string) ([]triplet, error) {
	fields := strings.Fields(line)
	if len(fields)%3 != 0 {
		return nil, fmt.Errorf("%d values, not a multiple of three", len(fields))
	}
	out := make([]triplet, 0, len(fields)/3)
	for i := 0; i < len(fields); i += 3 {
		var vals [3]int32
		for j, field := range fields[i : i+3] {
			v, err := strconv.ParseInt(field, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("bad value %q", field)
			}
			vals[j] = int32(v)
		}
		out = append(out, triplet{vals[0], vals[1], vals[2]})
	}
	return out, nil
}
