package mmu

import "fmt"

// EntryKind classifies a segment table or page table word.
type EntryKind int

const (
	// Absent - nothing mapped behind this entry
	Absent EntryKind = iota

	// Resident - entry points at a physical frame
	Resident

	// OnDisk - entry points at a block of the paging disk
	OnDisk
)

// Entry is the decoded view of a table word. Storage keeps the packed
// convention of the modeled machine: zero for absent, a positive
// frame number for resident, a negative disk block number otherwise.
type Entry struct {
	Kind  EntryKind
	Frame int
	Block int
}

// DecodeEntry unpacks a table word.
func DecodeEntry(w int32) Entry {
	switch {
	case w > 0:
		return Entry{Kind: Resident, Frame: int(w)}
	case w < 0:
		return Entry{Kind: OnDisk, Block: int(-w)}
	default:
		return Entry{Kind: Absent}
	}
}

// Encode packs the entry back into a table word.
func (e Entry) Encode() int32 {
	switch e.Kind {
	case Resident:
		return int32(e.Frame)
	case OnDisk:
		return int32(-e.Block)
	default:
		return 0
	}
}

func (e Entry) String() string {
	switch e.Kind {
	case Resident:
		return fmt.Sprintf("frame %d", e.Frame)
	case OnDisk:
		return fmt.Sprintf("block %d", e.Block)
	default:
		return "absent"
	}
}
