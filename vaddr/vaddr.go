package vaddr

import "fmt"

/**
Virtual address word package
*/

// virtual address layout. A VA carries three 9 bit fields:
// segment number, page number and word offset within the page.
const segmentShift = 18
const pageShift = 9

// FieldMask covers one 9 bit address field.
const FieldMask = 0x1FF

// PageWordMask covers the combined page and offset fields (18 bits),
// the quantity the segment size is checked against.
const PageWordMask = 0x3FFFF

// VA keeps a 27 bit virtual address
type VA uint32

// New packs segment, page and offset into a virtual address word.
func New(segment, page, offset int) VA {
	return VA(segment&FieldMask)<<segmentShift |
		VA(page&FieldMask)<<pageShift |
		VA(offset&FieldMask)
}

// Segment returns the segment number (bits 26:18)
func (va VA) Segment() int {
	return int((va >> segmentShift) & FieldMask)
}

// Page returns the page number (bits 17:9)
func (va VA) Page() int {
	return int((va >> pageShift) & FieldMask)
}

// Offset returns the word offset within the page (bits 8:0)
func (va VA) Offset() int {
	return int(va & FieldMask)
}

// PageWord returns page and offset as one 18 bit quantity. The segment
// bound check runs against this value, not against the offset alone.
func (va VA) PageWord() int {
	return int(va & PageWordMask)
}

// String renders the decoded fields for trace output.
func (va VA) String() string {
	return fmt.Sprintf("[s:%d p:%d w:%d]", va.Segment(), va.Page(), va.Offset())
}
