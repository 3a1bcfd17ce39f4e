// Package rewrite applies byte-range replacements to a source buffer.
// Checks queue edits while walking; Apply produces the patched content
// once the whole file has been visited.
package rewrite

import (
	"fmt"
	"sort"
)

type edit struct {
	offset int
	length int
	text   string
}

// Rewriter accumulates non-overlapping replacements against an
// immutable original buffer.
type Rewriter struct {
	src   []byte
	edits []edit
}

// New creates a rewriter over the given file content. The content is
// not copied; callers must not mutate it while the rewriter is live.
func New(src []byte) *Rewriter {
	return &Rewriter{src: src}
}

// Replace schedules the byte range [offset, offset+length) to be
// replaced by text. Ranges must lie within the buffer and must not
// overlap a previously scheduled edit.
func (r *Rewriter) Replace(offset, length int, text string) error {
	if offset < 0 || length < 0 || offset+length > len(r.src) {
		return fmt.Errorf("rewrite: range [%d,%d) outside buffer of %d bytes", offset, offset+length, len(r.src))
	}
	for _, e := range r.edits {
		if offset < e.offset+e.length && e.offset < offset+length {
			return fmt.Errorf("rewrite: range [%d,%d) overlaps existing edit [%d,%d)", offset, offset+length, e.offset, e.offset+e.length)
		}
		// Two insertions at the same point have no defined order.
		if length == 0 && e.length == 0 && offset == e.offset {
			return fmt.Errorf("rewrite: duplicate insertion at offset %d", offset)
		}
	}
	r.edits = append(r.edits, edit{offset: offset, length: length, text: text})

	return nil
}

// Count returns the number of scheduled edits.
func (r *Rewriter) Count() int { return len(r.edits) }

// Apply returns the buffer with all scheduled edits applied. The
// rewriter itself is unchanged and may keep accumulating edits.
func (r *Rewriter) Apply() []byte {
	sorted := make([]edit, len(r.edits))
	copy(sorted, r.edits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].offset < sorted[j].offset })

	out := make([]byte, 0, len(r.src))
	last := 0
	for _, e := range sorted {
		out = append(out, r.src[last:e.offset]...)
		out = append(out, e.text...)
		last = e.offset + e.length
	}
	out = append(out, r.src[last:]...)

	return out
}
