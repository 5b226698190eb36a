package editor

import (
	"github.com/samber/lo"

	"summaryedit/internal/domain"
)

// Direction is a vertical navigation direction in flattened order.
type Direction int

const (
	Up Direction = iota
	Down
)

// Selection tracks which blocks are selected. It never touches the document:
// ids are validated against whichever document is current when read.
//
// Drag selection is a three-phase gesture: BeginDrag on pointer-down,
// ExtendDrag for each block the pointer enters, EndDrag on release anywhere.
type Selection struct {
	ids       []string
	anchor    string
	dragging  bool
	dragStart string
}

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Anchor returns the last point-selected block, or "".
func (s *Selection) Anchor() string { return s.anchor }

func (s *Selection) Len() int { return len(s.ids) }

func (s *Selection) Contains(blockID string) bool {
	return lo.Contains(s.ids, blockID)
}

// Dragging reports whether a drag gesture is in progress.
func (s *Selection) Dragging() bool { return s.dragging }

// Clear drops the selection and the anchor.
func (s *Selection) Clear() {
	s.ids = nil
	s.anchor = ""
}

// PointSelect selects exactly blockID and makes it the anchor.
// Stale ids leave the selection untouched.
func (s *Selection) PointSelect(doc domain.Document, blockID string) bool {
	if domain.FlatIndex(domain.Flatten(doc), blockID) < 0 {
		return false
	}
	s.ids = []string{blockID}
	s.anchor = blockID
	return true
}

// RangeSelect selects the inclusive run of blocks between a and b in
// flattened order, in whichever order they are given. The anchor is kept.
func (s *Selection) RangeSelect(doc domain.Document, a, b string) bool {
	ids, ok := Range(doc, a, b)
	if !ok {
		return false
	}
	s.ids = ids
	return true
}

// ShiftExtend selects from the anchor to target. Without an anchor it acts
// as a point select.
func (s *Selection) ShiftExtend(doc domain.Document, target string) bool {
	if s.anchor == "" {
		return s.PointSelect(doc, target)
	}
	return s.RangeSelect(doc, s.anchor, target)
}

// BeginDrag point-selects blockID and starts a drag gesture from it.
func (s *Selection) BeginDrag(doc domain.Document, blockID string) bool {
	if !s.PointSelect(doc, blockID) {
		return false
	}
	s.dragging = true
	s.dragStart = blockID
	return true
}

// ExtendDrag selects from the drag start to the hovered block. Outside of a
// drag gesture it does nothing.
func (s *Selection) ExtendDrag(doc domain.Document, hovered string) bool {
	if !s.dragging {
		return false
	}
	return s.RangeSelect(doc, s.dragStart, hovered)
}

// EndDrag finishes the gesture wherever the pointer was released.
func (s *Selection) EndDrag() {
	s.dragging = false
	s.dragStart = ""
}

// Navigate point-selects the block adjacent to from. Moving past either end
// of the document does nothing.
func (s *Selection) Navigate(doc domain.Document, from string, dir Direction) bool {
	refs := domain.Flatten(doc)
	i := domain.FlatIndex(refs, from)
	if i < 0 {
		return false
	}
	target := i + 1
	if dir == Up {
		target = i - 1
	}
	if target < 0 || target >= len(refs) {
		return false
	}
	return s.PointSelect(doc, refs[target].BlockID)
}

// Valid returns the selected ids still present in doc, in flattened order.
func (s *Selection) Valid(doc domain.Document) []string {
	refs := domain.Flatten(doc)
	out := make([]string, 0, len(s.ids))
	for _, r := range refs {
		if lo.Contains(s.ids, r.BlockID) {
			out = append(out, r.BlockID)
		}
	}
	return out
}

// Range computes the inclusive flattened range between a and b.
// ok is false when either id is absent.
func Range(doc domain.Document, a, b string) (ids []string, ok bool) {
	refs := domain.Flatten(doc)
	ia, ib := domain.FlatIndex(refs, a), domain.FlatIndex(refs, b)
	if ia < 0 || ib < 0 {
		return nil, false
	}
	start, end := min(ia, ib), max(ia, ib)
	ids = make([]string, 0, end-start+1)
	for _, r := range refs[start : end+1] {
		ids = append(ids, r.BlockID)
	}
	return ids, true
}
