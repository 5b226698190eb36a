package editor

import (
	"summaryedit/internal/domain"
	"summaryedit/internal/markdown"
)

// Options configures a Session.
type Options struct {
	// IDs generates block ids; UUIDs when nil.
	IDs domain.IDSource
	// Coalesce folds consecutive content edits of one block into a single
	// history entry.
	Coalesce bool
}

// ChangeListener receives every new document value.
type ChangeListener func(doc domain.Document)

// Session is the editor state for one open summary: the current document,
// the selection, the undo history and the pending focus request. It is
// single-owner and not safe for concurrent use; callers serialize access.
type Session struct {
	doc       domain.Document
	sel       Selection
	hist      *History
	mut       *Mutator
	focus     *Focus
	listeners []ChangeListener
}

// NewSession starts editing doc as-is. doc seeds the history.
func NewSession(doc domain.Document, opts Options) *Session {
	m := NewMutator(opts.IDs)
	m.Reserve(doc)
	return &Session{doc: doc, mut: m, hist: NewHistory(doc, opts.Coalesce)}
}

// OpenPayload starts editing a freshly arrived summary after normalizing it.
func OpenPayload(raw domain.Document, opts Options) *Session {
	m := NewMutator(opts.IDs)
	doc := m.Normalize(raw)
	return &Session{doc: doc, mut: m, hist: NewHistory(doc, opts.Coalesce)}
}

// ResumeSession continues editing from a restored history.
func ResumeSession(h *History, opts Options) *Session {
	m := NewMutator(opts.IDs)
	for _, e := range h.Entries() {
		m.Reserve(e.Doc)
	}
	return &Session{doc: h.Current(), mut: m, hist: h}
}

// OnChange registers fn to be called after every document change.
func (s *Session) OnChange(fn ChangeListener) {
	s.listeners = append(s.listeners, fn)
}

// ── Read side ──────────────────────────────────────────────

func (s *Session) Document() domain.Document { return s.doc }

func (s *Session) History() *History { return s.hist }

// SelectedIDs returns the selected blocks still present, in flattened order.
func (s *Session) SelectedIDs() []string { return s.sel.Valid(s.doc) }

func (s *Session) Anchor() string { return s.sel.Anchor() }

func (s *Session) Dragging() bool { return s.sel.Dragging() }

// Focus returns the focus target requested by the last edit, if any.
func (s *Session) Focus() *Focus { return s.focus }

// Mode is ModeEditingBlock while exactly one block is selected.
func (s *Session) Mode() Mode {
	if len(s.SelectedIDs()) == 1 {
		return ModeEditingBlock
	}
	return ModeIdle
}

func (s *Session) CanUndo() bool { return s.hist.CanUndo() }

func (s *Session) CanRedo() bool { return s.hist.CanRedo() }

// SelectedText is the clipboard text of the current selection.
func (s *Session) SelectedText() string {
	return markdown.SelectionText(s.doc, s.SelectedIDs())
}

// ── Selection ──────────────────────────────────────────────

func (s *Session) PointSelect(blockID string) bool { return s.sel.PointSelect(s.doc, blockID) }

func (s *Session) RangeSelect(a, b string) bool { return s.sel.RangeSelect(s.doc, a, b) }

func (s *Session) ShiftExtend(target string) bool { return s.sel.ShiftExtend(s.doc, target) }

func (s *Session) BeginDrag(blockID string) bool { return s.sel.BeginDrag(s.doc, blockID) }

func (s *Session) ExtendDrag(hovered string) bool { return s.sel.ExtendDrag(s.doc, hovered) }

func (s *Session) EndDrag() { s.sel.EndDrag() }

func (s *Session) ClearSelection() { s.sel.Clear() }

func (s *Session) Navigate(from string, dir Direction) bool {
	return s.sel.Navigate(s.doc, from, dir)
}

// ── Edits ──────────────────────────────────────────────────

func (s *Session) ChangeContent(sectionKey, blockID, text string) bool {
	return s.commit(s.mut.ChangeContent(s.doc, sectionKey, blockID, text))
}

func (s *Session) ChangeType(blockID string, t domain.BlockType) bool {
	return s.commit(s.mut.ChangeType(s.doc, blockID, t))
}

func (s *Session) ChangeColor(blockID string, c domain.Color) bool {
	return s.commit(s.mut.ChangeColor(s.doc, blockID, c))
}

// SplitBlock inserts tailText as a new block after blockID and selects it.
func (s *Session) SplitBlock(blockID, tailText string) (*Focus, bool) {
	return s.commitFocused(s.mut.SplitBlock(s.doc, blockID, tailText))
}

// SplitBlockAt splits blockID at a rune offset and selects the new block.
func (s *Session) SplitBlockAt(blockID string, offset int) (*Focus, bool) {
	return s.commitFocused(s.mut.SplitBlockAt(s.doc, blockID, offset))
}

// MergeIntoPrevious merge-deletes blockID and selects the focus target.
func (s *Session) MergeIntoPrevious(blockID, mergeText string) (*Focus, bool) {
	return s.commitFocused(s.mut.MergeIntoPrevious(s.doc, blockID, mergeText))
}

func (s *Session) DeleteBlocks(blockIDs []string) bool {
	return s.commit(s.mut.DeleteBlocks(s.doc, blockIDs))
}

// DeleteSelection removes every selected block and clears the selection.
func (s *Session) DeleteSelection() bool {
	ids := s.SelectedIDs()
	if len(ids) == 0 {
		return false
	}
	ok := s.DeleteBlocks(ids)
	s.sel.Clear()
	return ok
}

func (s *Session) RenameSection(sectionKey, title string) bool {
	return s.commit(s.mut.RenameSection(s.doc, sectionKey, title))
}

func (s *Session) DeleteSection(sectionKey string) bool {
	return s.commit(s.mut.DeleteSection(s.doc, sectionKey))
}

func (s *Session) MoveSection(sectionKey string, delta int) bool {
	return s.commit(s.mut.MoveSection(s.doc, sectionKey, delta))
}

// AddSection appends a new section and selects its empty block.
func (s *Session) AddSection() *Focus {
	f, _ := s.commitFocused(s.mut.AddSection(s.doc))
	return f
}

// ── History ────────────────────────────────────────────────

func (s *Session) Undo() bool {
	doc, ok := s.hist.Undo()
	if !ok {
		return false
	}
	s.replay(doc)
	return true
}

func (s *Session) Redo() bool {
	doc, ok := s.hist.Redo()
	if !ok {
		return false
	}
	s.replay(doc)
	return true
}

// ── Keyboard ───────────────────────────────────────────────

// Outcome reports what a keystroke did.
type Outcome struct {
	Intent Intent
	// Handled means the host should suppress the keystroke's default action.
	Handled   bool
	Focus     *Focus
	Clipboard string
}

// HandleKey runs the structural-edit state machine for one keystroke.
func (s *Session) HandleKey(ev KeyEvent) Outcome {
	content := ""
	if b, ok := s.doc.Block(ev.BlockID); ok {
		content = b.Content
	} else {
		ev.BlockID = ""
	}

	intent := Classify(ev, content, len(s.SelectedIDs()))
	out := Outcome{Intent: intent}

	switch intent {
	case IntentUndo:
		out.Handled = true
		s.Undo()
	case IntentRedo:
		out.Handled = true
		s.Redo()
	case IntentCopy:
		out.Clipboard = s.SelectedText()
		out.Handled = out.Clipboard != ""
	case IntentBulkDelete:
		out.Handled = s.DeleteSelection()
	case IntentSplit:
		s.enterEditing(ev.BlockID)
		out.Focus, out.Handled = s.SplitBlockAt(ev.BlockID, ev.Cursor)
	case IntentMergeDelete:
		s.enterEditing(ev.BlockID)
		out.Focus, out.Handled = s.MergeIntoPrevious(ev.BlockID, content)
	case IntentNavigateUp:
		out.Handled = s.Navigate(ev.BlockID, Up)
	case IntentNavigateDown:
		out.Handled = s.Navigate(ev.BlockID, Down)
	}
	return out
}

// enterEditing makes blockID the single selected block when it is not already.
func (s *Session) enterEditing(blockID string) {
	if ids := s.SelectedIDs(); len(ids) == 1 && ids[0] == blockID {
		return
	}
	s.sel.PointSelect(s.doc, blockID)
}

// ── internals ──────────────────────────────────────────────

func (s *Session) commit(e Edit) bool {
	if !e.Changed {
		return false
	}
	s.doc = e.Doc
	s.focus = e.Focus
	s.hist.Observe(e.Doc, e.Kind, e.Target)
	s.notify()
	return true
}

func (s *Session) commitFocused(e Edit) (*Focus, bool) {
	if !s.commit(e) {
		return nil, false
	}
	if e.Focus != nil {
		s.sel.PointSelect(s.doc, e.Focus.BlockID)
	} else {
		s.sel.Clear()
	}
	return e.Focus, true
}

func (s *Session) replay(doc domain.Document) {
	s.doc = doc
	s.focus = nil
	s.hist.Observe(doc, EditLoad, "")
	s.notify()
}

func (s *Session) notify() {
	for _, fn := range s.listeners {
		fn(s.doc)
	}
}
