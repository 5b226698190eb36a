package editor

import "summaryedit/internal/domain"

// Entry is one full-document snapshot in the undo history.
type Entry struct {
	Doc    domain.Document `json:"doc"`
	Kind   EditKind        `json:"kind"`
	Target string          `json:"target,omitempty"`
}

// History is a linear undo/redo list of whole-document snapshots.
//
// The host reports every document change through Observe. Changes that are
// the result of Undo or Redo are not recorded again: Undo and Redo mark the
// next observed change as a replay.
//
// With coalescing enabled, a run of content edits to the same block occupies
// a single entry. The run is broken by any other kind of edit, by Undo/Redo,
// and never swallows the initial snapshot.
type History struct {
	entries   []Entry
	cursor    int
	replaying bool
	sealed    bool
	coalesce  bool
}

// NewHistory seeds the history with the initial document at cursor 0.
func NewHistory(initial domain.Document, coalesce bool) *History {
	return &History{
		entries:  []Entry{{Doc: initial, Kind: EditLoad}},
		coalesce: coalesce,
		sealed:   true,
	}
}

// Observe records doc as the newest entry, discarding any redo entries.
func (h *History) Observe(doc domain.Document, kind EditKind, target string) {
	if h.replaying {
		h.replaying = false
		return
	}

	h.entries = h.entries[:h.cursor+1]
	if h.canCoalesce(kind, target) {
		h.entries[h.cursor] = Entry{Doc: doc, Kind: kind, Target: target}
		return
	}
	h.entries = append(h.entries, Entry{Doc: doc, Kind: kind, Target: target})
	h.cursor = len(h.entries) - 1
	h.sealed = false
}

// canCoalesce reports whether a content edit folds into the newest entry.
// A folded run undoes as one step, so undo after a single keystroke in the
// run returns the state before the whole run. Disable coalescing to get one
// entry per edit.
func (h *History) canCoalesce(kind EditKind, target string) bool {
	if !h.coalesce || h.sealed || h.cursor == 0 || kind != EditContent || target == "" {
		return false
	}
	last := h.entries[h.cursor]
	return last.Kind == EditContent && last.Target == target
}

// Undo steps back one entry and returns the document to show.
func (h *History) Undo() (domain.Document, bool) {
	if h.cursor == 0 {
		return domain.Document{}, false
	}
	h.cursor--
	h.replaying = true
	h.sealed = true
	return h.entries[h.cursor].Doc, true
}

// Redo steps forward one entry and returns the document to show.
func (h *History) Redo() (domain.Document, bool) {
	if h.cursor >= len(h.entries)-1 {
		return domain.Document{}, false
	}
	h.cursor++
	h.replaying = true
	h.sealed = true
	return h.entries[h.cursor].Doc, true
}

func (h *History) CanUndo() bool { return h.cursor > 0 }

func (h *History) CanRedo() bool { return h.cursor < len(h.entries)-1 }

// Cursor is the index of the entry currently shown.
func (h *History) Cursor() int { return h.cursor }

func (h *History) Len() int { return len(h.entries) }

// Current returns the document at the cursor.
func (h *History) Current() domain.Document { return h.entries[h.cursor].Doc }

// Entries returns a copy of all snapshots, oldest first.
func (h *History) Entries() []Entry {
	return append([]Entry(nil), h.entries...)
}

// RestoreHistory rebuilds a history from persisted entries. An out of range
// cursor is clamped; an empty entry list yields nil.
func RestoreHistory(entries []Entry, cursor int, coalesce bool) *History {
	if len(entries) == 0 {
		return nil
	}
	return &History{
		entries:  append([]Entry(nil), entries...),
		cursor:   max(0, min(cursor, len(entries)-1)),
		coalesce: coalesce,
		sealed:   true,
	}
}
