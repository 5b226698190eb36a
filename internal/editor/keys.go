package editor

import (
	"strings"
	"unicode/utf8"
)

// Key names follow the DOM KeyboardEvent.key values the host forwards.
const (
	KeyEnter     = "Enter"
	KeyBackspace = "Backspace"
	KeyDelete    = "Delete"
	KeyArrowUp   = "ArrowUp"
	KeyArrowDown = "ArrowDown"
)

// KeyEvent is a keystroke as seen by the editor.
type KeyEvent struct {
	Key   string `json:"key"`
	Shift bool   `json:"shift,omitempty"`
	Meta  bool   `json:"meta,omitempty"`
	Ctrl  bool   `json:"ctrl,omitempty"`
	// BlockID is the block whose input has focus, "" when none does.
	BlockID string `json:"blockId,omitempty"`
	// Cursor is the caret position in runes within the focused block.
	Cursor int `json:"cursor"`
}

// Intent is the structural meaning of a keystroke.
type Intent int

const (
	IntentNone Intent = iota
	IntentSplit
	IntentMergeDelete
	IntentBulkDelete
	IntentNavigateUp
	IntentNavigateDown
	IntentUndo
	IntentRedo
	IntentCopy
)

var intentNames = [...]string{"none", "split", "merge-delete", "bulk-delete", "navigate-up", "navigate-down", "undo", "redo", "copy"}

func (i Intent) String() string {
	if i >= 0 && int(i) < len(intentNames) {
		return intentNames[i]
	}
	return "unknown"
}

// Classify maps a keystroke to an intent. content is the focused block's
// current text and selected the number of selected blocks.
func Classify(ev KeyEvent, content string, selected int) Intent {
	if ev.Meta || ev.Ctrl {
		switch strings.ToLower(ev.Key) {
		case "z":
			if ev.Shift {
				return IntentRedo
			}
			return IntentUndo
		case "c":
			return IntentCopy
		}
		return IntentNone
	}

	if (ev.Key == KeyBackspace || ev.Key == KeyDelete) && selected > 1 {
		return IntentBulkDelete
	}
	if ev.BlockID == "" {
		return IntentNone
	}

	switch ev.Key {
	case KeyEnter:
		if !ev.Shift {
			return IntentSplit
		}
	case KeyBackspace:
		if ev.Cursor == 0 {
			return IntentMergeDelete
		}
	case KeyDelete:
		if content == "" {
			return IntentMergeDelete
		}
	case KeyArrowUp:
		if ev.Cursor == 0 {
			return IntentNavigateUp
		}
	case KeyArrowDown:
		if ev.Cursor == utf8.RuneCountInString(content) {
			return IntentNavigateDown
		}
	}
	return IntentNone
}

// Mode is the structural-edit state of a session.
type Mode int

const (
	ModeIdle Mode = iota
	ModeEditingBlock
)

func (m Mode) String() string {
	if m == ModeEditingBlock {
		return "editing"
	}
	return "idle"
}
