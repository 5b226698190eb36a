package editor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summaryedit/internal/domain"
	"summaryedit/internal/editor"
)

func newSession(doc domain.Document) *editor.Session {
	return editor.NewSession(doc, editor.Options{IDs: &domain.SequenceSource{}})
}

func TestSession_OnChangeAndUndo(t *testing.T) {
	s := newSession(agendaDoc())
	var seen []domain.Document
	s.OnChange(func(d domain.Document) { seen = append(seen, d) })

	_, ok := s.SplitBlock("b1", "World")
	require.True(t, ok)
	require.True(t, s.Undo())

	require.Len(t, seen, 2)
	assert.Equal(t, agendaDoc(), s.Document())
	assert.Equal(t, 2, s.History().Len(), "undo is not recorded as an edit")
	assert.True(t, s.CanRedo())

	require.True(t, s.Redo())
	assert.Equal(t, seen[0], s.Document())
	assert.False(t, s.Redo())
}

func TestSession_NoOpEditsDoNotNotify(t *testing.T) {
	s := newSession(agendaDoc())
	calls := 0
	s.OnChange(func(domain.Document) { calls++ })

	assert.False(t, s.ChangeContent("Agenda", "b1", "Hello"))
	assert.False(t, s.DeleteSection("nope"))
	assert.False(t, s.Undo())
	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, s.History().Len())
}

func TestSession_EnterSplitsAtCursor(t *testing.T) {
	s := newSession(agendaDoc())
	s.PointSelect("b1")

	out := s.HandleKey(editor.KeyEvent{Key: editor.KeyEnter, BlockID: "b1", Cursor: 2})
	assert.Equal(t, editor.IntentSplit, out.Intent)
	require.True(t, out.Handled)

	blocks := s.Document().Sections[0].Blocks
	require.Len(t, blocks, 2)
	assert.Equal(t, "He", blocks[0].Content)
	assert.Equal(t, "llo", blocks[1].Content)
	assert.Equal(t, &editor.Focus{BlockID: blocks[1].ID, Offset: 0}, out.Focus)
	assert.Equal(t, []string{blocks[1].ID}, s.SelectedIDs())
	assert.Equal(t, editor.ModeEditingBlock, s.Mode())
}

func TestSession_ShiftEnterIsNotASplit(t *testing.T) {
	s := newSession(agendaDoc())
	out := s.HandleKey(editor.KeyEvent{Key: editor.KeyEnter, Shift: true, BlockID: "b1", Cursor: 5})
	assert.Equal(t, editor.IntentNone, out.Intent)
	assert.Len(t, s.Document().Sections[0].Blocks, 1)
}

func TestSession_BackspaceAtStartMerges(t *testing.T) {
	s := newSession(twoSectionDoc())
	s.PointSelect("a2")

	out := s.HandleKey(editor.KeyEvent{Key: editor.KeyBackspace, BlockID: "a2", Cursor: 0})
	assert.Equal(t, editor.IntentMergeDelete, out.Intent)
	assert.Equal(t, &editor.Focus{BlockID: "a1", Offset: 5}, out.Focus)
	assert.Equal(t, "firstsecond", s.Document().Sections[0].Blocks[0].Content)
	assert.Equal(t, []string{"a1"}, s.SelectedIDs())

	out = s.HandleKey(editor.KeyEvent{Key: editor.KeyBackspace, BlockID: "a1", Cursor: 3})
	assert.Equal(t, editor.IntentNone, out.Intent, "mid-content backspace is plain text editing")
}

func TestSession_BulkDeleteClearsSelection(t *testing.T) {
	s := newSession(twoSectionDoc())
	s.BeginDrag("a2")
	s.ExtendDrag("d1")
	s.EndDrag()
	require.Equal(t, []string{"a2", "a3", "d1"}, s.SelectedIDs())

	out := s.HandleKey(editor.KeyEvent{Key: editor.KeyDelete, BlockID: "a2", Cursor: 1})
	assert.Equal(t, editor.IntentBulkDelete, out.Intent)
	assert.True(t, out.Handled)
	assert.Empty(t, s.SelectedIDs())
	assert.Equal(t, editor.ModeIdle, s.Mode())
	assert.Len(t, s.Document().Sections[0].Blocks, 1)
	assert.Len(t, s.Document().Sections[1].Blocks, 1)
}

func TestSession_ArrowsNavigateAtBoundaries(t *testing.T) {
	s := newSession(twoSectionDoc())
	s.PointSelect("a3")

	out := s.HandleKey(editor.KeyEvent{Key: editor.KeyArrowDown, BlockID: "a3", Cursor: 2})
	assert.Equal(t, editor.IntentNone, out.Intent)

	before := s.Document()
	out = s.HandleKey(editor.KeyEvent{Key: editor.KeyArrowDown, BlockID: "a3", Cursor: len("third")})
	assert.Equal(t, editor.IntentNavigateDown, out.Intent)
	assert.Equal(t, []string{"d1"}, s.SelectedIDs())
	assert.Equal(t, before, s.Document(), "navigation never edits")

	out = s.HandleKey(editor.KeyEvent{Key: editor.KeyArrowUp, BlockID: "d1", Cursor: 0})
	assert.Equal(t, editor.IntentNavigateUp, out.Intent)
	assert.Equal(t, []string{"a3"}, s.SelectedIDs())
}

func TestSession_ShortcutsUndoRedoCopy(t *testing.T) {
	s := newSession(twoSectionDoc())
	s.RenameSection("Agenda", "Topics")

	out := s.HandleKey(editor.KeyEvent{Key: "z", Meta: true})
	assert.Equal(t, editor.IntentUndo, out.Intent)
	assert.Equal(t, "Agenda", s.Document().Sections[0].Title)

	out = s.HandleKey(editor.KeyEvent{Key: "Z", Ctrl: true, Shift: true})
	assert.Equal(t, editor.IntentRedo, out.Intent)
	assert.Equal(t, "Topics", s.Document().Sections[0].Title)

	s.RangeSelect("d2", "a3")
	out = s.HandleKey(editor.KeyEvent{Key: "c", Meta: true})
	assert.Equal(t, editor.IntentCopy, out.Intent)
	assert.Equal(t, "third\nship it\nhire", out.Clipboard)
	assert.True(t, out.Handled)

	s.ClearSelection()
	out = s.HandleKey(editor.KeyEvent{Key: "c", Ctrl: true})
	assert.Equal(t, editor.IntentCopy, out.Intent)
	assert.Empty(t, out.Clipboard)
	assert.False(t, out.Handled, "nothing selected leaves the native copy alone")
}

func TestSession_AddSectionSelectsNewBlock(t *testing.T) {
	s := editor.NewSession(domain.DefaultDocument(), editor.Options{})
	f := s.AddSection()

	doc := s.Document()
	require.Len(t, doc.Sections, 5)
	require.NotNil(t, f)
	assert.Equal(t, doc.Sections[4].Blocks[0].ID, f.BlockID)
	assert.Equal(t, []string{f.BlockID}, s.SelectedIDs())
}

func TestSession_DeleteLastBlockViaMergeClearsSelection(t *testing.T) {
	s := newSession(agendaDoc())
	s.PointSelect("b1")
	f, ok := s.MergeIntoPrevious("b1", "Hello")
	assert.True(t, ok)
	assert.Nil(t, f)
	assert.Empty(t, s.SelectedIDs())
}

func TestOpenPayloadAndResume(t *testing.T) {
	raw := domain.Document{Sections: []domain.Section{
		{Key: "Notes", Title: "Notes", Blocks: []domain.Block{{Content: " a "}, {Content: "b"}}},
	}}
	s := editor.OpenPayload(raw, editor.Options{IDs: &domain.SequenceSource{}})
	doc := s.Document()
	assert.Equal(t, "a", doc.Sections[0].Blocks[0].Content)
	assert.Equal(t, 2, len(doc.BlockIDs()))

	s.AddSection()
	resumed := editor.ResumeSession(s.History(), editor.Options{IDs: &domain.SequenceSource{}})
	assert.Equal(t, s.Document(), resumed.Document())

	// Ids from every snapshot are reserved, so new ids never collide.
	_, ok := resumed.SplitBlock(doc.Sections[0].Blocks[0].ID, "")
	require.True(t, ok)
	assert.Equal(t, resumed.Document().BlockCount(), len(resumed.Document().BlockIDs()))
}
