package editor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"summaryedit/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Mutator — every structural edit of a summary document
// ─────────────────────────────────────────────────────────────

// NewSectionTitle is the title given to sections created by AddSection.
const NewSectionTitle = "New Section"

// EditKind labels an edit for history bookkeeping.
type EditKind string

const (
	EditLoad          EditKind = "load"
	EditContent       EditKind = "content"
	EditType          EditKind = "type"
	EditColor         EditKind = "color"
	EditSplit         EditKind = "split"
	EditMerge         EditKind = "merge"
	EditDelete        EditKind = "delete"
	EditRenameSection EditKind = "rename-section"
	EditDeleteSection EditKind = "delete-section"
	EditAddSection    EditKind = "add-section"
	EditMoveSection   EditKind = "move-section"
)

// Focus is a requested cursor placement for the presentation layer.
// Offset counts runes from the start of the block content.
type Focus struct {
	BlockID string `json:"blockId"`
	Offset  int    `json:"offset"`
}

// Edit is the result of a Mutator operation. When Changed is false, Doc is
// the input document unchanged.
type Edit struct {
	Doc     domain.Document
	Kind    EditKind
	Changed bool
	// Target is the block the edit was aimed at, when there is one.
	Target string
	Focus  *Focus
}

func unchanged(doc domain.Document, kind EditKind) Edit {
	return Edit{Doc: doc, Kind: kind}
}

// Mutator applies edits to documents. Documents are never modified in place.
// The Mutator itself remembers every id it has handed out so that ids are
// not reused after their block is deleted.
type Mutator struct {
	ids    domain.IDSource
	issued map[string]struct{}
}

// NewMutator creates a Mutator drawing ids from ids (UUIDs when nil).
func NewMutator(ids domain.IDSource) *Mutator {
	if ids == nil {
		ids = domain.UUIDSource{}
	}
	return &Mutator{ids: ids, issued: make(map[string]struct{})}
}

// Reserve records ids as already used.
func (m *Mutator) Reserve(doc domain.Document) {
	for id := range doc.BlockIDs() {
		m.issued[id] = struct{}{}
	}
}

func (m *Mutator) newBlockID(doc domain.Document, sectionKey string) string {
	existing := doc.BlockIDs()
	for attempt := 0; ; attempt++ {
		id := m.ids.NewID(sectionKey)
		if attempt >= 16 {
			id = fmt.Sprintf("%s-%s", id, uuid.NewString())
		}
		if _, taken := existing[id]; taken {
			continue
		}
		if _, taken := m.issued[id]; taken {
			continue
		}
		m.issued[id] = struct{}{}
		return id
	}
}

func newSectionKey(doc domain.Document) string {
	for n := len(doc.Sections) + 1; ; n++ {
		key := fmt.Sprintf("section%d", n)
		if !doc.HasSection(key) {
			return key
		}
	}
}

// Normalize prepares a freshly arrived summary for editing: every block
// becomes a default-colored bullet with trimmed content, and missing or
// colliding ids are replaced.
func (m *Mutator) Normalize(raw domain.Document) domain.Document {
	doc := domain.Document{Title: raw.Title, Sections: make([]domain.Section, 0, len(raw.Sections))}
	seen := make(map[string]struct{})
	var pending []struct{ si, bi int }

	for si, s := range raw.Sections {
		blocks := make([]domain.Block, len(s.Blocks))
		for bi, b := range s.Blocks {
			blocks[bi] = domain.Block{
				ID:      b.ID,
				Type:    domain.BlockTypeBullet,
				Content: strings.TrimSpace(b.Content),
				Color:   domain.ColorDefault,
			}
			if _, dup := seen[b.ID]; b.ID == "" || dup {
				pending = append(pending, struct{ si, bi int }{si, bi})
				continue
			}
			seen[b.ID] = struct{}{}
		}
		doc.Sections = append(doc.Sections, domain.Section{Key: s.Key, Title: s.Title, Blocks: blocks})
	}

	m.Reserve(doc)
	for _, p := range pending {
		doc.Sections[p.si].Blocks[p.bi].ID = m.newBlockID(doc, doc.Sections[p.si].Key)
	}
	return doc
}

// ── Block edits ────────────────────────────────────────────

// ChangeContent replaces the content of one block in the given section.
func (m *Mutator) ChangeContent(doc domain.Document, sectionKey, blockID, text string) Edit {
	si := doc.SectionIndex(sectionKey)
	if si < 0 {
		return unchanged(doc, EditContent)
	}
	bi := doc.Sections[si].IndexOf(blockID)
	if bi < 0 || doc.Sections[si].Blocks[bi].Content == text {
		return unchanged(doc, EditContent)
	}
	next := updateBlock(doc, si, bi, func(b *domain.Block) { b.Content = text })
	return Edit{Doc: next, Kind: EditContent, Changed: true, Target: blockID}
}

// ChangeType retypes the block wherever it lives.
func (m *Mutator) ChangeType(doc domain.Document, blockID string, t domain.BlockType) Edit {
	si, bi := doc.Locate(blockID)
	if si < 0 || !t.Valid() || doc.Sections[si].Blocks[bi].Type == t {
		return unchanged(doc, EditType)
	}
	next := updateBlock(doc, si, bi, func(b *domain.Block) { b.Type = t })
	return Edit{Doc: next, Kind: EditType, Changed: true, Target: blockID}
}

// ChangeColor recolors the block wherever it lives.
func (m *Mutator) ChangeColor(doc domain.Document, blockID string, c domain.Color) Edit {
	si, bi := doc.Locate(blockID)
	if si < 0 || !c.Valid() || doc.Sections[si].Blocks[bi].Color == c {
		return unchanged(doc, EditColor)
	}
	next := updateBlock(doc, si, bi, func(b *domain.Block) { b.Color = c })
	return Edit{Doc: next, Kind: EditColor, Changed: true, Target: blockID}
}

// SplitBlock inserts a new block holding tailText right after blockID.
// Bullets continue as bullets, every other type continues as plain text.
// The focus moves to the start of the new block.
func (m *Mutator) SplitBlock(doc domain.Document, blockID, tailText string) Edit {
	si, bi := doc.Locate(blockID)
	if si < 0 {
		return unchanged(doc, EditSplit)
	}
	return m.split(doc, si, bi, nil, tailText)
}

// SplitBlockAt divides the content of blockID at a rune offset: the head
// stays, the tail moves into a new block inserted after it.
func (m *Mutator) SplitBlockAt(doc domain.Document, blockID string, offset int) Edit {
	si, bi := doc.Locate(blockID)
	if si < 0 {
		return unchanged(doc, EditSplit)
	}
	runes := []rune(doc.Sections[si].Blocks[bi].Content)
	offset = max(0, min(offset, len(runes)))
	head := string(runes[:offset])
	return m.split(doc, si, bi, &head, string(runes[offset:]))
}

func (m *Mutator) split(doc domain.Document, si, bi int, head *string, tail string) Edit {
	sec := doc.Sections[si]
	src := sec.Blocks[bi]

	newType := domain.BlockTypeText
	if src.Type == domain.BlockTypeBullet {
		newType = domain.BlockTypeBullet
	}
	nb := domain.Block{
		ID:      m.newBlockID(doc, sec.Key),
		Type:    newType,
		Content: tail,
		Color:   src.ColorOrDefault(),
	}

	blocks := make([]domain.Block, 0, len(sec.Blocks)+1)
	blocks = append(blocks, sec.Blocks[:bi+1]...)
	blocks = append(blocks, nb)
	blocks = append(blocks, sec.Blocks[bi+1:]...)
	if head != nil {
		blocks[bi].Content = *head
	}

	return Edit{
		Doc:     doc.WithSectionAt(si, sec.WithBlocks(blocks)),
		Kind:    EditSplit,
		Changed: true,
		Target:  nb.ID,
		Focus:   &Focus{BlockID: nb.ID, Offset: 0},
	}
}

// MergeIntoPrevious removes blockID. When mergeText is non-empty and a
// previous block exists in the same section, mergeText is appended to that
// block and the focus lands at the join point. Otherwise the block is simply
// deleted and the focus moves to the block before it (or the first block).
func (m *Mutator) MergeIntoPrevious(doc domain.Document, blockID, mergeText string) Edit {
	si, bi := doc.Locate(blockID)
	if si < 0 {
		return unchanged(doc, EditMerge)
	}
	sec := doc.Sections[si]

	blocks := make([]domain.Block, 0, len(sec.Blocks)-1)
	blocks = append(blocks, sec.Blocks[:bi]...)
	blocks = append(blocks, sec.Blocks[bi+1:]...)

	var focus *Focus
	if mergeText != "" && bi > 0 {
		prev := blocks[bi-1]
		join := utf8.RuneCountInString(prev.Content)
		prev.Content += mergeText
		blocks[bi-1] = prev
		focus = &Focus{BlockID: prev.ID, Offset: join}
	} else if len(blocks) > 0 {
		target := blocks[max(0, bi-1)]
		focus = &Focus{BlockID: target.ID, Offset: utf8.RuneCountInString(target.Content)}
	}

	return Edit{
		Doc:     doc.WithSectionAt(si, sec.WithBlocks(blocks)),
		Kind:    EditMerge,
		Changed: true,
		Target:  blockID,
		Focus:   focus,
	}
}

// DeleteBlocks removes every listed block in one pass per section. Sections
// left without blocks are kept.
func (m *Mutator) DeleteBlocks(doc domain.Document, blockIDs []string) Edit {
	drop := lo.Associate(blockIDs, func(id string) (string, struct{}) { return id, struct{}{} })

	next := doc
	changed := false
	for si, sec := range doc.Sections {
		kept := lo.Filter(sec.Blocks, func(b domain.Block, _ int) bool {
			_, gone := drop[b.ID]
			return !gone
		})
		if len(kept) == len(sec.Blocks) {
			continue
		}
		next = next.WithSectionAt(si, sec.WithBlocks(kept))
		changed = true
	}
	if !changed {
		return unchanged(doc, EditDelete)
	}
	return Edit{Doc: next, Kind: EditDelete, Changed: true}
}

// ── Section edits ──────────────────────────────────────────

// RenameSection replaces only the section title.
func (m *Mutator) RenameSection(doc domain.Document, sectionKey, title string) Edit {
	si := doc.SectionIndex(sectionKey)
	if si < 0 || doc.Sections[si].Title == title {
		return unchanged(doc, EditRenameSection)
	}
	sec := doc.Sections[si]
	sec.Title = title
	return Edit{Doc: doc.WithSectionAt(si, sec), Kind: EditRenameSection, Changed: true}
}

// DeleteSection removes the section and all of its blocks.
func (m *Mutator) DeleteSection(doc domain.Document, sectionKey string) Edit {
	si := doc.SectionIndex(sectionKey)
	if si < 0 {
		return unchanged(doc, EditDeleteSection)
	}
	return Edit{Doc: doc.WithoutSectionAt(si), Kind: EditDeleteSection, Changed: true}
}

// AddSection appends a "New Section" holding one empty text block and
// focuses that block.
func (m *Mutator) AddSection(doc domain.Document) Edit {
	key := newSectionKey(doc)
	block := domain.Block{
		ID:      m.newBlockID(doc, key),
		Type:    domain.BlockTypeText,
		Content: "",
		Color:   domain.ColorDefault,
	}
	sec := domain.Section{Key: key, Title: NewSectionTitle, Blocks: []domain.Block{block}}
	return Edit{
		Doc:     doc.WithSectionAppended(sec),
		Kind:    EditAddSection,
		Changed: true,
		Target:  block.ID,
		Focus:   &Focus{BlockID: block.ID, Offset: 0},
	}
}

// MoveSection shifts a section by delta positions, clamped to the ends.
func (m *Mutator) MoveSection(doc domain.Document, sectionKey string, delta int) Edit {
	from := doc.SectionIndex(sectionKey)
	if from < 0 {
		return unchanged(doc, EditMoveSection)
	}
	to := max(0, min(from+delta, len(doc.Sections)-1))
	if to == from {
		return unchanged(doc, EditMoveSection)
	}
	moved := doc.Sections[from]
	next := doc.WithoutSectionAt(from)
	sections := make([]domain.Section, 0, len(doc.Sections))
	sections = append(sections, next.Sections[:to]...)
	sections = append(sections, moved)
	sections = append(sections, next.Sections[to:]...)
	return Edit{Doc: domain.Document{Title: doc.Title, Sections: sections}, Kind: EditMoveSection, Changed: true}
}

// ── helpers ────────────────────────────────────────────────

func updateBlock(doc domain.Document, si, bi int, fn func(b *domain.Block)) domain.Document {
	sec := doc.Sections[si]
	blocks := make([]domain.Block, len(sec.Blocks))
	copy(blocks, sec.Blocks)
	fn(&blocks[bi])
	return doc.WithSectionAt(si, sec.WithBlocks(blocks))
}
