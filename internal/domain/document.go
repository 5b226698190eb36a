package domain

// Document is the full ordered collection of sections of one summary.
//
// A Document is treated as an immutable value: editing code builds a new
// Document (copying only the section and block slices it touches) instead of
// writing through an existing one, so older values stay valid as history
// snapshots.
type Document struct {
	Title    string
	Sections []Section
}

// BlockRef locates a block in the flattened order.
type BlockRef struct {
	BlockID    string `json:"blockId"`
	SectionKey string `json:"sectionKey"`
}

// DefaultDocument returns the empty document shown before any summary arrives.
func DefaultDocument() Document {
	return Document{Sections: []Section{
		{Key: "Agenda", Title: "Agenda", Blocks: []Block{}},
		{Key: "Decisions", Title: "Decisions", Blocks: []Block{}},
		{Key: "ActionItems", Title: "Action Items", Blocks: []Block{}},
		{Key: "ClosingRemarks", Title: "Closing Remarks", Blocks: []Block{}},
	}}
}

// Keys returns the section keys in document order.
func (d Document) Keys() []string {
	keys := make([]string, len(d.Sections))
	for i, s := range d.Sections {
		keys[i] = s.Key
	}
	return keys
}

// SectionIndex returns the position of the section with the given key, or -1.
func (d Document) SectionIndex(key string) int {
	for i, s := range d.Sections {
		if s.Key == key {
			return i
		}
	}
	return -1
}

// Section looks up a section by key.
func (d Document) Section(key string) (Section, bool) {
	i := d.SectionIndex(key)
	if i < 0 {
		return Section{}, false
	}
	return d.Sections[i], true
}

// HasSection reports whether key names a section of d.
func (d Document) HasSection(key string) bool {
	return d.SectionIndex(key) >= 0
}

// Flatten returns every block across all sections in section order, then
// per-section block order. It is recomputed on each call.
func Flatten(d Document) []BlockRef {
	refs := make([]BlockRef, 0, d.BlockCount())
	for _, s := range d.Sections {
		for _, b := range s.Blocks {
			refs = append(refs, BlockRef{BlockID: b.ID, SectionKey: s.Key})
		}
	}
	return refs
}

// FlatIndex returns the position of blockID in the flattened order, or -1.
func FlatIndex(refs []BlockRef, blockID string) int {
	for i, r := range refs {
		if r.BlockID == blockID {
			return i
		}
	}
	return -1
}

// FindOwningSection returns the key of the section holding blockID.
// ok is false when the id is stale.
func FindOwningSection(d Document, blockID string) (key string, ok bool) {
	for _, s := range d.Sections {
		if s.IndexOf(blockID) >= 0 {
			return s.Key, true
		}
	}
	return "", false
}

// Locate returns the section index and block index of blockID, or -1, -1.
func (d Document) Locate(blockID string) (sectionIdx, blockIdx int) {
	for i, s := range d.Sections {
		if j := s.IndexOf(blockID); j >= 0 {
			return i, j
		}
	}
	return -1, -1
}

// Block returns the block with the given id.
func (d Document) Block(blockID string) (Block, bool) {
	si, bi := d.Locate(blockID)
	if si < 0 {
		return Block{}, false
	}
	return d.Sections[si].Blocks[bi], true
}

// BlockCount is the sum of block counts across all sections.
func (d Document) BlockCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Blocks)
	}
	return n
}

// BlockIDs returns the set of every block id currently in the document.
func (d Document) BlockIDs() map[string]struct{} {
	ids := make(map[string]struct{}, d.BlockCount())
	for _, s := range d.Sections {
		for _, b := range s.Blocks {
			ids[b.ID] = struct{}{}
		}
	}
	return ids
}

// IsEmpty reports whether no section holds any block.
func (d Document) IsEmpty() bool {
	return d.BlockCount() == 0
}

// ── copy-on-write helpers ─────────────────────────────────

// WithSectionAt returns a copy of d where the section at i is replaced by s.
func (d Document) WithSectionAt(i int, s Section) Document {
	sections := make([]Section, len(d.Sections))
	copy(sections, d.Sections)
	sections[i] = s
	return Document{Title: d.Title, Sections: sections}
}

// WithoutSectionAt returns a copy of d without the section at i.
func (d Document) WithoutSectionAt(i int) Document {
	sections := make([]Section, 0, len(d.Sections)-1)
	sections = append(sections, d.Sections[:i]...)
	sections = append(sections, d.Sections[i+1:]...)
	return Document{Title: d.Title, Sections: sections}
}

// WithSectionAppended returns a copy of d with s added at the end.
func (d Document) WithSectionAppended(s Section) Document {
	sections := make([]Section, 0, len(d.Sections)+1)
	sections = append(sections, d.Sections...)
	sections = append(sections, s)
	return Document{Title: d.Title, Sections: sections}
}

// WithBlocks returns a copy of s holding blocks.
func (s Section) WithBlocks(blocks []Block) Section {
	return Section{Key: s.Key, Title: s.Title, Blocks: blocks}
}
