package domain

type BlockType string

const (
	BlockTypeText     BlockType = "text"
	BlockTypeBullet   BlockType = "bullet"
	BlockTypeHeading1 BlockType = "heading1"
	BlockTypeHeading2 BlockType = "heading2"
)

// Valid reports whether t is one of the editable block types.
func (t BlockType) Valid() bool {
	switch t {
	case BlockTypeText, BlockTypeBullet, BlockTypeHeading1, BlockTypeHeading2:
		return true
	}
	return false
}

type Color string

const (
	ColorDefault Color = "default"
	ColorGray    Color = "gray"
)

func (c Color) Valid() bool {
	return c == ColorDefault || c == ColorGray
}

// Block is the atomic content unit of a summary document.
// IDs are unique across the whole Document, not just the owning section.
type Block struct {
	ID      string    `json:"id"`
	Type    BlockType `json:"type"`
	Content string    `json:"content"`
	Color   Color     `json:"color"`
}

// ColorOrDefault returns the block color, falling back to ColorDefault when unset.
func (b Block) ColorOrDefault() Color {
	if b.Color == "" {
		return ColorDefault
	}
	return b.Color
}

// Section is a named, ordered container of blocks.
type Section struct {
	Key    string  `json:"-"`
	Title  string  `json:"title"`
	Blocks []Block `json:"blocks"`
}

// IndexOf returns the position of blockID within the section, or -1.
func (s Section) IndexOf(blockID string) int {
	for i, b := range s.Blocks {
		if b.ID == blockID {
			return i
		}
	}
	return -1
}
