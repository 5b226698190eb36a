package domain

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// MeetingNameKey is the payload entry that carries the meeting title rather
// than a section.
const MeetingNameKey = "MeetingName"

type sectionJSON struct {
	Title  string  `json:"title"`
	Blocks []Block `json:"blocks"`
}

// MarshalJSON encodes d as the summary object shape: one entry per section
// key in document order, plus MeetingName when the title is set.
func (d Document) MarshalJSON() ([]byte, error) {
	om := orderedmap.New[string, any](len(d.Sections) + 1)
	if d.Title != "" {
		om.Set(MeetingNameKey, d.Title)
	}
	for _, s := range d.Sections {
		blocks := s.Blocks
		if blocks == nil {
			blocks = []Block{}
		}
		om.Set(s.Key, sectionJSON{Title: s.Title, Blocks: blocks})
	}
	return json.Marshal(om)
}

// UnmarshalJSON decodes the summary object shape, keeping key order.
// Entries that are not valid section objects become empty sections, and a
// section without blocks gets an empty block list. Blocks are decoded one at
// a time: a field of the wrong type is reset, and only a block that is not
// an object at all is dropped.
func (d *Document) UnmarshalJSON(data []byte) error {
	om := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, om); err != nil {
		return fmt.Errorf("decode summary: %w", err)
	}

	doc := Document{Sections: make([]Section, 0, om.Len())}
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == MeetingNameKey {
			var title string
			if json.Unmarshal(pair.Value, &title) == nil {
				doc.Title = title
			}
			continue
		}
		doc.Sections = append(doc.Sections, decodeSection(pair.Key, pair.Value))
	}
	*d = doc
	return nil
}

func decodeSection(key string, data json.RawMessage) Section {
	sec := Section{Key: key, Blocks: []Block{}}
	var fields map[string]json.RawMessage
	if json.Unmarshal(data, &fields) != nil {
		return sec
	}
	var title any
	if json.Unmarshal(fields["title"], &title) == nil {
		sec.Title = scalarString(title)
	}
	var blocks []json.RawMessage
	if json.Unmarshal(fields["blocks"], &blocks) != nil {
		return sec
	}
	for _, raw := range blocks {
		var bf map[string]any
		if json.Unmarshal(raw, &bf) != nil || bf == nil {
			continue
		}
		b := Block{Content: scalarString(bf["content"])}
		// Ids must be strings; anything else is regenerated on intake.
		if id, ok := bf["id"].(string); ok {
			b.ID = id
		}
		if t, ok := bf["type"].(string); ok {
			b.Type = BlockType(t)
		}
		if c, ok := bf["color"].(string); ok {
			b.Color = Color(c)
		}
		sec.Blocks = append(sec.Blocks, b)
	}
	return sec
}

// scalarString renders strings, numbers and booleans as text. Objects,
// arrays and null become "".
func scalarString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64, bool:
		return fmt.Sprint(v)
	default:
		return ""
	}
}

// ParsePayload decodes a summary payload as handed over by the summarization
// service. The result is not normalized; see editor.OpenPayload.
func ParsePayload(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, err
	}
	return d, nil
}
