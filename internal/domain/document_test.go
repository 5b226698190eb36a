package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summaryedit/internal/domain"
)

func sampleDoc() domain.Document {
	return domain.Document{Sections: []domain.Section{
		{Key: "Agenda", Title: "Agenda", Blocks: []domain.Block{
			{ID: "a1", Type: domain.BlockTypeText, Content: "one"},
			{ID: "a2", Type: domain.BlockTypeBullet, Content: "two"},
		}},
		{Key: "Empty", Title: "Empty", Blocks: []domain.Block{}},
		{Key: "Decisions", Title: "Decisions", Blocks: []domain.Block{
			{ID: "d1", Type: domain.BlockTypeHeading1, Content: "three"},
		}},
	}}
}

func TestFlatten_Order(t *testing.T) {
	refs := domain.Flatten(sampleDoc())
	require.Len(t, refs, 3)
	assert.Equal(t, []domain.BlockRef{
		{BlockID: "a1", SectionKey: "Agenda"},
		{BlockID: "a2", SectionKey: "Agenda"},
		{BlockID: "d1", SectionKey: "Decisions"},
	}, refs)
}

func TestFlatten_LengthMatchesBlockCount(t *testing.T) {
	for _, d := range []domain.Document{{}, domain.DefaultDocument(), sampleDoc()} {
		assert.Equal(t, d.BlockCount(), len(domain.Flatten(d)))
	}
}

func TestFindOwningSection(t *testing.T) {
	d := sampleDoc()

	key, ok := domain.FindOwningSection(d, "d1")
	assert.True(t, ok)
	assert.Equal(t, "Decisions", key)

	_, ok = domain.FindOwningSection(d, "gone")
	assert.False(t, ok)
}

func TestDefaultDocument_HasEmptySections(t *testing.T) {
	d := domain.DefaultDocument()
	assert.Equal(t, []string{"Agenda", "Decisions", "ActionItems", "ClosingRemarks"}, d.Keys())
	for _, s := range d.Sections {
		assert.NotNil(t, s.Blocks, "section %s", s.Key)
		assert.Empty(t, s.Blocks)
	}
	assert.True(t, d.IsEmpty())
}

func TestWithSectionAt_DoesNotTouchOriginal(t *testing.T) {
	d := sampleDoc()
	renamed := d.Sections[0]
	renamed.Title = "Changed"

	next := d.WithSectionAt(0, renamed)
	assert.Equal(t, "Agenda", d.Sections[0].Title)
	assert.Equal(t, "Changed", next.Sections[0].Title)
}

func TestDocumentJSON_PreservesKeyOrder(t *testing.T) {
	payload := `{
		"Zeta": {"title": "Last letter", "blocks": [{"id": "z1", "type": "text", "content": "z"}]},
		"MeetingName": "Weekly sync",
		"Alpha": {"title": "First letter", "blocks": []}
	}`

	d, err := domain.ParsePayload([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, "Weekly sync", d.Title)
	assert.Equal(t, []string{"Zeta", "Alpha"}, d.Keys())

	out, err := json.Marshal(d)
	require.NoError(t, err)

	var again domain.Document
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, d, again)
}

func TestParsePayload_MissingFieldsDefaulted(t *testing.T) {
	d, err := domain.ParsePayload([]byte(`{"Notes": {}, "Broken": 42}`))
	require.NoError(t, err)
	require.Len(t, d.Sections, 2)
	for _, s := range d.Sections {
		assert.Equal(t, "", s.Title)
		assert.NotNil(t, s.Blocks)
		assert.Empty(t, s.Blocks)
	}
}

func TestParsePayload_MalformedBlockFieldsKeepSection(t *testing.T) {
	d, err := domain.ParsePayload([]byte(`{"Agenda": {"title": "Agenda", "blocks": [
		{"id": "a1", "content": "keep me"},
		{"id": 7, "content": "bad id"},
		{"id": "a3", "content": 42, "type": ["x"]},
		"not a block",
		{"content": "no id"}
	]}, "Odd": {"title": 5, "blocks": {"id": "x"}}}`))
	require.NoError(t, err)
	require.Len(t, d.Sections, 2)

	blocks := d.Sections[0].Blocks
	require.Len(t, blocks, 4)
	assert.Equal(t, domain.Block{ID: "a1", Content: "keep me"}, blocks[0])
	assert.Equal(t, domain.Block{ID: "", Content: "bad id"}, blocks[1])
	assert.Equal(t, domain.Block{ID: "a3", Content: "42"}, blocks[2])
	assert.Equal(t, domain.Block{ID: "", Content: "no id"}, blocks[3])

	assert.Equal(t, "5", d.Sections[1].Title)
	assert.Empty(t, d.Sections[1].Blocks)
}

func TestParsePayload_SyntaxError(t *testing.T) {
	_, err := domain.ParsePayload([]byte(`{"Notes": `))
	assert.Error(t, err)
}

func TestSequenceSource(t *testing.T) {
	var s domain.SequenceSource
	assert.Equal(t, "Agenda-1", s.NewID("Agenda"))
	assert.Equal(t, "2", s.NewID(""))
}
