package lexical

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleState = `{"root":{"type":"root","children":[
	{"type":"heading","tag":"h1","children":[{"type":"text","text":"Release notes"}]},
	{"type":"paragraph","children":[
		{"type":"text","text":"See "},
		{"type":"link","url":"https://example.com","children":[{"type":"text","text":"the docs"}]},
		{"type":"linebreak"},
		{"type":"text","text":"for details."}]},
	{"type":"list","listType":"number","start":3,"children":[
		{"type":"listitem","children":[{"type":"text","text":"three"}]},
		{"type":"listitem","children":[{"type":"text","text":"four"},
			{"type":"list","listType":"check","children":[
				{"type":"listitem","checked":true,"children":[{"type":"text","text":"done"}]}]}]}]},
	{"type":"table","children":[
		{"type":"tablerow","children":[
			{"type":"tablecell","children":[{"type":"paragraph","children":[{"type":"text","text":"Name"}]}]},
			{"type":"tablecell","children":[{"type":"paragraph","children":[{"type":"text","text":"Value"}]}]}]}]},
	{"type":"paragraph","children":[]}
]}}`

func TestPlainTextFromString(t *testing.T) {
	text, ok := PlainTextFromString(sampleState)
	require.True(t, ok)

	want := "Release notes\n" +
		"See the docs\n" +
		"for details.\n" +
		"3. three\n" +
		"4. four\n" +
		"  [x] done\n" +
		"Name | Value"
	assert.Equal(t, want, text)
}

func TestPlainText_DecodedState(t *testing.T) {
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(sampleState), &decoded))

	assert.True(t, IsEditorState(decoded))
	text, ok := PlainText(decoded)
	require.True(t, ok)
	assert.Contains(t, text, "Release notes")
	assert.Contains(t, text, "Name | Value")
}

func TestPlainText_NotEditorState(t *testing.T) {
	_, ok := PlainText(map[string]any{"root": "nope"})
	assert.False(t, ok)

	_, ok = PlainText("plain")
	assert.False(t, ok)

	text, ok := PlainTextFromString("just a sentence")
	assert.False(t, ok)
	assert.Equal(t, "just a sentence", text)

	text, ok = PlainTextFromString(`{"root": broken`)
	assert.False(t, ok)
	assert.Equal(t, `{"root": broken`, text)
}
