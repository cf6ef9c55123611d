package chunking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want string
	}{
		{
			name: "primary fields in order",
			data: map[string]any{"body": "Body", "title": "Title", "summary": "Sum"},
			want: "Title Body Sum",
		},
		{
			name: "short walked strings dropped",
			data: map[string]any{"title": "T", "tag": "short"},
			want: "T",
		},
		{
			name: "urls and id keys skipped",
			data: map[string]any{
				"title":       "T",
				"link_text":   "https://example.com/some/long/path",
				"author_id":   "abcdefghijklmnop",
				"featured":    map[string]any{"image_url": "not a url but skipped key"},
				"description": "Desc",
			},
			want: "T Desc",
		},
		{
			name: "nested structures walked",
			data: map[string]any{
				"blocks": []any{
					map[string]any{"caption": "first caption here"},
					"second long string",
					42,
				},
			},
			want: "first caption here second long string",
		},
		{
			name: "rich text body flattened",
			data: map[string]any{
				"title": "T",
				"body": ParseData(`{"root":{"type":"root","children":[
					{"type":"paragraph","children":[{"type":"text","text":"Hello world","format":1}]},
					{"type":"list","listType":"bullet","children":[
						{"type":"listitem","children":[{"type":"text","text":"alpha"}]},
						{"type":"listitem","children":[{"type":"text","text":"beta"}]}]}]}}`),
			},
			want: "T Hello world\n- alpha\n- beta",
		},
		{
			name: "serialized rich text in walked field",
			data: map[string]any{
				"notes": `{"root":{"type":"root","children":[{"type":"paragraph","children":[{"type":"text","text":"serialized rich text"}]}]}}`,
			},
			want: "serialized rich text",
		},
		{
			name: "empty record",
			data: map[string]any{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractText(tt.data))
		})
	}
}

func TestParseData_MalformedIsEmpty(t *testing.T) {
	assert.Empty(t, ParseData("{not json"))
	assert.Empty(t, ParseData(""))
	assert.Equal(t, "x", ParseData(`{"title":"x"}`)["title"])
}
