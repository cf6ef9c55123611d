package chunking

import (
	"encoding/json"
	"sort"
	"strings"

	"ai-search-be/pkg/lexical"
)

// primaryFields are read first and in this order.
var primaryFields = []string{"title", "name", "description", "content", "body", "text", "summary"}

const minWalkedStringLen = 10

// ParseData decodes a serialized content record. Malformed data is treated as
// an empty record so it simply yields no chunks.
func ParseData(raw string) map[string]any {
	data := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return data
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return map[string]any{}
	}
	return data
}

// ExtractText flattens a record into searchable text.
func ExtractText(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}

	var parts []string
	for _, field := range primaryFields {
		if s := fieldText(data[field]); s != "" {
			parts = append(parts, s)
		}
	}

	primary := make(map[string]struct{}, len(primaryFields))
	for _, f := range primaryFields {
		primary[f] = struct{}{}
	}

	keys := sortedKeys(data)
	for _, k := range keys {
		if _, ok := primary[k]; ok || skipKey(k) {
			continue
		}
		parts = walk(data[k], parts)
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}

// fieldText reads a primary field: plain strings and rich text state, either
// decoded or serialized.
func fieldText(v any) string {
	switch val := v.(type) {
	case string:
		if text, ok := lexical.PlainTextFromString(val); ok {
			return text
		}
		return strings.TrimSpace(val)
	case map[string]any:
		if text, ok := lexical.PlainText(val); ok {
			return text
		}
	}
	return ""
}

func walk(v any, parts []string) []string {
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		if text, ok := lexical.PlainTextFromString(s); ok {
			s = text
		}
		if len(s) > minWalkedStringLen && !isURL(s) {
			parts = append(parts, s)
		}
	case []any:
		for _, item := range val {
			parts = walk(item, parts)
		}
	case map[string]any:
		if text, ok := lexical.PlainText(val); ok {
			if text != "" {
				parts = append(parts, text)
			}
			return parts
		}
		for _, k := range sortedKeys(val) {
			if skipKey(k) {
				continue
			}
			parts = walk(val[k], parts)
		}
	}
	return parts
}

func skipKey(key string) bool {
	k := strings.ToLower(key)
	switch k {
	case "id", "uuid", "slug", "url", "href", "src", "link", "image", "images", "thumbnail",
		"media", "file", "files", "icon", "avatar", "video", "audio", "attachment", "attachments":
		return true
	}
	return strings.HasSuffix(k, "_id") || strings.HasSuffix(k, "_url") ||
		strings.HasSuffix(k, "_image") || strings.HasSuffix(k, "_media")
}

func isURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "data:")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
