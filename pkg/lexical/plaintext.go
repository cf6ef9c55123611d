package lexical

import (
	"encoding/json"
	"strconv"
	"strings"
)

// IsEditorState reports whether v is a decoded editor state, i.e. an object
// whose "root" member is a node of type root.
func IsEditorState(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	root, ok := m["root"].(map[string]any)
	if !ok {
		return false
	}
	t, _ := root["type"].(string)
	return t == TypeRoot
}

// LooksSerialized is a cheap prefix check for editor state stored as a string.
func LooksSerialized(s string) bool {
	trimmed := strings.TrimSpace(s)
	return strings.HasPrefix(trimmed, `{"root":`) || strings.HasPrefix(trimmed, `{ "root":`)
}

// PlainText flattens a decoded editor state. Blocks are separated by newlines,
// list items get a marker and table cells are joined with " | ".
func PlainText(v any) (string, bool) {
	if !IsEditorState(v) {
		return "", false
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return parse(raw)
}

// PlainTextFromString is PlainText for serialized state. Anything that is not
// editor state comes back unchanged with ok false.
func PlainTextFromString(s string) (string, bool) {
	if !LooksSerialized(s) {
		return s, false
	}
	text, ok := parse([]byte(s))
	if !ok {
		return s, false
	}
	return text, true
}

func parse(raw []byte) (string, bool) {
	var root Root
	if err := json.Unmarshal(raw, &root); err != nil || root.Root.Type != TypeRoot {
		return "", false
	}
	var sb strings.Builder
	writeBlocks(&sb, root.Root.Children, 0)
	return strings.TrimSpace(collapseBlankLines(sb.String())), true
}

func writeBlocks(sb *strings.Builder, nodes []Node, depth int) {
	for _, n := range nodes {
		switch n.Type {
		case TypeList:
			writeList(sb, n, depth)
		case TypeTable:
			writeTable(sb, n)
		default:
			writeInline(sb, n)
			sb.WriteString("\n")
		}
	}
}

func writeInline(sb *strings.Builder, n Node) {
	switch n.Type {
	case TypeText, TypeCode:
		sb.WriteString(n.Text)
	case TypeLineBreak:
		sb.WriteString("\n")
	case TypeTab:
		sb.WriteString(" ")
	}
	for _, child := range n.Children {
		if child.Type == TypeList {
			sb.WriteString("\n")
			writeList(sb, child, 1)
			continue
		}
		writeInline(sb, child)
	}
}

func writeList(sb *strings.Builder, list Node, depth int) {
	index := 1
	if list.Start > 0 {
		index = list.Start
	}
	for _, item := range list.Children {
		if item.Type != TypeListItem {
			continue
		}
		sb.WriteString(strings.Repeat("  ", depth))
		switch list.ListType {
		case "number":
			sb.WriteString(strconv.Itoa(index) + ". ")
			index++
		case "check":
			if item.Checked {
				sb.WriteString("[x] ")
			} else {
				sb.WriteString("[ ] ")
			}
		default:
			sb.WriteString("- ")
		}

		for _, child := range item.Children {
			if child.Type == TypeList {
				sb.WriteString("\n")
				writeList(sb, child, depth+1)
				continue
			}
			writeInline(sb, child)
		}
		sb.WriteString("\n")
	}
}

func writeTable(sb *strings.Builder, table Node) {
	for _, row := range table.Children {
		if row.Type != TypeTableRow {
			continue
		}
		cells := make([]string, 0, len(row.Children))
		for _, cell := range row.Children {
			var cellSb strings.Builder
			for _, content := range cell.Children {
				writeInline(&cellSb, content)
				cellSb.WriteString(" ")
			}
			cells = append(cells, strings.Join(strings.Fields(cellSb.String()), " "))
		}
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString("\n")
	}
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, strings.TrimRight(line, " "))
	}
	return strings.Join(out, "\n")
}
