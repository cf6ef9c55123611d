package lexical

// Root is the serialized editor state.
type Root struct {
	Root Node `json:"root"`
}

// Node is any node in the editor tree. Only the fields that carry text or
// structure are decoded.
type Node struct {
	Type     string `json:"type"`
	Children []Node `json:"children,omitempty"`

	Text string `json:"text,omitempty"`

	ListType string `json:"listType,omitempty"` // check, bullet, number
	Start    int    `json:"start,omitempty"`
	Checked  bool   `json:"checked,omitempty"`
}

const (
	TypeRoot      = "root"
	TypeParagraph = "paragraph"
	TypeHeading   = "heading"
	TypeQuote     = "quote"
	TypeText      = "text"
	TypeLineBreak = "linebreak"
	TypeTab       = "tab"
	TypeList      = "list"
	TypeListItem  = "listitem"
	TypeTable     = "table"
	TypeTableRow  = "tablerow"
	TypeLink      = "link"
	TypeAutoLink  = "autolink"
	TypeCode      = "code"
)
