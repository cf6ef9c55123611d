package queryparse

import (
	"strings"
)

// Operators holds filters written inline in the query text and the text left
// once they are removed.
type Operators struct {
	Collections []string
	Status      []string
	Author      string
	Text        string
}

// Parse pulls slash operators out of a raw query:
//
//	/in:<collection> or /collection:<collection>  restrict to a collection (repeatable)
//	/status:<status>                              restrict to a status (repeatable)
//	/author:<id>                                  restrict to an author
//
// Operator values are lowercased except the author id. Words that are not
// operators, or operators with an empty value, stay in Text.
func Parse(raw string) Operators {
	var ops Operators
	var clean []string

	for _, part := range strings.Fields(raw) {
		lower := strings.ToLower(part)

		switch {
		case hasValue(lower, "/in:"):
			ops.Collections = appendUnique(ops.Collections, strings.TrimPrefix(lower, "/in:"))
		case hasValue(lower, "/collection:"):
			ops.Collections = appendUnique(ops.Collections, strings.TrimPrefix(lower, "/collection:"))
		case hasValue(lower, "/status:"):
			ops.Status = appendUnique(ops.Status, strings.TrimPrefix(lower, "/status:"))
		case hasValue(lower, "/author:"):
			ops.Author = part[len("/author:"):]
		default:
			clean = append(clean, part)
		}
	}

	ops.Text = strings.Join(clean, " ")
	return ops
}

func hasValue(word, prefix string) bool {
	return strings.HasPrefix(word, prefix) && len(word) > len(prefix)
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
