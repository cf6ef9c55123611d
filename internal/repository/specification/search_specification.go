package specification

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds an ILIKE pattern that matches q literally anywhere.
// Use it with ESCAPE '\'.
func ContainsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

// ContentSearchQuery matches title, slug or serialized data, case-insensitive.
type ContentSearchQuery struct {
	Query string
}

func (s ContentSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	if s.Query == "" {
		return db
	}
	pattern := ContainsPattern(s.Query)
	return db.Where(`(content.title ILIKE ? ESCAPE '\' OR content.slug ILIKE ? ESCAPE '\' OR content.data::text ILIKE ? ESCAPE '\')`, pattern, pattern, pattern)
}
