package app

import (
	"regexp"
	"strings"
)

const maxTracedQueryLength = 512

var (
	sqlLineCommentRegex = regexp.MustCompile(`--[^\n]*`)
	sqlStringLiteral    = regexp.MustCompile(`'(?:[^']|'')*'`)
	sqlSpaceRun         = regexp.MustCompile(`\s+`)
)

// formatDBQueryForTrace turns a statement into a single-line span attribute.
// Quoted literals are masked so contact details never reach the tracer; bound
// parameters ($1, $2, ...) are kept as-is.
func formatDBQueryForTrace(query string) string {
	query = sqlLineCommentRegex.ReplaceAllString(query, " ")
	query = sqlStringLiteral.ReplaceAllString(query, "'?'")
	query = strings.TrimSpace(sqlSpaceRun.ReplaceAllString(query, " "))
	if len(query) <= maxTracedQueryLength {
		return query
	}
	return query[:maxTracedQueryLength] + "..."
}
