package news

import "time"

// Article is a normalized story from the upstream news provider. Summaries
// are trimmed server-side so clients never render full article bodies.
type Article struct {
	Source      string
	Title       string
	Summary     string
	URL         string
	ImageURL    string
	PublishedAt time.Time
	Category    string
}

// Scope selects which upstream searches feed a query: Mexican outlets,
// international coverage, or both merged.
type Scope string

const (
	ScopeMX   Scope = "mx"
	ScopeIntl Scope = "intl"
	ScopeBoth Scope = "both"
)

type Query struct {
	Term     string
	Category string
	Scope    Scope
}
