package types

import "github.com/m-mizutani/goerr/v2"

// Error tags for classifying failures. The CLI layer uses these to decide
// exit messaging; tests use them to assert failure modes.
var (
	// TagConfig marks errors caused by invalid or missing configuration:
	// malformed repository identity, unreadable version file, etc.
	TagConfig = goerr.NewTag("config")

	// TagNotFound marks lookups that completed but matched nothing,
	// e.g. no release exists for the requested tag.
	TagNotFound = goerr.NewTag("not_found")
)
