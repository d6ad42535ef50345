package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relpush/pkg/domain/types"
)

// Repository identifies a GitHub repository
type Repository struct {
	Owner string
	Name  string
}

// FullName returns the "owner/name" form of the repository
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// ParseRepository parses an "owner/name" string into a Repository.
// Exactly one separator splitting the string into two non-empty parts is
// required; anything else is a configuration error.
func ParseRepository(s string) (Repository, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Repository{}, goerr.New("repository must be in owner/name format",
			goerr.V("repository", s),
			goerr.T(types.TagConfig),
		)
	}

	return Repository{Owner: parts[0], Name: parts[1]}, nil
}
