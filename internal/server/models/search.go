package models

import (
	"fmt"
	"time"

	"github.com/rosvit/journal-backend/internal/common"
)

// SortOrder controls the created_at ordering of search results.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// SearchFilter is the per-request set of optional journal-entry filters.
// Every present field narrows the result (logical AND across fields); within
// Tags the match is any-of, so an entry qualifies when it carries at least one
// of the given tags. From and To are inclusive bounds; a nil bound leaves that
// side open. A zero Limit means "use the configured default page size".
type SearchFilter struct {
	EventTypeID string
	Tags        []string
	Description string
	From        *time.Time
	To          *time.Time
	Sort        SortOrder
	Offset      int
	Limit       int
}

// Normalize validates the filter and fills in defaults: the sort order falls
// back to newest-first and Limit is defaulted/clamped to the configured page
// sizes. A range with From after To is a validation failure, not an empty
// result, so the caller gets a definite signal about the bad input.
func (f *SearchFilter) Normalize(defaultLimit, maxLimit int) error {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return fmt.Errorf("%w: 'from' is after 'to'", common.ErrorValidation)
	}

	switch f.Sort {
	case "":
		f.Sort = SortDesc
	case SortAsc, SortDesc:
	default:
		return fmt.Errorf("%w: unknown sort order %q", common.ErrorValidation, f.Sort)
	}

	if f.Offset < 0 {
		return fmt.Errorf("%w: negative offset", common.ErrorValidation)
	}

	switch {
	case f.Limit < 0:
		return fmt.Errorf("%w: negative limit", common.ErrorValidation)
	case f.Limit == 0:
		f.Limit = defaultLimit
	case f.Limit > maxLimit:
		// Oversized limits are clamped rather than rejected.
		f.Limit = maxLimit
	}

	return nil
}
