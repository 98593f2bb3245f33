package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rosvit/journal-backend/internal/common"
	"github.com/rosvit/journal-backend/internal/server/models"
)

var validate = validator.New()

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type eventTypeRequest struct {
	Name string   `json:"name" validate:"required,max=128"`
	Tags []string `json:"tags" validate:"omitempty,dive,required,max=64"`
}

type createEntryRequest struct {
	EventTypeID string     `json:"event_type_id" validate:"required,uuid4"`
	Description *string    `json:"description" validate:"omitempty,max=4096"`
	Tags        []string   `json:"tags" validate:"omitempty,dive,required,max=64"`
	CreatedAt   *time.Time `json:"created_at"`
}

type updateEntryRequest struct {
	Description *string  `json:"description" validate:"omitempty,max=4096"`
	Tags        []string `json:"tags" validate:"omitempty,dive,required,max=64"`
}

type idResponse struct {
	ID string `json:"id"`
}

// pathID extracts and validates a UUID path parameter. Rejecting malformed
// ids here keeps them from reaching the database as query errors.
func pathID(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: bad %s", common.ErrorValidation, name)
	}
	return id.String(), nil
}

// decodeJSON parses the request body into dst and runs the validator. Both a
// body that does not parse and a body that fails validation map to
// common.ErrorValidation.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %s", common.ErrorValidation, err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", common.ErrorValidation, err)
	}
	return nil
}

// parseSearchFilter reads the entry search parameters from the query string.
// Tags may be given as repeated tag params or one comma-separated tags param.
// Range bounds are RFC 3339 timestamps.
func parseSearchFilter(r *http.Request) (*models.SearchFilter, error) {
	q := r.URL.Query()
	filter := &models.SearchFilter{
		EventTypeID: q.Get("event_type_id"),
		Description: q.Get("description"),
	}

	tags := q["tag"]
	if csv := q.Get("tags"); csv != "" {
		for _, tag := range strings.Split(csv, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	filter.Tags = tags

	if v := q.Get("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("%w: bad 'from' timestamp", common.ErrorValidation)
		}
		filter.From = &from
	}
	if v := q.Get("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("%w: bad 'to' timestamp", common.ErrorValidation)
		}
		filter.To = &to
	}

	if v := q.Get("sort"); v != "" {
		filter.Sort = models.SortOrder(strings.ToUpper(v))
	}

	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: bad offset", common.ErrorValidation)
		}
		filter.Offset = offset
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: bad limit", common.ErrorValidation)
		}
		filter.Limit = limit
	}

	return filter, nil
}
