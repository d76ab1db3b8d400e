package ops

import (
	"database/sql"
	"strings"

	"ourjourney/internal/capture"
	"ourjourney/internal/db"
	"ourjourney/internal/entry"
	"ourjourney/internal/errors"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Type           *string
	Status         *string
	Category       *string
	Limit          int
	Offset         int
	IncludeDeleted bool
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Entries    []entry.Summary `json:"entries"`
	Pagination Pagination      `json:"pagination"`
}

// List retrieves entry summaries matching the filter, newest first.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	if input.Type != nil {
		typ := capture.EntryType(strings.ToLower(strings.TrimSpace(*input.Type)))
		if !capture.ValidType(string(typ)) {
			return nil, errors.NewInvalidType(*input.Type)
		}
		s := string(typ)
		input.Type = &s
	}
	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		if !entry.ValidStatus(status) {
			return nil, errors.NewInvalidRequest("status must be one of: active, completed, archived")
		}
		input.Status = &status
	}
	input.Category = cleanOptionalString(input.Category)

	limit := clampLimit(input.Limit)
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	summaries, total, err := db.List(database, db.ListFilter{
		Type:           input.Type,
		Status:         input.Status,
		Category:       input.Category,
		Limit:          limit,
		Offset:         offset,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return nil, err
	}

	if summaries == nil {
		summaries = []entry.Summary{}
	}

	return &ListOutput{
		Entries: summaries,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(summaries) < total,
			Total:   total,
		},
	}, nil
}
