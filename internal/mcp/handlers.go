package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"ourjourney/internal/config"
	"ourjourney/internal/errors"
	"ourjourney/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

// Request types for each tool

// CaptureRequest represents the arguments for capture.
type CaptureRequest struct {
	Text   string   `json:"text"`
	Author *string  `json:"author,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

// AddRequest represents the arguments for add.
type AddRequest struct {
	Type       string   `json:"type"`
	Title      string   `json:"title"`
	Content    string   `json:"content,omitempty"`
	Category   *string  `json:"category,omitempty"`
	Mood       *string  `json:"mood,omitempty"`
	Progress   *int     `json:"progress,omitempty"`
	TargetDate *string  `json:"target_date,omitempty"`
	TargetTime *string  `json:"target_time,omitempty"`
	Location   *string  `json:"location,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Author     *string  `json:"author,omitempty"`
}

// FetchRequest represents the arguments for fetch.
type FetchRequest struct {
	ID             string `json:"id"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
}

// ListRequest represents the arguments for list.
type ListRequest struct {
	Type           *string `json:"type,omitempty"`
	Status         *string `json:"status,omitempty"`
	Category       *string `json:"category,omitempty"`
	Limit          int     `json:"limit,omitempty"`
	Offset         int     `json:"offset,omitempty"`
	IncludeDeleted bool    `json:"include_deleted,omitempty"`
}

// UpdateRequest represents the arguments for update.
type UpdateRequest struct {
	ID         string   `json:"id"`
	Title      *string  `json:"title,omitempty"`
	Content    *string  `json:"content,omitempty"`
	Category   *string  `json:"category,omitempty"`
	Mood       *string  `json:"mood,omitempty"`
	Status     *string  `json:"status,omitempty"`
	Progress   *int     `json:"progress,omitempty"`
	TargetDate *string  `json:"target_date,omitempty"`
	TargetTime *string  `json:"target_time,omitempty"`
	Location   *string  `json:"location,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// DeleteRequest represents the arguments for delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// PurgeRequest represents the arguments for purge.
type PurgeRequest struct {
	OlderThanDays *int `json:"older_than_days,omitempty"`
}

// CalendarRequest represents the arguments for calendar.
type CalendarRequest struct {
	Year  int    `json:"year,omitempty"`
	Month int    `json:"month,omitempty"`
	Date  string `json:"date,omitempty"`
}

// RitualSaveRequest represents the arguments for ritual_save.
type RitualSaveRequest struct {
	WeekOf      *string `json:"week_of,omitempty"`
	Gratitude   *string `json:"gratitude,omitempty"`
	Challenges  *string `json:"challenges,omitempty"`
	Excitement  *string `json:"excitement,omitempty"`
	MoodScore   *int    `json:"mood_score,omitempty"`
	Reflections *string `json:"reflections,omitempty"`
}

// ExportRequest represents the arguments for export.
type ExportRequest struct {
	Path           string  `json:"path,omitempty"`
	Format         string  `json:"format,omitempty"`
	Type           *string `json:"type,omitempty"`
	IncludeDeleted bool    `json:"include_deleted,omitempty"`
}

// Handler implementations

// HandleCapture handles the capture tool call.
func (h *Handlers) HandleCapture(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CaptureRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Capture(h.db, ops.CaptureInput{
		Text:   input.Text,
		Author: input.Author,
		Tags:   input.Tags,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleAdd handles the add tool call.
func (h *Handlers) HandleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Add(h.db, ops.AddInput{
		Type:       input.Type,
		Title:      input.Title,
		Content:    input.Content,
		Category:   input.Category,
		Mood:       input.Mood,
		Progress:   input.Progress,
		TargetDate: input.TargetDate,
		TargetTime: input.TargetTime,
		Location:   input.Location,
		Tags:       input.Tags,
		Author:     input.Author,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFetch handles the fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(h.db, ops.FetchInput{
		ID:             input.ID,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(h.db, ops.ListInput{
		Type:           input.Type,
		Status:         input.Status,
		Category:       input.Category,
		Limit:          input.Limit,
		Offset:         input.Offset,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleUpdate handles the update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Update(h.db, ops.UpdateInput{
		ID:         input.ID,
		Title:      input.Title,
		Content:    input.Content,
		Category:   input.Category,
		Mood:       input.Mood,
		Status:     input.Status,
		Progress:   input.Progress,
		TargetDate: input.TargetDate,
		TargetTime: input.TargetTime,
		Location:   input.Location,
		Tags:       input.Tags,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(h.db, ops.DeleteInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePurge handles the purge tool call.
func (h *Handlers) HandlePurge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PurgeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Purge(h.db, ops.PurgeInput{OlderThanDays: input.OlderThanDays})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCalendar handles the calendar tool call.
func (h *Handlers) HandleCalendar(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CalendarRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	// Day mode wins when a date is given
	if input.Date != "" {
		result, err := ops.CalendarDay(h.db, ops.CalendarDayInput{Date: input.Date})
		if err != nil {
			return errorResult(err), nil
		}
		return successResult(result)
	}

	result, err := ops.CalendarMonth(h.db, ops.CalendarMonthInput{
		Year:  input.Year,
		Month: input.Month,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRitualCurrent handles the ritual_current tool call.
func (h *Handlers) HandleRitualCurrent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.RitualCurrent(h.db)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRitualSave handles the ritual_save tool call.
func (h *Handlers) HandleRitualSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RitualSaveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.RitualSave(h.db, ops.RitualSaveInput{
		WeekOf:      input.WeekOf,
		Gratitude:   input.Gratitude,
		Challenges:  input.Challenges,
		Excitement:  input.Excitement,
		MoodScore:   input.MoodScore,
		Reflections: input.Reflections,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleInsights handles the insights tool call.
func (h *Handlers) HandleInsights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Insights(h.db)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.db, h.cfg, ops.ExportInput{
		Path:           input.Path,
		Format:         input.Format,
		Type:           input.Type,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if jErr, ok := err.(*errors.JournalError); ok {
		errorObj := map[string]any{
			"code":    jErr.Code,
			"message": jErr.Message,
			"status":  jErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if jErr.Code != errors.ErrInternal && jErr.Details != nil {
			errorObj["details"] = jErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
