package web

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/emersion/go-ical"

	"ourjourney/internal/config"
	"ourjourney/internal/db"
	"ourjourney/internal/errors"
	"ourjourney/internal/ics"
	"ourjourney/internal/ops"
)

// Handlers contains HTTP route handlers for the journal API.
type Handlers struct {
	db      *sql.DB
	cfg     *config.Config
	version string
}

// HandleHealth handles GET /api/health — liveness probe.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(); err != nil {
		renderError(w, errors.NewInternal(err))
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": h.version,
	})
}

// HandleLogin handles POST /api/auth/login — shared-password check.
// Returns the password back as the bearer token the client should use.
func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	if h.cfg.AuthPassword == "" || body.Password != h.cfg.AuthPassword {
		renderError(w, errors.NewUnauthorized())
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{
		"token": h.cfg.AuthPassword,
	})
}

// HandleCapture handles POST /api/capture — natural-language quick capture.
func (h *Handlers) HandleCapture(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text   string   `json:"text"`
		Author *string  `json:"author"`
		Tags   []string `json:"tags"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.Capture(h.db, ops.CaptureInput{
		Text:   body.Text,
		Author: body.Author,
		Tags:   body.Tags,
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusCreated, result)
}

// HandleListEntries handles GET /api/entries — filtered entry listing.
func (h *Handlers) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	input := ops.ListInput{
		Type:           ptrString(r.URL.Query().Get("type")),
		Status:         ptrString(r.URL.Query().Get("status")),
		Category:       ptrString(r.URL.Query().Get("category")),
		Limit:          parseIntParam(r, "limit", 0),
		Offset:         parseIntParam(r, "offset", 0),
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	}

	result, err := ops.List(h.db, input)
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// HandleCreateEntry handles POST /api/entries — explicit entry creation.
func (h *Handlers) HandleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type       string   `json:"type"`
		Title      string   `json:"title"`
		Content    string   `json:"content"`
		Category   *string  `json:"category"`
		Mood       *string  `json:"mood"`
		Progress   *int     `json:"progress"`
		TargetDate *string  `json:"target_date"`
		TargetTime *string  `json:"target_time"`
		Location   *string  `json:"location"`
		Tags       []string `json:"tags"`
		Author     *string  `json:"author"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.Add(h.db, ops.AddInput{
		Type:       body.Type,
		Title:      body.Title,
		Content:    body.Content,
		Category:   body.Category,
		Mood:       body.Mood,
		Progress:   body.Progress,
		TargetDate: body.TargetDate,
		TargetTime: body.TargetTime,
		Location:   body.Location,
		Tags:       body.Tags,
		Author:     body.Author,
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusCreated, result)
}

// HandleGetEntry handles GET /api/entries/{id}.
func (h *Handlers) HandleGetEntry(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Fetch(h.db, ops.FetchInput{
		ID:             r.PathValue("id"),
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// HandleEntryHTML handles GET /api/entries/{id}/html — the entry content
// rendered from markdown for the detail view.
func (h *Handlers) HandleEntryHTML(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Fetch(h.db, ops.FetchInput{ID: r.PathValue("id")})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{
		"id":   result.ID,
		"html": renderMarkdown(result.Content),
	})
}

// HandleUpdateEntry handles PATCH /api/entries/{id} — partial update.
func (h *Handlers) HandleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title      *string  `json:"title"`
		Content    *string  `json:"content"`
		Category   *string  `json:"category"`
		Mood       *string  `json:"mood"`
		Status     *string  `json:"status"`
		Progress   *int     `json:"progress"`
		TargetDate *string  `json:"target_date"`
		TargetTime *string  `json:"target_time"`
		Location   *string  `json:"location"`
		Tags       []string `json:"tags"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.Update(h.db, ops.UpdateInput{
		ID:         r.PathValue("id"),
		Title:      body.Title,
		Content:    body.Content,
		Category:   body.Category,
		Mood:       body.Mood,
		Status:     body.Status,
		Progress:   body.Progress,
		TargetDate: body.TargetDate,
		TargetTime: body.TargetTime,
		Location:   body.Location,
		Tags:       body.Tags,
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// HandleDeleteEntry handles DELETE /api/entries/{id} — soft delete.
func (h *Handlers) HandleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Delete(h.db, ops.DeleteInput{ID: r.PathValue("id")})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// HandleCalendarMonth handles GET /api/calendar/{year}/{month}.
func (h *Handlers) HandleCalendarMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		renderError(w, errors.NewInvalidRequest("year must be a number"))
		return
	}
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil {
		renderError(w, errors.NewInvalidRequest("month must be a number"))
		return
	}

	result, err := ops.CalendarMonth(h.db, ops.CalendarMonthInput{Year: year, Month: month})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// HandleCalendarDay handles GET /api/calendar/day/{date}.
func (h *Handlers) HandleCalendarDay(w http.ResponseWriter, r *http.Request) {
	result, err := ops.CalendarDay(h.db, ops.CalendarDayInput{Date: r.PathValue("date")})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// HandleIdeas handles GET /api/ideas — shortcut for the idea backlog.
func (h *Handlers) HandleIdeas(w http.ResponseWriter, r *http.Request) {
	ideaType := "idea"
	result, err := ops.List(h.db, ops.ListInput{
		Type:   &ideaType,
		Limit:  parseIntParam(r, "limit", 0),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// HandleCreateIdea handles POST /api/ideas — stores an idea regardless of
// what type the body claims.
func (h *Handlers) HandleCreateIdea(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title    string   `json:"title"`
		Content  string   `json:"content"`
		Category *string  `json:"category"`
		Tags     []string `json:"tags"`
		Author   *string  `json:"author"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.Add(h.db, ops.AddInput{
		Type:     "idea",
		Title:    body.Title,
		Content:  body.Content,
		Category: body.Category,
		Tags:     body.Tags,
		Author:   body.Author,
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusCreated, result)
}

// HandleRitualCurrent handles GET /api/rituals/current.
func (h *Handlers) HandleRitualCurrent(w http.ResponseWriter, r *http.Request) {
	result, err := ops.RitualCurrent(h.db)
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// HandleRitualSave handles POST /api/rituals — weekly check-in upsert.
func (h *Handlers) HandleRitualSave(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WeekOf      *string `json:"week_of"`
		Gratitude   *string `json:"gratitude"`
		Challenges  *string `json:"challenges"`
		Excitement  *string `json:"excitement"`
		MoodScore   *int    `json:"mood_score"`
		Reflections *string `json:"reflections"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.RitualSave(h.db, ops.RitualSaveInput{
		WeekOf:      body.WeekOf,
		Gratitude:   body.Gratitude,
		Challenges:  body.Challenges,
		Excitement:  body.Excitement,
		MoodScore:   body.MoodScore,
		Reflections: body.Reflections,
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// HandleInsights handles GET /api/insights — the thirty-day summary.
func (h *Handlers) HandleInsights(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Insights(h.db)
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// HandleICSFeed handles GET /calendar.ics — upcoming dates and plans as a
// calendar feed for subscription from a calendar app.
func (h *Handlers) HandleICSFeed(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	if from == "" {
		from = "0000-01-01"
	}

	entries, err := db.UpcomingSchedulable(h.db, from)
	if err != nil {
		renderError(w, err)
		return
	}

	cal, err := ics.BuildCalendar(entries)
	if err != nil {
		renderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="ourjourney.ics"`)
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		renderError(w, errors.NewInternal(err))
	}
}

// decodeBody decodes a JSON request body, rejecting unparseable payloads.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewInvalidRequest("invalid JSON body: " + err.Error())
	}
	return nil
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}

// ptrString returns a pointer to s if non-empty, nil otherwise.
func ptrString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
