package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"ourjourney/internal/caldav"
	"ourjourney/internal/config"
	"ourjourney/internal/db"
	"ourjourney/internal/errors"
	"ourjourney/internal/ops"
	"ourjourney/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(database *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "ourjourney",
		Usage:   "Shared journal for two",
		Version: Version,
		Commands: []*cli.Command{
			captureCmd(database),
			addCmd(database),
			showCmd(database),
			listCmd(database),
			updateCmd(database),
			deleteCmd(database),
			calendarCmd(database),
			ritualCmd(database),
			insightsCmd(database),
			exportCmd(database, cfg),
			purgeCmd(database),
			syncCmd(database, cfg),
			serveCmd(database, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// captureCmd creates the capture command.
func captureCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "capture",
		Usage:     "Interpret a free-text phrase and store it as an entry",
		ArgsUsage: "<text>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
			&cli.StringFlag{Name: "author", Aliases: []string{"a"}, Usage: "Author name"},
		},
		Action: func(c *cli.Context) error {
			text := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(text) == "" {
				return outputError(errors.NewInvalidRequest("text is required"))
			}

			input := ops.CaptureInput{Text: text}
			if author := c.String("author"); author != "" {
				input.Author = &author
			}
			if tags := c.String("tags"); tags != "" {
				input.Tags = parseTags(tags)
			}

			output, err := ops.Capture(database, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// addCmd creates the add command.
func addCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Store an entry with explicit fields, bypassing the interpreter",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Aliases: []string{"T"}, Required: true, Usage: "Entry type: date|event|goal|memory|feeling|idea"},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true, Usage: "Entry title"},
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "Entry body"},
			&cli.StringFlag{Name: "category", Usage: "Category (default: General)"},
			&cli.StringFlag{Name: "mood", Usage: "Mood (default: neutral)"},
			&cli.IntFlag{Name: "progress", Usage: "Goal progress 0-100"},
			&cli.StringFlag{Name: "date", Usage: "Target date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "time", Usage: "Target time (HH:MM)"},
			&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "Location"},
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
			&cli.StringFlag{Name: "author", Aliases: []string{"a"}, Usage: "Author name"},
		},
		Action: func(c *cli.Context) error {
			input := ops.AddInput{
				Type:    c.String("type"),
				Title:   c.String("title"),
				Content: c.String("content"),
			}

			if category := c.String("category"); category != "" {
				input.Category = &category
			}
			if mood := c.String("mood"); mood != "" {
				input.Mood = &mood
			}
			if c.IsSet("progress") {
				progress := c.Int("progress")
				input.Progress = &progress
			}
			if date := c.String("date"); date != "" {
				input.TargetDate = &date
			}
			if t := c.String("time"); t != "" {
				input.TargetTime = &t
			}
			if location := c.String("location"); location != "" {
				input.Location = &location
			}
			if tags := c.String("tags"); tags != "" {
				input.Tags = parseTags(tags)
			}
			if author := c.String("author"); author != "" {
				input.Author = &author
			}

			output, err := ops.Add(database, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// showCmd creates the show command.
func showCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a single entry by ID",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted entries"},
		},
		Action: func(c *cli.Context) error {
			input := ops.FetchInput{
				ID:             c.Args().First(),
				IncludeDeleted: c.Bool("include-deleted"),
			}

			output, err := ops.Fetch(database, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List entries, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Aliases: []string{"T"}, Usage: "Filter by entry type"},
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "Filter by status: active|completed|archived"},
			&cli.StringFlag{Name: "category", Usage: "Filter by category"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted entries"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ListInput{
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				IncludeDeleted: c.Bool("include-deleted"),
			}

			if typ := c.String("type"); typ != "" {
				input.Type = &typ
			}
			if status := c.String("status"); status != "" {
				input.Status = &status
			}
			if category := c.String("category"); category != "" {
				input.Category = &category
			}

			output, err := ops.List(database, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update fields of an existing entry",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "New title"},
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "New body"},
			&cli.StringFlag{Name: "category", Usage: "New category (empty reverts to default)"},
			&cli.StringFlag{Name: "mood", Usage: "New mood (empty reverts to default)"},
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "New status: active|completed|archived"},
			&cli.IntFlag{Name: "progress", Usage: "New progress 0-100"},
			&cli.StringFlag{Name: "date", Usage: "New target date (empty clears)"},
			&cli.StringFlag{Name: "time", Usage: "New target time (empty clears)"},
			&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "New location (empty clears)"},
			&cli.StringFlag{Name: "tags", Usage: "New comma-separated tags (empty clears)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.UpdateInput{ID: c.Args().First()}

			// IsSet distinguishes "leave unchanged" from "clear this field"
			if c.IsSet("title") {
				title := c.String("title")
				input.Title = &title
			}
			if c.IsSet("content") {
				content := c.String("content")
				input.Content = &content
			}
			if c.IsSet("category") {
				category := c.String("category")
				input.Category = &category
			}
			if c.IsSet("mood") {
				mood := c.String("mood")
				input.Mood = &mood
			}
			if c.IsSet("status") {
				status := c.String("status")
				input.Status = &status
			}
			if c.IsSet("progress") {
				progress := c.Int("progress")
				input.Progress = &progress
			}
			if c.IsSet("date") {
				date := c.String("date")
				input.TargetDate = &date
			}
			if c.IsSet("time") {
				t := c.String("time")
				input.TargetTime = &t
			}
			if c.IsSet("location") {
				location := c.String("location")
				input.Location = &location
			}
			if c.IsSet("tags") {
				input.Tags = parseTags(c.String("tags"))
				if input.Tags == nil {
					input.Tags = []string{}
				}
			}

			output, err := ops.Update(database, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete an entry",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(database, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// calendarCmd creates the calendar command.
func calendarCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "calendar",
		Usage: "List scheduled entries for a month, or a single day with --date",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "year", Aliases: []string{"y"}, Usage: "Year (default: current)"},
			&cli.IntFlag{Name: "month", Aliases: []string{"m"}, Usage: "Month 1-12 (default: current)"},
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Single day (YYYY-MM-DD)"},
		},
		Action: func(c *cli.Context) error {
			if date := c.String("date"); date != "" {
				output, err := ops.CalendarDay(database, ops.CalendarDayInput{Date: date})
				if err != nil {
					return outputError(err)
				}
				return outputJSON(output)
			}

			now := time.Now()
			input := ops.CalendarMonthInput{
				Year:  now.Year(),
				Month: int(now.Month()),
			}
			if c.IsSet("year") {
				input.Year = c.Int("year")
			}
			if c.IsSet("month") {
				input.Month = c.Int("month")
			}

			output, err := ops.CalendarMonth(database, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// ritualCmd creates the ritual command. With no answer flags it shows the
// current week's ritual; with any answer flag it saves.
func ritualCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "ritual",
		Usage: "Show or save the weekly check-in",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "week-of", Usage: "Week to save (YYYY-MM-DD, snapped to Sunday)"},
			&cli.StringFlag{Name: "gratitude", Usage: "What are you grateful for?"},
			&cli.StringFlag{Name: "challenges", Usage: "What was challenging?"},
			&cli.StringFlag{Name: "excitement", Usage: "What are you excited about?"},
			&cli.IntFlag{Name: "mood-score", Usage: "Mood score 1-10"},
			&cli.StringFlag{Name: "reflections", Usage: "Anything else on your mind?"},
		},
		Action: func(c *cli.Context) error {
			saving := c.IsSet("gratitude") || c.IsSet("challenges") ||
				c.IsSet("excitement") || c.IsSet("mood-score") || c.IsSet("reflections")

			if !saving {
				output, err := ops.RitualCurrent(database)
				if err != nil {
					return outputError(err)
				}
				return outputJSON(output)
			}

			input := ops.RitualSaveInput{}
			if weekOf := c.String("week-of"); weekOf != "" {
				input.WeekOf = &weekOf
			}
			if c.IsSet("gratitude") {
				gratitude := c.String("gratitude")
				input.Gratitude = &gratitude
			}
			if c.IsSet("challenges") {
				challenges := c.String("challenges")
				input.Challenges = &challenges
			}
			if c.IsSet("excitement") {
				excitement := c.String("excitement")
				input.Excitement = &excitement
			}
			if c.IsSet("mood-score") {
				score := c.Int("mood-score")
				input.MoodScore = &score
			}
			if c.IsSet("reflections") {
				reflections := c.String("reflections")
				input.Reflections = &reflections
			}

			output, err := ops.RitualSave(database, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// insightsCmd creates the insights command.
func insightsCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "insights",
		Usage: "Show journal activity for the last 30 days",
		Action: func(c *cli.Context) error {
			output, err := ops.Insights(database)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(database *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export entries to a JSONL or ICS file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.ourjourney/exports/journal-<timestamp>.<ext>)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: ops.ExportFormatJSONL, Usage: "Export format: jsonl|ics"},
			&cli.StringFlag{Name: "type", Aliases: []string{"T"}, Usage: "Filter by entry type"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted entries (jsonl only)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ExportInput{
				Path:           c.String("path"),
				Format:         c.String("format"),
				IncludeDeleted: c.Bool("include-deleted"),
			}

			if typ := c.String("type"); typ != "" {
				input.Type = &typ
			}

			output, err := ops.Export(c.Context, database, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete soft-deleted entries",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "older-than", Usage: "Only purge if deleted more than N days ago (e.g., 7d)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.PurgeInput{}

			if olderThan := c.String("older-than"); olderThan != "" {
				days, err := parseDuration(olderThan)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.OlderThanDays = &days
			}

			output, err := ops.Purge(database, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// syncCmd creates the sync command, pushing upcoming scheduled entries to
// the configured CalDAV calendar.
func syncCmd(database *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Push upcoming scheduled entries to the configured CalDAV calendar",
		Action: func(c *cli.Context) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			client, err := caldav.NewClient(c.Context, logger, cfg)
			if err != nil {
				return outputError(err)
			}

			today := time.Now().Format("2006-01-02")
			entries, err := db.UpcomingSchedulable(database, today)
			if err != nil {
				return outputError(err)
			}

			synced, err := client.SyncAll(c.Context, entries)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(map[string]any{
				"synced": synced,
				"total":  len(entries),
			})
		},
	}
}

// serveCmd creates the serve command, running the REST API server.
func serveCmd(database *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the journal web API server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Usage: "Bind address (default from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			bind := cfg.BindAddr
			if c.IsSet("bind") {
				bind = c.String("bind")
			}
			port := cfg.Port
			if c.IsSet("port") {
				port = c.Int("port")
			}

			srv := web.NewServer(database, cfg, Version, bind, port)
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if jErr, ok := err.(*errors.JournalError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", jErr.Code, jErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// parseDuration parses "7d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 7d")
}
