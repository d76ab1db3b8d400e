package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions

var captureToolDef = mcp.NewTool("journal_capture",
	mcp.WithDescription("Capture a free-text journal phrase. The interpreter classifies it as a goal, date, event, memory, feeling, or idea, and extracts the date, time, and location for scheduled entries."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("The phrase to capture, e.g. 'Dinner tomorrow at 7pm at Luigi's'"),
	),
	mcp.WithString("author",
		mcp.Description("Who is capturing the entry"),
	),
	mcp.WithArray("tags",
		mcp.Description("Optional tags for the entry"),
		mcp.Items(map[string]any{"type": "string"}),
	),
)

var addToolDef = mcp.NewTool("journal_add",
	mcp.WithDescription("Add a fully specified journal entry, bypassing the interpreter."),
	mcp.WithString("type",
		mcp.Required(),
		mcp.Description("Entry type: goal, date, event, memory, feeling, or idea"),
	),
	mcp.WithString("title",
		mcp.Required(),
		mcp.Description("Entry title"),
	),
	mcp.WithString("content",
		mcp.Description("Free-form markdown content"),
	),
	mcp.WithString("category",
		mcp.Description("Category, defaults to 'General'"),
	),
	mcp.WithString("mood",
		mcp.Description("Mood, defaults to 'neutral'"),
	),
	mcp.WithNumber("progress",
		mcp.Description("Completion percentage 0-100, for goals"),
	),
	mcp.WithString("target_date",
		mcp.Description("Scheduled date, YYYY-MM-DD"),
	),
	mcp.WithString("target_time",
		mcp.Description("Scheduled time, HH:MM"),
	),
	mcp.WithString("location",
		mcp.Description("Free-text place"),
	),
	mcp.WithArray("tags",
		mcp.Description("Optional tags"),
		mcp.Items(map[string]any{"type": "string"}),
	),
	mcp.WithString("author",
		mcp.Description("Who wrote the entry"),
	),
)

var fetchToolDef = mcp.NewTool("journal_fetch",
	mcp.WithDescription("Fetch a journal entry by its id."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Entry ULID"),
	),
	mcp.WithBoolean("include_deleted",
		mcp.Description("Also find soft-deleted entries"),
	),
)

var listToolDef = mcp.NewTool("journal_list",
	mcp.WithDescription("List journal entries, newest first, optionally filtered by type, status, or category."),
	mcp.WithString("type",
		mcp.Description("Filter by entry type"),
	),
	mcp.WithString("status",
		mcp.Description("Filter by status: active, completed, or archived"),
	),
	mcp.WithString("category",
		mcp.Description("Filter by category"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Page size, default 50, max 200"),
	),
	mcp.WithNumber("offset",
		mcp.Description("Pagination offset"),
	),
	mcp.WithBoolean("include_deleted",
		mcp.Description("Also list soft-deleted entries"),
	),
)

var updateToolDef = mcp.NewTool("journal_update",
	mcp.WithDescription("Update fields of an existing entry. Omitted fields are left unchanged. Setting status to 'completed' stamps the completion time."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Entry ULID"),
	),
	mcp.WithString("title", mcp.Description("New title")),
	mcp.WithString("content", mcp.Description("New content")),
	mcp.WithString("category", mcp.Description("New category")),
	mcp.WithString("mood", mcp.Description("New mood")),
	mcp.WithString("status", mcp.Description("New status: active, completed, or archived")),
	mcp.WithNumber("progress", mcp.Description("New progress 0-100")),
	mcp.WithString("target_date", mcp.Description("New scheduled date, YYYY-MM-DD; empty string clears")),
	mcp.WithString("target_time", mcp.Description("New scheduled time, HH:MM; empty string clears")),
	mcp.WithString("location", mcp.Description("New location; empty string clears")),
	mcp.WithArray("tags",
		mcp.Description("Replacement tag list"),
		mcp.Items(map[string]any{"type": "string"}),
	),
)

var deleteToolDef = mcp.NewTool("journal_delete",
	mcp.WithDescription("Soft-delete a journal entry."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Entry ULID"),
	),
)

var purgeToolDef = mcp.NewTool("journal_purge",
	mcp.WithDescription("Permanently remove soft-deleted entries."),
	mcp.WithNumber("older_than_days",
		mcp.Description("Only purge entries deleted more than this many days ago"),
	),
)

var calendarToolDef = mcp.NewTool("journal_calendar",
	mcp.WithDescription("Retrieve the dates and plans of a calendar month or a single day."),
	mcp.WithNumber("year",
		mcp.Description("Four-digit year (month mode)"),
	),
	mcp.WithNumber("month",
		mcp.Description("Month 1-12 (month mode)"),
	),
	mcp.WithString("date",
		mcp.Description("A single day, YYYY-MM-DD (day mode, overrides year/month)"),
	),
)

var ritualCurrentToolDef = mcp.NewTool("journal_ritual_current",
	mcp.WithDescription("Get this week's check-in ritual, if one has been saved."),
)

var ritualSaveToolDef = mcp.NewTool("journal_ritual_save",
	mcp.WithDescription("Save the weekly check-in ritual. Saving again in the same week replaces the answers."),
	mcp.WithString("week_of",
		mcp.Description("Week to save, YYYY-MM-DD (snapped to its Sunday); defaults to the current week"),
	),
	mcp.WithString("gratitude", mcp.Description("What are you grateful for this week?")),
	mcp.WithString("challenges", mcp.Description("What was challenging this week?")),
	mcp.WithString("excitement", mcp.Description("What are you excited about?")),
	mcp.WithNumber("mood_score", mcp.Description("Week mood, 1-10")),
	mcp.WithString("reflections", mcp.Description("Anything else on your mind")),
)

var insightsToolDef = mcp.NewTool("journal_insights",
	mcp.WithDescription("Summarize the last thirty days: entry counts by type, completed goals, and recent memories."),
)

var exportToolDef = mcp.NewTool("journal_export",
	mcp.WithDescription("Export entries to a file: full JSONL backup, or schedulable entries as an iCalendar (.ics) file."),
	mcp.WithString("path",
		mcp.Description("Destination path (must be in an allowed directory); defaults to the exports directory"),
	),
	mcp.WithString("format",
		mcp.Description("Export format: jsonl (default) or ics"),
	),
	mcp.WithString("type",
		mcp.Description("Only export entries of this type"),
	),
	mcp.WithBoolean("include_deleted",
		mcp.Description("Include soft-deleted entries (jsonl only)"),
	),
)
