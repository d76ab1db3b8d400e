// Package caldav pushes schedulable journal entries to a CalDAV server,
// so dates and plans show up in the couple's shared calendar app.
package caldav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	caldavproto "github.com/emersion/go-webdav/caldav"

	"ourjourney/internal/config"
	"ourjourney/internal/entry"
	"ourjourney/internal/errors"
	"ourjourney/internal/ics"
)

// customTransport handles adding Basic Auth and custom headers to requests.
type customTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
}

// RoundTrip adds required headers and authentication to each request.
func (t *customTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.Username, t.Password)
	req.Header.Set("User-Agent", "ourjourney/1.0")
	return t.Transport.RoundTrip(req)
}

// Client is a client for pushing entries to a CalDAV server.
type Client struct {
	caldavClient *caldavproto.Client
	webdavClient *webdav.Client
	logger       *slog.Logger
	endpoint     string
	calendarURL  string
}

// NewClient creates a CalDAV client and resolves the configured calendar.
func NewClient(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*Client, error) {
	if cfg.CalDAVURL == "" {
		return nil, errors.NewInvalidRequest("caldav_url is not configured")
	}
	if cfg.CalDAVUsername == "" || cfg.CalDAVPassword == "" {
		return nil, errors.NewInvalidRequest("caldav credentials are not configured (set CALDAV_USERNAME and CALDAV_PASSWORD)")
	}

	endpoint := cfg.CalDAVURL
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}

	transport := &customTransport{
		Username:  cfg.CalDAVUsername,
		Password:  cfg.CalDAVPassword,
		Transport: http.DefaultTransport,
	}
	httpClient := &http.Client{Transport: transport}

	caldavClient, err := caldavproto.NewClient(httpClient, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}

	webdavClient, err := webdav.NewClient(httpClient, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create webdav client: %w", err)
	}

	c := &Client{
		caldavClient: caldavClient,
		webdavClient: webdavClient,
		logger:       logger,
		endpoint:     endpoint,
	}

	logger.Info("Finding CalDAV calendar", "calendarName", cfg.CalDAVCalendar)
	calendarURL, err := c.findCalendar(ctx, cfg.CalDAVCalendar)
	if err != nil {
		return nil, fmt.Errorf("could not find calendar '%s': %w", cfg.CalDAVCalendar, err)
	}
	c.calendarURL = calendarURL
	logger.Info("Successfully found CalDAV calendar", "url", calendarURL)

	return c, nil
}

// SyncEntry creates or updates the calendar event for a schedulable entry.
func (c *Client) SyncEntry(ctx context.Context, e *entry.Entry) error {
	c.logger.Debug("Syncing entry to CalDAV", "title", e.Title, "id", e.ID)

	cal, err := ics.BuildCalendar([]entry.Entry{*e})
	if err != nil {
		return err
	}

	// The event path must be relative to the endpoint for the webdav client.
	eventPath := path.Join(strings.TrimPrefix(c.calendarURL, c.endpoint), fmt.Sprintf("%s.ics", ics.EventUID(e.ID)))

	writer, err := c.webdavClient.Create(ctx, eventPath)
	if err != nil {
		return fmt.Errorf("failed to create event on CalDAV server: %w", err)
	}
	defer writer.Close()

	if err := ical.NewEncoder(writer).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode event to iCal format: %w", err)
	}

	c.logger.Info("Successfully synced entry to CalDAV", "title", e.Title)
	return nil
}

// SyncAll pushes every given entry, stopping at the first failure.
// Returns the number of entries synced.
func (c *Client) SyncAll(ctx context.Context, entries []entry.Entry) (int, error) {
	for i := range entries {
		if err := ctx.Err(); err != nil {
			return i, errors.NewCancelled("caldav sync")
		}
		if err := c.SyncEntry(ctx, &entries[i]); err != nil {
			return i, err
		}
	}
	return len(entries), nil
}

// findCalendar discovers the user's calendars and returns the URL for the one with the matching name.
func (c *Client) findCalendar(ctx context.Context, name string) (string, error) {
	principalPath, err := c.caldavClient.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal path: %w", err)
	}

	homeSetPath, err := c.caldavClient.FindCalendarHomeSet(ctx, principalPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	calendars, err := c.caldavClient.FindCalendars(ctx, homeSetPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}

	for _, cal := range calendars {
		if cal.Name == name {
			return strings.TrimSuffix(c.endpoint, "/") + cal.Path, nil
		}
	}

	return "", fmt.Errorf("no calendar found with name '%s'", name)
}
