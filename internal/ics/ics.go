// Package ics renders schedulable journal entries as iCalendar objects,
// for file export, the web feed, and CalDAV sync.
package ics

import (
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"ourjourney/internal/entry"
	"ourjourney/internal/errors"
)

const (
	productID = "-//ourjourney//EN"
	uidSuffix = "@ourjourney"

	// Entries without an explicit time get a one-hour block.
	defaultDuration = time.Hour
)

// BuildCalendar renders the given entries as a VCALENDAR with one VEVENT
// per entry. Entries without a target date are skipped.
func BuildCalendar(entries []entry.Entry) (*ical.Calendar, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for i := range entries {
		e := &entries[i]
		if e.TargetDate == nil {
			continue
		}
		ve, err := buildEvent(e)
		if err != nil {
			return nil, err
		}
		cal.Children = append(cal.Children, ve)
	}

	return cal, nil
}

// buildEvent converts an entry to an ical.Component (VEVENT).
func buildEvent(e *entry.Entry) (*ical.Component, error) {
	start, err := EventStart(e)
	if err != nil {
		return nil, err
	}

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, EventUID(e.ID))
	ve.Props.SetText(ical.PropSummary, e.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, start)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(defaultDuration))

	if e.Content != "" {
		ve.Props.SetText(ical.PropDescription, e.Content)
	}
	if e.Location != nil {
		ve.Props.SetText(ical.PropLocation, *e.Location)
	}

	return ve, nil
}

// EventUID derives the stable iCalendar UID for an entry, so repeated
// exports and CalDAV pushes update the same server-side event.
func EventUID(entryID string) string {
	return entryID + uidSuffix
}

// EventStart resolves an entry's target date and time to an instant in
// the local zone. Entries without a time default to nine in the morning.
func EventStart(e *entry.Entry) (time.Time, error) {
	if e.TargetDate == nil {
		return time.Time{}, errors.NewInvalidRequest(fmt.Sprintf("entry %s has no target date", e.ID))
	}

	clock := "09:00"
	if e.TargetTime != nil {
		clock = *e.TargetTime
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", *e.TargetDate+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, errors.NewInvalidRequest(
			fmt.Sprintf("entry %s has an unparseable schedule %q %q", e.ID, *e.TargetDate, clock))
	}
	return start, nil
}
