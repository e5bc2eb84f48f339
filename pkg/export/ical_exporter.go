package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
)

// CalendarEvent is one weekly-recurring event.
type CalendarEvent struct {
	UID         string
	Summary     string
	Location    string
	Description string
	Start       time.Time
	End         time.Time
	// Weekly repeats the event every week on the weekday of Start.
	Weekly bool
}

// ICalExporter renders events as an iCalendar document.
type ICalExporter struct {
	productID string
	now       func() time.Time
}

// NewICalExporter constructs an iCalendar exporter.
func NewICalExporter(productID string) *ICalExporter {
	if productID == "" {
		productID = "-//class-schedule-api//timetable//EN"
	}
	return &ICalExporter{productID: productID, now: time.Now}
}

var icalWeekdays = [...]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// Render encodes the events into a VCALENDAR.
func (e *ICalExporter) Render(calName string, events []CalendarEvent) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, e.productID)
	if calName != "" {
		cal.Props.SetText("X-WR-CALNAME", calName)
	}

	stamp := e.now().UTC()
	for _, evt := range events {
		if evt.UID == "" {
			return nil, fmt.Errorf("event %q has no uid", evt.Summary)
		}
		if !evt.End.After(evt.Start) {
			return nil, fmt.Errorf("event %s ends before it starts", evt.UID)
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, evt.UID)
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
		event.Props.SetDateTime(ical.PropDateTimeStart, evt.Start)
		event.Props.SetDateTime(ical.PropDateTimeEnd, evt.End)
		event.Props.SetText(ical.PropSummary, evt.Summary)
		if evt.Location != "" {
			event.Props.SetText(ical.PropLocation, evt.Location)
		}
		if evt.Description != "" {
			event.Props.SetText(ical.PropDescription, evt.Description)
		}
		if evt.Weekly {
			rule := ical.NewProp(ical.PropRecurrenceRule)
			rule.Value = "FREQ=WEEKLY;BYDAY=" + icalWeekdays[evt.Start.Weekday()]
			event.Props.Set(rule)
		}
		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode ical: %w", err)
	}
	return buf.Bytes(), nil
}
