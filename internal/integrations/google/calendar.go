package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	reminderEmailMinutes = 24 * 60
	reminderPopupMinutes = 30
)

// Calendar создаёт события в календаре агента
type Calendar struct {
	calendarID string
	timezone   string
	opts       []option.ClientOption
}

// NewCalendar создает клиент календаря
func NewCalendar(calendarID, timezone string, opts ...option.ClientOption) *Calendar {
	if calendarID == "" {
		calendarID = "primary"
	}
	if timezone == "" {
		timezone = "Europe/Rome"
	}
	return &Calendar{calendarID: calendarID, timezone: timezone, opts: opts}
}

// CreateOpenHouseEvent создаёт событие визита и рассылает приглашения участникам
func (c *Calendar) CreateOpenHouseEvent(ctx context.Context, ts oauth2.TokenSource, data OpenHouseEventData) (*CalendarEvent, error) {
	if data.Date == "" || data.StartTime == "" || data.EndTime == "" {
		return nil, fmt.Errorf("%w: date and times are required", ErrInvalidInput)
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, ts))}, c.opts...)
	srv, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create calendar service: %v", ErrCreateEvent, err)
	}

	created, err := srv.Events.Insert(c.calendarID, c.buildEvent(data)).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateEvent, err)
	}

	return &CalendarEvent{ID: created.Id, Link: created.HtmlLink}, nil
}

func (c *Calendar) buildEvent(data OpenHouseEventData) *calendar.Event {
	attendees := make([]*calendar.EventAttendee, 0, len(data.Attendees))
	for _, a := range data.Attendees {
		attendees = append(attendees, &calendar.EventAttendee{
			Email:       a.Email,
			DisplayName: a.DisplayName,
		})
	}

	return &calendar.Event{
		Summary:     data.Summary,
		Description: data.Description,
		Location:    data.Location,
		Start: &calendar.EventDateTime{
			DateTime: data.Date + "T" + data.StartTime + ":00",
			TimeZone: c.timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: data.Date + "T" + data.EndTime + ":00",
			TimeZone: c.timezone,
		},
		Attendees: attendees,
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: reminderEmailMinutes},
				{Method: "popup", Minutes: reminderPopupMinutes},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}
}
