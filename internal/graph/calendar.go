package graph

import (
	"context"
	"fmt"
)

type Event struct {
	ID            string         `json:"id"`
	Subject       string         `json:"subject"`
	Start         *EventTime     `json:"start,omitempty"`
	End           *EventTime     `json:"end,omitempty"`
	IsAllDay      bool           `json:"isAllDay,omitempty"`
	Body          *EventBody     `json:"body,omitempty"`
	Attendees     []Attendee     `json:"attendees,omitempty"`
	IsOnline      bool           `json:"isOnlineMeeting,omitempty"`
	Provider      string         `json:"onlineMeetingProvider,omitempty"`
	OnlineMeeting *OnlineMeeting `json:"onlineMeeting,omitempty"`
}

type EventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type EventBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type Attendee struct {
	EmailAddress EmailAddress `json:"emailAddress"`
	Type         string       `json:"type"`
}

type EmailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type OnlineMeeting struct {
	JoinURL string `json:"joinUrl"`
}

// Madrid is the agency's calendar time zone.
const Madrid = "Europe/Madrid"

// CreateGroupEvent creates an event on a Microsoft 365 group calendar.
// Set IsOnline and Provider "teamsForBusiness" on the event to get a Teams
// meeting join link back.
func (c *Client) CreateGroupEvent(ctx context.Context, groupID string, event *Event) (*Event, error) {
	var created Event
	if err := c.post(ctx, "/groups/"+groupID+"/events", event, &created); err != nil {
		return nil, fmt.Errorf("create event %q in group %s: %w", event.Subject, groupID, err)
	}
	return &created, nil
}

func (c *Client) UpdateGroupEvent(ctx context.Context, groupID, eventID string, updates map[string]any) error {
	if err := c.patch(ctx, "/groups/"+groupID+"/events/"+eventID, updates, nil, nil); err != nil {
		return fmt.Errorf("update event %s: %w", eventID, err)
	}
	return nil
}

func (c *Client) DeleteGroupEvent(ctx context.Context, groupID, eventID string) error {
	if err := c.delete(ctx, "/groups/"+groupID+"/events/"+eventID); err != nil {
		return fmt.Errorf("delete event %s: %w", eventID, err)
	}
	return nil
}

// RequiredAttendees maps emails to required attendees.
func RequiredAttendees(emails []string) []Attendee {
	attendees := make([]Attendee, 0, len(emails))
	for _, email := range emails {
		attendees = append(attendees, Attendee{
			EmailAddress: EmailAddress{Address: email},
			Type:         "required",
		})
	}
	return attendees
}
