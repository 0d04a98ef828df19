package core

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/plainvanilla/portal/internal/graph"
	"github.com/plainvanilla/portal/internal/model"
)

func TestSessionCreate_Defaults(t *testing.T) {
	ctx := context.Background()
	db := new(mockDB)
	gc := new(mockGraphClient)
	svc := NewSessionService(db, gc, zerolog.Nop())

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.NewCommandTag("INSERT 0 1"), nil)

	sess := &model.Session{Title: "Kickoff", Date: "2026-09-10", Time: "10:00"}
	require.NoError(t, svc.Create(ctx, testProject(), sess, nil))

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, 60, sess.Duration)
	assert.Equal(t, "online", sess.Type)

	// No group linked, no meeting to schedule.
	gc.AssertNotCalled(t, "CreateGroupEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionCreate_SchedulesOnlineMeeting(t *testing.T) {
	ctx := context.Background()
	db := new(mockDB)
	gc := new(mockGraphClient)
	svc := NewSessionService(db, gc, zerolog.Nop())

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.NewCommandTag("INSERT 0 1"), nil)

	var sentEvent *graph.Event
	gc.On("CreateGroupEvent", ctx, "group-1", mock.AnythingOfType("*graph.Event")).
		Run(func(args mock.Arguments) { sentEvent = args.Get(2).(*graph.Event) }).
		Return(&graph.Event{
			ID:            "event-1",
			OnlineMeeting: &graph.OnlineMeeting{JoinURL: "https://teams.microsoft.com/l/meetup/x"},
		}, nil)

	sess := &model.Session{Title: "Sesión 1", Date: "2026-09-10", Time: "10:00", Duration: 90}
	require.NoError(t, svc.Create(ctx, plannerProject(), sess, []string{"ana@acme.es"}))

	require.NotNil(t, sentEvent)
	assert.Equal(t, "[Adopción M365] Sesión 1", sentEvent.Subject)
	assert.Equal(t, "2026-09-10T10:00:00", sentEvent.Start.DateTime)
	assert.Equal(t, "2026-09-10T11:30:00", sentEvent.End.DateTime)
	assert.Equal(t, graph.Madrid, sentEvent.Start.TimeZone)
	assert.True(t, sentEvent.IsOnline)
	require.Len(t, sentEvent.Attendees, 1)

	require.NotNil(t, sess.TeamsLink)
	assert.Equal(t, "https://teams.microsoft.com/l/meetup/x", *sess.TeamsLink)
	require.NotNil(t, sess.CalendarEventID)
	assert.Equal(t, "event-1", *sess.CalendarEventID)
}

func TestSessionCreate_MeetingFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	db := new(mockDB)
	gc := new(mockGraphClient)
	svc := NewSessionService(db, gc, zerolog.Nop())

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.NewCommandTag("INSERT 0 1"), nil)
	gc.On("CreateGroupEvent", ctx, "group-1", mock.AnythingOfType("*graph.Event")).
		Return(nil, errors.New("calendar quota exceeded"))

	sess := &model.Session{Title: "Sesión 1", Date: "2026-09-10", Time: "10:00"}
	require.NoError(t, svc.Create(ctx, plannerProject(), sess, nil))

	assert.Nil(t, sess.TeamsLink)
	assert.Nil(t, sess.CalendarEventID)
}

func TestSessionCreate_PresencialSkipsMeeting(t *testing.T) {
	ctx := context.Background()
	db := new(mockDB)
	gc := new(mockGraphClient)
	svc := NewSessionService(db, gc, zerolog.Nop())

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.NewCommandTag("INSERT 0 1"), nil)

	sess := &model.Session{Title: "Taller", Date: "2026-09-10", Time: "10:00", Type: "presencial", Location: "Oficina Madrid"}
	require.NoError(t, svc.Create(ctx, plannerProject(), sess, nil))

	gc.AssertNotCalled(t, "CreateGroupEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestEndDateTime(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		time     string
		duration int
		want     string
	}{
		{"one hour", "2026-09-10", "10:00", 60, "2026-09-10T11:00:00"},
		{"ninety minutes", "2026-09-10", "23:00", 30, "2026-09-10T23:30:00"},
		{"clamped to same day", "2026-09-10", "23:30", 60, "2026-09-10T23:59:00"},
		{"bad time falls back", "2026-09-10", "bogus", 60, "2026-09-10T23:59:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, endDateTime(tt.date, tt.time, tt.duration))
		})
	}
}
