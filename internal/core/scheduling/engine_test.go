package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/cobalt/internal/core/model"
)

func salesRoster() []model.Agent {
	return []model.Agent{
		{ID: 1, Name: "Sarah Johnson", Role: model.RoleSales, WorkStart: "09:00", WorkEnd: "17:00"},
		{ID: 2, Name: "Mike Rodriguez", Role: model.RoleSales, WorkStart: "09:00", WorkEnd: "17:00"},
		{ID: 3, Name: "Jennifer Chen", Role: model.RoleSales, WorkStart: "10:00", WorkEnd: "18:00"},
	}
}

func testEngine(repo *mockRepo) *Engine {
	e := NewEngine(repo, 5)
	// Fixed reference instant: Tuesday 2026-03-10 08:00 UTC.
	e.now = func() time.Time { return time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC) }
	return e
}

func bookDetails() *model.AppointmentDetails {
	return &model.AppointmentDetails{
		Action:          model.ActionBook,
		AppointmentType: model.RoleSales,
		CustomerName:    "Joe",
		TimePreference:  "tomorrow at 10 AM",
		DurationMinutes: 30,
	}
}

func TestBook_FirstFit(t *testing.T) {
	repo := &mockRepo{agents: salesRoster()}
	e := testEngine(repo)

	out, err := e.Book(context.Background(), bookDetails())
	require.NoError(t, err)

	assert.Equal(t, OutcomeBooked, out.Kind)
	assert.Equal(t, "Sarah Johnson", out.Agent.Name, "first available agent in creation order wins")
	assert.Equal(t, time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC), out.Start)

	require.Len(t, repo.createdAppts, 1)
	appt := repo.createdAppts[0]
	assert.Equal(t, int64(1), appt.AgentID)
	assert.Equal(t, "Joe", appt.CustomerName)
	assert.Equal(t, 30, appt.DurationMinutes)
	assert.Equal(t, model.RoleSales, appt.Type)
}

func TestBook_ConflictSkipsToNextAgent(t *testing.T) {
	repo := &mockRepo{
		agents: salesRoster(),
		appointments: []model.Appointment{
			{AgentID: 1, StartTime: time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC), DurationMinutes: 30},
		},
	}
	e := testEngine(repo)

	out, err := e.Book(context.Background(), bookDetails())
	require.NoError(t, err)
	assert.Equal(t, OutcomeBooked, out.Kind)
	assert.Equal(t, "Mike Rodriguez", out.Agent.Name)
}

func TestBook_OverlapRejectedNoBooking(t *testing.T) {
	// Existing appointment 10:00-10:30; a 10:15-10:45 request for the same
	// agent is a conflict and nothing is created.
	repo := &mockRepo{
		agents: salesRoster()[:1],
		appointments: []model.Appointment{
			{AgentID: 1, StartTime: time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC), DurationMinutes: 30},
		},
	}
	e := testEngine(repo)

	d := bookDetails()
	d.TimePreference = "tomorrow at 10:15 AM"
	out, err := e.Book(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoAgents, out.Kind)
	assert.Empty(t, repo.createdAppts)
}

func TestBook_PreferredAgent(t *testing.T) {
	repo := &mockRepo{agents: salesRoster()}
	e := testEngine(repo)

	d := bookDetails()
	d.AgentName = "mike"
	out, err := e.Book(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, OutcomeBooked, out.Kind)
	assert.Equal(t, "Mike Rodriguez", out.Agent.Name, "preference matches case-insensitively by substring")
}

func TestBook_PreferredAgentUnavailable(t *testing.T) {
	repo := &mockRepo{
		agents: salesRoster(),
		appointments: []model.Appointment{
			{AgentID: 2, StartTime: time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC), DurationMinutes: 30},
		},
	}
	e := testEngine(repo)

	d := bookDetails()
	d.AgentName = "Mike"
	out, err := e.Book(context.Background(), d)
	require.NoError(t, err)
	// No silent fallback to another agent when a preference was stated.
	assert.Equal(t, OutcomePreferredAgentUnavailable, out.Kind)
	assert.Empty(t, repo.createdAppts)
}

func TestBook_MissingDetails(t *testing.T) {
	repo := &mockRepo{agents: salesRoster()}
	e := testEngine(repo)

	d := bookDetails()
	d.CustomerName = ""
	d.TimePreference = ""
	out, err := e.Book(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMissingDetails, out.Kind)
	assert.Empty(t, repo.createdAppts)
}

func TestBook_UnparseableTime(t *testing.T) {
	repo := &mockRepo{agents: salesRoster()}
	e := testEngine(repo)

	d := bookDetails()
	d.TimePreference = "whenever suits"
	out, err := e.Book(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnparseableTime, out.Kind)
	assert.Empty(t, repo.createdAppts)
}

func TestBook_NoDetails(t *testing.T) {
	e := testEngine(&mockRepo{})
	out, err := e.Book(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNeedInfo, out.Kind)
}

func TestBook_StorageFailure(t *testing.T) {
	repo := &mockRepo{agents: salesRoster(), failCreate: errors.New("disk full")}
	e := testEngine(repo)

	out, err := e.Book(context.Background(), bookDetails())
	require.NoError(t, err)
	assert.Equal(t, OutcomeStorageFailed, out.Kind)
	assert.ErrorContains(t, out.Err, "disk full")
}

func TestCheckAvailability_DoesNotMutate(t *testing.T) {
	repo := &mockRepo{
		upcoming: []model.UpcomingAppointment{
			{StartTime: time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC), AgentName: "Sarah Johnson"},
		},
	}
	e := testEngine(repo)

	out, err := e.CheckAvailability(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpcoming, out.Kind)
	assert.Len(t, out.Upcoming, 1)
	assert.Empty(t, repo.createdAppts)
}
