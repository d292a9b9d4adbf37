package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agenthands/cobalt/internal/core/model"
	"github.com/agenthands/cobalt/internal/store"
)

// OutcomeKind tags the result of a scheduling request. Refusals and
// clarification requests are normal decision outcomes, not errors.
type OutcomeKind int

const (
	// OutcomeNeedInfo — no clear action or details were extracted.
	OutcomeNeedInfo OutcomeKind = iota
	// OutcomeUpcoming — availability listing produced.
	OutcomeUpcoming
	// OutcomeMissingDetails — book request lacks type, name or time.
	OutcomeMissingDetails
	// OutcomeUnparseableTime — the time preference could not be resolved.
	OutcomeUnparseableTime
	// OutcomePreferredAgentUnavailable — a named agent was requested but is
	// not in the available set.
	OutcomePreferredAgentUnavailable
	// OutcomeNoAgents — nobody of the requested role is free for the slot.
	OutcomeNoAgents
	// OutcomeBooked — appointment committed.
	OutcomeBooked
	// OutcomeStorageFailed — the final insert failed; nothing was booked.
	OutcomeStorageFailed
)

// Outcome carries the decision plus whatever the answer needs to mention.
type Outcome struct {
	Kind     OutcomeKind
	Details  *model.AppointmentDetails
	Start    time.Time
	Agent    model.Agent
	Upcoming []model.UpcomingAppointment
	Err      error
}

// Engine composes the time resolver, availability checker and agent matcher
// to either report availability or commit a booking.
type Engine struct {
	Store   store.Repository
	Matcher *Matcher

	// UpcomingLimit caps CheckAvailability listings.
	UpcomingLimit int

	// now is swapped in tests.
	now func() time.Time
}

func NewEngine(repo store.Repository, upcomingLimit int) *Engine {
	checker := &Checker{Conflicts: repo}
	return &Engine{
		Store:         repo,
		Matcher:       &Matcher{Agents: repo, Checker: checker},
		UpcomingLimit: upcomingLimit,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// CheckAvailability lists the most imminent upcoming appointments. It never
// mutates the appointment store.
func (e *Engine) CheckAvailability(ctx context.Context) (Outcome, error) {
	upcoming, err := e.Store.ListUpcomingAppointments(ctx, e.UpcomingLimit)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Kind: OutcomeUpcoming, Upcoming: upcoming}, nil
}

// Book runs the booking flow for extracted appointment details. A returned
// error means a collaborator failed mid-decision; every scheduling decision,
// including the insert losing the slot race, comes back as an Outcome.
func (e *Engine) Book(ctx context.Context, details *model.AppointmentDetails) (Outcome, error) {
	if details == nil || details.Action == "" {
		return Outcome{Kind: OutcomeNeedInfo}, nil
	}

	if details.Action == model.ActionCheckAvailability {
		out, err := e.CheckAvailability(ctx)
		out.Details = details
		return out, err
	}

	if details.AppointmentType == "" || details.CustomerName == "" || details.TimePreference == "" {
		return Outcome{Kind: OutcomeMissingDetails, Details: details}, nil
	}

	start, err := ResolveTimePreference(details.TimePreference, e.now())
	if err != nil {
		log.Debug().Str("preference", details.TimePreference).Msg("unparseable time preference")
		return Outcome{Kind: OutcomeUnparseableTime, Details: details}, nil
	}

	available, err := e.Matcher.FindAvailable(ctx, details.AppointmentType, start, details.DurationMinutes)
	if err != nil {
		return Outcome{}, err
	}

	agent, ok := Select(available, details.AgentName)
	if !ok {
		kind := OutcomeNoAgents
		if details.AgentName != "" {
			kind = OutcomePreferredAgentUnavailable
		}
		return Outcome{Kind: kind, Details: details, Start: start}, nil
	}

	appt := &model.Appointment{
		AgentID:         agent.ID,
		CustomerName:    details.CustomerName,
		StartTime:       start,
		DurationMinutes: details.DurationMinutes,
		Type:            details.AppointmentType,
	}
	if err := e.Store.CreateAppointment(ctx, appt); err != nil {
		if errors.Is(err, store.ErrSlotConflict) {
			// Lost the check-then-insert race; same refusal as a failed
			// availability check.
			return Outcome{Kind: OutcomeNoAgents, Details: details, Start: start}, nil
		}
		log.Error().Err(err).Int64("agent_id", agent.ID).Msg("booking insert failed")
		return Outcome{Kind: OutcomeStorageFailed, Details: details, Start: start, Agent: agent, Err: err}, nil
	}

	log.Info().
		Str("agent", agent.Name).
		Str("customer", details.CustomerName).
		Time("start", start).
		Msg("appointment booked")
	return Outcome{Kind: OutcomeBooked, Details: details, Start: start, Agent: agent}, nil
}
