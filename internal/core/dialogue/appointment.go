package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/cobalt/internal/core/model"
	"github.com/agenthands/cobalt/internal/core/scheduling"
	"github.com/agenthands/cobalt/internal/llm"
)

const (
	clockFormat    = "03:04 PM"
	dateFormat     = "Monday, January 02"
	dateTimeFormat = "Monday, January 02 at 03:04 PM"
)

// AppointmentHandler runs the scheduling engine and phrases its outcome.
// Confirmations and availability listings are formatted directly; requests for
// clarification and refusals go through the model so they stay conversational.
type AppointmentHandler struct {
	LLM    llm.ChatClient
	Engine *scheduling.Engine
}

func (h *AppointmentHandler) Answer(ctx context.Context, details *model.AppointmentDetails, history []model.Turn) (string, error) {
	out, err := h.Engine.Book(ctx, details)
	if err != nil {
		return "", err
	}

	switch out.Kind {
	case scheduling.OutcomeBooked:
		return fmt.Sprintf(
			"Great! Your %s appointment with %s on %s has been successfully booked for %s. We look forward to seeing you!",
			out.Details.AppointmentType, out.Agent.Name, out.Start.Format(dateTimeFormat), out.Details.CustomerName,
		), nil

	case scheduling.OutcomeUpcoming:
		if len(out.Upcoming) == 0 {
			return "No upcoming appointments are scheduled.", nil
		}
		lines := make([]string, 0, len(out.Upcoming))
		for _, u := range out.Upcoming {
			lines = append(lines, fmt.Sprintf("%s at %s", u.AgentName, u.StartTime.Format(dateTimeFormat)))
		}
		return "Upcoming appointments:\n" + strings.Join(lines, "\n"), nil

	case scheduling.OutcomeMissingDetails:
		return chatWithContext(ctx, h.LLM, AppointmentSystemPrompt, missingDetailsPrompt(out.Details), nil, history)

	case scheduling.OutcomeUnparseableTime:
		return chatWithContext(ctx, h.LLM, AppointmentSystemPrompt,
			"I couldn't understand the date and time you mentioned. Could you please specify it clearly, for example, 'tomorrow at 2 PM' or 'next Monday at 10 AM'?",
			nil, history)

	case scheduling.OutcomePreferredAgentUnavailable:
		return chatWithContext(ctx, h.LLM, AppointmentSystemPrompt,
			fmt.Sprintf("I'm sorry, %s is not available at %s on %s. There are no other agents available at that time either. Please try a different time.",
				out.Details.AgentName, out.Start.Format(clockFormat), out.Start.Format(dateFormat)),
			nil, history)

	case scheduling.OutcomeNoAgents:
		return chatWithContext(ctx, h.LLM, AppointmentSystemPrompt,
			fmt.Sprintf("I'm sorry, I couldn't find any %s agents available at %s on %s. Would you like to try a different time or day?",
				out.Details.AppointmentType, out.Start.Format(clockFormat), out.Start.Format(dateFormat)),
			nil, history)

	case scheduling.OutcomeStorageFailed:
		return chatWithContext(ctx, h.LLM, AppointmentSystemPrompt,
			fmt.Sprintf("I encountered an error while trying to book your appointment: %v. Please try again.", out.Err),
			nil, history)

	default: // OutcomeNeedInfo
		return chatWithContext(ctx, h.LLM, AppointmentSystemPrompt,
			"Sure, I can help you with appointments. Please tell me your name and what type of appointment you're looking for (sales or service), and what date and time works best for you.",
			nil, history)
	}
}

// missingDetailsPrompt echoes back which booking fields are still missing so
// the model can ask for exactly those.
func missingDetailsPrompt(d *model.AppointmentDetails) string {
	return fmt.Sprintf(`To book an appointment, below are the necessary details,

    - appointment type - SALES or SERVICE
    - customer name
    - time preference

Input details are given below. If any of the above details are not present, ask and get it from the user.

**Input details:**
    - appointment_type: %s
    - customer_name: %s
    - time_preference: %s`,
		orMissing(d.AppointmentType), orMissing(d.CustomerName), orMissing(d.TimePreference))
}

func orMissing(s string) string {
	if s == "" {
		return "<missing>"
	}
	return s
}
