package model

import "time"

const (
	ActionBook              = "book"
	ActionCheckAvailability = "check_availability"
)

const (
	RoleSales   = "sales"
	RoleService = "service"
)

const (
	DefaultCustomerName    = "Guest"
	DefaultDurationMinutes = 30
)

// Agent is static reference data seeded at setup time. WorkStart and WorkEnd
// are time-of-day strings ("09:00"), no date component.
type Agent struct {
	ID        int64
	Name      string
	Role      string
	WorkStart string
	WorkEnd   string
}

// Appointment is created only by a successful booking and never updated or
// deleted by this core.
type Appointment struct {
	ID              int64
	AgentID         int64
	CustomerName    string
	StartTime       time.Time
	DurationMinutes int
	Type            string
	CreatedAt       time.Time
}

// UpcomingAppointment is the read model for availability listings.
type UpcomingAppointment struct {
	StartTime time.Time
	AgentName string
}

// AppointmentDetails holds the structured fields the classifier extracts for
// APPOINTMENT intents. A nil *AppointmentDetails means extraction failed or
// produced nothing and is treated as "need more information", not an error.
//
// Field semantics mirror the classifier contract: empty string means the field
// was not supplied (or was null in the blob), except CustomerName, which
// defaults to "Guest" only when the key was entirely absent.
type AppointmentDetails struct {
	Action          string
	AppointmentType string
	CustomerName    string
	TimePreference  string
	DurationMinutes int
	AgentName       string
}

// DecodeAppointmentDetails extracts fields from a decoded JSON object the way
// the classifier emits them. Null and absent values collapse to their
// defaults; unknown keys are ignored.
func DecodeAppointmentDetails(obj map[string]any) *AppointmentDetails {
	d := &AppointmentDetails{
		Action:          stringField(obj, "action"),
		AppointmentType: stringField(obj, "appointment_type"),
		TimePreference:  stringField(obj, "time_preference"),
		AgentName:       stringField(obj, "agent_name"),
		DurationMinutes: DefaultDurationMinutes,
	}

	if _, present := obj["customer_name"]; !present {
		d.CustomerName = DefaultCustomerName
	} else {
		d.CustomerName = stringField(obj, "customer_name")
	}

	if v, ok := obj["duration_minutes"].(float64); ok && v > 0 {
		d.DurationMinutes = int(v)
	}

	return d
}

func stringField(obj map[string]any, key string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return ""
}
