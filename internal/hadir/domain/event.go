package domain

import "time"

// DateLayout is the calendar-date form used for the event date and the
// RSVP deadline. Both are dates, not instants; the deadline closes at the
// end of its calendar day.
const DateLayout = "2006-01-02"

// EventConfig is the singleton event record. Date and Deadline are stored
// as calendar-date strings ("2006-01-02"); an empty Deadline means RSVP
// stays open indefinitely.
type EventConfig struct {
	EventName string
	Theme     string
	Location  string
	Date      string
	Deadline  string

	UpdatedAt time.Time
}

// DefaultEventConfig is written to the store the first time the config is
// read and found absent, so every later reader observes the same record.
func DefaultEventConfig() EventConfig {
	return EventConfig{
		EventName: "Sambutan Hari Farmasi Sedunia Peringkat Negeri Kelantan 2025",
		Date:      "2025-09-22",
		Location:  "Dataran Kemahkotaan, Machang",
		Theme:     "Pharmacists Stepping Up",
		Deadline:  "",
	}
}

// DeadlinePassed reports whether guest-initiated RSVP changes are closed
// at the given moment. The cutoff is the end of the deadline's calendar
// day in loc. An unset or malformed deadline never gates.
func (c EventConfig) DeadlinePassed(now time.Time, loc *time.Location) bool {
	if c.Deadline == "" {
		return false
	}
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation(DateLayout, c.Deadline, loc)
	if err != nil {
		return false
	}
	endOfDay := day.AddDate(0, 0, 1)
	return !now.Before(endOfDay)
}
