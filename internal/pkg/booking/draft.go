package booking

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DanceLinkHQ/DanceLink/internal/pkg/platformapi"
)

// Service categories a booking request can target.
const (
	CategoryPrivateLessons = "private_lessons"
	CategoryGroupClasses   = "group_classes"
	CategoryChoreography   = "choreography"
	CategoryEvents         = "events"
)

var validCategories = map[string]struct{}{
	CategoryPrivateLessons: {},
	CategoryGroupClasses:   {},
	CategoryChoreography:   {},
	CategoryEvents:         {},
}

// Draft is the in-progress booking request. It lives in the user's session
// only: unlike the registration flow it does not survive a reload into a new
// session, and it is discarded after submission or on explicit cancel.
type Draft struct {
	ID                string    `json:"id"`
	ServiceCategories []string  `json:"service_categories"`
	DanceStyles       []string  `json:"dance_styles"`
	Zipcode           string    `json:"zipcode"`
	TravelRadiusKM    int       `json:"travel_radius_km"`
	Date              time.Time `json:"date"`
	PriceMin          float64   `json:"price_min"`
	PriceMax          float64   `json:"price_max"`

	// Professional-specific sub-fields, filled when the request targets a
	// professional engagement (events, choreography).
	YearsExperience int      `json:"years_experience"`
	Bio             string   `json:"bio"`
	Services        []string `json:"services"`

	// Authenticated snapshots the session check from the account step.
	Authenticated bool `json:"authenticated"`
}

// NewDraft creates an empty draft for a freshly mounted wizard.
func NewDraft() *Draft {
	return &Draft{
		ID:             uuid.NewString(),
		TravelRadiusKM: 10,
	}
}

// SetCategories replaces the category set, dropping unknown and duplicate
// values.
func (d *Draft) SetCategories(categories []string) {
	seen := make(map[string]struct{}, len(categories))
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if _, ok := validCategories[c]; !ok {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	d.ServiceCategories = out
}

// SetStyles replaces the dance style set, trimming empties and duplicates.
func (d *Draft) SetStyles(styles []string) {
	seen := make(map[string]struct{}, len(styles))
	out := make([]string, 0, len(styles))
	for _, s := range styles {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	d.DanceStyles = out
}

// Payload assembles the whole draft for submission on completion of the
// last step.
func (d *Draft) Payload() platformapi.BookingPayload {
	date := ""
	if !d.Date.IsZero() {
		date = d.Date.Format("2006-01-02")
	}
	return platformapi.BookingPayload{
		ServiceCategories: d.ServiceCategories,
		DanceStyles:       d.DanceStyles,
		Zipcode:           d.Zipcode,
		TravelRadiusKM:    d.TravelRadiusKM,
		Date:              date,
		PriceMin:          d.PriceMin,
		PriceMax:          d.PriceMax,
		YearsExperience:   d.YearsExperience,
		Bio:               d.Bio,
		Services:          d.Services,
	}
}

// Encode serializes the draft for session storage.
func (d *Draft) Encode() string {
	raw, err := json.Marshal(d)
	if err != nil {
		return ""
	}
	return string(raw)
}

// DecodeDraft restores a draft from its session blob. Anything unreadable
// starts the wizard over with a fresh draft.
func DecodeDraft(raw string) *Draft {
	if raw == "" {
		return NewDraft()
	}
	var d Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return NewDraft()
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return &d
}
