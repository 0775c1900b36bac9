package lease

import "strings"

type ApplyRequest struct {
	PropertyID int64  `json:"property_id" validate:"required,gt=0"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Message    string `json:"message" validate:"max=1000"`
}

// DecideRequest carries the landlord decision. Status is what the web client
// sends; Action is accepted as an alias.
type DecideRequest struct {
	Status    string `json:"status"`
	Action    string `json:"action"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r DecideRequest) decision() string {
	if s := strings.TrimSpace(r.Status); s != "" {
		return s
	}
	return r.Action
}

// ParseDecision maps the status names used by the dashboards onto the target
// status of a decision.
func ParseDecision(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approved", "approve", "active", "accept", "accepted":
		return StatusActive, nil
	case "rejected", "reject", "declined", "decline":
		return StatusRejected, nil
	}
	return "", ErrInvalidDecision
}

type SweepResult struct {
	Ended  int `json:"ended"`
	Failed int `json:"failed"`
}

type StatusCount struct {
	Status Status `json:"status"`
	Count  int64  `json:"count"`
}
