package maintenance

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexibleID decodes a number or a numeric string; form-driven clients send
// select values as strings.
type FlexibleID int64

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*id = 0
			return nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		*id = FlexibleID(v)
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*id = FlexibleID(v)
	return nil
}

// FileRequest opens a ticket. LeaseID or UnitID (the property id) select the
// lease; with neither the tenant's only active lease is used.
type FileRequest struct {
	LeaseID     FlexibleID `json:"lease_id" validate:"gte=0"`
	UnitID      FlexibleID `json:"unit_id" validate:"gte=0"`
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	Priority    string     `json:"priority"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ParsePriority defaults to medium.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	case "medium", "normal":
		return PriorityMedium, nil
	case "high", "urgent":
		return PriorityHigh, nil
	}
	return "", ErrInvalidPriority
}

// ParseStatus accepts the spellings used across the dashboards.
func ParseStatus(s string) (Status, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.NewReplacer("-", "_", " ", "_").Replace(v)
	switch v {
	case "pending", "open":
		return StatusPending, nil
	case "in_progress", "inprogress":
		return StatusInProgress, nil
	case "completed", "complete", "resolved", "done":
		return StatusCompleted, nil
	}
	return "", ErrInvalidStatus
}
