package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Change kinds carried by ChangeEvent.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
)

// ChangeEvent announces that a complaint was written to the store.
type ChangeEvent struct {
	ComplaintID string    `json:"complaint_id"`
	UserID      string    `json:"user_id"`
	Kind        string    `json:"kind"`
	At          time.Time `json:"at"`
}

// UnmarshalJSON accepts any timestamp shape NormalizeTimestamp understands for "at".
func (e *ChangeEvent) UnmarshalJSON(data []byte) error {
	var raw struct {
		ComplaintID string `json:"complaint_id"`
		UserID      string `json:"user_id"`
		Kind        string `json:"kind"`
		At          any    `json:"at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	at, err := NormalizeTimestamp(raw.At)
	if err != nil {
		return err
	}
	e.ComplaintID = raw.ComplaintID
	e.UserID = raw.UserID
	e.Kind = raw.Kind
	e.At = at
	return nil
}

// epochMillisThreshold separates epoch seconds from epoch milliseconds.
const epochMillisThreshold = 1e11

// NormalizeTimestamp converts the timestamp shapes seen at the storage boundary into UTC time:
// time.Time, epoch seconds or milliseconds (number or numeric string), RFC3339 strings and
// {"seconds": n, "nanos": n} objects. A nil value yields the zero time.
func NormalizeTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return t.UTC(), nil
	case *time.Time:
		if t == nil {
			return time.Time{}, nil
		}
		return t.UTC(), nil
	case int64:
		return fromEpoch(float64(t)), nil
	case int:
		return fromEpoch(float64(t)), nil
	case float64:
		return fromEpoch(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return time.Time{}, fmt.Errorf("timestamp %q: %w", t, err)
		}
		return fromEpoch(f), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return fromEpoch(f), nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("timestamp %q: %w", s, err)
		}
		return parsed.UTC(), nil
	case map[string]any:
		secs, err := NormalizeTimestamp(t["seconds"])
		if err != nil {
			return time.Time{}, err
		}
		if nanos, ok := t["nanos"].(float64); ok {
			secs = secs.Add(time.Duration(nanos))
		}
		return secs, nil
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func fromEpoch(f float64) time.Time {
	if f >= epochMillisThreshold {
		return time.UnixMilli(int64(f)).UTC()
	}
	sec := int64(f)
	nsec := int64((f - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC()
}

// ComplaintFilter selects complaints for listing and live observation.
// Zero-valued fields match everything.
type ComplaintFilter struct {
	UserID     string
	Status     Status
	Urgency    Urgency
	Department Department
	// Search is matched case-insensitively against description, location, user name and e-mail.
	Search string
}

func (f ComplaintFilter) Match(c *Complaint) bool {
	if c == nil {
		return false
	}
	if f.UserID != "" && c.UserID != f.UserID {
		return false
	}
	if f.Status != 0 && c.Status != f.Status {
		return false
	}
	if f.Urgency != 0 && c.Urgency != f.Urgency {
		return false
	}
	if f.Department != "" && c.Department != f.Department {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		haystack := strings.ToLower(strings.Join([]string{c.Description, c.Location, c.UserName, c.UserEmail}, "\n"))
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	return true
}

// Touches reports whether a change to a complaint owned by userID can alter this filter's result.
func (f ComplaintFilter) Touches(e ChangeEvent) bool {
	return f.UserID == "" || f.UserID == e.UserID
}
