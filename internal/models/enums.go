package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Urgency is the severity label the classifier attaches to a complaint.
// The zero value is not a valid label.
type Urgency uint8

const (
	UrgencyLow Urgency = iota + 1
	UrgencyMedium
	UrgencyHigh
	UrgencyCritical
)

// DefaultUrgency is used whenever classification cannot produce a confident result.
const DefaultUrgency = UrgencyMedium

var urgencyNames = map[Urgency]string{
	UrgencyLow:      "Low",
	UrgencyMedium:   "Medium",
	UrgencyHigh:     "High",
	UrgencyCritical: "Critical",
}

// Urgencies lists the labels from the most to the least severe.
var Urgencies = []Urgency{UrgencyCritical, UrgencyHigh, UrgencyMedium, UrgencyLow}

// ParseUrgency accepts any casing of a canonical label ("HIGH", "high", "High").
func ParseUrgency(s string) (Urgency, error) {
	s = strings.TrimSpace(s)
	for u, name := range urgencyNames {
		if strings.EqualFold(s, name) {
			return u, nil
		}
	}
	return 0, fmt.Errorf("unknown urgency %q", s)
}

func (u Urgency) Valid() bool {
	_, ok := urgencyNames[u]
	return ok
}

func (u Urgency) String() string {
	if name, ok := urgencyNames[u]; ok {
		return name
	}
	return fmt.Sprintf("Urgency(%d)", uint8(u))
}

// Wire returns the uppercase form used by the classify endpoint.
func (u Urgency) Wire() string {
	return strings.ToUpper(u.String())
}

func (u Urgency) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, fmt.Errorf("invalid urgency %d", uint8(u))
	}
	return []byte(u.String()), nil
}

func (u *Urgency) UnmarshalText(b []byte) error {
	parsed, err := ParseUrgency(string(b))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Value stores the label as text.
func (u Urgency) Value() (driver.Value, error) {
	if !u.Valid() {
		return nil, fmt.Errorf("invalid urgency %d", uint8(u))
	}
	return u.String(), nil
}

func (u *Urgency) Scan(src any) error {
	return u.UnmarshalText(scanText(src))
}

// Status is the lifecycle state of a complaint.
type Status uint8

const (
	StatusPending Status = iota + 1
	StatusResolved
	StatusRejected
)

var statusNames = map[Status]string{
	StatusPending:  "Pending",
	StatusResolved: "Resolved",
	StatusRejected: "Rejected",
}

func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	for st, name := range statusNames {
		if strings.EqualFold(s, name) {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// IsTerminal reports whether no further transition is defined from s.
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusRejected
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Status) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %d", uint8(s))
	}
	return s.String(), nil
}

func (s *Status) Scan(src any) error {
	return s.UnmarshalText(scanText(src))
}

// Department is one of the fixed campus departments a complaint is filed against.
type Department string

const (
	DepartmentHostel     Department = "hostel"
	DepartmentMess       Department = "mess"
	DepartmentAcademics  Department = "academics"
	DepartmentFacilities Department = "facilities"
	DepartmentTransport  Department = "transport"
	DepartmentSecurity   Department = "security"
	DepartmentSports     Department = "sports"
	DepartmentLibrary    Department = "library"
	DepartmentIT         Department = "it"
	DepartmentOther      Department = "other"
)

// Departments is the full catalog in display order.
var Departments = []Department{
	DepartmentHostel, DepartmentMess, DepartmentAcademics, DepartmentFacilities, DepartmentTransport,
	DepartmentSecurity, DepartmentSports, DepartmentLibrary, DepartmentIT, DepartmentOther,
}

func ParseDepartment(s string) (Department, error) {
	d := Department(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown department %q", s)
	}
	return d, nil
}

func (d Department) Valid() bool {
	for _, known := range Departments {
		if d == known {
			return true
		}
	}
	return false
}

func scanText(src any) []byte {
	switch v := src.(type) {
	case string:
		return []byte(v)
	case []byte:
		return v
	default:
		return []byte(fmt.Sprint(v))
	}
}
