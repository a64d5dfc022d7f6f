// Package complaint is the complaint lifecycle: submission with automatic urgency triage,
// admin transitions out of Pending, and scoped reads and live observation.
package complaint

import (
	"campusdesk/backend/internal/analysis"
	"campusdesk/backend/internal/config"
	"campusdesk/backend/internal/feedhub"
	"campusdesk/backend/internal/models"
	"campusdesk/backend/internal/storage"
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// Classifier assigns an urgency to a description. It never fails.
type Classifier interface {
	Classify(ctx context.Context, description string) models.Urgency
}

// Feed opens live complaint streams.
type Feed interface {
	Observe(ctx context.Context, filter models.ComplaintFilter) (*feedhub.Subscription, error)
}

// Notifier is told about committed lifecycle events. Failures are logged, not returned.
type Notifier interface {
	ComplaintSubmitted(ctx context.Context, c *models.Complaint)
	ComplaintTransitioned(ctx context.Context, c *models.Complaint)
}

type nopNotifier struct{}

func (nopNotifier) ComplaintSubmitted(context.Context, *models.Complaint)    {}
func (nopNotifier) ComplaintTransitioned(context.Context, *models.Complaint) {}

// Service handles the business logic for complaints.
type Service struct {
	Storage    storage.Storage
	Classifier Classifier
	Feed       Feed
	Notifier   Notifier
}

// NewService creates a new complaint service. A nil notifier disables alerts.
func NewService(s storage.Storage, c Classifier, feed Feed, n Notifier) *Service {
	if n == nil {
		n = nopNotifier{}
	}
	return &Service{Storage: s, Classifier: c, Feed: feed, Notifier: n}
}

// Stats summarises the whole desk for the admin dashboard.
type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Resolved int `json:"resolved"`
	Rejected int `json:"rejected"`
	Critical int `json:"critical"`
}

// Submit classifies and stores a new complaint. Classification finishes before the insert,
// so a stored complaint always carries its final urgency.
func (s *Service) Submit(ctx context.Context, p *models.Principal, req SubmitRequest) (*models.Complaint, error) {
	if p == nil || p.UserID == "" {
		return nil, ErrUnauthenticated
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	urgency := models.DefaultUrgency
	if s.Classifier != nil {
		urgency = s.Classifier.Classify(ctx, req.Description)
	}

	location := req.Location
	if location == "" {
		location = models.LocationNotSpecified
	}
	c := &models.Complaint{
		UserID:      p.UserID,
		UserEmail:   p.Email,
		UserName:    p.DisplayName(),
		Department:  models.Department(req.Department),
		Description: req.Description,
		Location:    location,
		Urgency:     urgency,
		Status:      models.StatusPending,
	}
	// A caller that went away during classification still gets its complaint stored.
	writeCtx := context.WithoutCancel(ctx)
	if err := s.Storage.CreateComplaint(writeCtx, c); err != nil {
		return nil, fmt.Errorf("submit complaint: %w", err)
	}
	log.Printf("INFO: Complaint %s submitted by %s (%s, %s)", c.ID, c.UserID, c.Department, c.Urgency)

	s.publish(writeCtx, c, models.ChangeCreated)
	s.Notifier.ComplaintSubmitted(writeCtx, c)
	return c, nil
}

// Transition moves a Pending complaint to Resolved or Rejected. Only the first transition
// of a complaint is applied; later ones get ErrAlreadyClosed.
func (s *Service) Transition(ctx context.Context, p *models.Principal, id string, next models.Status, reply string) (*models.Complaint, error) {
	if p == nil || p.UserID == "" {
		return nil, ErrUnauthenticated
	}
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}
	if next != models.StatusResolved && next != models.StatusRejected {
		return nil, &ValidationError{Field: "status", Reason: "must be Resolved or Rejected"}
	}
	reply = strings.TrimSpace(reply)
	if utf8.RuneCountInString(reply) > config.MaxReplyLength {
		return nil, &ValidationError{Field: "adminReply", Reason: fmt.Sprintf("must be at most %d characters", config.MaxReplyLength)}
	}

	c, applied, err := s.Storage.ApplyTransition(ctx, id, next, reply)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("transition complaint %s: %w", id, err)
	}
	if !applied {
		log.Printf("WARN: Complaint %s is already %s, %s by %s ignored", id, c.Status, next, p.UserID)
		return c, ErrAlreadyClosed
	}
	log.Printf("INFO: Complaint %s marked %s by %s", c.ID, c.Status, p.UserID)

	s.publish(ctx, c, models.ChangeUpdated)
	s.Notifier.ComplaintTransitioned(ctx, c)
	return c, nil
}

// Observe opens a live stream. Students only ever observe their own complaints.
func (s *Service) Observe(ctx context.Context, p *models.Principal, filter models.ComplaintFilter) (*feedhub.Subscription, error) {
	if p == nil || p.UserID == "" {
		return nil, ErrUnauthenticated
	}
	if s.Feed == nil {
		return nil, errors.New("complaint: live feed is not running")
	}
	return s.Feed.Observe(ctx, scope(p, filter))
}

// Get returns one complaint to its owner or an admin.
func (s *Service) Get(ctx context.Context, p *models.Principal, id string) (*models.Complaint, error) {
	if p == nil || p.UserID == "" {
		return nil, ErrUnauthenticated
	}
	c, err := s.Storage.GetComplaint(ctx, id)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// Foreign complaints are reported as missing.
	if !p.IsAdmin() && c.UserID != p.UserID {
		return nil, ErrNotFound
	}
	return c, nil
}

// List returns the complaints visible to p, newest first. With triage set, admins get
// the most urgent complaints first and the newest within each urgency.
func (s *Service) List(ctx context.Context, p *models.Principal, filter models.ComplaintFilter, triage bool) ([]models.Complaint, error) {
	if p == nil || p.UserID == "" {
		return nil, ErrUnauthenticated
	}
	list, err := s.Storage.ListComplaints(ctx, scope(p, filter), config.SnapshotLimit)
	if err != nil {
		return nil, err
	}
	if triage {
		sort.SliceStable(list, func(i, j int) bool {
			return analysis.GetWeight(list[i].Urgency) > analysis.GetWeight(list[j].Urgency)
		})
	}
	return list, nil
}

func (s *Service) Stats(ctx context.Context, p *models.Principal) (*Stats, error) {
	if p == nil || p.UserID == "" {
		return nil, ErrUnauthenticated
	}
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}
	list, err := s.Storage.ListComplaints(ctx, models.ComplaintFilter{}, 0)
	if err != nil {
		return nil, err
	}

	st := &Stats{Total: len(list)}
	for i := range list {
		switch list[i].Status {
		case models.StatusPending:
			st.Pending++
		case models.StatusResolved:
			st.Resolved++
		case models.StatusRejected:
			st.Rejected++
		}
		if list[i].Urgency == models.UrgencyCritical {
			st.Critical++
		}
	}
	return st, nil
}

func scope(p *models.Principal, filter models.ComplaintFilter) models.ComplaintFilter {
	if !p.IsAdmin() {
		filter.UserID = p.UserID
	}
	return filter
}

// publish is best effort: the complaint is already committed, observers of a missed event
// catch up on the next change.
func (s *Service) publish(ctx context.Context, c *models.Complaint, kind string) {
	ev := models.ChangeEvent{ComplaintID: c.ID, UserID: c.UserID, Kind: kind, At: time.Now().UTC()}
	if err := s.Storage.PublishChange(ctx, ev); err != nil {
		log.Printf("WARN: Failed to publish %s event for complaint %s: %v", kind, c.ID, err)
	}
}
