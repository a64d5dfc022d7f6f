package storage

import (
	"campusdesk/backend/internal/models"
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ChangesChannel is the Redis channel complaint writes are announced on.
const ChangesChannel = "complaints:changes"

// Storage is the complaint store plus its change feed.
type Storage interface {
	CreateComplaint(ctx context.Context, complaint *models.Complaint) error
	GetComplaint(ctx context.Context, id string) (*models.Complaint, error)
	ListComplaints(ctx context.Context, filter models.ComplaintFilter, limit int) ([]models.Complaint, error)
	// ApplyTransition moves a Pending complaint to a terminal status.
	// It reports applied=false when the complaint exists but is no longer Pending.
	ApplyTransition(ctx context.Context, id string, status models.Status, reply string) (complaint *models.Complaint, applied bool, err error)

	GetUserByID(ctx context.Context, id string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error

	PublishChange(ctx context.Context, ev models.ChangeEvent) error
	SubscribeChanges(ctx context.Context) (<-chan models.ChangeEvent, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client

	// local fans out changes in-process when Redis is not configured.
	mu    sync.Mutex
	local map[chan models.ChangeEvent]struct{}
}

// NewStorageService Constructor. rdb may be nil, in which case changes only reach
// subscribers of this process.
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		local: make(map[chan models.ChangeEvent]struct{}),
	}
}

// Migrate creates or updates the tables the store uses.
func (s *Service) Migrate() error {
	return s.DB.AutoMigrate(&models.Complaint{}, &models.User{})
}

// CreateComplaint inserts a new complaint; ID and timestamps are assigned by the store.
func (s *Service) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	complaint.Timestamp = time.Time{}
	complaint.UpdatedAt = time.Time{}
	if err := s.DB.WithContext(ctx).Create(complaint).Error; err != nil {
		log.Printf("ERROR: Failed to save complaint for user %s: %v", complaint.UserID, err)
		return wrap("create complaint", err)
	}
	return nil
}

// GetComplaint повертає скаргу за її ID.
func (s *Service) GetComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	if !validID(id) {
		return nil, &Error{Op: "get complaint", Cause: CauseNotFound, Err: ErrNotFound}
	}
	var complaint models.Complaint
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&complaint).Error; err != nil {
		return nil, wrap("get complaint", err)
	}
	return &complaint, nil
}

// ListComplaints returns matching complaints, newest first. limit <= 0 means no limit.
func (s *Service) ListComplaints(ctx context.Context, filter models.ComplaintFilter, limit int) ([]models.Complaint, error) {
	q := s.DB.WithContext(ctx).Model(&models.Complaint{})
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != 0 {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Urgency != 0 {
		q = q.Where("urgency = ?", filter.Urgency)
	}
	if filter.Department != "" {
		q = q.Where("department = ?", filter.Department)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + escapeLike(strings.ToLower(search)) + "%"
		q = q.Where(`LOWER(description) LIKE ? ESCAPE '\' OR LOWER(location) LIKE ? ESCAPE '\' OR LOWER(user_name) LIKE ? ESCAPE '\' OR LOWER(user_email) LIKE ? ESCAPE '\'`, like, like, like, like)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var complaints []models.Complaint
	if err := q.Order("created_at desc").Find(&complaints).Error; err != nil {
		log.Printf("ERROR: Failed to list complaints: %v", err)
		return nil, wrap("list complaints", err)
	}
	return complaints, nil
}

// ApplyTransition is a conditional update: only a Pending row is changed, so two admins
// racing on the same complaint cannot both win.
func (s *Service) ApplyTransition(ctx context.Context, id string, status models.Status, reply string) (*models.Complaint, bool, error) {
	if !validID(id) {
		return nil, false, &Error{Op: "transition complaint", Cause: CauseNotFound, Err: ErrNotFound}
	}
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if reply != "" {
		updates["admin_reply"] = reply
	}

	var complaint *models.Complaint
	var applied bool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Complaint{}).
			Where("id = ? AND status = ?", id, models.StatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		applied = res.RowsAffected > 0

		var current models.Complaint
		if err := tx.Where("id = ?", id).First(&current).Error; err != nil {
			return err
		}
		complaint = &current
		return nil
	})
	if err != nil {
		return nil, false, wrap("transition complaint", err)
	}
	return complaint, applied, nil
}

func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, wrap("get user", err)
	}
	return &user, nil
}

// SaveUser зберігає користувача в PostgreSQL
func (s *Service) SaveUser(ctx context.Context, user *models.User) error {
	return wrap("save user", s.DB.WithContext(ctx).Save(user).Error)
}

// PublishChange announces a complaint write to every observer.
func (s *Service) PublishChange(ctx context.Context, ev models.ChangeEvent) error {
	if s.Redis == nil {
		s.publishLocal(ev)
		return nil
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := s.Redis.Publish(ctx, ChangesChannel, payload).Err(); err != nil {
		return wrap("publish change", err)
	}
	return nil
}

// SubscribeChanges streams change events until ctx ends; the channel is then closed.
func (s *Service) SubscribeChanges(ctx context.Context) (<-chan models.ChangeEvent, error) {
	out := make(chan models.ChangeEvent, 64)

	if s.Redis == nil {
		s.mu.Lock()
		s.local[out] = struct{}{}
		s.mu.Unlock()
		go func() {
			<-ctx.Done()
			s.mu.Lock()
			delete(s.local, out)
			close(out)
			s.mu.Unlock()
		}()
		return out, nil
	}

	pubsub := s.Redis.Subscribe(ctx, ChangesChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, wrap("subscribe changes", err)
	}

	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev models.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Printf("Error unmarshalling Redis change event: %v", err)
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (s *Service) publishLocal(ev models.ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.local {
		select {
		case ch <- ev:
		default:
			log.Printf("WARN: dropping change event %s for a slow local subscriber", ev.ComplaintID)
		}
	}
}

// validID rejects ids that can never match the uuid primary key.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
