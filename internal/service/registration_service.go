package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"clubsite/internal/content"
	"clubsite/internal/domain"
	"clubsite/pkg/errors"
	"clubsite/pkg/logger"
	"clubsite/pkg/utils"
)

// DefaultRegistrationDelay mirrors the latency of the hosted registration form
const DefaultRegistrationDelay = 1500 * time.Millisecond

// RegistrationService records event registrations in the content store
type RegistrationService struct {
	content   *content.Service
	countdown *CountdownService
	delay     time.Duration
	logger    *logger.Logger

	// registrations are read-modify-write per event
	mu sync.Mutex
}

// NewRegistrationService creates a registration service
func NewRegistrationService(contentSvc *content.Service, countdownSvc *CountdownService, delay time.Duration, logger *logger.Logger) *RegistrationService {
	if delay < 0 {
		delay = 0
	}
	return &RegistrationService{
		content:   contentSvc,
		countdown: countdownSvc,
		delay:     delay,
		logger:    logger.Named("registration"),
	}
}

// Register validates the request and stores a registration for eventID
func (s *RegistrationService) Register(ctx context.Context, eventID int, req domain.RegistrationRequest) (*domain.RegistrationResponse, error) {
	reg, err := validateRegistration(req)
	if err != nil {
		return nil, err
	}

	event, ok := s.content.EventByID(ctx, eventID)
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("event %d not found", eventID))
	}
	if event.Status == domain.EventStatusPast {
		return nil, errors.NewConflictError("Registration is closed for past events")
	}
	if view := s.countdown.View(event, s.countdown.Now()); view.Expired {
		return nil, errors.NewConflictError("This event has already started")
	}

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.list(ctx, eventID)
	if err != nil {
		return nil, err
	}
	for _, r := range existing {
		if r.Email == reg.Email {
			return nil, errors.NewConflictError("This email is already registered for the event")
		}
	}

	reg.ID = uuid.NewString()
	reg.EventID = eventID
	reg.CreatedAt = s.countdown.Now().UTC()

	raw, err := json.Marshal(append(existing, reg))
	if err != nil {
		return nil, errors.NewInternalError("Failed to encode registrations", err)
	}
	if err := s.content.Store().Set(ctx, content.RegistrationKey(eventID), string(raw)); err != nil {
		s.logger.WithError(err).WithField("event_id", eventID).Error("Failed to store registration")
		return nil, errors.NewInternalError("Failed to store registration", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"event_id":        eventID,
		"registration_id": reg.ID,
	}).Info("Registration recorded")

	return &domain.RegistrationResponse{
		Registration:     reg,
		EventTitle:       event.Title,
		RegistrationLink: event.RegistrationLink,
		Message:          fmt.Sprintf("You are registered for %s", event.Title),
	}, nil
}

// List returns the registrations of an event in submission order
func (s *RegistrationService) List(ctx context.Context, eventID int) ([]domain.Registration, error) {
	if _, ok := s.content.EventByID(ctx, eventID); !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("event %d not found", eventID))
	}
	return s.list(ctx, eventID)
}

func (s *RegistrationService) list(ctx context.Context, eventID int) ([]domain.Registration, error) {
	raw, found, err := s.content.Store().Get(ctx, content.RegistrationKey(eventID))
	if err != nil {
		return nil, errors.NewInternalError("Failed to read registrations", err)
	}
	registrations := make([]domain.Registration, 0)
	if !found {
		return registrations, nil
	}
	if err := json.Unmarshal([]byte(raw), &registrations); err != nil {
		s.logger.WithError(err).WithField("event_id", eventID).Error("Registrations slot is unreadable")
		return nil, errors.NewInternalError("Stored registrations are unreadable", err)
	}
	return registrations, nil
}

// wait simulates submission latency and gives up when ctx is done
func (s *RegistrationService) wait(ctx context.Context) error {
	if s.delay == 0 {
		return nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return errors.NewUnavailableError("Registration was cancelled")
	case <-timer.C:
		return nil
	}
}

func validateRegistration(req domain.RegistrationRequest) (domain.Registration, error) {
	details := make(map[string]interface{})

	name := strings.TrimSpace(req.Name)
	if len([]rune(name)) < 2 {
		details["name"] = "Name must be at least 2 characters"
	} else if len([]rune(name)) > 100 {
		details["name"] = "Name must be at most 100 characters"
	}

	email, err := utils.NormalizeEmail(req.Email)
	if err != nil {
		details["email"] = "A valid email address is required"
	}

	phone := ""
	if strings.TrimSpace(req.Phone) != "" {
		phone, err = utils.NormalizePhoneNumber(req.Phone)
		if err != nil {
			details["phone"] = "Phone number is invalid"
		}
	}

	if len(details) > 0 {
		return domain.Registration{}, errors.NewValidationError("Invalid registration", details)
	}
	return domain.Registration{Name: name, Email: email, Phone: phone}, nil
}
