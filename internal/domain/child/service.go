package child

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkazmin/babylog/internal/repository"
)

// Service handles caregiver and child registration.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new child service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// RegisterCaregiver registers the chat identity, or returns the existing
// registration. Idempotent by chat id.
func (s *Service) RegisterCaregiver(ctx context.Context, chatID, name string) (*Caregiver, error) {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return nil, fmt.Errorf("%w: chat_id is required", ErrInvalidInput)
	}

	existing, err := s.repo.GetCaregiverByChatID(ctx, chatID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("looking up caregiver: %w", err)
	}

	c := &Caregiver{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Name:      strings.TrimSpace(name),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.CreateCaregiver(ctx, c); err != nil {
		return nil, fmt.Errorf("creating caregiver: %w", err)
	}
	s.logger.Info("caregiver registered", "caregiver_id", c.ID, "chat_id", chatID)
	return c, nil
}

// AddChild adds a child under the caregiver registered for the chat.
// birthDate is "2006-01-02" or empty.
func (s *Service) AddChild(ctx context.Context, chatID, name, birthDate, gender string) (*Child, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	caregiver, err := s.caregiverByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	ch := &Child{
		ID:          uuid.NewString(),
		CaregiverID: caregiver.ID,
		Name:        name,
		Gender:      strings.TrimSpace(gender),
		CreatedAt:   s.now().UTC(),
	}
	if birthDate != "" {
		parsed, err := time.Parse("2006-01-02", birthDate)
		if err != nil {
			return nil, fmt.Errorf("%w: birth_date %q", ErrInvalidInput, birthDate)
		}
		ch.BirthDate = &parsed
	}

	if err := s.repo.CreateChild(ctx, ch); err != nil {
		return nil, fmt.Errorf("creating child: %w", err)
	}
	s.logger.Info("child added", "child_id", ch.ID, "caregiver_id", caregiver.ID)
	return ch, nil
}

// ListChildren lists the children of the caregiver registered for the chat.
func (s *Service) ListChildren(ctx context.Context, chatID string) ([]Child, error) {
	caregiver, err := s.caregiverByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	children, err := s.repo.ListByCaregiver(ctx, caregiver.ID)
	if err != nil {
		return nil, fmt.Errorf("listing children: %w", err)
	}
	return children, nil
}

// GetChild fetches a child by id.
func (s *Service) GetChild(ctx context.Context, id string) (*Child, error) {
	ch, err := s.repo.GetChild(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChildNotFound
		}
		return nil, fmt.Errorf("getting child: %w", err)
	}
	return ch, nil
}

func (s *Service) caregiverByChat(ctx context.Context, chatID string) (*Caregiver, error) {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return nil, fmt.Errorf("%w: chat_id is required", ErrInvalidInput)
	}
	caregiver, err := s.repo.GetCaregiverByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCaregiverNotFound
		}
		return nil, fmt.Errorf("looking up caregiver: %w", err)
	}
	return caregiver, nil
}
