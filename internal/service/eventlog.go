package service

import (
	"context"
	"fmt"
	"strings"

	"controlling_doze/internal/models"
	"controlling_doze/internal/repository"
)

// MaxLogLimit caps how many events one List call returns when a limit is set.
const MaxLogLimit = 1000

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// normalizeFilter converts times to UTC, canonicalizes the type names and
// rejects filters that can never match.
func normalizeFilter(f LogFilter) (repository.EventQuery, error) {
	q := repository.EventQuery{
		Type:   strings.ToUpper(strings.TrimSpace(f.Type)),
		Serial: strings.TrimSpace(f.Serial),
		Limit:  f.Limit,
	}
	if !f.From.IsZero() {
		q.From = f.From.UTC()
	}
	if !f.To.IsZero() {
		q.To = f.To.UTC()
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		return repository.EventQuery{}, ErrInvalidTimeRange
	}
	if q.Type != "" && !models.ValidEventType(q.Type) {
		return repository.EventQuery{}, fmt.Errorf("%w: unknown event type %q", ErrInvalidLogFilter, f.Type)
	}
	if f.DozeType != "" {
		t, ok := models.ParseDozeType(string(f.DozeType))
		if !ok {
			return repository.EventQuery{}, fmt.Errorf("%w: unknown doze type %q", ErrInvalidLogFilter, f.DozeType)
		}
		q.DozeType = t
	}
	switch {
	case q.Limit < 0:
		return repository.EventQuery{}, fmt.Errorf("%w: negative limit %d", ErrInvalidLogFilter, f.Limit)
	case q.Limit > MaxLogLimit:
		q.Limit = MaxLogLimit
	}
	return q, nil
}

// List returns transition events matching f, oldest first.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.DozeEvent, error) {
	q, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, q)
}
