package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"controlling_doze/internal/device"
	"controlling_doze/internal/doze"
	"controlling_doze/internal/logger"
	"controlling_doze/internal/metrics"
	"controlling_doze/internal/models"
	"controlling_doze/internal/repository"

	"github.com/google/uuid"
)

type DozeService struct {
	resolver   *deviceResolver
	locks      *deviceLocks
	statusRepo repository.StatusRepo
	eventRepo  repository.EventRepo
	ctrl       *doze.Controller
	rec        metrics.Recorder
	log        *logger.Logger
}

// NewDozeService builds the controller from policy; attempts are reported to rec.
func NewDozeService(
	resolver *deviceResolver,
	locks *deviceLocks,
	statusRepo repository.StatusRepo,
	eventRepo repository.EventRepo,
	policy doze.Policy,
	rec metrics.Recorder,
	log *logger.Logger,
	opts ...doze.Option,
) *DozeService {
	s := &DozeService{
		resolver:   resolver,
		locks:      locks,
		statusRepo: statusRepo,
		eventRepo:  eventRepo,
		rec:        rec,
		log:        log,
	}
	base := []doze.Option{doze.WithPolicy(policy), doze.WithObserver(s.observe)}
	s.ctrl = doze.New(append(base, opts...)...)
	return s
}

// Enter forces t idle on the device and verifies it.
func (s *DozeService) Enter(ctx context.Context, serial string, t models.DozeType) error {
	return s.transition(ctx, serial, models.TransitionRequest{Type: t, Direction: models.DirectionEnter})
}

// Leave disables idle on the device and verifies t is ACTIVE.
func (s *DozeService) Leave(ctx context.Context, serial string, t models.DozeType) error {
	return s.transition(ctx, serial, models.TransitionRequest{Type: t, Direction: models.DirectionLeave})
}

func (s *DozeService) transition(ctx context.Context, serial string, req models.TransitionRequest) error {
	if !req.Type.Valid() {
		return fmt.Errorf("%w: %q", doze.ErrUnknownDozeType, req.Type)
	}
	ch, err := s.resolver.resolve(ctx, serial)
	if err != nil {
		return err
	}

	unlock := s.locks.lock(serial)
	defer unlock()

	log := s.log.Device(serial)
	start := time.Now()
	err = s.ctrl.Transition(ctx, ch, req)
	s.rec.ObserveTransitionDuration(req.Type.Arg(), string(req.Direction), time.Since(start))

	now := time.Now().UTC()
	ev := models.DozeEvent{
		EventID:    uuid.NewString(),
		OccurredAt: now,
		Serial:     serial,
		DozeType:   req.Type,
	}

	meta := map[string]any{"direction": req.Direction}
	var ve *doze.StateVerificationError

	switch {
	case err == nil:
		s.rec.IncTransition(req.Type.Arg(), string(req.Direction), metrics.OutcomeSuccess)
		target := req.Direction.Target()
		log.Infow("doze_transition_ok", "doze_type", req.Type, "direction", req.Direction)

		// deviceidle disable is global: leaving activates both types.
		affected := []models.DozeType{req.Type}
		if req.Direction == models.DirectionLeave {
			affected = models.DozeTypes
		}
		snap := models.StatusSnapshot{Serial: serial, ObservedAt: now}
		for _, t := range affected {
			snap.Set(t, target)
			s.rec.SetIdle(serial, t.Arg(), target == models.StateIdle)
		}
		if err := s.statusRepo.Save(ctx, snap); err != nil {
			return fmt.Errorf("save status: %w", err)
		}
		ev.Type = models.EventEnter
		if req.Direction == models.DirectionLeave {
			ev.Type = models.EventLeave
		}
		ev.Description = fmt.Sprintf("%s %s doze: device reports %s", req.Direction, req.Type.Arg(), target)
		return s.eventRepo.Append(ctx, ev)

	case errors.As(err, &ve):
		s.rec.IncTransition(req.Type.Arg(), string(req.Direction), metrics.OutcomeVerifyFailed)
		ev.Type = models.EventVerifyFailed
		ev.Attempts = ve.Attempts
		ev.Description = err.Error()
		meta["expected"] = ve.Expected
		meta["observed"] = ve.Observed

	case device.IsTransport(err):
		s.rec.IncTransition(req.Type.Arg(), string(req.Direction), metrics.OutcomeTransportError)
		ev.Type = models.EventTransportError
		ev.Description = err.Error()

	default:
		return err
	}

	log.Errorw("doze_transition_failed", "doze_type", req.Type, "direction", req.Direction, "err", err)
	ev.Metadata = meta
	if aerr := s.eventRepo.Append(ctx, ev); aerr != nil {
		log.Errorw("doze_event_append_failed", "err", aerr)
	}
	return err
}

// observe feeds per-attempt results to metrics. Channel failures are not
// attempts in the verification sense and are counted once by transition.
func (s *DozeService) observe(a doze.Attempt) {
	if a.Err != nil && !doze.IsVerification(a.Err) {
		return
	}
	s.rec.IncAttempt(a.Request.Type.Arg(), string(a.Request.Direction), a.Err == nil)
	if a.Err != nil {
		s.log.Debugw("doze_attempt_mismatch",
			"doze_type", a.Request.Type, "direction", a.Request.Direction,
			"attempt", a.Number, "observed", a.Observed)
	}
}
