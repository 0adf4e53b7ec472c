package usecase

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
)

const rotateKey = "rotate"

// RotationConfig holds rotation scheduler configuration.
type RotationConfig struct {
	// RetryInterval is how long the timer waits after a failed scheduled rotation.
	RetryInterval time.Duration
}

// RotationScheduler rotates keys on a timer and on demand.
//
// The timer always targets Info().NextRotationAt, so a manual rotation
// pushes the next scheduled one a full interval forward.
type RotationScheduler struct {
	config     RotationConfig
	keyManager KeyRotator
	logger     *slog.Logger
	group      singleflight.Group
	rotated    chan struct{}
	clock      func() time.Time
}

// NewRotationScheduler creates a new RotationScheduler.
func NewRotationScheduler(config RotationConfig, keyManager KeyRotator, logger *slog.Logger) *RotationScheduler {
	if config.RetryInterval <= 0 {
		config.RetryInterval = 30 * time.Second
	}
	return &RotationScheduler{
		config:     config,
		keyManager: keyManager,
		logger:     logger,
		rotated:    make(chan struct{}, 1),
		clock:      time.Now,
	}
}

// Start runs the rotation loop until ctx is cancelled.
func (s *RotationScheduler) Start(ctx context.Context) error {
	if s.logger != nil {
		s.logger.Info("starting key rotation scheduler",
			slog.Duration("interval", s.keyManager.Interval()),
			slog.Time("next_rotation_at", s.keyManager.Info().NextRotationAt),
		)
	}

	timer := time.NewTimer(s.untilNext())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.Info("stopping key rotation scheduler")
			}
			return ctx.Err()
		case <-s.rotated:
			timer.Reset(s.untilNext())
		case <-timer.C:
			if wait := s.untilNext(); wait > 0 {
				timer.Reset(wait)
				continue
			}
			if _, err := s.rotate("scheduled"); err != nil {
				if s.logger != nil {
					s.logger.Error("scheduled key rotation failed",
						slog.Duration("retry_in", s.config.RetryInterval),
						slog.Any("error", err),
					)
				}
				timer.Reset(s.config.RetryInterval)
				continue
			}
			timer.Reset(s.untilNext())
		}
	}
}

// Trigger rotates immediately. Callers arriving while a rotation is in flight
// receive that rotation's result instead of starting another one.
func (s *RotationScheduler) Trigger(ctx context.Context) (cryptoDomain.KeyInfo, error) {
	if err := ctx.Err(); err != nil {
		return cryptoDomain.KeyInfo{}, err
	}

	ch := s.group.DoChan(rotateKey, s.rotateFunc("manual"))

	select {
	case <-ctx.Done():
		return cryptoDomain.KeyInfo{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return cryptoDomain.KeyInfo{}, res.Err
		}
		return res.Val.(cryptoDomain.KeyInfo), nil
	}
}

func (s *RotationScheduler) rotate(reason string) (cryptoDomain.KeyInfo, error) {
	v, err, _ := s.group.Do(rotateKey, s.rotateFunc(reason))
	if err != nil {
		return cryptoDomain.KeyInfo{}, err
	}
	return v.(cryptoDomain.KeyInfo), nil
}

func (s *RotationScheduler) rotateFunc(reason string) func() (any, error) {
	return func() (any, error) {
		info, err := s.keyManager.Rotate()
		if err != nil {
			return nil, err
		}
		s.logRotation(reason, info)
		select {
		case s.rotated <- struct{}{}:
		default:
		}
		return info, nil
	}
}

func (s *RotationScheduler) untilNext() time.Duration {
	wait := s.keyManager.Info().NextRotationAt.Sub(s.clock())
	if wait < 0 {
		return 0
	}
	return wait
}

func (s *RotationScheduler) logRotation(reason string, info cryptoDomain.KeyInfo) {
	if s.logger == nil {
		return
	}
	attrs := []any{
		slog.String("reason", reason),
		slog.Uint64("current_version", uint64(info.CurrentVersion)),
		slog.Time("next_rotation_at", info.NextRotationAt),
	}
	if info.PreviousVersion != nil {
		attrs = append(attrs, slog.Uint64("previous_version", uint64(*info.PreviousVersion)))
	}
	s.logger.Info("key rotated", attrs...)
}
