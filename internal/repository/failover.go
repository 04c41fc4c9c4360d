package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/domain"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"

	"github.com/rs/zerolog"
)

// FailoverSessionRepository serves from the primary repository and falls back
// to the secondary when the primary errors, retrying the primary after a
// minute of quarantine.
type FailoverSessionRepository struct {
	primary  domain.SessionRepository
	fallback domain.SessionRepository
	logger   *zerolog.Logger
	isDown   atomic.Bool
	// unix nanos of the last failed primary attempt; atomic because
	// handlers and the snapshot worker share one repository
	lastCheck atomic.Int64
}

func NewFailoverSessionRepository(primary, fallback domain.SessionRepository, logger *zerolog.Logger) *FailoverSessionRepository {
	return &FailoverSessionRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverSessionRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary session repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverSessionRepository) sinceLastCheck() time.Duration {
	return time.Since(time.Unix(0, r.lastCheck.Load()))
}

func (r *FailoverSessionRepository) GetSession(ctx context.Context, id string) (*models.Session, error) {
	if !r.isDown.Load() {
		session, err := r.primary.GetSession(ctx, id)
		if err == nil {
			return session, nil
		}
		r.markDown(err)
	}

	if r.isDown.Load() && r.sinceLastCheck() > time.Minute {
		session, err := r.primary.GetSession(ctx, id)
		if err == nil {
			r.isDown.Store(false)
			return session, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.GetSession(ctx, id)
}

func (r *FailoverSessionRepository) SetSession(ctx context.Context, session *models.Session) error {
	if !r.isDown.Load() {
		err := r.primary.SetSession(ctx, session)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetSession(ctx, session)
}

func (r *FailoverSessionRepository) ClearSession(ctx context.Context, id string) error {
	if !r.isDown.Load() {
		err := r.primary.ClearSession(ctx, id)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.ClearSession(ctx, id)
}

func (r *FailoverSessionRepository) CheckRateLimit(ctx context.Context, id string, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, id, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.markDown(err)
	}

	return r.fallback.CheckRateLimit(ctx, id, limit, window)
}

func (r *FailoverSessionRepository) GetSnapshot(ctx context.Context) (string, error) {
	if !r.isDown.Load() {
		snapshot, err := r.primary.GetSnapshot(ctx)
		if err == nil {
			return snapshot, nil
		}
		r.markDown(err)
	}

	return r.fallback.GetSnapshot(ctx)
}

func (r *FailoverSessionRepository) SetSnapshot(ctx context.Context, snapshot string) error {
	if !r.isDown.Load() {
		err := r.primary.SetSnapshot(ctx, snapshot)
		if err == nil {
			// keep the fallback warm so a failover still has a snapshot
			_ = r.fallback.SetSnapshot(ctx, snapshot)
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetSnapshot(ctx, snapshot)
}
