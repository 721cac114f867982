package session

import (
	"context"
	"time"

	"mediatracker/internal/logging"
)

type Service struct {
	repo          Repository
	blacklistRepo BlacklistRepository
}

func NewService(repo Repository, blacklistRepo BlacklistRepository) *Service {
	return &Service{
		repo:          repo,
		blacklistRepo: blacklistRepo,
	}
}

func (s *Service) ListByUserID(ctx context.Context, userID string) ([]Session, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Delete removes one of userID's sessions. Sessions owned by anyone else
// report ErrNotFound.
func (s *Service) Delete(ctx context.Context, userID, sessionID string) error {
	return s.repo.Delete(ctx, userID, sessionID)
}

func (s *Service) Create(ctx context.Context, sess *Session) error {
	return s.repo.Create(ctx, sess)
}

func (s *Service) GetByTokenHash(ctx context.Context, hash string) (Session, error) {
	return s.repo.GetByTokenHash(ctx, hash)
}

func (s *Service) DeleteByTokenHash(ctx context.Context, hash string) error {
	return s.repo.DeleteByTokenHash(ctx, hash)
}

func (s *Service) AddToBlacklist(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	return s.blacklistRepo.AddToken(ctx, jti, userID, expiresAt)
}

// IsBlacklisted satisfies httpx.BlacklistChecker.
func (s *Service) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	return s.blacklistRepo.IsBlacklisted(ctx, jti)
}

// Janitor periodically purges expired sessions and blacklist entries.
type Janitor struct {
	sessions  Repository
	blacklist BlacklistRepository
	interval  time.Duration
}

func NewJanitor(sessions Repository, blacklist BlacklistRepository, interval time.Duration) *Janitor {
	return &Janitor{sessions: sessions, blacklist: blacklist, interval: interval}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		j.Sweep(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Sweep runs a single purge and logs what it removed.
func (j *Janitor) Sweep(ctx context.Context) {
	log := logging.Ctx(ctx)

	sessions, err := j.sessions.CleanupExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("cleanup expired sessions")
	}
	tokens, err := j.blacklist.CleanupExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("cleanup token blacklist")
	}
	if sessions > 0 || tokens > 0 {
		log.Info().Int64("sessions", sessions).Int64("tokens", tokens).Msg("expired credentials purged")
	}
}
