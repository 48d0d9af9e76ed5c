package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"healthmed-scheduler/internal/domain/entity"
	"healthmed-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// RedisUserKeyPrefix namespaces cached user profiles
	RedisUserKeyPrefix = "user:profile:"

	// Timeout for individual Redis operations
	redisLookupTimeout = 500 * time.Millisecond

	defaultUserCacheTTL = 10 * time.Minute
)

// cachedUser is the subset of a user kept in Redis. Credentials never leave
// the database.
type cachedUser struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	Email            string      `json:"email"`
	MedicalLicenseID string      `json:"medical_license_id,omitempty"`
	Role             entity.Role `json:"role"`
}

// UserLookupService resolves doctors and patients by id, reading through a
// Redis cache in front of the user repository.
//
// Redis is best effort: any cache failure is logged and the lookup falls back
// to the repository, so a Redis outage never fails an appointment.
type UserLookupService struct {
	userRepo    repository.UserRepository
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
}

// NewUserLookupService creates a cached lookup. A nil redisClient disables caching.
func NewUserLookupService(userRepo repository.UserRepository, redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) *UserLookupService {
	if ttl <= 0 {
		ttl = defaultUserCacheTTL
	}
	return &UserLookupService{
		userRepo:    userRepo,
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
	}
}

var _ repository.UserRepository = (*UserLookupService)(nil)

// FindByID returns repository.ErrUserNotFound for unknown ids. Misses are not cached.
func (s *UserLookupService) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if user, ok := s.fromCache(ctx, id); ok {
		return user, nil
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.store(ctx, user)
	return withoutCredentials(user), nil
}

func (s *UserLookupService) fromCache(ctx context.Context, id uuid.UUID) (*entity.User, bool) {
	if s.redisClient == nil {
		return nil, false
	}

	cacheCtx, cancel := context.WithTimeout(ctx, redisLookupTimeout)
	defer cancel()

	raw, err := s.redisClient.Get(cacheCtx, userKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warnf("Failed to read user %s from Redis, falling back to database: %+v", id, err)
		}
		return nil, false
	}

	var cached cachedUser
	if err := json.Unmarshal(raw, &cached); err != nil {
		s.log.Warnf("Discarding corrupt cache entry for user %s: %+v", id, err)
		return nil, false
	}

	return &entity.User{
		ID:               cached.ID,
		Name:             cached.Name,
		Email:            cached.Email,
		MedicalLicenseID: cached.MedicalLicenseID,
		Role:             cached.Role,
	}, true
}

// withoutCredentials returns a copy of user with the password hash cleared,
// so cache hits and misses serve the same data.
func withoutCredentials(user *entity.User) *entity.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	return &clean
}

func (s *UserLookupService) store(ctx context.Context, user *entity.User) {
	if s.redisClient == nil || user == nil {
		return
	}

	raw, err := json.Marshal(cachedUser{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		MedicalLicenseID: user.MedicalLicenseID,
		Role:             user.Role,
	})
	if err != nil {
		s.log.Warnf("Failed to encode user %s for cache: %+v", user.ID, err)
		return
	}

	cacheCtx, cancel := context.WithTimeout(ctx, redisLookupTimeout)
	defer cancel()

	if err := s.redisClient.Set(cacheCtx, userKey(user.ID), raw, s.ttl).Err(); err != nil {
		s.log.Warnf("Failed to cache user %s: %+v", user.ID, err)
	}
}

func userKey(id uuid.UUID) string {
	return RedisUserKeyPrefix + id.String()
}
