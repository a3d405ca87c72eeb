package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/platebook/backend/internal/models"
)

const (
	minHashLen = 8
	maxHashLen = 10

	hashAlphabet    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	resolveCacheTTL = time.Hour
)

// ShortLinkService maps opaque hashes to stored URLs. Creation is idempotent
// per original URL; resolution goes through a Redis read-through cache when
// one is configured.
type ShortLinkService struct {
	db     *gorm.DB
	cache  *redis.Client
	logger *zap.Logger
}

func NewShortLinkService(db *gorm.DB, cache *redis.Client, logger *zap.Logger) *ShortLinkService {
	return &ShortLinkService{db: db, cache: cache, logger: logger}
}

// Create returns the existing link for originalURL when there is one,
// otherwise persists a new link under a fresh hash, re-rolling on collision.
func (s *ShortLinkService) Create(ctx context.Context, originalURL string) (*models.ShortLink, error) {
	if len(originalURL) > models.MaxOriginalURLLength {
		return nil, invalid("original_url", "must be at most %d characters", models.MaxOriginalURLLength)
	}

	var existing models.ShortLink
	err := s.db.WithContext(ctx).Where("original_url = ?", originalURL).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	link := models.ShortLink{OriginalURL: originalURL}
	for {
		link.Hash = generateHash()
		err := s.db.WithContext(ctx).Create(&link).Error
		if err == nil {
			return &link, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// Either the hash collided or a racing request stored the same URL
		// first. Prefer returning the surviving row.
		if findErr := s.db.WithContext(ctx).Where("original_url = ?", originalURL).First(&existing).Error; findErr == nil {
			return &existing, nil
		}
	}
}

// Resolve returns the original URL for a hash. The click counter is
// best-effort telemetry: a failed increment is logged, never surfaced.
func (s *ShortLinkService) Resolve(ctx context.Context, hash string) (string, error) {
	if s.cache != nil {
		if url, err := s.cache.Get(ctx, cacheKey(hash)).Result(); err == nil {
			s.bumpClickCount(ctx, hash)
			return url, nil
		}
	}

	var link models.ShortLink
	if err := s.db.WithContext(ctx).Where("hash = ?", hash).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey(hash), link.OriginalURL, resolveCacheTTL).Err(); err != nil {
			s.logger.Warn("short link cache write failed", zap.String("hash", hash), zap.Error(err))
		}
	}

	s.bumpClickCount(ctx, hash)
	return link.OriginalURL, nil
}

func (s *ShortLinkService) bumpClickCount(ctx context.Context, hash string) {
	err := s.db.WithContext(ctx).Model(&models.ShortLink{}).
		Where("hash = ?", hash).
		UpdateColumn("click_count", gorm.Expr("click_count + 1")).Error
	if err != nil {
		s.logger.Warn("click count increment failed", zap.String("hash", hash), zap.Error(err))
	}
}

func cacheKey(hash string) string {
	return "shortlink:" + hash
}

// generateHash produces 8-10 random alphanumeric characters.
func generateHash() string {
	n := minHashLen + rand.Intn(maxHashLen-minHashLen+1)
	b := make([]byte, n)
	for i := range b {
		b[i] = hashAlphabet[rand.Intn(len(hashAlphabet))]
	}
	return string(b)
}
