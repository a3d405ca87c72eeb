package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platebook/backend/internal/models"
)

// UserService handles profile reads and avatar updates. Registration and
// login live in AuthService.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SetAvatar stores the avatar URL; an empty URL clears the avatar.
func (s *UserService) SetAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.AvatarURL = avatarURL
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Subscriptions returns the authors the user follows, oldest subscription
// first.
func (s *UserService) Subscriptions(ctx context.Context, subscriberID uuid.UUID) ([]models.User, error) {
	var authors []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.subscriber_id = ?", subscriberID).
		Order("subscriptions.created_at ASC").
		Find(&authors).Error
	if err != nil {
		return nil, err
	}
	return authors, nil
}

// IsSubscribed reports whether subscriber follows author.
func (s *UserService) IsSubscribed(ctx context.Context, subscriberID, authorID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Count(&count).Error
	return count > 0, err
}
