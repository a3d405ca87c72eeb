package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platebook/backend/internal/models"
)

// RelationManager implements the repeated "link a user to a target entity"
// pattern shared by favorites, cart items and subscriptions. R is the
// association row, T the target entity the row points at. Kind-specific rules
// (column names, the self-reference guard) are configuration, not separate
// implementations.
type RelationManager[R any, T any] struct {
	db         *gorm.DB
	kind       string
	ownerCol   string
	targetCol  string
	forbidSelf bool
	newRow     func(owner, target uuid.UUID) R
}

// NewFavoriteManager links users to favorited recipes.
func NewFavoriteManager(db *gorm.DB) *RelationManager[models.Favorite, models.Recipe] {
	return &RelationManager[models.Favorite, models.Recipe]{
		db:        db,
		kind:      "favorite",
		ownerCol:  "user_id",
		targetCol: "recipe_id",
		newRow: func(owner, target uuid.UUID) models.Favorite {
			return models.Favorite{UserID: owner, RecipeID: target}
		},
	}
}

// NewCartManager links users to recipes in their shopping cart.
func NewCartManager(db *gorm.DB) *RelationManager[models.CartItem, models.Recipe] {
	return &RelationManager[models.CartItem, models.Recipe]{
		db:        db,
		kind:      "shopping cart",
		ownerCol:  "user_id",
		targetCol: "recipe_id",
		newRow: func(owner, target uuid.UUID) models.CartItem {
			return models.CartItem{UserID: owner, RecipeID: target}
		},
	}
}

// NewSubscriptionManager links subscribers to authors. Self-subscription is
// rejected before anything is written.
func NewSubscriptionManager(db *gorm.DB) *RelationManager[models.Subscription, models.User] {
	return &RelationManager[models.Subscription, models.User]{
		db:         db,
		kind:       "subscription",
		ownerCol:   "subscriber_id",
		targetCol:  "author_id",
		forbidSelf: true,
		newRow: func(owner, target uuid.UUID) models.Subscription {
			return models.Subscription{SubscriberID: owner, AuthorID: target}
		},
	}
}

// Add links owner to target. NotFound when the target does not exist,
// Conflict when the pair already exists or the relation forbids
// self-reference. Racing duplicates lose on the unique index and also map to
// Conflict.
func (m *RelationManager[R, T]) Add(ctx context.Context, ownerID, targetID uuid.UUID) (*T, error) {
	var target T
	if err := m.db.WithContext(ctx).First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if m.forbidSelf && ownerID == targetID {
		return nil, ErrSelfSubscribe
	}

	var count int64
	if err := m.db.WithContext(ctx).Model(new(R)).
		Where(m.pairCondition(), ownerID, targetID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%s: %w", m.kind, ErrConflict)
	}

	row := m.newRow(ownerID, targetID)
	if err := m.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%s: %w", m.kind, ErrConflict)
		}
		return nil, err
	}

	return &target, nil
}

// Remove deletes the association row. NotFound when the target is absent or
// no row exists for the pair.
func (m *RelationManager[R, T]) Remove(ctx context.Context, ownerID, targetID uuid.UUID) error {
	var target T
	if err := m.db.WithContext(ctx).First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	res := m.db.WithContext(ctx).
		Where(m.pairCondition(), ownerID, targetID).
		Delete(new(R))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Exists reports whether the (owner, target) pair is linked.
func (m *RelationManager[R, T]) Exists(ctx context.Context, ownerID, targetID uuid.UUID) (bool, error) {
	var count int64
	err := m.db.WithContext(ctx).Model(new(R)).
		Where(m.pairCondition(), ownerID, targetID).
		Count(&count).Error
	return count > 0, err
}

// LinkedTargets returns which of the given targets the owner is linked to.
// Listing endpoints use it to mark is_favorited / is_in_shopping_cart flags
// without one query per row.
func (m *RelationManager[R, T]) LinkedTargets(ctx context.Context, ownerID uuid.UUID, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	linked := make(map[uuid.UUID]bool, len(targetIDs))
	if len(targetIDs) == 0 {
		return linked, nil
	}

	var ids []uuid.UUID
	err := m.db.WithContext(ctx).Model(new(R)).
		Where(m.ownerCol+" = ? AND "+m.targetCol+" IN ?", ownerID, targetIDs).
		Pluck(m.targetCol, &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		linked[id] = true
	}
	return linked, nil
}

func (m *RelationManager[R, T]) pairCondition() string {
	return m.ownerCol + " = ? AND " + m.targetCol + " = ?"
}
