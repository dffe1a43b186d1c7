package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/cat-haven/internal/domains/favorites/domain"
	"github.com/Apurer/cat-haven/internal/domains/favorites/ports"
)

var _ ports.DurableStore = (*DurableStore)(nil)

// ErrInvalidFavorite is returned for blank user ids and item ids the column cannot hold.
var ErrInvalidFavorite = errors.New("invalid favorite")

// DurableStore keeps per-user favorites in PostgreSQL using GORM, one row per favorite.
type DurableStore struct {
	db *gorm.DB
}

// NewDurableStore wires a PostgreSQL-backed store. Schema is owned by the migrations package
// and the caller manages the DB lifecycle.
func NewDurableStore(db *gorm.DB) *DurableStore {
	return &DurableStore{db: db}
}

type favoriteRecord struct {
	UserID    string    `gorm:"primaryKey;column:user_id;size:128"`
	ItemID    string    `gorm:"primaryKey;column:item_id;size:128"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (favoriteRecord) TableName() string { return "user_favorites" }

// List returns the user's favorites, oldest first.
func (s *DurableStore) List(ctx context.Context, userID string) ([]domain.ItemID, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var records []favoriteRecord
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Order("created_at ASC").
		Order("item_id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	ids := make([]domain.ItemID, 0, len(records))
	for _, rec := range records {
		ids = append(ids, domain.ItemID(rec.ItemID))
	}
	return ids, nil
}

// Insert adds the favorite. An existing row is left as is.
func (s *DurableStore) Insert(ctx context.Context, userID string, itemID domain.ItemID) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	rec, err := newRecord(userID, itemID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rec).Error
}

// Remove deletes the favorite. Removing a missing row is not an error.
func (s *DurableStore) Remove(ctx context.Context, userID string, itemID domain.ItemID) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	rec, err := newRecord(userID, itemID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ?", rec.UserID, rec.ItemID).
		Delete(&favoriteRecord{}).Error
}

func (s *DurableStore) ensureDB() error {
	if s == nil || s.db == nil {
		return ports.ErrNotConfigured
	}
	return nil
}

// newRecord keeps the item id byte for byte so a reload returns exactly what was toggled.
// User ids are trimmed like every session user id.
func newRecord(userID string, itemID domain.ItemID) (favoriteRecord, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return favoriteRecord{}, ErrInvalidFavorite
	}
	if !itemID.Valid() {
		return favoriteRecord{}, fmt.Errorf("%w: item id must be non-blank and at most %d characters", ErrInvalidFavorite, domain.MaxItemIDLength)
	}
	return favoriteRecord{UserID: userID, ItemID: string(itemID)}, nil
}
