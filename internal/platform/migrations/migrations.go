// Package migrations owns the relational schema. Adapters never migrate on their own.
package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the catalog and the durable favorites store.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&catRecord{},
		&favoriteRecord{},
	)
}

// Tables lists the tables Run manages, in creation order.
func Tables() []string {
	return []string{catRecord{}.TableName(), favoriteRecord{}.TableName()}
}

// catRecord mirrors the cats Postgres adapter.
type catRecord struct {
	ID          string         `gorm:"primaryKey;column:id;size:64"`
	Name        string         `gorm:"column:name;not null"`
	Breed       string         `gorm:"column:breed"`
	AgeMonths   int            `gorm:"column:age_months"`
	Sex         string         `gorm:"column:sex;type:varchar(16)"`
	Description string         `gorm:"column:description"`
	PhotoURLs   pq.StringArray `gorm:"column:photo_urls;type:text[]"`
	Status      string         `gorm:"column:status;type:varchar(32);index"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (catRecord) TableName() string { return "cats" }

// favoriteRecord mirrors the favorites durable store: one row per (user, item).
type favoriteRecord struct {
	UserID    string    `gorm:"primaryKey;column:user_id;size:128"`
	ItemID    string    `gorm:"primaryKey;column:item_id;size:128"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (favoriteRecord) TableName() string { return "user_favorites" }
