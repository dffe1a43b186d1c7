package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/cat-haven/internal/domains/cats/domain"
	"github.com/Apurer/cat-haven/internal/domains/cats/ports"
)

var _ ports.Repository = (*Repository)(nil)

// ErrNotConfigured is returned when the repository has no database handle.
var ErrNotConfigured = errors.New("postgres cat repository not configured")

// Repository persists the catalog in PostgreSQL. The schema is owned by the migrations package.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. The caller owns the DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

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

func newCatRecord(c *domain.Cat) catRecord {
	return catRecord{
		ID:          c.ID,
		Name:        c.Name,
		Breed:       c.Breed,
		AgeMonths:   c.AgeMonths,
		Sex:         string(c.Sex),
		Description: c.Description,
		PhotoURLs:   pq.StringArray(append([]string{}, c.PhotoURLs...)),
		Status:      string(c.Status),
	}
}

// Save inserts or updates a cat.
func (r *Repository) Save(ctx context.Context, cat *domain.Cat) (*ports.StoredCat, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, errors.New("cannot save nil cat")
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	record := newCatRecord(cat)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":        record.Name,
				"breed":       record.Breed,
				"age_months":  record.AgeMonths,
				"sex":         record.Sex,
				"description": record.Description,
				"photo_urls":  record.PhotoURLs,
				"status":      record.Status,
				"updated_at":  gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, cat.ID)
}

// GetByID fetches a cat by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*ports.StoredCat, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record catRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toStored(), nil
}

// FindByIDs loads every cat whose id is in ids.
func (r *Repository) FindByIDs(ctx context.Context, ids []string) ([]*ports.StoredCat, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*ports.StoredCat{}, nil
	}
	var records []catRecord
	if err := r.db.WithContext(ctx).
		Where("id = ANY(?)", pq.Array(ids)).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return recordsToStored(records), nil
}

// FindByStatus returns cats matching any provided status, oldest listing first.
func (r *Repository) FindByStatus(ctx context.Context, statuses []domain.Status) ([]*ports.StoredCat, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return []*ports.StoredCat{}, nil
	}
	args := make([]string, 0, len(statuses))
	for _, s := range statuses {
		args = append(args, string(s))
	}
	var records []catRecord
	if err := r.db.WithContext(ctx).
		Where("status IN ?", args).
		Order("created_at ASC").Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return recordsToStored(records), nil
}

// Delete removes a cat by identifier.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&catRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func recordsToStored(records []catRecord) []*ports.StoredCat {
	list := make([]*ports.StoredCat, 0, len(records))
	for i := range records {
		list = append(list, records[i].toStored())
	}
	return list
}

func (r *catRecord) toStored() *ports.StoredCat {
	cat := &domain.Cat{
		ID:          r.ID,
		Name:        r.Name,
		Breed:       r.Breed,
		AgeMonths:   r.AgeMonths,
		Sex:         domain.Sex(r.Sex),
		Description: r.Description,
		Status:      domain.Status(r.Status),
	}
	if len(r.PhotoURLs) > 0 {
		cat.PhotoURLs = append([]string{}, r.PhotoURLs...)
	}
	return &ports.StoredCat{
		Cat:       cat,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return ErrNotConfigured
	}
	return nil
}
