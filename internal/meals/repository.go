package meals

import (
	"context"
	"errors"

	"github.com/angelmondragon/reactmeals-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/reactmeals-backend/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists the catalog in the meals table.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) Name() string { return SourceDatabase }

// Load returns the catalog in display order. It lets the repository act as a Source.
func (r *Repository) Load(ctx context.Context) ([]Meal, error) {
	return r.List(ctx)
}

// List returns all meals ordered by position then id.
func (r *Repository) List(ctx context.Context) ([]Meal, error) {
	var rows []models.Meal
	if err := r.db.WithContext(ctx).
		Order("position ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list meals")
	}
	out := make([]Meal, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out, nil
}

// FindByID loads a single meal.
func (r *Repository) FindByID(ctx context.Context, id string) (Meal, error) {
	var row models.Meal
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Meal{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "meal not found")
	}
	if err != nil {
		return Meal{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find meal")
	}
	return fromModel(row), nil
}

// Upsert inserts or updates the supplied meals, keeping their slice order as position.
func (r *Repository) Upsert(ctx context.Context, meals []Meal) error {
	if len(meals) == 0 {
		return nil
	}
	rows := make([]models.Meal, 0, len(meals))
	for i, m := range meals {
		rows = append(rows, toModel(m, i+1))
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "price", "position", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert meals")
	}
	return nil
}

// DeleteMissing removes meals whose id is not in keep.
func (r *Repository) DeleteMissing(ctx context.Context, keep []string) error {
	q := r.db.WithContext(ctx)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	} else {
		q = q.Where("1 = 1")
	}
	if err := q.Delete(&models.Meal{}).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete stale meals")
	}
	return nil
}
