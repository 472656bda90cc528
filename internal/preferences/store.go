package preferences

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pandeptwidyaop/linkprefs/internal/db/models"
	apperrors "github.com/pandeptwidyaop/linkprefs/pkg/errors"
	"github.com/pandeptwidyaop/linkprefs/pkg/logger"
)

// Store keeps preferences in the database.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new database-backed store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// SavePreferences upserts every preference in prefs, or deletes it when its
// value is empty. The batch is all-or-nothing.
func (s *Store) SavePreferences(ctx context.Context, userID string, prefs []Preference) error {
	for _, p := range prefs {
		if err := Validate(userID, p); err != nil {
			return err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range prefs {
			if p.Value == "" {
				if err := tx.Where("user_id = ? AND category = ? AND name = ?", p.UserID, p.Category, p.Name).
					Delete(&models.Preference{}).Error; err != nil {
					return fmt.Errorf("failed to delete preference %s: %w", p.Key(), err)
				}
				continue
			}

			row := models.Preference{
				UserID:   p.UserID,
				Category: p.Category,
				Name:     p.Name,
				Value:    p.Value,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "category"}, {Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return fmt.Errorf("failed to save preference %s: %w", p.Key(), err)
			}
		}
		return nil
	})
	if err != nil {
		logger.WithComponent("preferences").Error().Err(err).Str("user_id", userID).Int("count", len(prefs)).Msg("Failed to save preferences")
		return err
	}

	logger.WithComponent("preferences").Debug().Str("user_id", userID).Int("count", len(prefs)).Msg("Saved preferences")
	return nil
}

// GetMyPreferences returns every preference of userID.
func (s *Store) GetMyPreferences(ctx context.Context, userID string) (Mapping, error) {
	var rows []models.Preference
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("category, name").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, "failed to load preferences")
	}
	return NewMapping(fromModels(rows)), nil
}

// GetCategory returns userID's preferences in one category, ordered by name.
func (s *Store) GetCategory(ctx context.Context, userID, category string) ([]Preference, error) {
	var rows []models.Preference
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND category = ?", userID, category).
		Order("name").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, "failed to load "+category+" preferences")
	}
	return fromModels(rows), nil
}

func fromModel(r models.Preference) Preference {
	return Preference{
		UserID:   r.UserID,
		Category: r.Category,
		Name:     r.Name,
		Value:    r.Value,
	}
}

func fromModels(rows []models.Preference) []Preference {
	out := make([]Preference, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromModel(r))
	}
	return out
}
