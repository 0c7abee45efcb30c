package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/balkashynov/cafedesk/internal/models"
)

// FindSystem returns the system by id, or nil when it does not exist
func (s *Store) FindSystem(ctx context.Context, id uint) (*models.System, error) {
	var system models.System

	err := s.conn(ctx).First(&system, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load system #%d: %w", id, err)
	}

	return &system, nil
}

// FindSystemByName returns the system with the given name, or nil
func (s *Store) FindSystemByName(ctx context.Context, name string) (*models.System, error) {
	var system models.System

	err := s.conn(ctx).Where("system_name = ?", name).First(&system).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load system %q: %w", name, err)
	}

	return &system, nil
}

// ListSystems returns systems ordered by name. An empty availability lists all of them.
func (s *Store) ListSystems(ctx context.Context, availability models.Availability) ([]models.System, error) {
	var systems []models.System

	query := s.conn(ctx)
	if availability != "" {
		query = query.Where("availability = ?", availability)
	}

	if err := query.Order("system_name ASC").Find(&systems).Error; err != nil {
		return nil, fmt.Errorf("failed to list systems: %w", err)
	}

	return systems, nil
}

// InsertSystem adds a new system
func (s *Store) InsertSystem(ctx context.Context, system *models.System) (uint, error) {
	if system.Availability == "" {
		system.Availability = models.Available
	}
	if err := s.conn(ctx).Create(system).Error; err != nil {
		return 0, fmt.Errorf("failed to insert system %q: %w", system.Name, err)
	}
	return system.ID, nil
}

// SetSystemAvailability marks a system Available or In Use
func (s *Store) SetSystemAvailability(ctx context.Context, id uint, availability models.Availability) (int64, error) {
	if !availability.Valid() {
		return 0, fmt.Errorf("invalid availability %q: must be %q or %q", availability, models.Available, models.InUse)
	}

	result := s.conn(ctx).Model(&models.System{}).Where("id = ?", id).Update("availability", availability)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update system #%d: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

// SetSystemRate changes the default hourly rate offered for a system
func (s *Store) SetSystemRate(ctx context.Context, id uint, rate float64) (int64, error) {
	result := s.conn(ctx).Model(&models.System{}).Where("id = ?", id).Update("default_hourly_rate", rate)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update system #%d: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteSystem removes a system. Sessions that referenced it keep their
// history with a cleared system reference.
func (s *Store) DeleteSystem(ctx context.Context, id uint) (int64, error) {
	var deleted int64

	err := s.Atomically(ctx, func(ctx context.Context) error {
		err := s.conn(ctx).Model(&models.Session{}).
			Where("system_id = ?", id).
			Update("system_id", nil).Error
		if err != nil {
			return err
		}

		result := s.conn(ctx).Delete(&models.System{}, id)
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete system #%d: %w", id, err)
	}

	return deleted, nil
}
