package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/balkashynov/cafedesk/internal/models"
)

// InsertSession stores a new session and returns its id
func (s *Store) InsertSession(ctx context.Context, session *models.Session) (uint, error) {
	if err := s.conn(ctx).Omit("System").Create(session).Error; err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}
	return session.ID, nil
}

// FindSession returns the session with its system, or nil when it does not exist
func (s *Store) FindSession(ctx context.Context, id uint) (*models.Session, error) {
	var session models.Session

	err := s.conn(ctx).Preload("System").First(&session, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Missing is not an error at this layer
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session #%d: %w", id, err)
	}

	return &session, nil
}

// FindSessions returns sessions matching the filter, newest first
func (s *Store) FindSessions(ctx context.Context, filter models.SessionFilter) ([]models.Session, error) {
	var sessions []models.Session

	query := s.conn(ctx).Preload("System")

	if len(filter.States) > 0 {
		query = query.Where("session_state IN ?", filter.States)
	}
	if filter.Date != "" {
		query = query.Where("date = ?", filter.Date)
	}
	if filter.From != "" {
		query = query.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		query = query.Where("date <= ?", filter.To)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.SystemID != nil {
		query = query.Where("system_id = ?", *filter.SystemID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	err := query.Order("date DESC").Order("login_time DESC").Order("id DESC").Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}

	return sessions, nil
}

// UpdateSession applies a partial update and returns the number of rows affected
func (s *Store) UpdateSession(ctx context.Context, id uint, fields models.Fields) (int64, error) {
	result := s.conn(ctx).Model(&models.Session{}).Where("id = ?", id).Updates(map[string]any(fields))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update session #%d: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}
