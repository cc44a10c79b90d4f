package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
	"github.com/talentatalk/talentatalk-admin/internal/pkg"
)

// sessionRepository implements domain.SessionRepository using GORM.
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a SessionRepository backed by db.
func NewSessionRepository(db *gorm.DB) domain.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, s *domain.AdminSession) error {
	return mapError(r.db.WithContext(ctx).Create(s).Error)
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.AdminSession, error) {
	var s domain.AdminSession
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &s, nil
}

func (r *sessionRepository) UpdateToken(ctx context.Context, id, token string) error {
	result := r.db.WithContext(ctx).Model(&domain.AdminSession{}).
		Where("id = ?", id).
		Update("token", token)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	return mapError(r.db.WithContext(ctx).Delete(&domain.AdminSession{}, "id = ?", id).Error)
}

// DeleteExpired removes sessions that expired before now.
func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&domain.AdminSession{})
	if result.Error != nil {
		return 0, mapError(result.Error)
	}
	return result.RowsAffected, nil
}

// preferenceRepository implements domain.PreferenceRepository using GORM.
type preferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository creates a PreferenceRepository backed by db.
func NewPreferenceRepository(db *gorm.DB) domain.PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) Get(ctx context.Context, email string) (*domain.DashboardPreferences, error) {
	var p domain.DashboardPreferences
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&p).Error; err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

// Save inserts or replaces the preferences stored for p.Email.
func (r *preferenceRepository) Save(ctx context.Context, p *domain.DashboardPreferences) error {
	return pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		var existing domain.DashboardPreferences
		err := tx.Where("email = ?", p.Email).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return mapError(tx.Create(p).Error)
		case err != nil:
			return mapError(err)
		}
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		return mapError(tx.Save(p).Error)
	})
}

// mapError converts GORM errors to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
		return domain.NewAppError(domain.CodeAlreadyExists, "already exists", err)
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}

// isDuplicateKeyError catches unique violations the pure-Go SQLite driver
// does not translate to gorm.ErrDuplicatedKey.
func isDuplicateKeyError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
