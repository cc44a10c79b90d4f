package domain

import (
	"context"
	"time"
)

// AdminSession is a signed-in browser session. The bearer token issued by
// the backend is kept server-side and never reaches the browser.
type AdminSession struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Token     string    `gorm:"type:text" json:"-"`
	Name      string    `gorm:"size:100" json:"name"`
	Email     string    `gorm:"size:255;index" json:"email"`
	Role      string    `gorm:"size:50" json:"role"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResult is the backend's answer to a successful admin login.
type LoginResult struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AdminProfile is the signed-in admin's own profile.
type AdminProfile struct {
	ID    int    `json:"id"`
	Name  string `json:"nama"`
	Email string `json:"email"`
}

// SessionRepository persists admin sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *AdminSession) error
	Get(ctx context.Context, id string) (*AdminSession, error)
	UpdateToken(ctx context.Context, id, token string) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PreferenceRepository persists dashboard preferences per admin email.
type PreferenceRepository interface {
	Get(ctx context.Context, email string) (*DashboardPreferences, error)
	Save(ctx context.Context, p *DashboardPreferences) error
}
