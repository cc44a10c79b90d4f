package dashboard

import "github.com/talentatalk/talentatalk-admin/internal/domain"

// SettingsForm is the dashboard settings form.
type SettingsForm struct {
	ActivityLimit    int  `form:"activity_limit" binding:"omitempty,min=1,max=200"`
	DaysBack         int  `form:"days_back" binding:"required,min=1,max=90"`
	CustomLimit      bool `form:"custom_limit"`
	CustomLimitValue int  `form:"custom_limit_value" binding:"omitempty,min=1,max=200"`
}

// apply copies the form over p. A limit left empty keeps the stored one.
func (f SettingsForm) apply(p domain.DashboardPreferences) domain.DashboardPreferences {
	if f.ActivityLimit > 0 {
		p.ActivityLimit = f.ActivityLimit
	}
	p.DaysBack = f.DaysBack
	p.CustomLimit = f.CustomLimit
	if f.CustomLimitValue > 0 {
		p.CustomLimitValue = f.CustomLimitValue
	}
	return p
}
