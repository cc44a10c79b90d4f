package talent

import "github.com/talentatalk/talentatalk-admin/internal/domain"

// CreateTalentForm is the add-talent form.
type CreateTalentForm struct {
	Name     string `form:"name" binding:"required,min=2,max=100"`
	Email    string `form:"email" binding:"required,email"`
	Role     string `form:"role" binding:"required,max=50"`
	Password string `form:"password" binding:"required,min=6"`
}

func (f CreateTalentForm) input() domain.TalentInput {
	return domain.TalentInput{Name: f.Name, Email: f.Email, Role: f.Role, Password: f.Password}
}

// UpdateTalentForm is the edit-talent form. The password is changed
// separately.
type UpdateTalentForm struct {
	Name  string `form:"name" binding:"required,min=2,max=100"`
	Email string `form:"email" binding:"required,email"`
	Role  string `form:"role" binding:"required,max=50"`
}

func (f UpdateTalentForm) input() domain.TalentInput {
	return domain.TalentInput{Name: f.Name, Email: f.Email, Role: f.Role}
}

// PasswordForm sets a talent's password.
type PasswordForm struct {
	NewPassword     string `form:"new_password" binding:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=NewPassword"`
}
