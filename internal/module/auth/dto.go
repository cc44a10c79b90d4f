package auth

// LoginForm is the sign-in form.
type LoginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
	// Next is the page to return to after signing in.
	Next string `form:"next"`
}

// ProfileForm edits the signed-in admin's own profile.
type ProfileForm struct {
	Name  string `form:"name" binding:"required,min=2,max=100"`
	Email string `form:"email" binding:"required,email"`
}

// PasswordForm changes the signed-in admin's password.
type PasswordForm struct {
	NewPassword     string `form:"new_password" binding:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=NewPassword"`
}
