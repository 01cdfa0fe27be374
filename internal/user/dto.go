package user

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"required,max=255"`
	LastName  string `json:"last_name" validate:"required,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required,max=128"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

type RegisterResponse struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	OTPSent   bool   `json:"otp_sent"`
}

type LoginResponse struct {
	Access     string `json:"access"`
	Refresh    string `json:"refresh"`
	Email      string `json:"email"`
	FirstLogin bool   `json:"first_login"`
}

type RefreshResponse struct {
	Access string `json:"access"`
}

type VerifyOTPResponse struct {
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	Verified   bool   `json:"verified"`
	Access     string `json:"access"`
	Refresh    string `json:"refresh"`
	FirstLogin bool   `json:"first_login"`
}

type ResendOTPResponse struct {
	Email     string `json:"email"`
	OTPResent bool   `json:"otp_resent"`
}

type ForgotPasswordResponse struct {
	Email   string `json:"email"`
	OTPSent bool   `json:"otp_sent"`
}

type SessionResponse struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	IsVerified bool   `json:"is_verified"`
	FirstLogin bool   `json:"first_login"`
}

func ToSessionResponse(u *User) SessionResponse {
	resp := SessionResponse{ID: u.ID, Email: u.Email}
	if u.Profile != nil {
		resp.FirstName = u.Profile.FirstName
		resp.LastName = u.Profile.LastName
		resp.IsVerified = u.Profile.IsVerified
		resp.FirstLogin = u.Profile.FirstLogin
	}
	return resp
}
