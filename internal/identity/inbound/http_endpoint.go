package inbound

import (
	"time"

	"github.com/bookhivelabs/bookhive/internal/identity/usecase"
	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
	"github.com/bookhivelabs/bookhive/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for authentication and profile workflows.
type HTTPEndpoint struct {
	uc uc
}

// Register creates a new user account.
// @Summary Register user
// @Description Creates a new account eligible for immediate login.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration payload"
// @Success 200 {object} router.successResponse{data=RegisterResponse} "Registration result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 409 {object} router.errorResponse "Email already registered"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	}); err != nil {
		return nil, err
	}

	return &RegisterResponse{}, nil
}

// Login authenticates a user and returns tokens.
// @Summary Authenticate user
// @Description Validates credentials and returns access/refresh tokens.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} router.successResponse{data=LoginResponse} "Authentication result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid credentials"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/login [post]
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// RefreshToken issues a new access token using a refresh token.
// @Summary Refresh access token
// @Description Exchanges a refresh token for a new access/refresh token pair.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "Refresh token payload"
// @Success 200 {object} router.successResponse{data=RefreshTokenResponse} "Token refresh result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid refresh token"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/refresh [post]
func (h *HTTPEndpoint) RefreshToken(r *router.Request) (any, error) {
	var req RefreshTokenRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RefreshToken(r.Context(), usecase.RefreshTokenInput{RefreshToken: req.RefreshToken})
	if err != nil {
		return nil, err
	}

	return RefreshTokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// Logout revokes a refresh token.
// @Summary Logout
// @Description Invalidates the provided refresh token.
// @Tags Identity, Authentication
// @Security BearerAuth
// @Accept json
// @Param request body LogoutRequest true "Logout payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/logout [post]
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	var req LogoutRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.Logout(r.Context(), usecase.LogoutInput{RefreshToken: req.RefreshToken})
}

// PasswordForgot initiates a password reset flow.
// @Summary Request password reset
// @Description Sends password reset instructions to the provided email address.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body PasswordForgotRequest true "Forgot password payload"
// @Success 200 {object} router.successResponse{data=PasswordForgotResponse} "Request result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/password/forgot [post]
func (h *HTTPEndpoint) PasswordForgot(r *router.Request) (any, error) {
	var req PasswordForgotRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordForgot(r.Context(), usecase.PasswordForgotInput{Email: req.Email}); err != nil {
		return nil, err
	}

	return &PasswordForgotResponse{}, nil
}

// PasswordReset completes a password reset using a reset token.
// @Summary Reset password
// @Description Sets a new password using the provided reset token.
// @Tags Identity, Authentication
// @Accept json
// @Param request body PasswordResetRequest true "Reset password payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid or expired reset token"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/password/reset [post]
func (h *HTTPEndpoint) PasswordReset(r *router.Request) (any, error) {
	var req PasswordResetRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.PasswordReset(r.Context(), usecase.PasswordResetInput{
		Token:    req.Token,
		Password: req.NewPassword,
	})
}

// PasswordChange replaces the authenticated user's password.
// @Summary Change password
// @Description Sets a new password after verifying the current one. All sessions are revoked.
// @Tags Identity, Authentication
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body PasswordChangeRequest true "Change password payload"
// @Success 200 {object} router.successResponse{data=PasswordChangeResponse} "Change result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Current password incorrect"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/password [put]
func (h *HTTPEndpoint) PasswordChange(r *router.Request) (any, error) {
	var req PasswordChangeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordChange(r.Context(), usecase.PasswordChangeInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	}); err != nil {
		return nil, err
	}

	return &PasswordChangeResponse{}, nil
}

// Profile retrieves the current user's profile details.
// @Summary Get profile
// @Description Returns profile information for the authenticated user.
// @Tags Identity, Profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=ProfileResponse} "Profile result"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/profile [get]
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context(), usecase.ProfileInput{})
	if err != nil {
		return nil, err
	}

	return ProfileResponse{
		ID:       resp.ID,
		Email:    resp.Email,
		FullName: resp.FullName,
		Phone:    resp.Phone,
		Role:     resp.Role,
		Status:   resp.Status,
	}, nil
}

// ProfileUpdate updates the current user's profile information.
// @Summary Update profile
// @Description Updates profile details for the authenticated user.
// @Tags Identity, Profile
// @Security BearerAuth
// @Accept json
// @Param request body UpdateProfileRequest true "Profile update payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/profile [put]
func (h *HTTPEndpoint) ProfileUpdate(r *router.Request) (any, error) {
	var req UpdateProfileRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.ProfileUpdate(r.Context(), usecase.ProfileUpdateInput{
		FullName: req.FullName,
		Phone:    req.Phone,
	})
}

// UserList returns a list of users with optional filters.
// @Summary List users
// @Description Returns a paginated list of users with optional search and status filters.
// @Tags Identity, Management Users
// @Security BearerAuth
// @Produce json
// @Param search query string false "Search by email or full name"
// @Param sort_by query string false "Sort by email, full name and etc."
// @Param sort_order query string false "Sort order asc or desc"
// @Param status query []int false "Filter by statuses (1=active|2=banned|3=inactive)"
// @Param date_from query string false "Filter by created_at >= date_from (RFC3339)"
// @Param date_to query string false "Filter by created_at <= date_to (RFC3339)"
// @Param size query int false "Pagination size"
// @Param page query int false "Pagination page"
// @Success 200 {object} router.successResponse{data=UsersResponse} "User list"
// @Failure 400 {object} router.errorResponse "Invalid query parameters"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/users [get]
func (h *HTTPEndpoint) UserList(r *router.Request) (any, error) {
	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}

	dateFrom, err := r.GetQueryDate("date_from", time.RFC3339)
	if err != nil {
		return nil, err
	}

	dateTo, err := r.GetQueryDate("date_to", time.RFC3339)
	if err != nil {
		return nil, err
	}

	if !dateFrom.IsZero() && !dateTo.IsZero() && dateFrom.After(dateTo) {
		return nil, goerror.NewInvalidFormat("date_from must be before date_to")
	}

	resp, err := h.uc.UserList(r.Context(), usecase.UserListInput{
		Search:    r.GetQuery("search"),
		Statuses:  r.GetQueries("status"),
		SortBy:    r.GetQuery("sort_by"),
		SortOrder: r.GetQuery("sort_order"),
		DateFrom:  dateFrom,
		DateTo:    dateTo,
		Size:      size,
		Page:      page,
	})
	if err != nil {
		return nil, err
	}

	users := make([]UserResponse, 0, len(resp.Users))
	for _, item := range resp.Users {
		users = append(users, UserResponse{
			ID:       item.ID,
			Email:    item.Email,
			FullName: item.FullName,
			Phone:    item.Phone,
			Role:     item.Role,
			Status:   item.Status,
			UpdateAt: item.UpdatedAt,
		})
	}

	return UsersResponse{
		total: resp.Total,
		size:  resp.Size,
		page:  resp.Page,
		Users: users,
	}, nil
}
