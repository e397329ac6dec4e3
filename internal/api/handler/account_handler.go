package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

// AccountHandler serves registration, login, profile and the follow graph.
type AccountHandler struct {
	auth     ports.AuthService
	accounts ports.AccountService
	paging   Paging
}

func NewAccountHandler(auth ports.AuthService, accounts ports.AccountService, paging Paging) *AccountHandler {
	return &AccountHandler{auth: auth, accounts: accounts, paging: paging}
}

// Register creates a new member account and returns a token.
//
// @Summary      Register a new user
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/accounts/register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	errs := domain.NewValidationError()
	dob := parseDate(req.DateOfBirth, "date_of_birth", errs)
	if err := errs.OrNil(); err != nil {
		return err
	}

	token, user, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		Password2:   req.Password2,
		Bio:         req.Bio,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: dob,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{
		User:    toUserResponse(user),
		Token:   token,
		Message: "User registered successfully.",
	})
}

// Login authenticates by email and password.
//
// @Summary      Login
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/accounts/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		User:    toUserResponse(user),
		Token:   token,
		Message: "Login successful.",
	})
}

// Logout revokes the presented token.
//
// @Summary      Logout
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/accounts/logout [post]
func (h *AccountHandler) Logout(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.Request().Context(), *claims); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully."})
}

// Profile returns the caller's account.
//
// @Summary      Current user profile
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/accounts/profile [get]
func (h *AccountHandler) Profile(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	user, err := h.accounts.Profile(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfile changes only the supplied fields, for both PUT and PATCH.
//
// @Summary      Update current user profile
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/accounts/profile [patch]
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req profileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	in := ports.ProfileUpdate{
		Username:       req.Username,
		Bio:            req.Bio,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		ProfilePicture: req.ProfilePicture,
	}
	if req.DateOfBirth != nil {
		errs := domain.NewValidationError()
		in.DateOfBirth = parseDate(*req.DateOfBirth, "date_of_birth", errs)
		if err := errs.OrNil(); err != nil {
			return err
		}
	}

	user, err := h.accounts.UpdateProfile(c.Request().Context(), p.UserID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Follow starts following another user. Repeating it is a no-op.
//
// @Summary      Follow a user
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      int  true  "User id"
// @Success      200      {object}  followResponse
// @Failure      400      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /api/accounts/follow/{user_id} [post]
func (h *AccountHandler) Follow(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	targetID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	target, err := h.accounts.Follow(c.Request().Context(), p, targetID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, followResponse{
		Message:   fmt.Sprintf("Now following %s", target.Username),
		Following: true,
	})
}

// Unfollow stops following a user.
//
// @Summary      Unfollow a user
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      int  true  "User id"
// @Success      200      {object}  followResponse
// @Failure      404      {object}  errorResponse
// @Router       /api/accounts/follow/{user_id} [delete]
func (h *AccountHandler) Unfollow(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	targetID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	target, err := h.accounts.Unfollow(c.Request().Context(), p, targetID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, followResponse{
		Message:   fmt.Sprintf("Unfollowed %s", target.Username),
		Following: false,
	})
}

// Followers lists who follows the user.
//
// @Summary      List followers
// @Tags         accounts
// @Produce      json
// @Param        user_id    path      int  true   "User id"
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  pageResponse[userSummaryResponse]
// @Failure      404        {object}  errorResponse
// @Router       /api/accounts/{user_id}/followers [get]
func (h *AccountHandler) Followers(c echo.Context) error {
	return h.edges(c, h.accounts.Followers)
}

// Following lists who the user follows.
//
// @Summary      List followed users
// @Tags         accounts
// @Produce      json
// @Param        user_id    path      int  true   "User id"
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  pageResponse[userSummaryResponse]
// @Failure      404        {object}  errorResponse
// @Router       /api/accounts/{user_id}/following [get]
func (h *AccountHandler) Following(c echo.Context) error {
	return h.edges(c, h.accounts.Following)
}

func (h *AccountHandler) edges(c echo.Context, list func(context.Context, uint, domain.PageRequest) (*domain.Page[*domain.User], error)) error {
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	page, err := h.paging.request(c)
	if err != nil {
		return err
	}

	users, err := list(c.Request().Context(), userID, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPageResponse(users, toUserSummaryOf))
}

// SetRole changes a user's role. Staff only.
//
// @Summary      Set user role
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      int          true  "User id"
// @Param        body     body      roleRequest  true  "Role"
// @Success      200      {object}  userResponse
// @Failure      400      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Router       /api/accounts/{user_id}/role [put]
func (h *AccountHandler) SetRole(c echo.Context) error {
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	var req roleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.SetRole(c.Request().Context(), userID, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// SetPermissions replaces a user's permission list. Staff only.
//
// @Summary      Replace user permissions
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      int                 true  "User id"
// @Param        body     body      permissionsRequest  true  "Permission codenames"
// @Success      200      {object}  userResponse
// @Failure      400      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Router       /api/accounts/{user_id}/permissions [put]
func (h *AccountHandler) SetPermissions(c echo.Context) error {
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	var req permissionsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.SetPermissions(c.Request().Context(), userID, req.Permissions)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}
