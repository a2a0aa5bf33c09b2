package controller

import (
	"acaia_backend/internal/model"
	"acaia_backend/internal/service"
	"acaia_backend/internal/util"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthController struct {
	AuthService    *service.AuthService
	StorageService *service.StorageService
}

func NewAuthController(authService *service.AuthService, storageService *service.StorageService) *AuthController {
	return &AuthController{
		AuthService:    authService,
		StorageService: storageService,
	}
}

// userView adds the computed full name to the serialized user.
type userView struct {
	*model.User
	FullName string `json:"fullName"`
}

func newUserView(u *model.User) userView {
	return userView{User: u, FullName: u.FullName()}
}

// RegisterRequest defines the registration payload
// swagger:model RegisterRequest
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Role      string `json:"role" binding:"omitempty,oneof=student teacher admin"`
}

// Register godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "registration payload"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationFailed(ctx, err)
		return
	}

	user, token, err := c.AuthService.Register(service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      model.UserRole(req.Role),
	})
	if err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Conflict(ctx, "an account with this email already exists")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, "account registered", gin.H{
		"user":  newUserView(user),
		"token": token,
	})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary Sign in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "credentials"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response
// @Router /api/v1/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationFailed(ctx, err)
		return
	}

	user, token, err := c.AuthService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidCredentials):
			util.Unauthorized(ctx, "invalid email or password")
		case errors.Is(err, util.ErrAccountDisabled):
			util.Unauthorized(ctx, "account is disabled, contact an administrator")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.SuccessMsg(ctx, "signed in", gin.H{
		"user":  newUserView(user),
		"token": token,
	})
}

// Me godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response
// @Router /api/v1/auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user := util.CurrentUser(ctx)
	util.Success(ctx, gin.H{"user": newUserView(user)})
}

type UpdateProfileRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Preferences *struct {
		Language      *string `json:"language"`
		Theme         *string `json:"theme"`
		Notifications *bool   `json:"notifications"`
	} `json:"preferences"`
}

// UpdateProfile godoc
// @Summary Update name and preferences
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "fields to update"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response
// @Router /api/v1/auth/profile [put]
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationFailed(ctx, err)
		return
	}

	update := service.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if req.Preferences != nil {
		update.Preferences = &service.PreferencesPatch{
			Language:      req.Preferences.Language,
			Theme:         req.Preferences.Theme,
			Notifications: req.Preferences.Notifications,
		}
	}

	user, err := c.AuthService.UpdateProfile(util.CurrentUser(ctx).ID, update)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "user not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.SuccessMsg(ctx, "profile updated", gin.H{"user": newUserView(user)})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// ChangePassword godoc
// @Summary Change the account password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "current and new password"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/auth/password [put]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationFailed(ctx, err)
		return
	}

	err := c.AuthService.ChangePassword(util.CurrentUser(ctx).ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrWrongPassword):
			util.BadRequest(ctx, "current password is incorrect")
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "user not found")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.SuccessMsg(ctx, "password changed", nil)
}

// UploadAvatar godoc
// @Summary Upload a profile picture
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "image file"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /api/v1/auth/avatar [post]
func (c *AuthController) UploadAvatar(ctx *gin.Context) {
	file, err := ctx.FormFile("avatar")
	if err != nil {
		util.BadRequest(ctx, "avatar file is required")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		util.BadRequest(ctx, "unsupported image format")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	user := util.CurrentUser(ctx)
	filename := fmt.Sprintf("avatars/%d/%s%s", user.ID, uuid.New().String(), ext)
	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	updated, err := c.AuthService.SetProfilePicture(user.ID, url)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.SuccessMsg(ctx, "avatar uploaded", gin.H{
		"profilePicture": updated.ProfilePicture,
	})
}
