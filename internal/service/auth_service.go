package service

import (
	"acaia_backend/internal/config"
	"acaia_backend/internal/model"
	"acaia_backend/internal/repository"
	"acaia_backend/internal/util"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users repository.UserRepository
	jwt   config.JWTConfig
}

func NewAuthService(users repository.UserRepository, jwt config.JWTConfig) *AuthService {
	return &AuthService{users: users, jwt: jwt}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      model.UserRole
}

// Register creates the account and signs a token in one step.
func (s *AuthService) Register(in RegisterInput) (*model.User, string, error) {
	role := in.Role
	if role != model.Teacher && role != model.Admin {
		role = model.Student
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Email:       in.Email,
		Password:    string(hash),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Role:        role,
		IsActive:    true,
		Preferences: model.DefaultPreferences(),
	}

	if err := s.users.CreateUser(user); err != nil {
		return nil, "", err
	}

	token, err := util.GenerateJWT(user, s.jwt.Secret, s.jwt.ExpireTime)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials. An unknown email and a wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (*model.User, string, error) {
	user, err := s.users.FindUserByEmail(email)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			return nil, "", util.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !user.IsActive {
		return nil, "", util.ErrAccountDisabled
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.jwt.Secret, s.jwt.ExpireTime)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

type ProfileUpdate struct {
	FirstName   string
	LastName    string
	Preferences *PreferencesPatch
}

type PreferencesPatch struct {
	Language      *string
	Theme         *string
	Notifications *bool
}

// UpdateProfile applies only the fields the caller sent; preference
// fields merge into the stored set instead of replacing it.
func (s *AuthService) UpdateProfile(userID uint, in ProfileUpdate) (*model.User, error) {
	user, err := s.users.FindUserByID(userID)
	if err != nil {
		return nil, err
	}

	if in.FirstName != "" {
		user.FirstName = in.FirstName
	}
	if in.LastName != "" {
		user.LastName = in.LastName
	}
	if in.Preferences != nil {
		if in.Preferences.Language != nil {
			user.Preferences.Language = *in.Preferences.Language
		}
		if in.Preferences.Theme != nil {
			user.Preferences.Theme = *in.Preferences.Theme
		}
		if in.Preferences.Notifications != nil {
			user.Preferences.Notifications = *in.Preferences.Notifications
		}
	}

	if err := s.users.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.users.FindUserByID(userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)) != nil {
		return util.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hash)
	return s.users.UpdateUser(user)
}

// SetProfilePicture stores the uploaded avatar's URL on the account.
func (s *AuthService) SetProfilePicture(userID uint, url string) (*model.User, error) {
	user, err := s.users.FindUserByID(userID)
	if err != nil {
		return nil, err
	}
	user.ProfilePicture = url
	if err := s.users.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}
