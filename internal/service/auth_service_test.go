package service

import (
	"errors"
	"testing"
	"time"

	"acaia_backend/internal/config"
	"acaia_backend/internal/model"
	"acaia_backend/internal/repository"
	"acaia_backend/internal/util"
)

var testJWT = config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}

func newAuthService() *AuthService {
	return NewAuthService(repository.NewMemoryStore(), testJWT)
}

func TestRegister(t *testing.T) {
	svc := newAuthService()

	user, token, err := svc.Register(RegisterInput{
		Email:     "marko@example.com",
		Password:  "lozinka123",
		FirstName: "Marko",
		LastName:  "Marković",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != model.Student {
		t.Errorf("Role = %s, want student default", user.Role)
	}
	if user.Password == "lozinka123" {
		t.Error("password stored in plain text")
	}
	if user.Preferences.Language != "sr" {
		t.Errorf("Language = %q, want sr default", user.Preferences.Language)
	}

	claims, err := util.ParseJWT(token, testJWT.Secret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Errorf("claims = (%d, %s), want (%d, %s)", claims.UserID, claims.Email, user.ID, user.Email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService()

	_, _, err := svc.Register(RegisterInput{Email: "test@example.com", Password: "x"})
	if !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("err = %v, want ErrEmailRegistered", err)
	}
}

func TestRegisterRoleWhitelist(t *testing.T) {
	svc := newAuthService()

	tests := []struct {
		in   model.UserRole
		want model.UserRole
	}{
		{"", model.Student},
		{model.Teacher, model.Teacher},
		{model.Admin, model.Admin},
		{"superuser", model.Student},
	}
	for i, tt := range tests {
		user, _, err := svc.Register(RegisterInput{
			Email:    "role" + string(rune('a'+i)) + "@example.com",
			Password: "x",
			Role:     tt.in,
		})
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if user.Role != tt.want {
			t.Errorf("Role(%q) = %s, want %s", tt.in, user.Role, tt.want)
		}
	}
}

func TestLogin(t *testing.T) {
	svc := newAuthService()

	user, token, err := svc.Login("test@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Email != "test@example.com" || token == "" {
		t.Errorf("user = %s, token empty = %v", user.Email, token == "")
	}

	if _, _, err := svc.Login("test@example.com", "wrong"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login("nobody@example.com", "password123"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewAuthService(store, testJWT)

	user, _ := store.FindUserByEmail("test@example.com")
	user.IsActive = false
	if err := store.UpdateUser(user); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	if _, _, err := svc.Login("test@example.com", "password123"); !errors.Is(err, util.ErrAccountDisabled) {
		t.Fatalf("err = %v, want ErrAccountDisabled", err)
	}
}

func TestUpdateProfileMergesPreferences(t *testing.T) {
	svc := newAuthService()

	theme := "dark"
	user, err := svc.UpdateProfile(1, ProfileUpdate{
		FirstName:   "Novi",
		Preferences: &PreferencesPatch{Theme: &theme},
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if user.FirstName != "Novi" {
		t.Errorf("FirstName = %q, want Novi", user.FirstName)
	}
	if user.LastName != "User" {
		t.Errorf("LastName = %q, unset field must keep its value", user.LastName)
	}
	if user.Preferences.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", user.Preferences.Theme)
	}
	if user.Preferences.Language != "sr" || !user.Preferences.Notifications {
		t.Errorf("untouched preferences changed: %+v", user.Preferences)
	}
}

func TestChangePassword(t *testing.T) {
	svc := newAuthService()

	if err := svc.ChangePassword(1, "wrong", "nova123"); !errors.Is(err, util.ErrWrongPassword) {
		t.Fatalf("wrong current: err = %v, want ErrWrongPassword", err)
	}

	if err := svc.ChangePassword(1, "password123", "nova123"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, _, err := svc.Login("test@example.com", "nova123"); err != nil {
		t.Errorf("login with new password: %v", err)
	}
	if _, _, err := svc.Login("test@example.com", "password123"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("old password must stop working, err = %v", err)
	}
}

func TestSetProfilePicture(t *testing.T) {
	svc := newAuthService()

	user, err := svc.SetProfilePicture(1, "/uploads/avatars/1/abc.png")
	if err != nil {
		t.Fatalf("SetProfilePicture: %v", err)
	}
	if user.ProfilePicture != "/uploads/avatars/1/abc.png" {
		t.Errorf("ProfilePicture = %q", user.ProfilePicture)
	}
}
