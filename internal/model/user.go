package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// Preferences holds per-user UI settings.
type Preferences struct {
	Language      string `json:"language"`
	Theme         string `json:"theme"` // light, dark
	Notifications bool   `json:"notifications"`
}

func DefaultPreferences() Preferences {
	return Preferences{Language: "sr", Theme: "light", Notifications: true}
}

func (p Preferences) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	return string(b), err
}

func (p *Preferences) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// SubjectProgress is one per-subject entry of a user's learning progress.
type SubjectProgress struct {
	Name         string    `json:"name"`
	Level        string    `json:"level"` // beginner, intermediate, advanced
	Progress     float64   `json:"progress"`
	LastActivity time.Time `json:"lastActivity"`
}

type LearningProgress struct {
	Subjects         []SubjectProgress `json:"subjects"`
	TotalStudyTime   int               `json:"totalStudyTime"`
	CompletedLessons int               `json:"completedLessons"`
}

func (p LearningProgress) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	return string(b), err
}

func (p *LearningProgress) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// swagger:model User
type User struct {
	BaseModel
	Email            string           `gorm:"size:100;unique;not null" json:"email"`
	Password         string           `gorm:"size:100;not null" json:"-"`
	FirstName        string           `gorm:"size:50;not null" json:"firstName"`
	LastName         string           `gorm:"size:50;not null" json:"lastName"`
	Role             UserRole         `gorm:"type:enum('student','teacher','admin');default:'student'" json:"role"`
	IsActive         bool             `gorm:"default:true" json:"isActive"`
	ProfilePicture   string           `gorm:"size:255" json:"profilePicture,omitempty"`
	Preferences      Preferences      `gorm:"type:json" json:"preferences"`
	LearningProgress LearningProgress `gorm:"type:json" json:"learningProgress"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	}
	return errors.New("unsupported JSON column type")
}
