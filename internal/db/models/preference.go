package models

import (
	"time"
)

// KeySeparator joins category and name into a preference key.
const KeySeparator = "--"

// Preference is a single user-scoped setting keyed by category and name.
type Preference struct {
	UserID    string `gorm:"primaryKey;size:64"`
	Category  string `gorm:"primaryKey;size:32"`
	Name      string `gorm:"primaryKey;size:255"`
	Value     string `gorm:"size:2000;not null;default:''"`
	UpdatedAt time.Time
}

// Key returns the composite "category--name" key.
func (p Preference) Key() string {
	return PreferenceKey(p.Category, p.Name)
}

// PreferenceKey builds the composite key for a category and name.
func PreferenceKey(category, name string) string {
	return category + KeySeparator + name
}

// TableName specifies the table name
func (Preference) TableName() string {
	return "preferences"
}
