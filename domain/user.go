package domain

import (
	"gorm.io/datatypes"
)

type UserProfile struct {
	ID                  string                      `gorm:"primaryKey;column:id;type:text" json:"id"`
	Name                string                      `gorm:"column:name;type:text;not null" json:"name"`
	PreferredCategories datatypes.JSONSlice[string] `gorm:"column:preferred_categories;not null" json:"preferred_categories"`
	BudgetMin           *float64                    `gorm:"column:budget_min" json:"budget_min"`
	BudgetMax           *float64                    `gorm:"column:budget_max" json:"budget_max"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// HasBudget reports whether both ends of the price window are set.
func (u *UserProfile) HasBudget() bool {
	return u != nil && u.BudgetMin != nil && u.BudgetMax != nil
}

// WithinBudget is true when no window is set or price lies inside it (inclusive).
func (u *UserProfile) WithinBudget(price float64) bool {
	if !u.HasBudget() {
		return true
	}
	return *u.BudgetMin <= price && price <= *u.BudgetMax
}

func (u *UserProfile) Prefers(category string) bool {
	if u == nil {
		return false
	}
	for _, c := range u.PreferredCategories {
		if c == category {
			return true
		}
	}
	return false
}

func (u *UserProfile) HasPreferences() bool {
	return u != nil && len(u.PreferredCategories) > 0
}

// UserProfileUpdate carries a partial update. Name and PreferredCategories are only applied
// when non-nil; the budget fields are always overwritten.
type UserProfileUpdate struct {
	Name                *string
	PreferredCategories []string
	BudgetMin           *float64
	BudgetMax           *float64
}
