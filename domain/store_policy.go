package domain

import "gorm.io/datatypes"

type StorePolicy struct {
	ID          uint                        `gorm:"primaryKey;autoIncrement" json:"-"`
	PolicyType  string                      `gorm:"column:policy_type;type:text;not null;index" json:"policy_type"`
	Description string                      `gorm:"column:description;type:text;not null" json:"description"`
	Conditions  datatypes.JSONSlice[string] `gorm:"column:conditions;not null" json:"conditions"`
	Timeframe   int                         `gorm:"column:timeframe;not null" json:"timeframe"`
}

func (StorePolicy) TableName() string {
	return "store_policies"
}

const (
	PolicyTypeReturns  = "returns"
	PolicyTypeWarranty = "warranty"
)
