package domain

import "time"

type UserEvent struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"column:user_id;type:text;not null;index" json:"user_id"`
	ProductID string    `gorm:"column:product_id;type:text;not null;index" json:"product_id"`
	EventType string    `gorm:"column:event_type;type:text;not null" json:"event_type"`
	CreatedAt time.Time `gorm:"column:created_at;type:date;not null" json:"created_at"`
}

func (UserEvent) TableName() string {
	return "user_events"
}

const (
	EventView     = "view"
	EventWishlist = "wishlist"
	EventPurchase = "purchase"
)

// EventWeight is the affinity contribution of a single event.
func EventWeight(eventType string) float64 {
	switch eventType {
	case EventPurchase:
		return 3
	case EventWishlist:
		return 2
	default:
		return 1
	}
}
