package models

import "time"

// A student device registered for "order ready" push notifications.
type Device struct {
	ID          uint   `gorm:"primaryKey"`
	StudentID   string `gorm:"index"`
	Platform    string `gorm:"size:16"` // "android" | "ios"
	TokenHash   string `gorm:"size:64;index"`
	EndpointARN string
	Enabled     bool `gorm:"default:true"`
	UpdatedAt   time.Time
}
