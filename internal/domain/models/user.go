package models

import "time"

// User is a registered account. Authentication happens upstream; this
// table only maps user ids to delivery addresses.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255"`
	Name      string    `json:"name" gorm:"size:128"`
	CreatedAt time.Time `json:"createdAt"`
}

func (User) TableName() string { return "users" }
