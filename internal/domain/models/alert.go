package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Alert types. "above" and "below" compare the current price against
// PriceTarget; "change" compares |daily percent change| against Threshold.
const (
	AlertAbove  = "above"
	AlertBelow  = "below"
	AlertChange = "change"
)

// Alert is a persisted price alert. A user holds at most one active alert
// per symbol.
type Alert struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	UserID      string     `json:"userId" gorm:"index;size:64"`
	Symbol      string     `json:"symbol" gorm:"index;size:16"`
	Company     string     `json:"company" gorm:"size:128"`
	AlertType   string     `json:"alertType" gorm:"size:16"`
	Threshold   float64    `json:"threshold"`
	PriceTarget *float64   `json:"priceTarget,omitempty"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"createdAt"`
	TriggeredAt *time.Time `json:"triggeredAt,omitempty"`
}

func (Alert) TableName() string { return "alerts" }

// BeforeCreate assigns a UUID when the caller did not set one.
func (a *Alert) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// AlertEvent is published when an alert fires.
type AlertEvent struct {
	AlertID     string    `json:"alertId"`
	UserID      string    `json:"userId"`
	Symbol      string    `json:"symbol"`
	AlertType   string    `json:"alertType"`
	Price       float64   `json:"price"`
	ChangePct   float64   `json:"changePct"`
	TriggeredAt time.Time `json:"triggeredAt"`
}
