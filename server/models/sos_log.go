package models

import "time"

const SosStatusSent = "SENT"

// SosLog records one SOS trigger. Rows are written before any notification is
// attempted and are never mutated or deleted afterwards.
type SosLog struct {
	BaseModel
	UserPhone string    `json:"user_phone" gorm:"not null;index"`
	Location  string    `json:"location"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status" gorm:"default:SENT"`
}
