package models

const DefaultRelation = "Contact"

// EmergencyContact belongs to exactly one user, keyed by the owner's phone
// number. Phone is used for the chat channel, Email for the mail channel,
// either may be empty but at least one must be set.
type EmergencyContact struct {
	BaseModel
	UserPhone    string `json:"user_phone" gorm:"not null;index"`
	ContactName  string `json:"contact_name" validate:"required"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	Relation     string `json:"relation"`
}
