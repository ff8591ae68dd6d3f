package models

// User is a hunter account. Accounts are owned locally: registration,
// bcrypt password hashes and JWT issuance all live in this service.
type User struct {
	ID           string  `gorm:"primaryKey;type:uuid" json:"id"`
	Username     string  `gorm:"uniqueIndex;not null" json:"username"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"not null" json:"-"`
	AvatarURL    *string `json:"avatar_url,omitempty"`
	IsAdmin      bool    `gorm:"default:false" json:"is_admin"`

	Timestamps
}
