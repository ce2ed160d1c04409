package model

import "time"

// Account is the server-side row behind one identity. The planner record
// is stored as one JSON document because the data routes read and replace
// it wholesale; nothing queries inside it.
type Account struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	UserName     string
	Record       []byte `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
