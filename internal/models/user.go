// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values embedded in bearer tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered traveler.
//
// Email is the identity key (lowercased and trimmed before storage, unique at
// the store layer). Username is display identity only and is intentionally not
// unique. The avatar is stored in-record as a blob plus MIME type; HasAvatar
// is true iff the blob is present.
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Email      string         `gorm:"uniqueIndex;not null" json:"email"`
	Username   string         `gorm:"not null" json:"username"`
	Password   string         `gorm:"not null" json:"-"`
	Role       string         `gorm:"type:varchar(20);default:'user'" json:"role"`
	Bio        string         `gorm:"type:varchar(500)" json:"bio"`
	AvatarBlob []byte         `gorm:"type:bytea" json:"-"`
	AvatarMime string         `json:"-"`
	HasAvatar  bool           `gorm:"default:false" json:"has_avatar"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	Posts      []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}
