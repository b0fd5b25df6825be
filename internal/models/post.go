package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Post represents a travel post. The author reference (UserID) is fixed at
// creation and never changes. Tags and Images are stored as JSON-serialized
// lists; likes live in the likes join table, never on the post row.
type Post struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	Title    string   `gorm:"not null" json:"title"`
	Content  string   `gorm:"type:text;not null" json:"content"`
	Location string   `json:"location,omitempty"`
	Tags     []string `gorm:"serializer:json;type:text" json:"tags"`
	Images   []string `gorm:"serializer:json;type:text" json:"images"`
	UserID   uint     `gorm:"not null;index" json:"user_id"`
	User     User     `gorm:"foreignKey:UserID" json:"user"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TagList accepts either a JSON array of strings or a single comma-separated
// string, so both client conventions decode the same way.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*t = strings.Split(joined, ",")
	return nil
}
