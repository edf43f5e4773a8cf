package models

import (
	"database/sql/driver"
	"encoding/json"
	errs "errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// TagList is persisted as a JSON-encoded text column.
type TagList []string

func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		t = TagList{}
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, errors.Wrap(err, "encoding tags")
	}
	return string(b), nil
}

func (t *TagList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = TagList{}
		return nil
	case []byte:
		return errors.Wrap(json.Unmarshal(v, t), "decoding tags")
	case string:
		return errors.Wrap(json.Unmarshal([]byte(v), t), "decoding tags")
	default:
		return fmt.Errorf("cannot scan %T into TagList", src)
	}
}

type Memo struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:100;not null" json:"title"`
	Content    string    `gorm:"not null" json:"content"`
	Tags       TagList   `gorm:"type:text" json:"tags"`
	Priority   int       `gorm:"not null;default:2" json:"priority"`
	Category   *string   `gorm:"size:50" json:"category"`
	IsArchived bool      `gorm:"not null;default:false" json:"is_archived"`
	IsFavorite bool      `gorm:"not null;default:false" json:"is_favorite"`
	Author     *string   `gorm:"size:100" json:"author"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Memo) TableName() string {
	return "memos"
}

// MemoCreate is the request shape for creating a memo. Priority is a pointer
// so an absent field can fall back to the default of 2.
type MemoCreate struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Tags       TagList `json:"tags"`
	Priority   *int    `json:"priority"`
	Category   *string `json:"category"`
	IsArchived bool    `json:"is_archived"`
	IsFavorite bool    `json:"is_favorite"`
	Author     *string `json:"author"`
}

func (m MemoCreate) Validate() error {
	var retErr error

	if n := utf8.RuneCountInString(m.Title); n < 1 || n > 100 {
		retErr = errs.Join(retErr, fmt.Errorf("title must be between 1 and 100 characters"))
	}
	if m.Content == "" {
		retErr = errs.Join(retErr, fmt.Errorf("content must not be empty"))
	}
	if m.Priority != nil && (*m.Priority < 1 || *m.Priority > 4) {
		retErr = errs.Join(retErr, fmt.Errorf("priority must be between 1 and 4"))
	}
	if m.Category != nil && utf8.RuneCountInString(*m.Category) > 50 {
		retErr = errs.Join(retErr, fmt.Errorf("category must be at most 50 characters"))
	}
	if m.Author != nil && utf8.RuneCountInString(*m.Author) > 100 {
		retErr = errs.Join(retErr, fmt.Errorf("author must be at most 100 characters"))
	}

	return retErr
}

// MemoUpdate carries a partial update: only non-nil fields replace existing
// values, everything else is retained verbatim.
type MemoUpdate struct {
	Title      *string  `json:"title"`
	Content    *string  `json:"content"`
	Tags       *TagList `json:"tags"`
	Priority   *int     `json:"priority"`
	Category   *string  `json:"category"`
	IsArchived *bool    `json:"is_archived"`
	IsFavorite *bool    `json:"is_favorite"`
	Author     *string  `json:"author"`
}

func (m MemoUpdate) IsEmpty() bool {
	return m.Title == nil &&
		m.Content == nil &&
		m.Tags == nil &&
		m.Priority == nil &&
		m.Category == nil &&
		m.IsArchived == nil &&
		m.IsFavorite == nil &&
		m.Author == nil
}

func (m MemoUpdate) Validate() error {
	var retErr error

	if m.Title != nil {
		if n := utf8.RuneCountInString(*m.Title); n < 1 || n > 100 {
			retErr = errs.Join(retErr, fmt.Errorf("title must be between 1 and 100 characters"))
		}
	}
	if m.Content != nil && *m.Content == "" {
		retErr = errs.Join(retErr, fmt.Errorf("content must not be empty"))
	}
	if m.Priority != nil && (*m.Priority < 1 || *m.Priority > 4) {
		retErr = errs.Join(retErr, fmt.Errorf("priority must be between 1 and 4"))
	}
	if m.Category != nil && utf8.RuneCountInString(*m.Category) > 50 {
		retErr = errs.Join(retErr, fmt.Errorf("category must be at most 50 characters"))
	}
	if m.Author != nil && utf8.RuneCountInString(*m.Author) > 100 {
		retErr = errs.Join(retErr, fmt.Errorf("author must be at most 100 characters"))
	}

	return retErr
}
