// Package model defines the persistent and in-flight entities of the
// moderation pipeline.
package model

import (
	"errors"
	"time"
)

// Post statuses. A post is created pending and moves to exactly one of the
// terminal statuses on a reviewer decision.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// MediaKind distinguishes album item types.
type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
)

// AlbumItem is a single entry of a media album, in submission order.
type AlbumItem struct {
	Kind   MediaKind `json:"type"`
	FileID string    `json:"file_id"`
}

// ContentKind names the populated payload variant of a Content.
type ContentKind string

const (
	ContentText  ContentKind = "text"
	ContentPhoto ContentKind = "photo"
	ContentVideo ContentKind = "video"
	ContentAlbum ContentKind = "album"
	ContentNone  ContentKind = ""
)

// Content is the tagged union of submittable payloads. Exactly one of
// Text/Photo/Video/Album may be populated; Caption accompanies media only.
// The JSON field names match the stored message_data document.
type Content struct {
	Text    string      `json:"text,omitempty"`
	Photo   string      `json:"photo,omitempty"`
	Video   string      `json:"video,omitempty"`
	Album   []AlbumItem `json:"media_group,omitempty"`
	Caption string      `json:"caption,omitempty"`
}

// ErrEmptyContent reports a content union with no populated payload.
var ErrEmptyContent = errors.New("model: content has no payload")

// ErrAmbiguousContent reports a content union with more than one payload.
var ErrAmbiguousContent = errors.New("model: content has multiple payloads")

// Kind returns the populated payload variant.
func (c Content) Kind() ContentKind {
	switch {
	case len(c.Album) > 0:
		return ContentAlbum
	case c.Photo != "":
		return ContentPhoto
	case c.Video != "":
		return ContentVideo
	case c.Text != "":
		return ContentText
	}
	return ContentNone
}

// Validate checks the exactly-one-payload invariant.
func (c Content) Validate() error {
	n := 0
	if c.Text != "" {
		n++
	}
	if c.Photo != "" {
		n++
	}
	if c.Video != "" {
		n++
	}
	if len(c.Album) > 0 {
		n++
	}
	switch {
	case n == 0:
		return ErrEmptyContent
	case n > 1:
		return ErrAmbiguousContent
	}
	return nil
}

// User is a registered submitter.
type User struct {
	ID        int64     `db:"user_id"`
	Username  string    `db:"username"`
	CreatedAt time.Time `db:"created_at"`
}

// Admin is an identity allowed to attempt reviewer login.
type Admin struct {
	ID        int64     `db:"user_id"`
	Username  string    `db:"username"`
	CreatedAt time.Time `db:"created_at"`
}

// Channel is a named routing target. Name is the unique key referenced by
// Post.Channel; TelegramID is the external destination in canonical @handle
// form.
type Channel struct {
	ID         int64     `db:"id"`
	Name       string    `db:"channel_name"`
	TelegramID string    `db:"channel_id"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// Post is a moderation-queue entry.
type Post struct {
	ID          int64      `db:"id"`
	UserID      int64      `db:"user_id"`
	Username    string     `db:"username"`
	Channel     string     `db:"channel"`
	Content     Content    `db:"-"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}

// SpamSettings is the process-wide resubmission throttle configuration.
type SpamSettings struct {
	Enabled      bool `db:"enabled"`
	DelayMinutes int  `db:"delay_minutes"`
}
