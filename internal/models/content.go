package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TargetKind names the content type a comment or react is attached to.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// Valid reports whether k is a known target kind.
func (k TargetKind) Valid() bool {
	return k == TargetPost || k == TargetComment
}

// Target identifies the content an engagement row points at.
type Target struct {
	Kind TargetKind `gorm:"type:varchar(16);not null;index" json:"kind"`
	ID   string     `gorm:"type:varchar(36);not null;index" json:"id"`
}

// PostTarget is shorthand for a post target.
func PostTarget(postID string) Target {
	return Target{Kind: TargetPost, ID: postID}
}

// CommentTarget is shorthand for a comment target.
func CommentTarget(commentID string) Target {
	return Target{Kind: TargetComment, ID: commentID}
}

// Image is an opaque media descriptor produced by the upload service.
type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Post is a piece of primary content. Tags holds the IDs of tagged users.
type Post struct {
	ID            string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID       string     `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	Title         string     `gorm:"not null" json:"title"`
	Desc          string     `json:"desc"`
	AllowComments bool       `gorm:"not null" json:"allow_comments"`
	Images        []Image    `gorm:"serializer:json" json:"images"`
	Tags          []string   `gorm:"serializer:json" json:"tags"`
	IsDeleted     bool       `gorm:"not null;default:false;index" json:"-"`
	DeletedAt     *time.Time `json:"-"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->;-:migration" json:"comments_count"`
	// ReactsCount is not persisted; computed at query time
	ReactsCount int       `gorm:"->;-:migration" json:"reacts_count"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Comment is attached to a post or to another comment.
type Comment struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID   string     `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	Content   string     `gorm:"not null" json:"content"`
	Target    Target     `gorm:"embedded;embeddedPrefix:target_" json:"target"`
	Tags      []string   `gorm:"serializer:json" json:"tags"`
	IsDeleted bool       `gorm:"not null;default:false" json:"-"`
	DeletedAt *time.Time `json:"-"`
	// CascadeHidden marks rows soft-deleted by a hide of the target post.
	CascadeHidden bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ReactType enumerates the supported reactions.
type ReactType string

const (
	ReactLike  ReactType = "like"
	ReactLove  ReactType = "love"
	ReactHaha  ReactType = "haha"
	ReactCare  ReactType = "care"
	ReactWow   ReactType = "wow"
	ReactSad   ReactType = "sad"
	ReactAngry ReactType = "angry"
)

// ReactTypes lists every supported reaction.
var ReactTypes = []ReactType{ReactLike, ReactLove, ReactHaha, ReactCare, ReactWow, ReactSad, ReactAngry}

var reactTypes = func() map[ReactType]struct{} {
	m := make(map[ReactType]struct{}, len(ReactTypes))
	for _, t := range ReactTypes {
		m[t] = struct{}{}
	}
	return m
}()

// ParseReactType normalizes raw input. An empty value means like.
func ParseReactType(raw string) (ReactType, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ReactLike, true
	}
	t := ReactType(raw)
	_, ok := reactTypes[t]
	return t, ok
}

// React is a reaction on a post or comment.
type React struct {
	ID            string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID       string     `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	Type          ReactType  `gorm:"type:varchar(16);not null;default:'like'" json:"type"`
	Target        Target     `gorm:"embedded;embeddedPrefix:target_" json:"target"`
	IsDeleted     bool       `gorm:"not null;default:false" json:"-"`
	DeletedAt     *time.Time `json:"-"`
	CascadeHidden bool       `gorm:"not null;default:false" json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (r *React) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
