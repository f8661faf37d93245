// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"circles/internal/models"
	"circles/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumUsers        int
	NumPosts        int
	CommentsPerPost int
	ReactsPerPost   int
	// FriendRatio is the probability that any two users are friends.
	FriendRatio float64
	// PendingRatio is the probability that a non-friend pair has a pending request.
	PendingRatio float64
	MaxDays      int
	RandSeed     int64
	DryRun       bool
}

// Summary reports what a run created.
type Summary struct {
	Users       int
	Posts       int
	Comments    int
	Reacts      int
	Friendships int
	Pending     int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db       *gorm.DB
	opts     Options
	faker    *gofakeit.Faker
	rels     repository.RelationshipRepository
	requests repository.RequestRepository
	serial   int
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	if opts.RandSeed == 0 {
		opts.RandSeed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}
	return &Factory{
		db:       db,
		opts:     opts,
		faker:    gofakeit.New(opts.RandSeed),
		rels:     repository.NewRelationshipRepository(db),
		requests: repository.NewRequestRepository(db),
	}
}

// CreateUser constructs and persists a sample user.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	f.serial++
	username := fmt.Sprintf("%s%d", strings.ToLower(f.faker.FirstName()), f.serial)
	user := &models.User{
		Username: username,
		Email:    username + "@circles.local",
	}
	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		user.ID = f.faker.UUID()
		log.Printf("[dry-run] CreateUser: %s", user.Username)
		return user, nil
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// BuildPost constructs a post owned by owner without persisting it.
func (f *Factory) BuildPost(owner *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		OwnerID:       owner.ID,
		Title:         f.faker.Sentence(5),
		Desc:          f.faker.Paragraph(1, 3, 8, " "),
		AllowComments: f.faker.Number(1, 10) > 1,
		CreatedAt:     f.backdate(),
	}
	if f.faker.Bool() {
		id := f.faker.UUID()
		post.Images = []models.Image{{ID: id, URL: fmt.Sprintf("https://picsum.photos/seed/%s/800/800", id)}}
	}
	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost builds and persists a post.
func (f *Factory) CreatePost(owner *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(owner, overrides...)
	if f.opts.DryRun {
		post.ID = f.faker.UUID()
		return post, nil
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// CreateComment persists a comment by owner on target.
func (f *Factory) CreateComment(owner *models.User, target models.Target) (*models.Comment, error) {
	comment := &models.Comment{
		OwnerID: owner.ID,
		Content: f.faker.Sentence(f.faker.Number(3, 15)),
		Target:  target,
	}
	if f.opts.DryRun {
		comment.ID = f.faker.UUID()
		return comment, nil
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// CreateReact persists a react of a random type by owner on target.
func (f *Factory) CreateReact(owner *models.User, target models.Target) (*models.React, error) {
	react := &models.React{
		OwnerID: owner.ID,
		Type:    models.ReactTypes[f.faker.Number(0, len(models.ReactTypes)-1)],
		Target:  target,
	}
	if f.opts.DryRun {
		react.ID = f.faker.UUID()
		return react, nil
	}
	if err := f.db.Create(react).Error; err != nil {
		return nil, fmt.Errorf("create react: %w", err)
	}
	return react, nil
}

// Befriend records a mutual friendship through the relationship store.
func (f *Factory) Befriend(ctx context.Context, a, b *models.User) error {
	if f.opts.DryRun {
		return nil
	}
	if _, err := f.rels.AddPeer(ctx, a.ID, models.RelationshipFriends, b.ID); err != nil {
		return err
	}
	_, err := f.rels.AddPeer(ctx, b.ID, models.RelationshipFriends, a.ID)
	return err
}

// Request records a pending friend request from requester to target.
func (f *Factory) Request(ctx context.Context, requester, target *models.User) error {
	if f.opts.DryRun {
		return nil
	}
	_, err := f.requests.AddPending(ctx, requester.ID, target.ID)
	return err
}

func (f *Factory) backdate() time.Time {
	days := f.faker.Number(0, f.opts.MaxDays-1)
	minutes := f.faker.Number(0, 24*60-1)
	return time.Now().UTC().Add(-time.Duration(days)*24*time.Hour - time.Duration(minutes)*time.Minute)
}

func (f *Factory) chance(p float64) bool {
	return p > 0 && f.faker.Float64Range(0, 1) < p
}
