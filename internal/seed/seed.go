package seed

import (
	"context"
	"fmt"
	"log"

	"circles/internal/database"
	"circles/internal/models"

	"gorm.io/gorm"
)

// Run creates users, a friendship mesh with some pending requests, and posts
// with comments and reacts.
func (f *Factory) Run() (*Summary, error) {
	ctx := context.Background()
	summary := &Summary{}

	users := make([]*models.User, 0, f.opts.NumUsers)
	for i := 0; i < f.opts.NumUsers; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return summary, err
		}
		users = append(users, u)
	}
	summary.Users = len(users)

	for i := 0; i < len(users); i++ {
		for j := i + 1; j < len(users); j++ {
			switch {
			case f.chance(f.opts.FriendRatio):
				if err := f.Befriend(ctx, users[i], users[j]); err != nil {
					return summary, fmt.Errorf("befriend: %w", err)
				}
				summary.Friendships++
			case f.chance(f.opts.PendingRatio):
				if err := f.Request(ctx, users[i], users[j]); err != nil {
					return summary, fmt.Errorf("request: %w", err)
				}
				summary.Pending++
			}
		}
	}

	if len(users) == 0 {
		return summary, nil
	}

	for i := 0; i < f.opts.NumPosts; i++ {
		owner := f.pick(users)
		post, err := f.CreatePost(owner)
		if err != nil {
			return summary, err
		}
		summary.Posts++

		if post.AllowComments {
			for c := 0; c < f.opts.CommentsPerPost; c++ {
				if _, err := f.CreateComment(f.pick(users), models.PostTarget(post.ID)); err != nil {
					return summary, err
				}
				summary.Comments++
			}
		}
		for r := 0; r < f.opts.ReactsPerPost; r++ {
			if _, err := f.CreateReact(f.pick(users), models.PostTarget(post.ID)); err != nil {
				return summary, err
			}
			summary.Reacts++
		}
	}

	log.Printf("seeded %d users, %d friendships, %d pending requests, %d posts, %d comments, %d reacts",
		summary.Users, summary.Friendships, summary.Pending, summary.Posts, summary.Comments, summary.Reacts)
	return summary, nil
}

// ClearAll deletes every row of every persistent model, children first.
func (f *Factory) ClearAll() error {
	if f.opts.DryRun {
		return nil
	}
	all := database.PersistentModels()
	for i := len(all) - 1; i >= 0; i-- {
		if err := f.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(all[i]).Error; err != nil {
			return fmt.Errorf("clear %T: %w", all[i], err)
		}
	}
	return nil
}

func (f *Factory) pick(users []*models.User) *models.User {
	return users[f.faker.Number(0, len(users)-1)]
}
