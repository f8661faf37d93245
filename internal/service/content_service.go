package service

import (
	"context"
	"strings"
	"time"

	"circles/internal/models"
	"circles/internal/repository"
	"circles/internal/validation"
)

// CreatePostInput carries the fields a caller may set on a new post.
type CreatePostInput struct {
	Title         string         `json:"title"`
	Desc          string         `json:"desc"`
	AllowComments *bool          `json:"allow_comments"`
	Images        []models.Image `json:"images"`
	Tags          []string       `json:"tags"`
}

// UpdatePostInput carries an owner's edit of a post. Nil fields are left as is.
type UpdatePostInput struct {
	Title         *string         `json:"title"`
	Desc          *string         `json:"desc"`
	AllowComments *bool           `json:"allow_comments"`
	Images        *[]models.Image `json:"images"`
	Tags          *[]string       `json:"tags"`
}

// CreateCommentInput carries a new comment on a post or a reply to a comment.
type CreateCommentInput struct {
	Target  models.Target
	Content string
	Tags    []string
}

// UpdateCommentInput carries an owner's edit of a comment. Nil fields are left as is.
type UpdateCommentInput struct {
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
}

// ContentService handles posts, comments and reacts.
type ContentService struct {
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	reactRepo      repository.ReactRepository
	visibilityRepo repository.VisibilityRepository
	now            Clock
}

func NewContentService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	reactRepo repository.ReactRepository,
	visibilityRepo repository.VisibilityRepository,
	now Clock,
) *ContentService {
	if now == nil {
		now = UTCNow
	}
	return &ContentService{
		userRepo:       userRepo,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		reactRepo:      reactRepo,
		visibilityRepo: visibilityRepo,
		now:            now,
	}
}

func (s *ContentService) CreatePost(ctx context.Context, ownerID string, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if err := validation.ValidatePostTitle(title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	desc := strings.TrimSpace(in.Desc)
	if err := validation.ValidatePostDesc(desc); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	tags, err := s.resolveTags(ctx, in.Tags)
	if err != nil {
		return nil, err
	}

	allow := true
	if in.AllowComments != nil {
		allow = *in.AllowComments
	}

	post := &models.Post{
		OwnerID:       ownerID,
		Title:         title,
		Desc:          desc,
		AllowComments: allow,
		Images:        in.Images,
		Tags:          tags,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost applies an owner's edit to a live post.
func (s *ContentService) UpdatePost(ctx context.Context, ownerID, postID string, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.OwnerID != ownerID {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if err := validation.ValidatePostTitle(title); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		post.Title = title
	}
	if in.Desc != nil {
		desc := strings.TrimSpace(*in.Desc)
		if err := validation.ValidatePostDesc(desc); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		post.Desc = desc
	}
	if in.AllowComments != nil {
		post.AllowComments = *in.AllowComments
	}
	if in.Images != nil {
		post.Images = *in.Images
	}
	if in.Tags != nil {
		if post.Tags, err = s.resolveTags(ctx, *in.Tags); err != nil {
			return nil, err
		}
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost hard-deletes a post owned by ownerID along with its comments.
func (s *ContentService) DeletePost(ctx context.Context, ownerID, postID string) (*models.Ack, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.OwnerID != ownerID {
		return nil, models.NewUnauthorizedError("You can only delete your own posts")
	}
	if _, err := s.postRepo.HardDelete(ctx, postID); err != nil {
		return nil, err
	}
	return models.NewAck("Post deleted"), nil
}

// AddComment comments on a post that allows comments, or replies to a live
// comment. A comment on a post its author has hidden is stored hidden and
// comes back when the post is unhidden.
func (s *ContentService) AddComment(ctx context.Context, ownerID string, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if err := validation.ValidateCommentContent(content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	switch in.Target.Kind {
	case models.TargetPost:
		post, err := s.postRepo.GetByID(ctx, in.Target.ID)
		if err != nil {
			return nil, err
		}
		if !post.AllowComments {
			return nil, models.NewValidationError("Comments are disabled for this post")
		}
	case models.TargetComment:
		if _, err := s.commentRepo.GetByID(ctx, in.Target.ID); err != nil {
			return nil, err
		}
	default:
		return nil, models.NewValidationError("Invalid comment target")
	}

	tags, err := s.resolveTags(ctx, in.Tags)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{OwnerID: ownerID, Content: content, Target: in.Target, Tags: tags}
	hiddenAt, err := s.hiddenAt(ctx, ownerID, in.Target)
	if err != nil {
		return nil, err
	}
	if hiddenAt != nil {
		comment.IsDeleted, comment.DeletedAt, comment.CascadeHidden = true, hiddenAt, true
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// UpdateComment applies an owner's edit to a live comment.
func (s *ContentService) UpdateComment(ctx context.Context, ownerID, commentID string, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.OwnerID != ownerID {
		return nil, models.NewUnauthorizedError("You can only update your own comments")
	}

	if in.Content != nil {
		content := strings.TrimSpace(*in.Content)
		if err := validation.ValidateCommentContent(content); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		comment.Content = content
	}
	if in.Tags != nil {
		if comment.Tags, err = s.resolveTags(ctx, *in.Tags); err != nil {
			return nil, err
		}
	}

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns live comments directly on postID, oldest first.
func (s *ContentService) ListComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByTarget(ctx, models.PostTarget(postID))
}

// AddReact records a reaction on a live post or comment. An empty type is a
// like. A react on a post its author has hidden is stored hidden.
func (s *ContentService) AddReact(ctx context.Context, ownerID string, target models.Target, rawType string) (*models.React, error) {
	reactType, ok := models.ParseReactType(rawType)
	if !ok {
		return nil, models.NewValidationError("Invalid react type")
	}

	switch target.Kind {
	case models.TargetPost:
		if _, err := s.postRepo.GetByID(ctx, target.ID); err != nil {
			return nil, err
		}
	case models.TargetComment:
		if _, err := s.commentRepo.GetByID(ctx, target.ID); err != nil {
			return nil, err
		}
	default:
		return nil, models.NewValidationError("Invalid react target")
	}

	react := &models.React{OwnerID: ownerID, Type: reactType, Target: target}
	hiddenAt, err := s.hiddenAt(ctx, ownerID, target)
	if err != nil {
		return nil, err
	}
	if hiddenAt != nil {
		react.IsDeleted, react.DeletedAt, react.CascadeHidden = true, hiddenAt, true
	}
	if err := s.reactRepo.Create(ctx, react); err != nil {
		return nil, err
	}
	return react, nil
}

// DeleteReact soft-deletes a react owned by ownerID.
func (s *ContentService) DeleteReact(ctx context.Context, ownerID, reactID string) (*models.Ack, error) {
	react, err := s.reactRepo.GetByID(ctx, reactID)
	if err != nil {
		return nil, err
	}
	if react.OwnerID != ownerID {
		return nil, models.NewUnauthorizedError("You can only remove your own reacts")
	}
	if err := s.reactRepo.SoftDelete(ctx, reactID, s.now()); err != nil {
		return nil, err
	}
	return models.NewAck("React removed"), nil
}

// hiddenAt returns the soft-delete time for a new engagement row when
// ownerID has hidden the target post, and nil otherwise.
func (s *ContentService) hiddenAt(ctx context.Context, ownerID string, target models.Target) (*time.Time, error) {
	if target.Kind != models.TargetPost {
		return nil, nil
	}
	hidden, err := s.visibilityRepo.IsHidden(ctx, ownerID, target.ID)
	if err != nil || !hidden {
		return nil, err
	}
	at := s.now()
	return &at, nil
}

// resolveTags normalizes tagged user IDs and checks that each user exists.
func (s *ContentService) resolveTags(ctx context.Context, raw []string) ([]string, error) {
	tags, err := validation.NormalizeTags(raw)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if len(tags) == 0 {
		return tags, nil
	}
	found, err := s.userRepo.CountExisting(ctx, tags)
	if err != nil {
		return nil, err
	}
	if found != int64(len(tags)) {
		return nil, models.NewValidationError("Invalid tags")
	}
	return tags, nil
}
