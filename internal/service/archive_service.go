package service

import (
	"context"
	"log/slog"
	"time"

	"circles/internal/middleware"
	"circles/internal/models"
	"circles/internal/observability"
	"circles/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultArchiveRetention is how long an archived post survives.
const DefaultArchiveRetention = 24 * time.Hour

// ArchiveListing is the outcome of a lazy expiry sweep.
type ArchiveListing struct {
	Entries  []models.ArchiveEntry
	Expired  int
	Warnings []*models.AppError
}

// ArchiveService manages each owner's archive of their own posts. Expired
// entries are swept lazily whenever the archive is listed.
type ArchiveService struct {
	postRepo    repository.PostRepository
	archiveRepo repository.ArchiveRepository
	cascade     *CascadeRunner
	now         Clock
	retention   time.Duration
}

func NewArchiveService(
	postRepo repository.PostRepository,
	archiveRepo repository.ArchiveRepository,
	cascade *CascadeRunner,
	now Clock,
	retention time.Duration,
) *ArchiveService {
	if now == nil {
		now = UTCNow
	}
	if retention <= 0 {
		retention = DefaultArchiveRetention
	}
	return &ArchiveService{
		postRepo:    postRepo,
		archiveRepo: archiveRepo,
		cascade:     cascade,
		now:         now,
		retention:   retention,
	}
}

// ArchivePost records postID in the owner's archive. Only the owner may
// archive a post; anyone else gets NotFound.
func (s *ArchiveService) ArchivePost(ctx context.Context, ownerID, postID string) (*models.Ack, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.OwnerID != ownerID {
		return nil, models.NewNotFoundError("Post", postID)
	}

	added, err := s.archiveRepo.Append(ctx, ownerID, postID, s.now())
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, models.NewConflictError(models.CodeAlreadyArchived, "Post is already archived")
	}
	return models.NewAck("Post archived"), nil
}

// ListArchive returns the owner's unexpired entries. Entries older than the
// retention window have their post hard-deleted and are pruned. A post that
// fails to delete keeps its entry for the next sweep.
func (s *ArchiveService) ListArchive(ctx context.Context, ownerID string) (*ArchiveListing, error) {
	span, ctx := observability.NewSpan(ctx, "archive.sweep", attribute.String("owner_id", ownerID))
	defer span.End()
	start := time.Now()
	defer func() {
		observability.ArchiveSweepDuration.Observe(time.Since(start).Seconds())
	}()

	entries, err := s.archiveRepo.List(ctx, ownerID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	now := s.now()
	listing := &ArchiveListing{Entries: make([]models.ArchiveEntry, 0, len(entries))}
	var expired []string
	for _, entry := range entries {
		if now.Sub(entry.ArchivedAt) <= s.retention {
			listing.Entries = append(listing.Entries, entry)
			continue
		}

		deleted, err := s.postRepo.HardDelete(ctx, entry.PostID)
		if err != nil {
			middleware.Logger.ErrorContext(ctx, "archive expiry failed",
				slog.String("owner_id", ownerID),
				slog.String("post_id", entry.PostID),
				slog.String("error", err.Error()),
			)
			listing.Entries = append(listing.Entries, entry)
			listing.Warnings = append(listing.Warnings, models.NewInconsistentCascadeError("archive_expiry", err))
			continue
		}
		if deleted {
			observability.ArchiveExpired.Inc()
		}
		expired = append(expired, entry.PostID)
	}

	if len(expired) > 0 {
		warning := s.cascade.Run(ctx, "archive_prune", func(ctx context.Context) error {
			_, err := s.archiveRepo.Prune(ctx, ownerID, expired)
			return err
		})
		if warning != nil {
			listing.Warnings = append(listing.Warnings, warning)
		}
	}

	listing.Expired = len(expired)
	span.AddAttributes(
		attribute.Int("archive.kept", len(listing.Entries)),
		attribute.Int("archive.expired", listing.Expired),
	)
	return listing, nil
}

// RemoveFromArchive drops an entry without deleting the post.
func (s *ArchiveService) RemoveFromArchive(ctx context.Context, ownerID, postID string) (*models.Ack, error) {
	if _, err := s.archiveRepo.Prune(ctx, ownerID, []string{postID}); err != nil {
		return nil, err
	}
	return models.NewAck("Post removed from archive"), nil
}
