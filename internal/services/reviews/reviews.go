package reviews

import (
	"context"
	"errors"
	"log/slog"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"
)

type ReviewsStorage interface {
	Insert(ctx context.Context, titleID, authorID int64, text string, score int32) (int64, error)
	Exists(ctx context.Context, titleID, authorID int64) (bool, error)
	Get(ctx context.Context, titleID, id int64) (*models.Review, error)
	ListForTitle(ctx context.Context, titleID int64, f filters.Filters) ([]models.Review, int, error)
	Update(ctx context.Context, id int64, text string, score int32) error
	Delete(ctx context.Context, id int64) error
}

type CommentsStorage interface {
	Insert(ctx context.Context, reviewID, authorID int64, text string) (int64, error)
	Get(ctx context.Context, reviewID, id int64) (*models.Comment, error)
	ListForReview(ctx context.Context, reviewID int64, f filters.Filters) ([]models.Comment, int, error)
	Update(ctx context.Context, id int64, text string) error
	Delete(ctx context.Context, id int64) error
}

type TitlesStorage interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type ReviewService struct {
	log      *slog.Logger
	reviews  ReviewsStorage
	comments CommentsStorage
	titles   TitlesStorage
}

func New(log *slog.Logger, reviews ReviewsStorage, comments CommentsStorage, titles TitlesStorage) *ReviewService {
	return &ReviewService{
		log:      log,
		reviews:  reviews,
		comments: comments,
		titles:   titles,
	}
}

// canModify is the object-level authorization check shared by review and
// comment mutation: the author, a moderator or an admin.
func canModify(actor *models.User, authorID int64) bool {
	return actor.ID == authorID || actor.CanModerate()
}

func (s *ReviewService) checkTitle(ctx context.Context, titleID int64) error {
	exists, err := s.titles.Exists(ctx, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTitleNotFound
	}
	return nil
}

// CreateReview enforces the one-review-per-(author, title) invariant: a
// pre-check rejects duplicates, and the unique constraint in storage maps
// to the same error if a concurrent create slips past the pre-check. The
// outcome is a deterministic rejection either way, never an upsert.
func (s *ReviewService) CreateReview(ctx context.Context, titleID int64, author *models.User, text string, score int32) (*models.Review, error) {
	const op = "reviews.ReviewService.CreateReview"
	log := s.log.With("op", op, "title_id", titleID, "author_id", author.ID)
	if err := s.checkTitle(ctx, titleID); err != nil {
		return nil, err
	}
	exists, err := s.reviews.Exists(ctx, titleID, author.ID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if exists {
		log.Info("duplicate review rejected")
		return nil, ErrReviewExists
	}
	id, err := s.reviews.Insert(ctx, titleID, author.ID, text, score)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("duplicate review rejected by constraint")
			return nil, ErrReviewExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return s.reviews.Get(ctx, titleID, id)
}

func (s *ReviewService) GetReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	const op = "reviews.ReviewService.GetReview"
	review, err := s.reviews.Get(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ListReviews(ctx context.Context, titleID int64, f filters.Filters) ([]models.Review, int, error) {
	const op = "reviews.ReviewService.ListReviews"
	if err := s.checkTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	reviews, total, err := s.reviews.ListForTitle(ctx, titleID, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return reviews, total, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, titleID, reviewID int64, actor *models.User, text *string, score *int32) (*models.Review, error) {
	const op = "reviews.ReviewService.UpdateReview"
	log := s.log.With("op", op, "review_id", reviewID, "actor_id", actor.ID)
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, review.AuthorID) {
		log.Info("review mutation forbidden")
		return nil, ErrForbidden
	}
	if text != nil {
		review.Text = *text
	}
	if score != nil {
		review.Score = *score
	}
	if err := s.reviews.Update(ctx, review.ID, review.Text, review.Score); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return s.GetReview(ctx, titleID, reviewID)
}

func (s *ReviewService) DeleteReview(ctx context.Context, titleID, reviewID int64, actor *models.User) error {
	const op = "reviews.ReviewService.DeleteReview"
	log := s.log.With("op", op, "review_id", reviewID, "actor_id", actor.ID)
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if !canModify(actor, review.AuthorID) {
		log.Info("review deletion forbidden")
		return ErrForbidden
	}
	if err := s.reviews.Delete(ctx, review.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrReviewNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *ReviewService) CreateComment(ctx context.Context, titleID, reviewID int64, author *models.User, text string) (*models.Comment, error) {
	const op = "reviews.ReviewService.CreateComment"
	log := s.log.With("op", op, "review_id", reviewID, "author_id", author.ID)
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	id, err := s.comments.Insert(ctx, review.ID, author.ID, text)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return s.comments.Get(ctx, review.ID, id)
}

func (s *ReviewService) GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	const op = "reviews.ReviewService.GetComment"
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	comment, err := s.comments.Get(ctx, review.ID, commentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return comment, nil
}

func (s *ReviewService) ListComments(ctx context.Context, titleID, reviewID int64, f filters.Filters) ([]models.Comment, int, error) {
	const op = "reviews.ReviewService.ListComments"
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, 0, err
	}
	comments, total, err := s.comments.ListForReview(ctx, review.ID, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return comments, total, nil
}

func (s *ReviewService) UpdateComment(ctx context.Context, titleID, reviewID, commentID int64, actor *models.User, text string) (*models.Comment, error) {
	const op = "reviews.ReviewService.UpdateComment"
	log := s.log.With("op", op, "comment_id", commentID, "actor_id", actor.ID)
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, comment.AuthorID) {
		log.Info("comment mutation forbidden")
		return nil, ErrForbidden
	}
	if err := s.comments.Update(ctx, comment.ID, text); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return s.GetComment(ctx, titleID, reviewID, commentID)
}

func (s *ReviewService) DeleteComment(ctx context.Context, titleID, reviewID, commentID int64, actor *models.User) error {
	const op = "reviews.ReviewService.DeleteComment"
	log := s.log.With("op", op, "comment_id", commentID, "actor_id", actor.ID)
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if !canModify(actor, comment.AuthorID) {
		log.Info("comment deletion forbidden")
		return ErrForbidden
	}
	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrCommentNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}
