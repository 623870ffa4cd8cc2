package reviews

import "errors"

var (
	ErrTitleNotFound   = errors.New("title not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrReviewExists    = errors.New("you have already reviewed this title")
	ErrForbidden       = errors.New("only the author, a moderator or an admin may modify this")
)
