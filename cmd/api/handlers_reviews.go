package main

import (
	"errors"
	"net/http"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/lib/validator"
	"reviewhub/proj/internal/services/reviews"
)

func (app *Application) reviewError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, reviews.ErrTitleNotFound),
		errors.Is(err, reviews.ErrReviewNotFound),
		errors.Is(err, reviews.ErrCommentNotFound):
		app.Http.NotFound(w, r, err.Error())
	case errors.Is(err, reviews.ErrReviewExists):
		app.Http.ValidationFailed(w, r, map[string]string{"title": err.Error()})
	case errors.Is(err, reviews.ErrForbidden):
		app.Http.Forbidden(w, r, err.Error())
	default:
		app.Http.ServerError(w, r, err, "")
	}
}

func (app *Application) listReviews(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	var f filters.Filters
	if !app.decodeQuery(w, r, &f) {
		return
	}
	f.SortSafelist = []string{"id", "score", "created_at"}
	f.Normalize("-created_at")
	if errs := f.Validate(); errs != nil {
		app.Http.ValidationFailed(w, r, errs)
		return
	}
	reviewList, total, err := app.Services.Reviews.ListReviews(r.Context(), titleID, f)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{
		"reviews":  reviewList,
		"metadata": filters.CalculateMetadata(total, f.Page, f.PageSize),
	}, "")
}

type createReviewInput struct {
	Text  string `json:"text" validate:"required"`
	Score int32  `json:"score" validate:"required,gte=1,lte=10"`
}

func (app *Application) createReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	var input createReviewInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationFailed(w, r, errs)
		return
	}
	review, err := app.Services.Reviews.CreateReview(r.Context(), titleID, app.contextUser(r), input.Text, input.Score)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"review": review}, "")
}

func (app *Application) getReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "reviewID")
	if !ok {
		return
	}
	review, err := app.Services.Reviews.GetReview(r.Context(), titleID, reviewID)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"review": review}, "")
}

type updateReviewInput struct {
	Text  *string `json:"text" validate:"omitempty,min=1"`
	Score *int32  `json:"score" validate:"omitempty,gte=1,lte=10"`
}

func (app *Application) updateReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "reviewID")
	if !ok {
		return
	}
	var input updateReviewInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationFailed(w, r, errs)
		return
	}
	review, err := app.Services.Reviews.UpdateReview(r.Context(), titleID, reviewID, app.contextUser(r), input.Text, input.Score)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"review": review}, "")
}

func (app *Application) deleteReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "reviewID")
	if !ok {
		return
	}
	if err := app.Services.Reviews.DeleteReview(r.Context(), titleID, reviewID, app.contextUser(r)); err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}

func (app *Application) listComments(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "reviewID")
	if !ok {
		return
	}
	var f filters.Filters
	if !app.decodeQuery(w, r, &f) {
		return
	}
	f.SortSafelist = []string{"id", "created_at"}
	f.Normalize("created_at")
	if errs := f.Validate(); errs != nil {
		app.Http.ValidationFailed(w, r, errs)
		return
	}
	comments, total, err := app.Services.Reviews.ListComments(r.Context(), titleID, reviewID, f)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{
		"comments": comments,
		"metadata": filters.CalculateMetadata(total, f.Page, f.PageSize),
	}, "")
}

type commentInput struct {
	Text string `json:"text" validate:"required"`
}

func (app *Application) createComment(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "reviewID")
	if !ok {
		return
	}
	var input commentInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationFailed(w, r, errs)
		return
	}
	comment, err := app.Services.Reviews.CreateComment(r.Context(), titleID, reviewID, app.contextUser(r), input.Text)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"comment": comment}, "")
}

func (app *Application) getComment(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "reviewID")
	if !ok {
		return
	}
	commentID, ok := app.extractIDParam(w, r, "commentID")
	if !ok {
		return
	}
	comment, err := app.Services.Reviews.GetComment(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"comment": comment}, "")
}

func (app *Application) updateComment(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "reviewID")
	if !ok {
		return
	}
	commentID, ok := app.extractIDParam(w, r, "commentID")
	if !ok {
		return
	}
	var input commentInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationFailed(w, r, errs)
		return
	}
	comment, err := app.Services.Reviews.UpdateComment(r.Context(), titleID, reviewID, commentID, app.contextUser(r), input.Text)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"comment": comment}, "")
}

func (app *Application) deleteComment(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "reviewID")
	if !ok {
		return
	}
	commentID, ok := app.extractIDParam(w, r, "commentID")
	if !ok {
		return
	}
	if err := app.Services.Reviews.DeleteComment(r.Context(), titleID, reviewID, commentID, app.contextUser(r)); err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}
