package main

import (
	"errors"
	"net/http"

	"reviewhub/proj/internal/lib/validator"
	"reviewhub/proj/internal/services/auth"
)

type signupInput struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email" validate:"required,email,max=254"`
}

func (app *Application) signup(w http.ResponseWriter, r *http.Request) {
	var input signupInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationFailed(w, r, errs)
		return
	}
	user, err := app.Services.Auth.Signup(r.Context(), input.Username, input.Email)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			app.Http.ValidationFailed(w, r, map[string]string{"username": err.Error()})
		case errors.Is(err, auth.ErrEmailTaken):
			app.Http.ValidationFailed(w, r, map[string]string{"email": err.Error()})
		case errors.Is(err, auth.ErrCodeDelivery):
			app.Http.ServerError(w, r, err, "Failed to deliver the confirmation code. Please try again later.")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"username": user.Username, "email": user.Email}, "Confirmation code sent")
}

type tokenInput struct {
	Username         string `json:"username" validate:"required,max=150,username"`
	ConfirmationCode string `json:"confirmation_code" validate:"required,max=150"`
}

func (app *Application) token(w http.ResponseWriter, r *http.Request) {
	var input tokenInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationFailed(w, r, errs)
		return
	}
	token, err := app.Services.Auth.IssueToken(r.Context(), input.Username, input.ConfirmationCode)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			app.Http.NotFound(w, r, err.Error())
		case errors.Is(err, auth.ErrInvalidCode):
			app.Http.ValidationFailed(w, r, map[string]string{"confirmation_code": err.Error()})
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"token": token}, "")
}
