package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/lib/validator"
	"reviewhub/proj/internal/services/users"
)

func (app *Application) userError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		app.Http.NotFound(w, r, err.Error())
	case errors.Is(err, users.ErrUsernameTaken):
		app.Http.ValidationFailed(w, r, map[string]string{"username": err.Error()})
	case errors.Is(err, users.ErrEmailTaken):
		app.Http.ValidationFailed(w, r, map[string]string{"email": err.Error()})
	default:
		app.Http.ServerError(w, r, err, "")
	}
}

func (app *Application) listUsers(w http.ResponseWriter, r *http.Request) {
	var f filters.SearchFilters
	if !app.decodeQuery(w, r, &f) {
		return
	}
	f.SortSafelist = []string{"id", "username", "email", "created_at"}
	f.Normalize("username")
	if errs := f.Validate(); errs != nil {
		app.Http.ValidationFailed(w, r, errs)
		return
	}
	userList, total, err := app.Services.Users.List(r.Context(), f.Search, f.Filters)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{
		"users":    userList,
		"metadata": filters.CalculateMetadata(total, f.Page, f.PageSize),
	}, "")
}

type createUserInput struct {
	Username  string  `json:"username" validate:"required,max=150,username"`
	Email     string  `json:"email" validate:"required,email,max=254"`
	Role      string  `json:"role" validate:"omitempty,oneof=user moderator admin"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Bio       *string `json:"bio"`
}

func (app *Application) createUser(w http.ResponseWriter, r *http.Request) {
	var input createUserInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationFailed(w, r, errs)
		return
	}
	role := models.RoleUser
	if input.Role != "" {
		parsed, err := models.ParseRole(input.Role)
		if err != nil {
			app.Http.ValidationFailed(w, r, map[string]string{"role": err.Error()})
			return
		}
		role = parsed
	}
	user, err := app.Services.Users.Create(r.Context(), input.Username, input.Email, role, input.FirstName, input.LastName, input.Bio)
	if err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"user": user}, "")
}

func (app *Application) getUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	user, err := app.Services.Users.Get(r.Context(), username)
	if err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

type updateUserInput struct {
	Username  *string `json:"username" validate:"omitempty,max=150,username"`
	Email     *string `json:"email" validate:"omitempty,email,max=254"`
	Role      *string `json:"role" validate:"omitempty,oneof=user moderator admin"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Bio       *string `json:"bio"`
}

func (input *updateUserInput) toPatch() (users.Patch, error) {
	patch := users.Patch{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
	}
	if input.Role != nil {
		role, err := models.ParseRole(*input.Role)
		if err != nil {
			return users.Patch{}, err
		}
		patch.Role = &role
	}
	return patch, nil
}

func (app *Application) updateUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	var input updateUserInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationFailed(w, r, errs)
		return
	}
	patch, err := input.toPatch()
	if err != nil {
		app.Http.ValidationFailed(w, r, map[string]string{"role": err.Error()})
		return
	}
	user, err := app.Services.Users.Update(r.Context(), username, patch)
	if err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) deleteUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if err := app.Services.Users.Delete(r.Context(), username); err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}

func (app *Application) getProfile(w http.ResponseWriter, r *http.Request) {
	app.Http.Ok(w, r, envelop{"user": app.contextUser(r)}, "")
}

type updateProfileInput struct {
	Username  *string `json:"username" validate:"omitempty,max=150,username"`
	Email     *string `json:"email" validate:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Bio       *string `json:"bio"`
}

// updateProfile lets the current user edit their own profile. Role is
// deliberately absent from the input so it cannot be changed here.
func (app *Application) updateProfile(w http.ResponseWriter, r *http.Request) {
	var input updateProfileInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationFailed(w, r, errs)
		return
	}
	actor := app.contextUser(r)
	user, err := app.Services.Users.Update(r.Context(), actor.Username, users.Patch{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
	})
	if err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}
