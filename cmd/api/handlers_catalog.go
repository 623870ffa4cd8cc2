package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/lib/validator"
	"reviewhub/proj/internal/services/catalog"
)

type slugResourceInput struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

func (app *Application) listCategories(w http.ResponseWriter, r *http.Request) {
	var f filters.SearchFilters
	if !app.decodeQuery(w, r, &f) {
		return
	}
	f.SortSafelist = []string{"id", "name", "slug"}
	f.Normalize("name")
	if errs := f.Validate(); errs != nil {
		app.Http.ValidationFailed(w, r, errs)
		return
	}
	categories, total, err := app.Services.Catalog.ListCategories(r.Context(), f.Search, f.Filters)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{
		"categories": categories,
		"metadata":   filters.CalculateMetadata(total, f.Page, f.PageSize),
	}, "")
}

func (app *Application) createCategory(w http.ResponseWriter, r *http.Request) {
	var input slugResourceInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationFailed(w, r, errs)
		return
	}
	category, err := app.Services.Catalog.CreateCategory(r.Context(), input.Name, input.Slug)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryExists) {
			app.Http.Conflict(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"category": category}, "")
}

func (app *Application) deleteCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := app.Services.Catalog.DeleteCategory(r.Context(), slug); err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r)
}

func (app *Application) listGenres(w http.ResponseWriter, r *http.Request) {
	var f filters.SearchFilters
	if !app.decodeQuery(w, r, &f) {
		return
	}
	f.SortSafelist = []string{"id", "name", "slug"}
	f.Normalize("name")
	if errs := f.Validate(); errs != nil {
		app.Http.ValidationFailed(w, r, errs)
		return
	}
	genres, total, err := app.Services.Catalog.ListGenres(r.Context(), f.Search, f.Filters)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{
		"genres":   genres,
		"metadata": filters.CalculateMetadata(total, f.Page, f.PageSize),
	}, "")
}

func (app *Application) createGenre(w http.ResponseWriter, r *http.Request) {
	var input slugResourceInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationFailed(w, r, errs)
		return
	}
	genre, err := app.Services.Catalog.CreateGenre(r.Context(), input.Name, input.Slug)
	if err != nil {
		if errors.Is(err, catalog.ErrGenreExists) {
			app.Http.Conflict(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"genre": genre}, "")
}

func (app *Application) deleteGenre(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := app.Services.Catalog.DeleteGenre(r.Context(), slug); err != nil {
		if errors.Is(err, catalog.ErrGenreNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r)
}

func (app *Application) listTitles(w http.ResponseWriter, r *http.Request) {
	var f filters.TitleFilters
	if !app.decodeQuery(w, r, &f) {
		return
	}
	f.SortSafelist = []string{"id", "name", "year", "rating"}
	f.Normalize("name")
	if errs := f.Validate(); errs != nil {
		app.Http.ValidationFailed(w, r, errs)
		return
	}
	titles, total, err := app.Services.Catalog.ListTitles(r.Context(), f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{
		"titles":   titles,
		"metadata": filters.CalculateMetadata(total, f.Page, f.PageSize),
	}, "")
}

func (app *Application) getTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	title, err := app.Services.Catalog.GetTitle(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrTitleNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"title": title}, "")
}

type createTitleInput struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        int32    `json:"year" validate:"required,notfutureyear"`
	Description *string  `json:"description"`
	Category    *string  `json:"category" validate:"omitempty,max=50"`
	Genre       []string `json:"genre" validate:"omitempty,dive,max=50"`
}

func (app *Application) createTitle(w http.ResponseWriter, r *http.Request) {
	var input createTitleInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationFailed(w, r, errs)
		return
	}
	title, err := app.Services.Catalog.CreateTitle(r.Context(), input.Name, input.Year, input.Description, input.Category, input.Genre)
	if err != nil {
		app.catalogRelationError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"title": title}, "")
}

type updateTitleInput struct {
	Name        *string  `json:"name" validate:"omitempty,max=256"`
	Year        *int32   `json:"year" validate:"omitempty,notfutureyear"`
	Description *string  `json:"description"`
	Category    *string  `json:"category" validate:"omitempty,max=50"`
	Genre       []string `json:"genre" validate:"omitempty,dive,max=50"`
}

func (app *Application) updateTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	var input updateTitleInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationFailed(w, r, errs)
		return
	}
	title, err := app.Services.Catalog.UpdateTitle(r.Context(), id, input.Name, input.Year, input.Description, input.Category, input.Genre)
	if err != nil {
		app.catalogRelationError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"title": title}, "")
}

func (app *Application) deleteTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	if err := app.Services.Catalog.DeleteTitle(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrTitleNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r)
}

func (app *Application) catalogRelationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrTitleNotFound):
		app.Http.NotFound(w, r, err.Error())
	case errors.Is(err, catalog.ErrCategoryNotFound):
		app.Http.ValidationFailed(w, r, map[string]string{"category": err.Error()})
	case errors.Is(err, catalog.ErrGenreNotFound):
		app.Http.ValidationFailed(w, r, map[string]string{"genre": err.Error()})
	default:
		app.Http.ServerError(w, r, err, "")
	}
}
