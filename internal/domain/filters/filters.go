package filters

import (
	"errors"
	"strings"
)

const (
	AscSort  = "ASC"
	DescSort = "DESC"

	defaultPageSize = 20
	maxPageSize     = 100
)

type Filters struct {
	Page         int      `schema:"page"`
	PageSize     int      `schema:"page_size"`
	Sort         string   `schema:"sort"`
	SortSafelist []string `schema:"-"`
}

// Normalize fills in defaults and caps the page size. Call it after
// decoding query params and before hitting storage.
func (f *Filters) Normalize(defaultSort string) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
	if f.Sort == "" {
		f.Sort = defaultSort
	}
}

func (f *Filters) Validate() map[string]string {
	s := strings.TrimPrefix(f.Sort, "-")
	for _, safeValue := range f.SortSafelist {
		if strings.EqualFold(s, safeValue) {
			return nil
		}
	}
	return map[string]string{
		"sort": "Value must be one of " + strings.Join(f.SortSafelist, ", "),
	}
}

func (f *Filters) Limit() int {
	return f.PageSize
}

func (f *Filters) Offset() int {
	return (f.Page - 1) * f.PageSize
}

func (f *Filters) SortColumn() string {
	s := strings.TrimPrefix(f.Sort, "-")
	for _, safeValue := range f.SortSafelist {
		if strings.EqualFold(s, safeValue) {
			return s
		}
	}
	panic(errors.New("Unknown sort column: " + f.Sort))
}

func (f *Filters) SortDirection() string {
	if strings.HasPrefix(f.Sort, "-") {
		return DescSort
	}
	return AscSort
}

// TitleFilters mirrors the title list query params: slugs match exactly,
// name matches a substring, year matches exactly.
type TitleFilters struct {
	Category string `schema:"category"`
	Genre    string `schema:"genre"`
	Name     string `schema:"name"`
	Year     int32  `schema:"year"`
	Filters
}

// SearchFilters serves the category/genre/user collections which only
// support a substring search.
type SearchFilters struct {
	Search string `schema:"search"`
	Filters
}

type Metadata struct {
	CurrentPage  int `json:"current_page"`
	PageSize     int `json:"page_size"`
	LastPage     int `json:"last_page"`
	TotalRecords int `json:"total_records"`
}

func CalculateMetadata(totalRecords, page, pageSize int) Metadata {
	if totalRecords == 0 {
		return Metadata{}
	}
	return Metadata{
		CurrentPage:  page,
		PageSize:     pageSize,
		LastPage:     (totalRecords + pageSize - 1) / pageSize,
		TotalRecords: totalRecords,
	}
}
