package models

import (
	"time"
)

type Category struct {
	ID   int64  `json:"-" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

type Genre struct {
	ID   int64  `json:"-" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

type Title struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Year        int32     `json:"year"`
	Rating      *int32    `json:"rating"` // round(avg(score)) over reviews, nil when no reviews exist
	Description *string   `json:"description"`
	Category    *Category `json:"category"`
	Genres      []Genre   `json:"genre"`
	CreatedAt   time.Time `json:"-"`
}

type Review struct {
	ID        int64     `json:"id" db:"id"`
	TitleID   int64     `json:"-" db:"title_id"`
	Text      string    `json:"text" db:"text"`
	Author    string    `json:"author" db:"author"` // author's username
	AuthorID  int64     `json:"-" db:"author_id"`
	Score     int32     `json:"score" db:"score"`
	CreatedAt time.Time `json:"pub_date" db:"created_at"`
}

type Comment struct {
	ID        int64     `json:"id" db:"id"`
	ReviewID  int64     `json:"-" db:"review_id"`
	Text      string    `json:"text" db:"text"`
	Author    string    `json:"author" db:"author"`
	AuthorID  int64     `json:"-" db:"author_id"`
	CreatedAt time.Time `json:"pub_date" db:"created_at"`
}

type User struct {
	ID          int64     `json:"-" db:"id"`
	Username    string    `json:"username" db:"username"`
	Email       string    `json:"email" db:"email"`
	FirstName   *string   `json:"first_name" db:"first_name"`
	LastName    *string   `json:"last_name" db:"last_name"`
	Bio         *string   `json:"bio" db:"bio"`
	Role        Role      `json:"role" db:"role"`
	IsSuperuser bool      `json:"-" db:"is_superuser"`
	CreatedAt   time.Time `json:"-" db:"created_at"`
	UpdatedAt   time.Time `json:"-" db:"updated_at"`
}

// AnonymousUser marks an unauthenticated request in the request context.
var AnonymousUser = &User{}

func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}
