package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ============================================================
// ENTITY: BlogPost
// ============================================================
// BlogPost is one document of the "blog-posts" collection.
//
// STORAGE MAPPING (mongo):
// ┌──────────────────────────────────┐
// │ blog-posts collection            │
// ├──────────────────────────────────┤
// │ _id      ObjectID                │
// │ title    string                  │
// │ content  string                  │
// │ author   [{firstName, lastName}] │
// │ created  date                    │
// └──────────────────────────────────┘
//
// ID and Created are assigned by the storage driver on insert
// and never change afterwards.
type BlogPost struct {
	ID      string
	Title   string
	Content string
	Author  []Author
	Created time.Time
}

// Author is one entry of a post's author list.
type Author struct {
	FirstName string `json:"firstName" bson:"firstName"`
	LastName  string `json:"lastName" bson:"lastName"`
}

// Validate checks the record invariants the collection enforces on insert:
// non-empty title and content, and both names on every author entry.
func (p BlogPost) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required.Error("title is required")),
		validation.Field(&p.Content, validation.Required.Error("content is required")),
		validation.Field(&p.Author, validation.Each(validation.By(validateAuthor))),
	)
}

// Author has no Validate method of its own so ozzo does not descend into
// author lists during the presence checks of CreatePostRequest.
func validateAuthor(value interface{}) error {
	a, ok := value.(Author)
	if !ok {
		return validation.NewError("validation_invalid_author", "must be an author")
	}
	return validation.ValidateStruct(&a,
		validation.Field(&a.FirstName, validation.Required.Error("firstName is required")),
		validation.Field(&a.LastName, validation.Required.Error("lastName is required")),
	)
}

// ============================================================
// PARTIAL UPDATE: PostUpdate
// ============================================================
// PostUpdate is the change-set of an update. A nil field was not sent and
// keeps its stored value. An empty PostUpdate is a legal no-op update.
type PostUpdate struct {
	Title   *string
	Content *string
	Author  *[]Author
}

// IsEmpty reports whether the update carries no field at all.
func (u PostUpdate) IsEmpty() bool {
	return u.Title == nil && u.Content == nil && u.Author == nil
}

// Apply writes the fields present in u onto p.
func (u PostUpdate) Apply(p *BlogPost) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Content != nil {
		p.Content = *u.Content
	}
	if u.Author != nil {
		p.Author = CopyAuthors(*u.Author)
	}
}

// CopyAuthors returns a copy of authors that is never nil.
func CopyAuthors(authors []Author) []Author {
	out := make([]Author, len(authors))
	copy(out, authors)
	return out
}
