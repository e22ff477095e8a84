package model

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreatePostRequest is the body of POST /posts.
// Pointer fields distinguish "absent" from "empty".
type CreatePostRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Author  *[]Author `json:"author"`
}

// Validate checks presence of title, content and author, in that order,
// and reports the first absent one. Empty values are accepted here, so only
// the outer pointer is inspected, never the list it points to.
func (r CreatePostRequest) Validate() error {
	required := []struct {
		name    string
		present bool
	}{
		{"title", r.Title != nil},
		{"content", r.Content != nil},
		{"author", r.Author != nil},
	}

	for _, field := range required {
		err := validation.Validate(field.present,
			validation.Required.Error(fmt.Sprintf("Missing `%s` in request body", field.name)),
		)
		if err != nil {
			return &RequestError{Field: field.name, Message: err.Error()}
		}
	}
	return nil
}

// ToPost builds the record to insert. ID and Created are left to storage.
func (r CreatePostRequest) ToPost() *BlogPost {
	post := &BlogPost{}
	if r.Title != nil {
		post.Title = *r.Title
	}
	if r.Content != nil {
		post.Content = *r.Content
	}
	if r.Author != nil {
		post.Author = CopyAuthors(*r.Author)
	}
	return post
}

// UpdatePostRequest is the body of PUT /posts/:id.
// ID must repeat the path id; the other fields are optional.
type UpdatePostRequest struct {
	ID      *string   `json:"id"`
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Author  *[]Author `json:"author"`
}

// ValidateFor checks that both the path id and the body id are present and equal.
func (r UpdatePostRequest) ValidateFor(pathID string) error {
	bodyID := ""
	if r.ID != nil {
		bodyID = *r.ID
	}

	err := validation.Validate(bodyID, validation.Required, validation.In(pathID))
	if pathID == "" || err != nil {
		return &RequestError{
			Field:   "id",
			Message: fmt.Sprintf("Request path id (%s) and request body id (%s) must match", pathID, describeID(r.ID)),
		}
	}
	return nil
}

// Changes returns the change-set made of the updatable fields present in the body.
func (r UpdatePostRequest) Changes() PostUpdate {
	update := PostUpdate{
		Title:   r.Title,
		Content: r.Content,
	}
	if r.Author != nil {
		authors := CopyAuthors(*r.Author)
		update.Author = &authors
	}
	return update
}

func describeID(id *string) string {
	if id == nil {
		return "undefined"
	}
	return *id
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// PostResponse is the public projection of a BlogPost.
type PostResponse struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Author  []Author  `json:"author"`
	Created time.Time `json:"created"`
}

// ListPostsResponse is the body of GET /posts.
type ListPostsResponse struct {
	Posts []PostResponse `json:"posts"`
}

// Serialize projects a stored record onto its wire representation.
func Serialize(p *BlogPost) PostResponse {
	return PostResponse{
		ID:      p.ID,
		Title:   p.Title,
		Content: p.Content,
		Author:  CopyAuthors(p.Author),
		Created: p.Created,
	}
}

// SerializeAll projects a list of records. The result is never nil.
func SerializeAll(posts []*BlogPost) ListPostsResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, Serialize(p))
	}
	return ListPostsResponse{Posts: out}
}
