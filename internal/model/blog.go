package model

import (
	"time"

	"github.com/google/uuid"
)

// Post represents a blog post.
type Post struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Slug          string    `json:"slug" db:"slug"`
	Excerpt       string    `json:"excerpt" db:"excerpt"`
	Body          string    `json:"body" db:"body"`
	CoverImageURL string    `json:"coverImageUrl" db:"cover_image_url"`
	AuthorID      uuid.UUID `json:"authorId" db:"author_id"`
	Published     bool      `json:"published" db:"published"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// PostRequest is the admin payload for creating or updating a post.
type PostRequest struct {
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Excerpt       string `json:"excerpt"`
	Body          string `json:"body"`
	CoverImageURL string `json:"coverImageUrl"`
	Published     bool   `json:"published"`
}

// ContactRequest is the contact form payload. All fields are required.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}
