package domain

import (
	"strings"
	"time"
)

type Book struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Description   string    `json:"description"`
	PublishDate   string    `json:"publishDate"`
	PublisherName string    `json:"publisherName"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PublishDay returns the calendar-date part of PublishDate.
func (b Book) PublishDay() string {
	day, _, _ := strings.Cut(b.PublishDate, "T")
	return day
}

// Input returns the editable fields of b, as used to pre-fill the edit form.
func (b Book) Input() BookInput {
	return BookInput{
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		PublishDate:   b.PublishDay(),
		PublisherName: b.PublisherName,
	}
}

// BookInput is the create payload. Every field is required.
type BookInput struct {
	Title         string `json:"title"         form:"title"         validate:"required"`
	Author        string `json:"author"        form:"author"        validate:"required"`
	Description   string `json:"description"   form:"description"   validate:"required"`
	PublishDate   string `json:"publishDate"   form:"publishDate"   validate:"required,datetime=2006-01-02"`
	PublisherName string `json:"publisherName" form:"publisherName" validate:"required"`
}

// BookPatch is the partial update payload; nil fields are left untouched.
type BookPatch struct {
	Title         *string `json:"title,omitempty"`
	Author        *string `json:"author,omitempty"`
	Description   *string `json:"description,omitempty"`
	PublishDate   *string `json:"publishDate,omitempty"   validate:"omitempty,datetime=2006-01-02"`
	PublisherName *string `json:"publisherName,omitempty"`
}

// Patch turns a full input into a patch setting every field.
func (in BookInput) Patch() BookPatch {
	return BookPatch{
		Title:         &in.Title,
		Author:        &in.Author,
		Description:   &in.Description,
		PublishDate:   &in.PublishDate,
		PublisherName: &in.PublisherName,
	}
}
