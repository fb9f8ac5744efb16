package api

import (
	"time"

	"github.com/aretw0/quire/pkg/core"
)

// createNoteRequest requires every key to be present; empty strings are allowed.
type createNoteRequest struct {
	Title     *string `json:"title" validate:"required"`
	Content   *string `json:"content" validate:"required"`
	Author    *string `json:"author" validate:"required"`
	Signature *string `json:"signature" validate:"required"`
	Message   *string `json:"message" validate:"required"`
}

func (r createNoteRequest) toCore() core.CreateRequest {
	return core.CreateRequest{
		Title:   *r.Title,
		Content: *r.Content,
		Authorization: core.Authorization{
			Author:    *r.Author,
			Message:   *r.Message,
			Signature: *r.Signature,
		},
	}
}

type authorizationBody struct {
	Author    string `json:"author"`
	Signature string `json:"signature"`
	Message   string `json:"message"`
}

func (b authorizationBody) toCore() core.Authorization {
	return core.Authorization{Author: b.Author, Message: b.Message, Signature: b.Signature}
}

// updateNoteRequest carries a partial update; absent fields keep the stored value.
type updateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	authorizationBody
}

type noteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(n core.Note) noteResponse {
	return noteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Author:    n.Author,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

type listResponse struct {
	Notes []noteResponse `json:"notes"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Version    string `json:"version"`
	Service    any    `json:"service"`
	Repository any    `json:"repository,omitempty"`
}
