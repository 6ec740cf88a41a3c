package handlers

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/meeplekeep/meeplekeep-api/internal/models"
	"github.com/meeplekeep/meeplekeep-api/internal/repository"
)

// MessageHandler handles visitor contact and sale enquiries.
type MessageHandler struct {
	repos *repository.Repositories
}

// NewMessageHandler creates a message handler.
func NewMessageHandler(repos *repository.Repositories) *MessageHandler {
	return &MessageHandler{repos: repos}
}

// CreateMessageInput represents a visitor message submission.
type CreateMessageInput struct {
	Body struct {
		Name   string `json:"name" minLength:"1" maxLength:"200" doc:"Sender name"`
		Email  string `json:"email" minLength:"3" maxLength:"320" format:"email" doc:"Sender email"`
		GameID string `json:"game_id,omitempty" doc:"Game the enquiry is about, if any"`
		Body   string `json:"body" minLength:"1" maxLength:"5000" doc:"Message body"`
	}
}

// CreateMessageOutput represents the acknowledgement response.
type CreateMessageOutput struct {
	Body struct {
		ID string `json:"id"`
	}
}

// CreateMessage stores a visitor enquiry. If game_id is given it must
// reference an existing game.
func (h *MessageHandler) CreateMessage(ctx context.Context, input *CreateMessageInput) (*CreateMessageOutput, error) {
	msg := &models.Message{
		Name:  strings.TrimSpace(input.Body.Name),
		Email: strings.TrimSpace(input.Body.Email),
		Body:  strings.TrimSpace(input.Body.Body),
	}
	if msg.Name == "" || msg.Email == "" || msg.Body == "" {
		return nil, huma.Error422UnprocessableEntity("name, email and body are required")
	}

	if gameID := strings.TrimSpace(input.Body.GameID); gameID != "" {
		game, err := h.repos.Game.GetByID(ctx, gameID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to look up game")
		}
		if game == nil {
			return nil, huma.Error422UnprocessableEntity("unknown game_id")
		}
		msg.GameID = &gameID
	}

	if err := h.repos.Message.Create(ctx, msg); err != nil {
		return nil, huma.Error500InternalServerError("failed to store message")
	}

	out := &CreateMessageOutput{}
	out.Body.ID = msg.ID
	return out, nil
}

// ListMessagesInput represents message listing parameters.
type ListMessagesInput struct {
	Limit  int `query:"limit" default:"50" minimum:"1" maximum:"200" doc:"Page size"`
	Offset int `query:"offset" default:"0" minimum:"0" doc:"Page offset"`
}

// ListMessagesOutput represents the message listing response.
type ListMessagesOutput struct {
	Body struct {
		Messages []*models.Message `json:"messages"`
	}
}

// ListMessages returns received messages, newest first.
func (h *MessageHandler) ListMessages(ctx context.Context, input *ListMessagesInput) (*ListMessagesOutput, error) {
	msgs, err := h.repos.Message.List(ctx, input.Limit, input.Offset)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list messages")
	}
	if msgs == nil {
		msgs = []*models.Message{}
	}
	out := &ListMessagesOutput{}
	out.Body.Messages = msgs
	return out, nil
}
