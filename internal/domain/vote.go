package domain

import (
	"context"
	"time"
)

// Vote is an up/down rating of one assistant message. ChatID is the session id.
type Vote struct {
	ChatID    string    `json:"chat_id"`
	MessageID string    `json:"message_id"`
	IsUpvoted bool      `json:"is_upvoted"`
	CreatedAt time.Time `json:"created_at"`
}

// VoteRepository defines the interface for vote storage
type VoteRepository interface {
	// Upsert overwrites any previous vote for the same (chat, message) pair
	Upsert(ctx context.Context, vote *Vote) error
	ListByChat(ctx context.Context, chatID string) ([]Vote, error)
}
