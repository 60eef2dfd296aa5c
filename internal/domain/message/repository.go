package message

import "context"

type Repository interface {
	Create(ctx context.Context, msg *Message) error
	GetByID(ctx context.Context, messageID uint) (*Message, error)
	MarkRead(ctx context.Context, messageID uint) error
	UnreadCount(ctx context.Context, userID uint) (int64, error)
	// ListForUser returns messages sent or received by userID, newest first.
	ListForUser(ctx context.Context, userID uint) ([]*Message, error)
}
