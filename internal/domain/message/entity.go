package message

import "time"

// Message is immutable once sent except for IsRead.
type Message struct {
	ID         uint
	FromUserID uint
	FromEmail  string
	ToUserID   uint
	ToEmail    string
	Subject    string
	Content    string
	ShipmentID *uint
	IsRead     bool
	CreatedAt  time.Time
}
