package models

import "time"

type Message struct {
	ID         string    `json:"id"`
	ChatID     int       `json:"chat_id"`
	SenderID   int       `json:"sender_id"`
	ReceiverID int       `json:"receiver_id"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}
