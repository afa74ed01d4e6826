package models

import "time"

// ContactMessage is a message left through the public contact form
type ContactMessage struct {
	ID        string        `json:"id" bson:"id"`
	Name      string        `json:"name" bson:"name"`
	Email     string        `json:"email" bson:"email"`
	Subject   string        `json:"subject,omitempty" bson:"subject,omitempty"`
	Message   string        `json:"message" bson:"message"`
	Status    MessageStatus `json:"status" bson:"status"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
}

// ContactInput is the public contact form payload
type ContactInput struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required"`
	Subject string `json:"subject" binding:"max=200"`
	Message string `json:"message" binding:"required,max=2000"`
}

// StatusUpdate is the body accepted by the message status endpoint
type StatusUpdate struct {
	Status string `json:"status" form:"status"`
}
