package models

// Role is the authorization role carried by an identity
type Role string

const (
	// RoleAdmin grants access to every mutating endpoint
	RoleAdmin Role = "admin"
)

// MessageStatus is the triage state of a contact message
type MessageStatus string

const (
	MessageStatusNew     MessageStatus = "new"
	MessageStatusRead    MessageStatus = "read"
	MessageStatusReplied MessageStatus = "replied"
)

// Valid reports whether s is one of the known statuses.
func (s MessageStatus) Valid() bool {
	switch s {
	case MessageStatusNew, MessageStatusRead, MessageStatusReplied:
		return true
	}
	return false
}

// Collection names in the document store
const (
	CollectionPosts    = "blog_posts"
	CollectionMessages = "contact_messages"
	CollectionAbout    = "about_content"
)

// AboutKey is the fixed key of the singleton about document
const AboutKey = "about_content"
