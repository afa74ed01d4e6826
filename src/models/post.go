package models

import "time"

// BlogPost is a published article
type BlogPost struct {
	ID          string    `json:"id" bson:"id"`
	Title       string    `json:"title" bson:"title"`
	Slug        string    `json:"slug" bson:"slug"`
	Excerpt     string    `json:"excerpt" bson:"excerpt"`
	Content     string    `json:"content" bson:"content"`
	Author      string    `json:"author" bson:"author"`
	PublishDate string    `json:"publishDate" bson:"publishDate"`
	Category    string    `json:"category" bson:"category"`
	Tags        []string  `json:"tags" bson:"tags"`
	ReadTime    string    `json:"readTime" bson:"readTime"`
	Featured    bool      `json:"featured" bson:"featured"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PostInput is the payload for creating a post
type PostInput struct {
	Title    string   `json:"title" binding:"required,max=200"`
	Excerpt  string   `json:"excerpt" binding:"required,max=500"`
	Content  string   `json:"content" binding:"required"`
	Category string   `json:"category" binding:"required,max=50"`
	Tags     []string `json:"tags"`
	Featured bool     `json:"featured"`
}

// PostPatch is a partial update; only fields that were sent are applied
type PostPatch struct {
	Title    Optional[string]   `json:"title"`
	Excerpt  Optional[string]   `json:"excerpt"`
	Content  Optional[string]   `json:"content"`
	Category Optional[string]   `json:"category"`
	Tags     Optional[[]string] `json:"tags"`
	Featured Optional[bool]     `json:"featured"`
}

// PostQuery filters post listings
type PostQuery struct {
	Category string
	Featured *bool
	Limit    int64
}
