package entity

import "time"

// MaxCommentLength bounds comment content, in characters.
const MaxCommentLength = 1000

// Comment belongs to a recipe and is deletable only by its author.
type Comment struct {
	ID         string
	RecipeID   string
	AuthorID   string
	AuthorName string
	Content    string
	CreatedAt  time.Time
}

func (c *Comment) OwnerID() string { return c.AuthorID }
