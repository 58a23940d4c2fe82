package handlers

import (
	"time"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
)

// JSON shapes returned by the API. Passwords never appear here.

type UserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AuthorView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ImageView struct {
	StorageID string `json:"storage_id"`
	URL       string `json:"url"`
}

type RatingView struct {
	User     string `json:"user"`
	UserName string `json:"user_name,omitempty"`
	Value    int    `json:"value"`
}

type RecipeView struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Ingredients []string             `json:"ingredients"`
	Steps       []string             `json:"steps"`
	Category    entity.Category      `json:"category"`
	Image       *ImageView           `json:"image,omitempty"`
	Author      AuthorView           `json:"author"`
	Ratings     []RatingView         `json:"ratings"`
	Rating      entity.RatingSummary `json:"rating"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type CommentView struct {
	ID        string     `json:"id"`
	RecipeID  string     `json:"recipe_id"`
	Author    AuthorView `json:"author"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
}

type AuthView struct {
	User  UserView `json:"user"`
	Token string   `json:"token"`
}

func userView(u *entity.User) UserView {
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

func userViews(list []entity.User) []UserView {
	out := make([]UserView, 0, len(list))
	for i := range list {
		out = append(out, userView(&list[i]))
	}
	return out
}

func recipeView(r *entity.Recipe) RecipeView {
	v := RecipeView{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
		Category:    r.Category,
		Author:      AuthorView{ID: r.AuthorID, Name: r.AuthorName},
		Ratings:     make([]RatingView, 0, len(r.Ratings)),
		Rating:      r.Aggregate(),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if v.Ingredients == nil {
		v.Ingredients = []string{}
	}
	if v.Steps == nil {
		v.Steps = []string{}
	}
	if r.Image != nil {
		v.Image = &ImageView{StorageID: r.Image.StorageID, URL: r.Image.URL}
	}
	for _, rt := range r.Ratings {
		v.Ratings = append(v.Ratings, RatingView{User: rt.UserID, UserName: rt.UserName, Value: rt.Value})
	}
	return v
}

func recipeViews(list []entity.Recipe) []RecipeView {
	out := make([]RecipeView, 0, len(list))
	for i := range list {
		out = append(out, recipeView(&list[i]))
	}
	return out
}

func commentView(c *entity.Comment) CommentView {
	return CommentView{
		ID:        c.ID,
		RecipeID:  c.RecipeID,
		Author:    AuthorView{ID: c.AuthorID, Name: c.AuthorName},
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func commentViews(list []entity.Comment) []CommentView {
	out := make([]CommentView, 0, len(list))
	for i := range list {
		out = append(out, commentView(&list[i]))
	}
	return out
}
