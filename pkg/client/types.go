package client

import (
	"encoding/json"
	"fmt"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Image struct {
	StorageID string `json:"storage_id"`
	URL       string `json:"url"`
}

type Rating struct {
	User     string `json:"user"`
	UserName string `json:"user_name,omitempty"`
	Value    int    `json:"value"`
}

type RatingSummary struct {
	Average float64 `json:"average"`
	Total   int     `json:"total"`
}

type Recipe struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Ingredients []string      `json:"ingredients"`
	Steps       []string      `json:"steps"`
	Category    string        `json:"category"`
	Image       *Image        `json:"image,omitempty"`
	Author      Author        `json:"author"`
	Ratings     []Rating      `json:"ratings"`
	Rating      RatingSummary `json:"rating"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type Comment struct {
	ID        string    `json:"id"`
	RecipeID  string    `json:"recipe_id"`
	Author    Author    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Auth struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type RecipeInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	Category    string   `json:"category"`
}

// RecipePatch sends only the non-nil fields.
type RecipePatch struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	Steps       []string `json:"steps,omitempty"`
	Category    *string  `json:"category,omitempty"`
	RemoveImage bool     `json:"remove_image,omitempty"`
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

// APIError is a non-2xx answer of the API.
type APIError struct {
	Status  int
	Message string
	// Details holds per-field messages of a 400, if any.
	Details map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %d: %s", e.Status, e.Message)
}
