package entity

import (
	"math"
	"strings"
	"time"
)

// Category is the fixed course enumeration a recipe belongs to.
type Category string

const (
	CategoryStarter Category = "starter"
	CategoryMain    Category = "main"
	CategoryDessert Category = "dessert"
)

// Categories lists the accepted values in display order.
var Categories = []Category{CategoryStarter, CategoryMain, CategoryDessert}

// ParseCategory normalises s and reports whether it names a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Image references an object held by the blob store.
type Image struct {
	StorageID string
	URL       string
}

// ImageTypes maps the accepted upload content types to a file extension.
var ImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

const (
	MinRating = 1
	MaxRating = 5
)

// Rating is embedded in a Recipe; at most one per user.
type Rating struct {
	UserID   string
	UserName string
	Value    int
}

// ValidRatingValue reports whether v is inside [MinRating, MaxRating].
func ValidRatingValue(v int) bool {
	return v >= MinRating && v <= MaxRating
}

// RatingSummary is the aggregate exposed for a recipe.
type RatingSummary struct {
	Average float64 `json:"average"`
	Total   int     `json:"total"`
}

// Recipe is the aggregate root for the cookbook domain.
// AuthorID is assigned at creation and never reassigned.
type Recipe struct {
	ID          string
	Title       string
	Description string
	Ingredients []string
	Steps       []string
	Category    Category
	Image       *Image
	AuthorID    string
	AuthorName  string
	Ratings     []Rating
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r *Recipe) OwnerID() string { return r.AuthorID }

// Rate records value for userID. An existing entry for the same user is
// overwritten in place so its position is kept; otherwise a new entry is
// appended. The caller validates value beforehand.
func (r *Recipe) Rate(userID string, value int) {
	for i := range r.Ratings {
		if r.Ratings[i].UserID == userID {
			r.Ratings[i].Value = value
			return
		}
	}
	r.Ratings = append(r.Ratings, Rating{UserID: userID, Value: value})
}

// Aggregate returns the mean rating rounded to one decimal and the number of
// ratings. An unrated recipe yields a zero summary.
func (r *Recipe) Aggregate() RatingSummary {
	return Summarize(r.Ratings)
}

// Summarize computes the aggregate of a rating list.
func Summarize(ratings []Rating) RatingSummary {
	if len(ratings) == 0 {
		return RatingSummary{}
	}
	sum := 0
	for _, rt := range ratings {
		sum += rt.Value
	}
	avg := float64(sum) / float64(len(ratings))
	return RatingSummary{Average: math.Round(avg*10) / 10, Total: len(ratings)}
}
