package models

import "time"

type Review struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id,omitempty"`
	Username  string    `json:"username,omitempty"`
	MovieID   int       `json:"movie_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	LikeCount int       `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`

	// Filled on the my-reviews and moderation listings.
	MovieTitle string `json:"movie_title,omitempty"`
	PosterURL  string `json:"poster_url,omitempty"`
}

type ReviewPage struct {
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	Size    int      `json:"size"`
	Reviews []Review `json:"reviews"`
}

type ReviewCreate struct {
	MovieID int    `json:"movie_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewUpdate struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
