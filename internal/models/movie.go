package models

type Movie struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genre       string   `json:"genre"`
	Language    string   `json:"language"`
	ReleaseYear int      `json:"release_year"`
	Director    string   `json:"director"`
	Cast        string   `json:"cast"`
	PosterURL   string   `json:"poster_url"`
	Rating      *float64 `json:"rating"`
	Approved    bool     `json:"approved"`
	CreatedBy   int      `json:"created_by,omitempty"`
}

type MovieList struct {
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Size   int     `json:"size"`
	Movies []Movie `json:"movies"`
}

// MovieUpdate carries a partial admin edit; nil fields are left untouched
// by the server. Approve/disapprove is just {Approved: &flag}.
type MovieUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Language    *string `json:"language,omitempty"`
	ReleaseYear *int    `json:"release_year,omitempty"`
	Director    *string `json:"director,omitempty"`
	Cast        *string `json:"cast,omitempty"`
	PosterURL   *string `json:"poster_url,omitempty"`
	Approved    *bool   `json:"approved,omitempty"`
}

type MovieIn struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	Language    string `json:"language"`
	ReleaseYear int    `json:"release_year"`
	Director    string `json:"director"`
	Cast        string `json:"cast"`
	PosterURL   string `json:"poster_url"`
}
