package models

import "time"

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
)

// AdminUser is a row of the admin user table. "Deleting" a user is a
// transition to suspended; the row itself stays.
type AdminUser struct {
	ID        int        `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

type AdminUserPage struct {
	Total int         `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
	Users []AdminUser `json:"users"`
}

type AdminUserCreate struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

type AdminStats struct {
	Users struct {
		Total  int `json:"total"`
		Active int `json:"active"`
		Admins int `json:"admins"`
	} `json:"users"`
	Movies struct {
		Total    int `json:"total"`
		Approved int `json:"approved"`
		Pending  int `json:"pending"`
	} `json:"movies"`
	WatchlistEntries int `json:"watchlist_entries"`
	TotalReviews     int `json:"total_reviews"`
}
