package cli

import (
	"fmt"
	"strings"

	"movierealm/internal/models"
)

const maxListed = 20

func formatMovies(list *models.MovieList) string {
	if list == nil || len(list.Movies) == 0 {
		return "No movies found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Movies (%d total):\n\n", list.Total)

	for i, m := range list.Movies {
		if i >= maxListed {
			fmt.Fprintf(&b, "... and %d more\n", len(list.Movies)-maxListed)
			break
		}
		fmt.Fprintf(&b, "%d. %s", m.ID, m.Title)
		if m.ReleaseYear > 0 {
			fmt.Fprintf(&b, " (%d)", m.ReleaseYear)
		}
		if m.Rating != nil {
			fmt.Fprintf(&b, "  rating %.1f", *m.Rating)
		}
		if m.Genre != "" {
			fmt.Fprintf(&b, "  [%s]", m.Genre)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatMovie(m *models.Movie, watch string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", m.Title)
	if m.ReleaseYear > 0 {
		fmt.Fprintf(&b, " (%d)", m.ReleaseYear)
	}
	b.WriteString("\n")

	if m.Rating != nil {
		fmt.Fprintf(&b, "Rating: %.1f\n", *m.Rating)
	}
	if m.Genre != "" {
		fmt.Fprintf(&b, "Genre: %s\n", m.Genre)
	}
	if m.Language != "" {
		fmt.Fprintf(&b, "Language: %s\n", strings.ToUpper(m.Language))
	}
	if m.Director != "" {
		fmt.Fprintf(&b, "Director: %s\n", m.Director)
	}
	if m.Description != "" {
		description := m.Description
		if len(description) > 200 {
			description = description[:200] + "..."
		}
		fmt.Fprintf(&b, "Description: %s\n", description)
	}
	if watch != "" {
		fmt.Fprintf(&b, "On your watchlist: %s\n", watch)
	}
	return b.String()
}

func formatWatchlist(entries []models.WatchEntry, summary *models.WatchlistSummary) string {
	var b strings.Builder
	if summary != nil {
		fmt.Fprintf(&b, "To Watch %d | Watching %d | Watched %d | Total %d\n\n",
			summary.ToWatch, summary.Watching, summary.Watched, summary.Total())
	}
	if len(entries) == 0 {
		b.WriteString("Your watchlist is empty.\n")
		return b.String()
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "%d. %s  [%s]\n", e.MovieID, e.Title, e.Status)
	}
	return b.String()
}

func formatReviews(reviews []models.Review) string {
	if len(reviews) == 0 {
		return "No reviews yet."
	}

	var b strings.Builder
	for _, r := range reviews {
		fmt.Fprintf(&b, "#%d", r.ID)
		if r.MovieTitle != "" {
			fmt.Fprintf(&b, " %s", r.MovieTitle)
		} else if r.Username != "" {
			fmt.Fprintf(&b, " by %s", r.Username)
		}
		fmt.Fprintf(&b, "  %d/10  (%d likes)\n", r.Rating, r.LikeCount)
		if r.Comment != "" {
			fmt.Fprintf(&b, "   %s\n", r.Comment)
		}
	}
	return b.String()
}

func formatUsers(view *adminTable) string {
	if len(view.users) == 0 {
		return "No users."
	}
	var b strings.Builder
	for _, u := range view.users {
		marker := " "
		if view.selected(u.ID) {
			marker = "*"
		}
		flag := ""
		if view.flagged(u.ID) {
			flag = "  !! last action failed"
		}
		fmt.Fprintf(&b, "%s %d. %s <%s>  role=%s status=%s%s\n",
			marker, u.ID, u.Username, u.Email, u.Role, u.Status, flag)
	}
	return b.String()
}

func formatAdminMovies(view *adminTable) string {
	if len(view.movies) == 0 {
		return "No movies."
	}
	var b strings.Builder
	for _, m := range view.movies {
		marker := " "
		if view.selected(m.ID) {
			marker = "*"
		}
		approval := "pending"
		if m.Approved {
			approval = "approved"
		}
		flag := ""
		if view.flagged(m.ID) {
			flag = "  !! last action failed"
		}
		fmt.Fprintf(&b, "%s %d. %s  [%s]%s\n", marker, m.ID, m.Title, approval, flag)
	}
	return b.String()
}

func formatStats(stats *models.AdminStats) string {
	if stats == nil {
		return "No stats loaded."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Users: %d total, %d active, %d admins\n",
		stats.Users.Total, stats.Users.Active, stats.Users.Admins)
	fmt.Fprintf(&b, "Movies: %d total, %d approved, %d pending\n",
		stats.Movies.Total, stats.Movies.Approved, stats.Movies.Pending)
	fmt.Fprintf(&b, "Watchlist entries: %d\n", stats.WatchlistEntries)
	fmt.Fprintf(&b, "Reviews: %d\n", stats.TotalReviews)
	return b.String()
}

// adminTable bundles one table's rows with its selection/flag lookups for
// rendering.
type adminTable struct {
	users    []models.AdminUser
	movies   []models.Movie
	selected func(int) bool
	flagged  func(int) bool
}
