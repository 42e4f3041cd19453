// Package cli is the terminal front end: a line-based command loop that
// stands in for the pages. Each guarded area checks its guard before
// dispatching, the same way the route wrappers gate rendering.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"movierealm/internal/apierr"
	"movierealm/internal/container"
	"movierealm/internal/guard"
	"movierealm/internal/models"
	"movierealm/internal/services"
	"movierealm/internal/session"
	"movierealm/internal/views"
)

type command struct {
	Name string
	Args []string
}

type App struct {
	c          *container.Container
	logger     *logrus.Logger
	out        io.Writer
	userGuard  *guard.Guard
	adminGuard *guard.Guard
	prompt     string
}

func NewApp(c *container.Container, out io.Writer) *App {
	app := &App{
		c:          c,
		logger:     c.Logger,
		out:        out,
		userGuard:  guard.New(c.Sessions, ""),
		adminGuard: guard.New(c.Sessions, models.RoleAdmin),
		prompt:     "movierealm> ",
	}
	// Keep the prompt in step with session transitions, including a
	// forced logout while a command loop is open.
	c.Sessions.Subscribe(func(s *session.Session) {
		if s == nil {
			app.prompt = "movierealm> "
			return
		}
		app.prompt = fmt.Sprintf("%s@movierealm> ", s.Identity.Username)
	})
	return app
}

// Run restores the session first, then serves commands until quit or EOF.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	a.c.Sessions.Restore()
	a.verifySession(ctx)
	a.printWelcome()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(a.out, a.prompt)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd := parseCommand(line)
		if cmd.Name == "quit" || cmd.Name == "exit" {
			break
		}
		a.dispatch(ctx, cmd)
	}
	return scanner.Err()
}

// verifySession asks the server whether a restored token still stands. A
// rejection flows through the unauthorized hook and clears the session; a
// dead network keeps it, the next real call will sort it out.
func (a *App) verifySession(ctx context.Context) {
	if a.c.Sessions.Current() == nil {
		return
	}
	if _, err := a.c.Auth.ValidateToken(ctx); err != nil {
		if apierr.IsUnauthorized(err) {
			a.println("Your session has expired. Please sign in again.")
			return
		}
		a.logger.WithError(err).Debug("Token validation unavailable")
	}
}

func parseCommand(line string) command {
	parts := strings.Fields(line)
	return command{Name: strings.ToLower(parts[0]), Args: parts[1:]}
}

func (a *App) dispatch(ctx context.Context, cmd command) {
	a.logger.WithFields(logrus.Fields{
		"command": cmd.Name,
		"args":    cmd.Args,
	}).Debug("Processing command")

	switch cmd.Name {
	case "help":
		a.printWelcome()
	case "register":
		a.handleRegister(ctx, cmd)
	case "login":
		a.handleLogin(ctx, cmd)
	case "logout":
		a.c.Sessions.Logout(ctx)
		a.println("Signed out.")
	case "whoami":
		a.handleWhoami()
	case "search":
		a.handleSearch(ctx, cmd)
	case "history":
		a.handleHistory()
	case "movie":
		a.handleMovie(ctx, cmd)
	case "watchlist":
		a.withGuard(a.userGuard, func() { a.handleWatchlist(ctx, cmd) })
	case "review", "reviews":
		a.withGuard(a.userGuard, func() { a.handleReviews(ctx, cmd) })
	case "admin":
		a.withGuard(a.adminGuard, func() { a.handleAdmin(ctx, cmd) })
	default:
		a.println("Unknown command. Use help to see available commands.")
	}
}

// withGuard mirrors the route guards: guarded handlers never run unless the
// decision is Allow.
func (a *App) withGuard(g *guard.Guard, run func()) {
	switch g.Evaluate() {
	case guard.Loading:
		a.println("Loading...")
	case guard.RedirectToLogin:
		a.println("Please sign in first (login <email> <password>).")
	case guard.Denied:
		a.println("Access Denied. You need admin privileges for this area.")
	case guard.Allow:
		run()
	}
}

func (a *App) handleRegister(ctx context.Context, cmd command) {
	if len(cmd.Args) != 3 {
		a.println("Usage: register <username> <email> <password>")
		return
	}
	err := a.c.Sessions.Register(ctx, cmd.Args[0], cmd.Args[1], cmd.Args[2])
	if err != nil {
		a.println("Registration failed: " + apierr.UserMessage(err))
		return
	}
	a.println("Account created. Sign in with: login <email> <password>")
}

func (a *App) handleLogin(ctx context.Context, cmd command) {
	if len(cmd.Args) != 2 {
		a.println("Usage: login <email> <password>")
		return
	}
	sess, err := a.c.Sessions.Login(ctx, cmd.Args[0], cmd.Args[1])
	if err != nil {
		a.println("Login failed: " + apierr.UserMessage(err))
		return
	}
	a.printf("Welcome back, %s (%s).\n", sess.Identity.Username, sess.Role())
}

func (a *App) handleWhoami() {
	sess := a.c.Sessions.Current()
	if sess == nil {
		a.println("Not signed in.")
		return
	}
	a.printf("%s <%s> role=%s\n", sess.Identity.Username, sess.Identity.Email, sess.Role())
}

func (a *App) handleSearch(ctx context.Context, cmd command) {
	if len(cmd.Args) == 0 {
		a.println("Usage: search <title terms>")
		return
	}
	query := strings.Join(cmd.Args, " ")

	if err := a.c.History.Add(query); err != nil {
		a.logger.WithError(err).Warn("Failed to save search term")
	}

	list, err := a.c.Catalog.List(ctx, services.ListQuery{Title: query, Size: 50})
	if err != nil {
		a.println("Search failed: " + apierr.UserMessage(err))
		return
	}
	a.println(formatMovies(list))

	// Batched membership: derive from the loaded watchlist snapshot,
	// probing only ids the snapshot does not cover.
	if a.userGuard.Evaluate() == guard.Allow && len(list.Movies) > 0 {
		a.printMembership(ctx, list.Movies)
	}
}

func (a *App) printMembership(ctx context.Context, movies []models.Movie) {
	var unknown []int
	onList := make(map[int]models.WatchStatus)
	for _, m := range movies {
		if status, ok := a.c.Watchlist.Contains(m.ID); ok {
			onList[m.ID] = status
		} else {
			unknown = append(unknown, m.ID)
		}
	}
	if len(unknown) > 0 {
		for id, status := range a.c.Watchlist.ProbeMany(ctx, unknown) {
			onList[id] = status
		}
	}
	if len(onList) == 0 {
		return
	}
	a.println("On your watchlist:")
	for _, m := range movies {
		if status, ok := onList[m.ID]; ok {
			a.printf("  %d. %s  [%s]\n", m.ID, m.Title, status)
		}
	}
}

// popularSearches is the fixed suggestion list shown next to recent terms.
var popularSearches = []string{"Avengers", "Batman", "Spider-Man", "Inception", "Interstellar"}

func (a *App) handleHistory() {
	recent := a.c.History.Recent()
	if len(recent) == 0 {
		a.println("No recent searches.")
	} else {
		a.println("Recent searches: " + strings.Join(recent, ", "))
	}
	a.println("Popular: " + strings.Join(popularSearches, ", "))
}

func (a *App) handleMovie(ctx context.Context, cmd command) {
	if len(cmd.Args) != 1 {
		a.println("Usage: movie <id>")
		return
	}
	movieID, err := strconv.Atoi(cmd.Args[0])
	if err != nil {
		a.println("Movie id must be a number.")
		return
	}

	movie, err := a.c.Catalog.Detail(ctx, movieID)
	if err != nil {
		if apierr.IsNotFound(err) {
			a.println("Movie not found.")
			return
		}
		a.println("Failed to load movie: " + apierr.UserMessage(err))
		return
	}

	watch := ""
	if status, ok := a.c.Watchlist.Contains(movieID); ok {
		watch = string(status)
	}
	a.println(formatMovie(movie, watch))

	if err := a.c.Reviews.LoadByMovie(ctx, movieID); err == nil {
		a.println("Reviews:")
		a.println(formatReviews(a.c.Reviews.Reviews()))
	}
}

func (a *App) handleWatchlist(ctx context.Context, cmd command) {
	if len(cmd.Args) == 0 {
		a.showWatchlist(ctx, "")
		return
	}

	switch cmd.Args[0] {
	case "filter":
		if len(cmd.Args) < 2 {
			a.println("Usage: watchlist filter <to-watch|watching|watched>")
			return
		}
		a.showWatchlist(ctx, parseStatus(cmd.Args[1]))
	case "add":
		if len(cmd.Args) < 2 {
			a.println("Usage: watchlist add <movie_id> [status]")
			return
		}
		movieID, err := strconv.Atoi(cmd.Args[1])
		if err != nil {
			a.println("Movie id must be a number.")
			return
		}
		status := models.StatusToWatch
		if len(cmd.Args) > 2 {
			status = parseStatus(cmd.Args[2])
		}
		movie, err := a.c.Catalog.Detail(ctx, movieID)
		if err != nil {
			a.println("Failed to load movie: " + apierr.UserMessage(err))
			return
		}
		if err := a.c.Watchlist.Add(ctx, *movie, status); err != nil {
			a.println("Failed to add: " + apierr.UserMessage(err))
			return
		}
		a.printf("Added %q as %s.\n", movie.Title, status)
	case "status":
		if len(cmd.Args) != 3 {
			a.println("Usage: watchlist status <movie_id> <to-watch|watching|watched>")
			return
		}
		movieID, err := strconv.Atoi(cmd.Args[1])
		if err != nil {
			a.println("Movie id must be a number.")
			return
		}
		if err := a.c.Watchlist.SetStatus(ctx, movieID, parseStatus(cmd.Args[2])); err != nil {
			a.println("Failed to update: " + apierr.UserMessage(err))
			return
		}
		a.println("Status updated.")
	case "rm":
		if len(cmd.Args) != 2 {
			a.println("Usage: watchlist rm <movie_id>")
			return
		}
		movieID, err := strconv.Atoi(cmd.Args[1])
		if err != nil {
			a.println("Movie id must be a number.")
			return
		}
		if err := a.c.Watchlist.Remove(ctx, movieID); err != nil {
			a.println("Failed to remove: " + apierr.UserMessage(err))
			return
		}
		a.println("Removed.")
	default:
		a.println("Usage: watchlist [filter <status> | add <id> [status] | status <id> <status> | rm <id>]")
	}
}

func (a *App) showWatchlist(ctx context.Context, status models.WatchStatus) {
	if err := a.c.Watchlist.Load(ctx, status); err != nil {
		a.println("Failed to load watchlist: " + apierr.UserMessage(err))
		return
	}
	summary, err := a.c.Watchlist.Summary(ctx)
	if err != nil {
		summary = nil
	}
	a.println(formatWatchlist(a.c.Watchlist.Entries(), summary))
}

func (a *App) handleReviews(ctx context.Context, cmd command) {
	if len(cmd.Args) == 0 {
		if err := a.c.Reviews.LoadMine(ctx); err != nil {
			a.println("Failed to load your reviews: " + apierr.UserMessage(err))
			return
		}
		a.println(formatReviews(a.c.Reviews.Reviews()))
		return
	}

	switch cmd.Args[0] {
	case "add":
		if len(cmd.Args) < 3 {
			a.println("Usage: review add <movie_id> <rating 1-10> [comment]")
			return
		}
		movieID, err1 := strconv.Atoi(cmd.Args[1])
		rating, err2 := strconv.Atoi(cmd.Args[2])
		if err1 != nil || err2 != nil {
			a.println("Movie id and rating must be numbers.")
			return
		}
		in := models.ReviewCreate{
			MovieID: movieID,
			Rating:  rating,
			Comment: strings.Join(cmd.Args[3:], " "),
		}
		if _, err := a.c.Reviews.Create(ctx, in); err != nil {
			a.println("Failed to submit review: " + apierr.UserMessage(err))
			return
		}
		a.println("Review submitted.")
	case "edit":
		if len(cmd.Args) < 3 {
			a.println("Usage: review edit <review_id> <rating 1-10> [comment]")
			return
		}
		reviewID, err1 := strconv.Atoi(cmd.Args[1])
		rating, err2 := strconv.Atoi(cmd.Args[2])
		if err1 != nil || err2 != nil {
			a.println("Review id and rating must be numbers.")
			return
		}
		upd := models.ReviewUpdate{Rating: rating, Comment: strings.Join(cmd.Args[3:], " ")}
		if err := a.c.Reviews.Edit(ctx, reviewID, upd); err != nil {
			a.println("Failed to update review: " + apierr.UserMessage(err))
			return
		}
		a.println("Review updated.")
	case "rm":
		if len(cmd.Args) != 2 {
			a.println("Usage: review rm <review_id>")
			return
		}
		reviewID, err := strconv.Atoi(cmd.Args[1])
		if err != nil {
			a.println("Review id must be a number.")
			return
		}
		if err := a.c.Reviews.Delete(ctx, reviewID); err != nil {
			a.println("Failed to delete review: " + apierr.UserMessage(err))
			return
		}
		a.println("Review deleted.")
	case "like":
		if len(cmd.Args) != 2 {
			a.println("Usage: review like <review_id>")
			return
		}
		reviewID, err := strconv.Atoi(cmd.Args[1])
		if err != nil {
			a.println("Review id must be a number.")
			return
		}
		if err := a.c.Reviews.Like(ctx, reviewID); err != nil {
			a.println("Failed to like review: " + apierr.UserMessage(err))
			return
		}
		a.println("Liked.")
	default:
		a.println("Usage: reviews | review <add|edit|rm|like> ...")
	}
}

func (a *App) handleAdmin(ctx context.Context, cmd command) {
	if len(cmd.Args) == 0 {
		if err := a.c.Admin.LoadAll(ctx); err != nil {
			a.println("Failed to load dashboard: " + apierr.UserMessage(err))
			return
		}
		a.println(formatStats(a.c.Admin.Stats()))
		return
	}

	switch cmd.Args[0] {
	case "users":
		a.println(formatUsers(&adminTable{
			users:    a.c.Admin.Users(),
			selected: a.c.Admin.UserSelection.Has,
			flagged:  a.c.Admin.UserFlagged,
		}))
	case "movies":
		a.println(formatAdminMovies(&adminTable{
			movies:   a.c.Admin.Movies(),
			selected: a.c.Admin.MovieSelection.Has,
			flagged:  a.c.Admin.MovieFlagged,
		}))
	case "reviews":
		a.println(formatReviews(a.c.Admin.Reviews()))
	case "role":
		if len(cmd.Args) != 3 {
			a.println("Usage: admin role <user_id> <user|admin>")
			return
		}
		userID, err := strconv.Atoi(cmd.Args[1])
		if err != nil {
			a.println("User id must be a number.")
			return
		}
		if err := a.c.Admin.SetUserRole(ctx, userID, models.Role(cmd.Args[2])); err != nil {
			a.println("Failed to change role: " + apierr.UserMessage(err))
			return
		}
		a.println("Role updated.")
	case "suspend":
		if len(cmd.Args) != 2 {
			a.println("Usage: admin suspend <user_id>")
			return
		}
		userID, err := strconv.Atoi(cmd.Args[1])
		if err != nil {
			a.println("User id must be a number.")
			return
		}
		if err := a.c.Admin.SuspendUser(ctx, userID); err != nil {
			a.println("Failed to suspend: " + apierr.UserMessage(err))
			return
		}
		a.println("User suspended (row kept, status changed).")
	case "activate":
		if len(cmd.Args) != 2 {
			a.println("Usage: admin activate <user_id>")
			return
		}
		userID, err := strconv.Atoi(cmd.Args[1])
		if err != nil {
			a.println("User id must be a number.")
			return
		}
		if err := a.c.Admin.SetUserStatus(ctx, userID, models.UserActive); err != nil {
			a.println("Failed to activate: " + apierr.UserMessage(err))
			return
		}
		a.println("User reactivated.")
	case "approve", "disapprove":
		if len(cmd.Args) != 2 {
			a.printf("Usage: admin %s <movie_id>\n", cmd.Args[0])
			return
		}
		movieID, err := strconv.Atoi(cmd.Args[1])
		if err != nil {
			a.println("Movie id must be a number.")
			return
		}
		approved := cmd.Args[0] == "approve"
		if err := a.c.Admin.SetMovieApproved(ctx, movieID, approved); err != nil {
			a.println("Failed to update movie: " + apierr.UserMessage(err))
			return
		}
		a.println("Movie updated.")
	case "rmmovie":
		if len(cmd.Args) != 2 {
			a.println("Usage: admin rmmovie <movie_id>")
			return
		}
		movieID, err := strconv.Atoi(cmd.Args[1])
		if err != nil {
			a.println("Movie id must be a number.")
			return
		}
		if err := a.c.Admin.DeleteMovie(ctx, movieID); err != nil {
			a.println("Failed to delete movie: " + apierr.UserMessage(err))
			return
		}
		a.println("Movie deleted.")
	case "rmreview":
		if len(cmd.Args) != 2 {
			a.println("Usage: admin rmreview <review_id>")
			return
		}
		reviewID, err := strconv.Atoi(cmd.Args[1])
		if err != nil {
			a.println("Review id must be a number.")
			return
		}
		if err := a.c.Admin.DeleteReview(ctx, reviewID); err != nil {
			a.println("Failed to delete review: " + apierr.UserMessage(err))
			return
		}
		a.println("Review deleted.")
	case "adduser":
		if len(cmd.Args) < 4 {
			a.println("Usage: admin adduser <username> <email> <password> [role]")
			return
		}
		role := models.RoleUser
		if len(cmd.Args) > 4 {
			role = models.Role(cmd.Args[4])
		}
		in := models.AdminUserCreate{
			Username: cmd.Args[1],
			Email:    cmd.Args[2],
			Password: cmd.Args[3],
			Role:     role,
		}
		if err := a.c.Admin.CreateUser(ctx, in); err != nil {
			a.println("Failed to create user: " + apierr.UserMessage(err))
			return
		}
		a.println("User created.")
	case "select":
		a.handleAdminSelect(cmd)
	case "bulk":
		a.handleAdminBulk(ctx, cmd)
	default:
		a.println("Usage: admin [users|movies|reviews|role|suspend|activate|approve|disapprove|rmmovie|rmreview|adduser|select|bulk]")
	}
}

func (a *App) handleAdminSelect(cmd command) {
	if len(cmd.Args) < 3 {
		a.println("Usage: admin select <users|movies|reviews> <id> [id...]")
		return
	}
	var sel *selectionRef
	switch cmd.Args[1] {
	case "users":
		sel = &selectionRef{a.c.Admin.UserSelection, a.c.Admin.Users, nil, nil}
	case "movies":
		sel = &selectionRef{a.c.Admin.MovieSelection, nil, a.c.Admin.Movies, nil}
	case "reviews":
		sel = &selectionRef{a.c.Admin.ReviewSelection, nil, nil, a.c.Admin.Reviews}
	default:
		a.println("Selectable tables: users, movies, reviews")
		return
	}

	for _, arg := range cmd.Args[2:] {
		id, err := strconv.Atoi(arg)
		if err != nil {
			a.printf("Skipping %q: not a number\n", arg)
			continue
		}
		if !sel.present(id) {
			a.printf("Skipping %d: not in the loaded table\n", id)
			continue
		}
		sel.selection.Toggle(id)
	}
	a.printf("%d selected.\n", sel.selection.Len())
}

func (a *App) handleAdminBulk(ctx context.Context, cmd command) {
	if len(cmd.Args) != 2 {
		a.println("Usage: admin bulk <suspend|disapprove|rmreviews>")
		return
	}

	var result views.BulkResult
	switch cmd.Args[1] {
	case "suspend":
		result = a.c.Admin.BulkSuspendUsers(ctx)
	case "disapprove":
		result = a.c.Admin.BulkDisapproveMovies(ctx)
	case "rmreviews":
		result = a.c.Admin.BulkDeleteReviews(ctx)
	default:
		a.println("Bulk actions: suspend, disapprove, rmreviews")
		return
	}

	a.printf("%d succeeded, %d failed.\n", len(result.Succeeded), len(result.Failed))
	for id, err := range result.Failed {
		a.printf("  %d: %s (still selected)\n", id, apierr.UserMessage(err))
	}
}

type selectionRef struct {
	selection *views.Selection
	users     func() []models.AdminUser
	movies    func() []models.Movie
	reviews   func() []models.Review
}

func (s *selectionRef) present(id int) bool {
	switch {
	case s.users != nil:
		for _, u := range s.users() {
			if u.ID == id {
				return true
			}
		}
	case s.movies != nil:
		for _, m := range s.movies() {
			if m.ID == id {
				return true
			}
		}
	case s.reviews != nil:
		for _, r := range s.reviews() {
			if r.ID == id {
				return true
			}
		}
	}
	return false
}

func (a *App) printWelcome() {
	a.println(`MovieRealm catalog client

  register <username> <email> <password>
  login <email> <password> | logout | whoami
  search <title terms> | history | movie <id>
  watchlist [filter <status> | add <id> [status] | status <id> <status> | rm <id>]
  reviews | review <add|edit|rm|like> ...
  admin [...]        (admin role required)
  help | quit`)
}

func (a *App) println(s string) {
	fmt.Fprintln(a.out, s)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func parseStatus(s string) models.WatchStatus {
	switch strings.ToLower(s) {
	case "watching":
		return models.StatusWatching
	case "watched":
		return models.StatusWatched
	default:
		return models.StatusToWatch
	}
}
