package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/wastelessapp/wasteless-go/auth"
	"github.com/wastelessapp/wasteless-go/challenges"
	"github.com/wastelessapp/wasteless-go/client"
	"github.com/wastelessapp/wasteless-go/goals"
	"github.com/wastelessapp/wasteless-go/internal/config"
	"github.com/wastelessapp/wasteless-go/internal/utils"
	"github.com/wastelessapp/wasteless-go/notifications"
	"github.com/wastelessapp/wasteless-go/posts"
	"github.com/wastelessapp/wasteless-go/session/filestore"
)

const usage = `usage: wasteless <command> [flags]

commands:
  login          log in with email/username and password
  register       create a new account
  logout         delete the stored session
  whoami         show the logged-in user
  feed           show the post feed
  post           publish a post
  like           like a post
  goals          list a user's waste goals
  log            record waste against a goal
  challenges     list challenges
  join           join a challenge
  leaderboard    show a challenge leaderboard
  notifications  list notifications
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("Error: %s\n", err)
	}
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	c := config.New()
	app, err := newApp(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*c.GetHTTPTimeout())
	defer cancel()

	return app.dispatch(ctx, args[0], args[1:])
}

type app struct {
	config        config.Config
	auth          *auth.Service
	posts         *posts.Service
	goals         *goals.Service
	challenges    *challenges.Service
	notifications *notifications.Service
}

func newApp(c config.Config) (*app, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(logLevel(c)).With().Timestamp().Logger()

	var storeOptions []filestore.Option
	if secret := c.GetSessionSecret(); secret != "" {
		storeOptions = append(storeOptions, filestore.WithSecret([]byte(secret)))
	}
	store := filestore.New(c.GetSessionFile(), storeOptions...)

	apiClient, err := client.New(c.GetBaseURL(), store,
		client.WithLogger(logger),
		client.WithHTTPClient(&http.Client{Timeout: c.GetHTTPTimeout()}),
	)
	if err != nil {
		return nil, err
	}

	authService, err := auth.NewService(apiClient)
	if err != nil {
		return nil, err
	}
	postService, err := posts.NewService(apiClient)
	if err != nil {
		return nil, err
	}
	goalService, err := goals.NewService(apiClient)
	if err != nil {
		return nil, err
	}
	challengeService, err := challenges.NewService(apiClient)
	if err != nil {
		return nil, err
	}
	notificationService, err := notifications.NewService(apiClient)
	if err != nil {
		return nil, err
	}

	return &app{
		config:        c,
		auth:          authService,
		posts:         postService,
		goals:         goalService,
		challenges:    challengeService,
		notifications: notificationService,
	}, nil
}

func logLevel(c config.Config) zerolog.Level {
	if c.GetEnv() == "DEV" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx, args)
	case "register":
		return a.register(ctx, args)
	case "logout":
		return a.auth.Logout()
	case "whoami":
		return a.whoami()
	case "feed":
		return a.feed(ctx, args)
	case "post":
		return a.post(ctx, args)
	case "like":
		return a.like(ctx, args)
	case "goals":
		return a.listGoals(ctx, args)
	case "log":
		return a.logWaste(ctx, args)
	case "challenges":
		return a.listChallenges(ctx)
	case "join":
		return a.joinChallenge(ctx, args)
	case "leaderboard":
		return a.leaderboard(ctx, args)
	case "notifications":
		return a.listNotifications(ctx)
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	user := fs.String("u", "", "email or username")
	password := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := a.auth.Login(ctx, *user, *password)
	if err != nil {
		return err
	}

	displayAppname(a.config.GetAppName())
	fmt.Printf("Logged in as %s\n", sess.Username)
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("u", "", "username")
	email := fs.String("e", "", "email")
	password := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.auth.Register(ctx, *username, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s <%s>)\n", result.Message, result.Username, result.Email)
	return nil
}

func (a *app) whoami() error {
	sess, err := a.auth.Current()
	if err != nil {
		return errors.New("not logged in")
	}

	fmt.Printf("%s (id %d, admin=%t, moderator=%t)\n",
		sess.Username, utils.Value(sess.UserID), sess.IsAdmin, sess.IsModerator)
	return nil
}

func (a *app) feed(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("feed", flag.ExitOnError)
	page := fs.Int("page", 0, "page number")
	size := fs.Int("size", 20, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	feed, err := a.posts.Feed(ctx, *page, *size)
	if err != nil {
		return err
	}
	for _, p := range feed {
		fmt.Printf("#%d @%s (%d likes, %d comments)\n  %s\n", p.ID, p.Username, p.LikeCount, p.CommentCount, p.Content)
	}
	return nil
}

func (a *app) post(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	content := fs.String("m", "", "post content")
	photoPath := fs.String("photo", "", "path of a photo to attach")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var photo *client.FormFile
	if *photoPath != "" {
		f, err := os.Open(*photoPath)
		if err != nil {
			return err
		}
		defer f.Close()
		photo = &client.FormFile{Field: "photo", Filename: filepath.Base(*photoPath), Content: f}
	}

	created, err := a.posts.Create(ctx, *content, photo)
	if err != nil {
		return err
	}
	fmt.Printf("Posted #%d\n", created.ID)
	return nil
}

func (a *app) like(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("like", flag.ExitOnError)
	id := fs.Int64("id", 0, "post id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	count, err := a.posts.Like(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("Post #%d now has %d likes\n", *id, count)
	return nil
}

func (a *app) listGoals(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("goals", flag.ExitOnError)
	userID := fs.Int64("user", 0, "user id (defaults to the logged-in user)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id := *userID
	if id == 0 {
		sess, err := a.auth.Current()
		if err != nil {
			return errors.New("not logged in and no -user given")
		}
		id = utils.Value(sess.UserID)
	}

	list, err := a.goals.List(ctx, id)
	if err != nil {
		return err
	}
	for _, g := range list {
		progress, err := a.goals.Progress(ctx, g)
		if err != nil {
			return err
		}
		fmt.Printf("#%d %s: %.1f/%.1f %s per %s (%.0f%%)\n",
			g.ID, g.Category, progress.Logged, g.Target, g.Unit, g.Period, progress.Fraction()*100)
	}
	return nil
}

func (a *app) logWaste(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("log", flag.ExitOnError)
	goalID := fs.Int64("goal", 0, "goal id")
	amount := fs.Float64("amount", 0, "waste amount")
	unit := fs.String("unit", "kg", "unit")
	note := fs.String("note", "", "note")
	if err := fs.Parse(args); err != nil {
		return err
	}

	entry, err := a.goals.LogWaste(ctx, goals.WasteLog{
		GoalID:   *goalID,
		Amount:   *amount,
		Unit:     *unit,
		Note:     *note,
		LoggedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Logged %.1f %s against goal #%d (entry #%d)\n", entry.Amount, entry.Unit, entry.GoalID, entry.ID)
	return nil
}

func (a *app) listChallenges(ctx context.Context) error {
	list, err := a.challenges.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range list {
		state := "upcoming"
		if c.Active() {
			state = "active"
		} else if time.Now().After(c.EndsAt) {
			state = "ended"
		}
		fmt.Printf("#%d %s [%s] %d participants, ends %s\n",
			c.ID, c.Title, state, c.Participants, c.EndsAt.Format("2006-01-02"))
	}
	return nil
}

func (a *app) joinChallenge(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	id := fs.Int64("id", 0, "challenge id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.challenges.Join(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("Joined challenge #%d\n", *id)
	return nil
}

func (a *app) leaderboard(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("leaderboard", flag.ExitOnError)
	id := fs.Int64("id", 0, "challenge id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	entries, err := a.challenges.Leaderboard(ctx, *id)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%3d. %-20s %.1f\n", e.Rank, e.Username, e.Score)
	}
	return nil
}

func (a *app) listNotifications(ctx context.Context) error {
	list, err := a.notifications.List(ctx)
	if err != nil {
		return err
	}
	for _, n := range list {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		fmt.Printf("%s [%s] %s\n", marker, n.Type, n.Message)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
