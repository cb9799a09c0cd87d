// portalctl is a command-line front door to the hospital portal API. It
// drives the same client stack the dashboards use: sign in, inspect the
// session, and list or manage doctors and blog posts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"

	"github.com/nhatpm-sg/medical/internal/api"
	"github.com/nhatpm-sg/medical/internal/guard"
	"github.com/nhatpm-sg/medical/internal/platform/config"
	"github.com/nhatpm-sg/medical/internal/platform/logging"
	"github.com/nhatpm-sg/medical/internal/session"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: portalctl <command> [flags]

commands:
  login       -email -password   sign in and store the session
  register    -username -email -password
  logout                         discard the stored session
  whoami                         show the signed-in user
  doctors     [-search -specialty -status -limit -offset]
  doctor      -id                show one doctor
  specialties                    list doctor specialties
  posts       [-category -status -search -limit -offset]  (management list)
  post        -id                show one managed post
  publish     -id / unpublish -id
  stats                          blog management stats
  categories                     list blog categories`)
	os.Exit(2)
}

func sessionStore(cfg *config.Config, clock clockwork.Clock) (session.Store, error) {
	if cfg.RedisURL != "" {
		return session.NewRedisStore(cfg.RedisURL, clock)
	}

	path := cfg.SessionFile
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate config dir: %w", err)
		}
		path = filepath.Join(dir, "medical", "session.json")
	}
	return session.NewFileStore(path, clock), nil
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	command, args := os.Args[1], os.Args[2:]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	clock := clockwork.NewRealClock()
	store, err := sessionStore(cfg, clock)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}

	client := api.NewClient(cfg.APIBaseURL, store,
		api.WithClock(clock),
		api.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		api.WithNavigator(api.NavigatorFunc(func() {
			fmt.Fprintln(os.Stderr, "session expired, run 'portalctl login' to sign in again")
		})),
	)

	ctx := context.Background()
	if err := run(ctx, command, args, client, store); err != nil {
		fmt.Fprintf(os.Stderr, "portalctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string, client *api.Client, store session.Store) error {
	auth := api.NewAuthService(client, store)
	doctors := api.NewDoctorService(client)
	blog := api.NewBlogService(client)

	switch command {
	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		_ = fs.Parse(args)

		user, err := auth.Login(ctx, *email, *password)
		if err != nil {
			return err
		}
		fmt.Printf("signed in as %s (%s)\n", user.Username, user.Email)
		return nil

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		username := fs.String("username", "", "account name")
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		_ = fs.Parse(args)

		user, err := auth.Register(ctx, *username, *email, *password)
		if err != nil {
			return err
		}
		fmt.Printf("registered %s (%s)\n", user.Username, user.Email)
		return nil

	case "logout":
		if err := auth.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("signed out")
		return nil

	case "whoami":
		// The guard gives the same answer a protected dashboard would get.
		decision := guard.New(store).Evaluate(ctx, "/dashboard")
		if decision.State != guard.Authenticated {
			fmt.Println("not signed in")
			return nil
		}
		fmt.Printf("%s <%s>", decision.User.Username, decision.User.Email)
		if decision.User.Role != "" {
			fmt.Printf(" role=%s", decision.User.Role)
		}
		fmt.Println()
		if token, ok := store.Token(ctx); ok {
			if claims, err := session.PeekClaims(token); err == nil && claims.ExpiresAt != nil {
				fmt.Printf("token expires %s\n", claims.ExpiresAt.Time)
			}
		}
		return nil

	case "doctors":
		fs := flag.NewFlagSet("doctors", flag.ExitOnError)
		filter := api.DoctorFilter{}
		fs.StringVar(&filter.Search, "search", "", "search text")
		fs.StringVar(&filter.Specialty, "specialty", "", "specialty filter")
		fs.StringVar(&filter.Status, "status", "", "status filter")
		fs.IntVar(&filter.Limit, "limit", 0, "page size")
		fs.IntVar(&filter.Offset, "offset", 0, "page offset")
		_ = fs.Parse(args)

		list, err := doctors.List(ctx, filter)
		if err != nil {
			return err
		}
		for _, d := range list {
			fmt.Printf("%d\t%s\t%s\t%s\n", d.ID, d.Name, d.Specialty, d.Status)
		}
		return nil

	case "doctor":
		id, err := idFlag("doctor", args)
		if err != nil {
			return err
		}
		d, err := doctors.Get(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n  specialty: %s\n  email: %s\n  phone: %s\n  status: %s\n", d.Name, d.Specialty, d.Email, d.Phone, d.Status)
		return nil

	case "specialties":
		list, err := doctors.Specialties(ctx)
		if err != nil {
			return err
		}
		for _, s := range list {
			fmt.Println(s)
		}
		return nil

	case "posts":
		fs := flag.NewFlagSet("posts", flag.ExitOnError)
		filter := api.BlogFilter{}
		fs.StringVar(&filter.Search, "search", "", "search text")
		fs.StringVar(&filter.Category, "category", "", "category filter")
		fs.StringVar(&filter.Status, "status", "", "status filter")
		fs.IntVar(&filter.Limit, "limit", 0, "page size")
		fs.IntVar(&filter.Offset, "offset", 0, "page offset")
		_ = fs.Parse(args)

		list, err := blog.ManagedPosts(ctx, filter)
		if err != nil {
			return err
		}
		for _, p := range list {
			fmt.Printf("%d\t%s\t%s\t%d views\n", p.ID, p.Status, p.Title, p.ViewCount)
		}
		return nil

	case "post":
		id, err := idFlag("post", args)
		if err != nil {
			return err
		}
		p, err := blog.ManagedPost(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n\n%s\n", p.Title, p.Status, p.Content)
		return nil

	case "publish":
		id, err := idFlag("publish", args)
		if err != nil {
			return err
		}
		p, err := blog.PublishPost(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("post %d is now %s\n", p.ID, p.Status)
		return nil

	case "unpublish":
		id, err := idFlag("unpublish", args)
		if err != nil {
			return err
		}
		p, err := blog.UnpublishPost(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("post %d is now %s\n", p.ID, p.Status)
		return nil

	case "stats":
		s, err := blog.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("posts: %d total, %d published, %d drafts, %d views\n", s.TotalPosts, s.PublishedPosts, s.DraftPosts, s.TotalViews)
		return nil

	case "categories":
		list, err := blog.Categories(ctx)
		if err != nil {
			return err
		}
		for _, c := range list {
			fmt.Println(c)
		}
		return nil

	default:
		usage()
		return nil
	}
}

func idFlag(name string, args []string) (int, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	id := fs.Int("id", 0, "record id")
	_ = fs.Parse(args)
	if *id <= 0 {
		return 0, fmt.Errorf("-id is required")
	}
	return *id, nil
}
