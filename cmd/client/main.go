// Package main is the interactive diginex client: a shell over the session
// and collection stores, talking to the backend API.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/coskuntekin/diginex/internal/api"
	"github.com/coskuntekin/diginex/internal/config"
	"github.com/coskuntekin/diginex/internal/guard"
	"github.com/coskuntekin/diginex/internal/logger"
	"github.com/coskuntekin/diginex/internal/models"
	"github.com/coskuntekin/diginex/internal/service"
	"github.com/coskuntekin/diginex/internal/session"
	"github.com/coskuntekin/diginex/internal/storage"
	"github.com/coskuntekin/diginex/internal/store"
)

var (
	version   string
	buildDate string
)

// app wires the stores together with the shell's current "page", which
// feeds the auth-page check suppressing the session-expired toast on the
// login and register screens.
type app struct {
	session *session.Store
	tweets  *store.TweetStore
	users   *store.UserStore
	guard   *guard.Guard
	page    string
}

// routes mirrors the SPA's route table.
var routes = map[string]guard.Route{
	"login":     {Name: guard.RouteLogin, Path: "/login", AuthOnly: true},
	"register":  {Name: guard.RouteRegister, Path: "/register", AuthOnly: true},
	"dashboard": {Name: guard.RouteDashboard, Path: "/dashboard", RequiresAuth: true},
	"tweets":    {Name: "tweets", Path: "/tweets", RequiresAuth: true},
	"users":     {Name: "users", Path: "/users", RequiresAuth: true, RequiresAdmin: true},
	"profile":   {Name: "profile", Path: "/profile", RequiresAuth: true},
}

func (a *app) onAuthPage() bool {
	return a.page == "login" || a.page == "register"
}

// open resolves a navigation through the guard, following redirects.
func (a *app) open(ctx context.Context, name string) {
	route, ok := routes[name]
	if !ok {
		fmt.Println("Unknown page:", name)
		return
	}
	decision := a.guard.Check(ctx, route)
	for !decision.Allowed {
		target := decision.RedirectTo
		if query := decision.Query.Encode(); query != "" {
			fmt.Printf("Redirected to %s?%s\n", target, query)
		} else {
			fmt.Printf("Redirected to %s\n", target)
		}
		name = target
		decision = a.guard.Check(ctx, routes[name])
	}
	a.page = name
	fmt.Println("Now on:", name)
}

// repl runs the interactive shell loop.
func (a *app) repl(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("diginex> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, open <page>, login <user> <pass>, register, logout,")
			fmt.Println("  whoami, profile <first> <last>, tweets, next, prev, my,")
			fmt.Println("  tweet <id>, post <title> <content...>, edit <id> <title>, rm <id>,")
			fmt.Println("  users, user <id>, toggle <id>, deluser <id>, exit")
		case "open":
			if len(args) < 2 {
				fmt.Println("Usage: open <page>")
				continue
			}
			a.open(ctx, args[1])
		case "login":
			if len(args) < 3 {
				fmt.Println("Usage: login <username> <password>")
				continue
			}
			a.page = "login"
			resp, err := a.session.Login(ctx, models.LoginRequest{Username: args[1], Password: args[2]})
			if err != nil {
				continue
			}
			a.page = "dashboard"
			fmt.Printf("Logged in as %s %s (%s)\n", resp.User.FirstName, resp.User.LastName, resp.User.Role)
		case "register":
			a.page = "register"
			req := promptRegister(scanner)
			if _, err := a.session.Register(ctx, req); err == nil {
				fmt.Println("Account created, you can log in now")
			}
		case "logout":
			_ = a.session.Logout(ctx)
			a.page = "login"
			fmt.Println("Logged out")
		case "whoami":
			if user := a.session.User(); user != nil {
				fmt.Printf("%s (%s, role %s)\n", a.session.UserName(), user.Username, user.Role)
			} else {
				fmt.Println("Not logged in")
			}
		case "profile":
			if len(args) < 3 {
				fmt.Println("Usage: profile <firstName> <lastName>")
				continue
			}
			if user, err := a.session.UpdateProfile(ctx, models.UpdateUserRequest{FirstName: args[1], LastName: args[2]}); err == nil {
				fmt.Printf("Profile updated: %s %s\n", user.FirstName, user.LastName)
			}
		case "tweets":
			if _, err := a.tweets.Fetch(ctx, api.Query{}); err == nil {
				a.printTweets()
			}
		case "next":
			items, err := a.tweets.FetchNextPage(ctx, api.Query{})
			if err == nil && items == nil {
				fmt.Println("No next page")
				continue
			}
			if err == nil {
				a.printTweets()
			}
		case "prev":
			items, err := a.tweets.FetchPrevPage(ctx, api.Query{})
			if err == nil && items == nil {
				fmt.Println("No previous page")
				continue
			}
			if err == nil {
				a.printTweets()
			}
		case "my":
			if _, err := a.tweets.FetchMine(ctx, api.Query{}); err == nil {
				a.printTweets()
			}
		case "tweet":
			if len(args) < 2 {
				fmt.Println("Usage: tweet <id>")
				continue
			}
			if t, err := a.tweets.FetchByID(ctx, args[1]); err == nil {
				fmt.Printf("%s\n%s\n", t.Title, t.Content)
			}
		case "post":
			if len(args) < 3 {
				fmt.Println("Usage: post <title> <content...>")
				continue
			}
			data := models.CreateTweetRequest{Title: args[1], Content: strings.Join(args[2:], " ")}
			if t, err := a.tweets.Create(ctx, data); err == nil {
				fmt.Println("Posted", t.ID)
			}
		case "edit":
			if len(args) < 3 {
				fmt.Println("Usage: edit <id> <title>")
				continue
			}
			if _, err := a.tweets.Update(ctx, args[1], models.UpdateTweetRequest{Title: args[2]}); err == nil {
				fmt.Println("Tweet updated")
			}
		case "rm":
			if len(args) < 2 {
				fmt.Println("Usage: rm <id>")
				continue
			}
			if err := a.tweets.Delete(ctx, args[1]); err == nil {
				fmt.Println("Tweet deleted")
			}
		case "users":
			if _, err := a.users.Fetch(ctx, api.Query{}); err == nil {
				for _, u := range a.users.Items() {
					fmt.Printf("%s  %-16s %s %s (%s)\n", u.ID, u.Username, u.FirstName, u.LastName, u.Role)
				}
			}
		case "user":
			if len(args) < 2 {
				fmt.Println("Usage: user <id>")
				continue
			}
			if u, err := a.users.FetchByID(ctx, args[1]); err == nil {
				fmt.Printf("%s %s (%s), born %s\n", u.FirstName, u.LastName, u.Role, u.DateOfBirth)
			}
		case "toggle":
			if len(args) < 2 {
				fmt.Println("Usage: toggle <id>")
				continue
			}
			if u, err := a.users.ToggleStatus(ctx, args[1]); err == nil {
				fmt.Printf("User %s is now %s\n", u.Username, u.Role)
			} else {
				fmt.Println(err)
			}
		case "deluser":
			if len(args) < 2 {
				fmt.Println("Usage: deluser <id>")
				continue
			}
			if err := a.users.Delete(ctx, args[1]); err == nil {
				fmt.Println("User deleted")
			}
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func (a *app) printTweets() {
	for _, t := range a.tweets.Items() {
		fmt.Printf("%s  %s\n", t.ID, t.Title)
	}
	p := a.tweets.Pagination()
	fmt.Printf("-- %d of %d total (page %d)", a.tweets.Len(), p.Total, p.Page)
	if p.HasMore {
		fmt.Print(", more available")
	}
	fmt.Println()
}

func promptRegister(scanner *bufio.Scanner) models.RegisterRequest {
	read := func(label string) string {
		fmt.Print(label + ": ")
		if !scanner.Scan() {
			return ""
		}
		return strings.TrimSpace(scanner.Text())
	}
	return models.RegisterRequest{
		Username:    read("username"),
		Password:    read("password"),
		FirstName:   read("first name"),
		LastName:    read("last name"),
		DateOfBirth: read("date of birth (YYYY-MM-DD)"),
	}
}

func main() {
	options := config.Parse()

	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("diginex client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Log.Sync() }()

	sessionFile := storage.NewFileStore(options.SessionFile)

	a := &app{page: "login"}

	// Toasts surface on the terminal.
	notifier := api.NotifierFunc(func(message string) {
		fmt.Println("[!]", message)
	})

	client := api.NewClient(options.BaseURL, sessionFile,
		api.WithTimeout(time.Duration(options.Timeout)*time.Second),
		api.WithNotifier(notifier),
		api.WithAuthPageCheck(a.onAuthPage),
		api.WithLogger(log.Log),
	)

	a.session = session.NewStore(service.NewAuthService(client), sessionFile,
		session.WithNotifier(notifier),
		session.WithLogger(log.Log),
	)
	a.tweets = store.NewTweetStore(service.NewTweetService(client), log.Log)
	a.users = store.NewUserStore(service.NewUserService(client), log.Log)
	a.guard = guard.New(a.session, log.Log)

	ctx := context.Background()
	a.open(ctx, "dashboard")
	a.repl(ctx)
}
