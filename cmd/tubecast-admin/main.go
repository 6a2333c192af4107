// ABOUTME: Operator CLI for a running tubecast server
// ABOUTME: Talks to the HTTP API for health checks, accounts, and stats

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
)

const banner = `
 _         _                       _              _           _
| |_ _   _| |__   ___  ___ __ _ __| |_        __ _| |_ __ ___ (_)_ __
| __| | | | '_ \ / _ \/ __/ _' / __| __|____ / _' | | '_ ' _ \| | '_ \
| |_| |_| | |_) |  __/ (_| (_| \__ \ ||_____| (_| | | | | | | | | | | |
 \__|\__,_|_.__/ \___|\___\__,_|___/\__|     \__,_|_|_| |_| |_|_|_| |_|
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "health":
		err = cmdHealth(ctx)
	case "register":
		err = cmdRegister(ctx, args)
	case "stats":
		err = cmdStats(ctx)
	case "whoami":
		err = cmdWhoami(ctx)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)
	fmt.Println("Usage: tubecast-admin <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  health                                    Check server health")
	fmt.Println("  register <username> <email> <full name>   Create an account (password read from stdin)")
	fmt.Println("  stats                                     Show channel dashboard stats")
	fmt.Println("  whoami                                    Show the configured account")
	fmt.Println()
	fmt.Printf("Config: %s\n", configPath())
}

func newClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

// apiRequest sends a JSON request and decodes the JSON response.
func apiRequest(ctx context.Context, cfg *Config, method, path, token string, body, out interface{}) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, cfg.Server.URL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := newClient().Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errBody struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil && errBody.Error != "" {
			return fmt.Errorf("%s (status %d)", errBody.Error, resp.StatusCode)
		}
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// login exchanges the configured credentials for an access token.
func login(ctx context.Context, cfg *Config) (string, error) {
	if cfg.Auth.Identifier == "" || cfg.Auth.Password == "" {
		return "", fmt.Errorf("auth.identifier and auth.password must be set in config")
	}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	err := apiRequest(ctx, cfg, http.MethodPost, "/api/v1/users/login", "", map[string]string{
		"identifier": cfg.Auth.Identifier,
		"password":   cfg.Auth.Password,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return resp.AccessToken, nil
}

func cmdHealth(ctx context.Context) error {
	cfg, err := loadConfig(configPath())
	if err != nil {
		return err
	}

	if err := apiRequest(ctx, cfg, http.MethodGet, "/healthz", "", nil, nil); err != nil {
		return err
	}
	color.Green("healthy")
	return nil
}

func cmdRegister(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: register <username> <email> <full name>")
	}

	cfg, err := loadConfig(configPath())
	if err != nil {
		return err
	}

	fmt.Print("Password: ")
	var password string
	if _, err := fmt.Scanln(&password); err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	var user struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	err = apiRequest(ctx, cfg, http.MethodPost, "/api/v1/users/register", "", map[string]string{
		"username":  args[0],
		"email":     args[1],
		"full_name": args[2],
		"password":  password,
	}, &user)
	if err != nil {
		return err
	}

	color.Green("Created user %s (%s)", user.Username, user.ID)
	return nil
}

func cmdStats(ctx context.Context) error {
	cfg, err := loadConfig(configPath())
	if err != nil {
		return err
	}

	token, err := login(ctx, cfg)
	if err != nil {
		return err
	}

	var stats struct {
		TotalVideos      int64 `json:"total_videos"`
		TotalViews       int64 `json:"total_views"`
		TotalSubscribers int64 `json:"total_subscribers"`
		TotalLikes       int64 `json:"total_likes"`
	}
	if err := apiRequest(ctx, cfg, http.MethodGet, "/api/v1/dashboard/stats", token, nil, &stats); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Videos:\t%d\n", stats.TotalVideos)
	fmt.Fprintf(w, "Views:\t%d\n", stats.TotalViews)
	fmt.Fprintf(w, "Subscribers:\t%d\n", stats.TotalSubscribers)
	fmt.Fprintf(w, "Likes:\t%d\n", stats.TotalLikes)
	return w.Flush()
}

func cmdWhoami(ctx context.Context) error {
	cfg, err := loadConfig(configPath())
	if err != nil {
		return err
	}

	token, err := login(ctx, cfg)
	if err != nil {
		return err
	}

	var me struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		FullName string `json:"full_name"`
	}
	if err := apiRequest(ctx, cfg, http.MethodGet, "/api/v1/users/me", token, nil, &me); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", me.ID)
	fmt.Fprintf(w, "Username:\t%s\n", me.Username)
	fmt.Fprintf(w, "Email:\t%s\n", me.Email)
	fmt.Fprintf(w, "Name:\t%s\n", me.FullName)
	return w.Flush()
}
