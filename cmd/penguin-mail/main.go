// Command penguin-mail is a terminal front door to the Penguin Mail
// data layer. It authenticates, loads the user's settings and inbox,
// applies filter rules and the blocklist, and prints the result. It
// doubles as a smoke test for both repository variants.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mchen04/penguin-mail/internal/api"
	"github.com/mchen04/penguin-mail/internal/config"
	"github.com/mchen04/penguin-mail/internal/filter"
	"github.com/mchen04/penguin-mail/internal/model"
	"github.com/mchen04/penguin-mail/internal/repository"
	"github.com/mchen04/penguin-mail/internal/repository/local"
	"github.com/mchen04/penguin-mail/internal/repository/remote"
	"github.com/mchen04/penguin-mail/internal/session"
	syncpkg "github.com/mchen04/penguin-mail/internal/sync"
)

var version = "dev"

func main() {
	configPath := flag.String("config", config.DefaultConfigPath(), "path to config file")
	folder := flag.String("folder", model.FolderInbox, "folder to list")
	watch := flag.Bool("watch", false, "keep running and refresh in the background")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("penguin-mail", version)
		return
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("loading configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos, cleanup, err := buildRepositories(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("initializing repositories")
	}
	defer cleanup()

	if err := run(ctx, cfg, log, repos, *folder, *watch); err != nil {
		log.WithError(err).Fatal("penguin-mail failed")
	}
}

// buildRepositories picks the repository variant from configuration and
// returns the set plus a cleanup function.
func buildRepositories(ctx context.Context, cfg *config.Config, log *logrus.Logger) (repository.Set, func(), error) {
	if cfg.Mode == config.ModeLocal {
		store, err := local.Open(cfg.LocalDBPath)
		if err != nil {
			return repository.Set{}, nil, fmt.Errorf("opening local store: %w", err)
		}
		log.WithField("path", cfg.LocalDBPath).Info("using local repositories")
		return store.Repositories(), func() { store.Close() }, nil
	}

	creds, err := session.OpenKeyring(cfg.KeyringService, cfg.KeyringFileDir)
	if err != nil {
		return repository.Set{}, nil, fmt.Errorf("opening credential store: %w", err)
	}

	client := api.NewClient(cfg.APIRoot(), creds,
		api.WithLogger(log),
		api.WithTimeout(time.Duration(cfg.RequestTimeoutSec)*time.Second),
	)
	client.SetOnUnauthorized(func() {
		log.Warn("session expired, please log in again")
	})

	if !creds.Authenticated() {
		email := os.Getenv("PENGUIN_EMAIL")
		password := os.Getenv("PENGUIN_PASSWORD")
		if email == "" || password == "" {
			return repository.Set{}, nil, fmt.Errorf("not logged in: set PENGUIN_EMAIL and PENGUIN_PASSWORD")
		}
		if err := client.Login(ctx, email, password); err != nil {
			return repository.Set{}, nil, fmt.Errorf("logging in: %w", err)
		}
		log.WithField("email", email).Info("logged in")
	}

	return remote.New(client), func() {}, nil
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger, repos repository.Set, folder string, watch bool) error {
	settings, err := repos.Settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	account, err := repos.Accounts.Default(ctx)
	if err != nil {
		return fmt.Errorf("loading default account: %w", err)
	}
	accountID := ""
	if account != nil {
		accountID = account.ID
		log.WithField("account", account.Email).Debug("default account resolved")
	}

	page, err := repos.Emails.ListByFolder(ctx, folder, accountID, model.PageRequest{
		Page:     1,
		PageSize: cfg.DefaultPageSize,
	})
	if err != nil {
		return fmt.Errorf("listing %s: %w", folder, err)
	}

	visible := filter.Apply(page.Data, settings.Filters, settings.BlockedAddresses)
	printEmails(folder, visible, page.Total)

	if !watch {
		return nil
	}

	refresher := syncpkg.NewRefresher(repos, log, folder, accountID,
		cfg.DefaultPageSize, time.Duration(cfg.RefreshIntervalSec)*time.Second)
	refresher.Start()
	defer refresher.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case snap := <-refresher.Snapshots():
			if snap.Err != nil {
				log.WithError(snap.Err).Warn("refresh failed")
				continue
			}
			printEmails(folder, snap.Emails, len(snap.Emails))
		case <-sigCh:
			log.Info("shutting down")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func printEmails(folder string, emails []model.Email, total int) {
	fmt.Printf("%s (%d of %d):\n", folder, len(emails), total)
	for _, e := range emails {
		marker := " "
		if !e.IsRead {
			marker = "*"
		}
		star := " "
		if e.IsStarred {
			star = "+"
		}
		fmt.Printf("%s%s %-28s %-48s %s\n",
			marker, star,
			truncate(e.From.Email, 28),
			truncate(e.Subject, 48),
			e.Date.Local().Format("Jan 02 15:04"),
		)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
