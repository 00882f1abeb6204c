package main

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dev-mohitbeniwal/bookclub/client"
	logger "github.com/dev-mohitbeniwal/bookclub/logging"
)

type app struct {
	serverURL string
	dataPath  string
	verbose   bool

	storage     *client.SQLiteStorage
	session     *client.Session
	memberships *client.MembershipCache
	fetcher     *client.Fetcher
	api         *client.API
}

func defaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "bookclub.db"
	}
	return filepath.Join(home, ".bookclub", "client.db")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "bookclub-cli",
		Short:         "Browse bestsellers and manage your book clubs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.serverURL, "server", envOr("BOOKCLUB_SERVER", "http://localhost:8080"), "bookclub server URL")
	root.PersistentFlags().StringVar(&a.dataPath, "data", envOr("BOOKCLUB_DATA", defaultDataPath()), "local cache database")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log requests and retries")

	root.AddCommand(
		newBestsellersCommand(a),
		newCacheCommand(a),
		newLoginCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newClubsCommand(a),
	)
	return root
}

func (a *app) open() error {
	if a.verbose {
		logger.InitLogger("")
	}

	storage, err := client.OpenSQLiteStorage(a.dataPath)
	if err != nil {
		return err
	}
	httpClient := &http.Client{Timeout: 30 * time.Second}

	a.storage = storage
	a.session = client.NewSession(storage, time.Now)
	a.memberships = client.NewMembershipCache(storage)
	a.fetcher = client.NewFetcher(a.serverURL, storage, client.WithFetcherHTTPClient(httpClient))
	a.api = client.NewAPI(a.serverURL, httpClient, a.session, a.memberships)
	return nil
}

func (a *app) close() error {
	_ = logger.Sync()
	if a.storage == nil {
		return nil
	}
	return a.storage.Close()
}
