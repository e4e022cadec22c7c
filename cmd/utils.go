package cmd

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"

	"github.com/spotterhq/spotter/pkg/config"
	"github.com/spotterhq/spotter/pkg/provider"
	"github.com/spotterhq/spotter/pkg/search"
	"github.com/spotterhq/spotter/pkg/store"
)

// appEnv is the wiring every command shares: config, provider client and
// the file-backed stores under the data directory.
type appEnv struct {
	cfg       *config.Config
	client    *provider.Client
	accounts  *store.FileAccountStore
	history   *store.FileHistoryLog
	userCache *store.FileUserInfoCache
	service   *search.Service
}

// loadAppEnv loads the config and wires the stores and provider client.
func loadAppEnv(configPath string) (*appEnv, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	accounts := store.NewFileAccountStore(cfg.AccountsPath())
	history := store.NewFileHistoryLog(cfg.HistoryPath())
	userCache := store.NewFileUserInfoCache(cfg.UserCachePath())

	client := provider.New(cfg.Provider.APIKey)
	client.SetBaseURL(cfg.Provider.BaseURL)
	if cfg.Provider.Timeout.Duration > 0 {
		client.SetHTTPClient(&http.Client{Timeout: cfg.Provider.Timeout.Duration})
	}

	return &appEnv{
		cfg:       cfg,
		client:    client,
		accounts:  accounts,
		history:   history,
		userCache: userCache,
		service:   search.NewService(client, accounts, history),
	}, nil
}

// isTerminal checks if stdout is a terminal
func isTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// displayWithPager displays content using a pager
func displayWithPager(content string) error {
	pagerCmd := os.Getenv("PAGER")
	if pagerCmd == "" {
		// Try common pagers in order of preference
		pagers := []string{"less", "more", "cat"}
		for _, pager := range pagers {
			if _, err := exec.LookPath(pager); err == nil {
				pagerCmd = pager
				break
			}
		}
	}

	if pagerCmd == "" {
		// No pager found, output directly
		fmt.Print(content)
		return nil
	}

	// Set up less with good defaults if it's available
	args := []string{}
	if strings.Contains(pagerCmd, "less") {
		args = []string{"-R", "-S", "-F", "-X"}
	}

	cmd := exec.Command(pagerCmd, args...)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
