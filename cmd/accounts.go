package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/spotterhq/spotter/pkg/resolver"
)

// AccountsCommand creates the accounts command for managing the curated list
func AccountsCommand() *cli.Command {
	return &cli.Command{
		Name:  "accounts",
		Usage: "Manage the curated account list",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show the curated accounts with resolved display names",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "plain",
						Usage: "Print bare handles only, one per line",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return listAccounts(ctx, c.String("config"), c.Bool("plain"))
				},
			},
			{
				Name:      "add",
				Usage:     "Add one or more handles",
				ArgsUsage: "<handle> [handle...]",
				Action: func(ctx context.Context, c *cli.Command) error {
					return addAccounts(c.String("config"), c.Args().Slice())
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a handle",
				ArgsUsage: "<handle>",
				Action: func(ctx context.Context, c *cli.Command) error {
					return removeAccount(c.String("config"), c.Args().First())
				},
			},
			{
				Name:      "import",
				Usage:     "Merge handles from a file (one per line) into the list",
				ArgsUsage: "<file>",
				Action: func(ctx context.Context, c *cli.Command) error {
					return importAccounts(c.String("config"), c.Args().First())
				},
			},
		},
	}
}

func listAccounts(ctx context.Context, configPath string, plain bool) error {
	env, err := loadAppEnv(configPath)
	if err != nil {
		return err
	}

	handles, err := env.accounts.All()
	if err != nil {
		return fmt.Errorf("loading accounts: %w", err)
	}

	if len(handles) == 0 {
		fmt.Println("No curated accounts. Searches cover all of X.")
		return nil
	}

	if plain {
		for _, h := range handles {
			fmt.Println(h)
		}
		return nil
	}

	info := resolver.New(env.client, env.userCache).Resolve(ctx, handles)
	for _, h := range handles {
		name := info[h].Name
		if name == "" || strings.EqualFold(name, h) {
			fmt.Printf("@%s\n", h)
			continue
		}
		fmt.Printf("@%-20s %s\n", h, name)
	}
	fmt.Printf("\n%d accounts\n", len(handles))
	return nil
}

func addAccounts(configPath string, handles []string) error {
	if len(handles) == 0 {
		return fmt.Errorf("usage: spotter accounts add <handle> [handle...]")
	}

	env, err := loadAppEnv(configPath)
	if err != nil {
		return err
	}

	existing, err := env.accounts.All()
	if err != nil {
		return fmt.Errorf("loading accounts: %w", err)
	}
	if err := env.accounts.Replace(append(existing, handles...)); err != nil {
		return fmt.Errorf("saving accounts: %w", err)
	}

	updated, err := env.accounts.All()
	if err != nil {
		return fmt.Errorf("loading accounts: %w", err)
	}
	fmt.Printf("Account list now has %d entries\n", len(updated))
	return nil
}

func removeAccount(configPath, handle string) error {
	if strings.TrimSpace(handle) == "" {
		return fmt.Errorf("usage: spotter accounts remove <handle>")
	}

	env, err := loadAppEnv(configPath)
	if err != nil {
		return err
	}

	if err := env.accounts.Remove(handle); err != nil {
		return fmt.Errorf("removing account: %w", err)
	}
	fmt.Printf("Removed @%s\n", strings.TrimPrefix(handle, "@"))
	return nil
}

func importAccounts(configPath, file string) error {
	if file == "" {
		return fmt.Errorf("usage: spotter accounts import <file>")
	}

	env, err := loadAppEnv(configPath)
	if err != nil {
		return err
	}

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("opening %s: %w", file, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close %s: %v\n", file, err)
		}
	}()

	var handles []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		handles = append(handles, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	existing, err := env.accounts.All()
	if err != nil {
		return fmt.Errorf("loading accounts: %w", err)
	}
	if err := env.accounts.Replace(append(existing, handles...)); err != nil {
		return fmt.Errorf("saving accounts: %w", err)
	}

	updated, err := env.accounts.All()
	if err != nil {
		return fmt.Errorf("loading accounts: %w", err)
	}
	fmt.Printf("Imported %d handles, account list now has %d entries\n", len(handles), len(updated))
	return nil
}
