// Command migrate manages the registry database schema.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gnbf/badminton-registry/config"
	"github.com/gnbf/badminton-registry/db"
	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	databaseURL   string
	migrationsDir string
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the registry database schema",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "",
		"Postgres connection string (default: $DATABASE_URL)")

	createCmd.Flags().StringVar(&migrationsDir, "dir", filepath.Join("db", "migrations"),
		"directory the new files are written to")

	rootCmd.AddCommand(upCmd, downCmd, versionCmd, forceCmd, createCmd)
}

func dsn() (string, error) {
	if databaseURL != "" {
		return databaseURL, nil
	}
	_ = godotenv.Load()
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.DatabaseURL, nil
}

func withMigrator(fn func(m *migrate.Migrate) error) error {
	url, err := dsn()
	if err != nil {
		return err
	}
	m, err := db.NewMigrator(url)
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("no change")
		return nil
	}
	return err
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			return ignoreNoChange(m.Up())
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down [n]",
	Short: "Roll back the last n migrations (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n := 1
		if len(args) == 1 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 1 {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			n = v
		}
		return withMigrator(func(m *migrate.Migrate) error {
			return ignoreNoChange(m.Steps(-n))
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			v, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Println("no migrations applied")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("version %d (dirty: %t)\n", v, dirty)
			return nil
		})
	},
}

var forceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Set the schema version without running migrations, clearing the dirty flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return withMigrator(func(m *migrate.Migrate) error {
			return m.Force(v)
		})
	},
}

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Write an empty up/down migration pair",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Trim(nonWord.ReplaceAllString(strings.ToLower(args[0]), "_"), "_")
		if name == "" {
			return fmt.Errorf("invalid migration name %q", args[0])
		}
		if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
			return err
		}
		base := time.Now().UTC().Format("20060102150405") + "_" + name
		for _, dir := range []string{"up", "down"} {
			path := filepath.Join(migrationsDir, base+"."+dir+".sql")
			if err := os.WriteFile(path, nil, 0o644); err != nil {
				return err
			}
			fmt.Println(path)
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
