// add-admin seeds the reviewer allow-list. /admin only accepts identities
// already present in the admins table, so the first reviewer of a fresh
// deployment is added with this tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ds0903/post-bot/core/config"
	"github.com/ds0903/post-bot/core/database"
	"github.com/ds0903/post-bot/core/logger"
	"github.com/ds0903/post-bot/internal/storage"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("add-admin", flag.ContinueOnError)
	userID := fs.Int64("user", 0, "Telegram user id of the reviewer")
	username := fs.String("username", "", "username without @ (defaults to admin_<id>)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, name, err := normalizeAdminArgs(*userID, *username)
	if err != nil {
		return err
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Profile: cfg.Logging.Profile,
	})

	if err := database.RunMigrations(cfg.Database); err != nil {
		return err
	}
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := storage.New(db).Admins.Upsert(ctx, id, name); err != nil {
		return err
	}
	fmt.Printf("admin added: id=%d username=%s\n", id, name)
	return nil
}

func normalizeAdminArgs(userID int64, username string) (int64, string, error) {
	if userID <= 0 {
		return 0, "", fmt.Errorf("-user must be a positive Telegram id")
	}
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		username = fmt.Sprintf("admin_%d", userID)
	}
	return userID, username, nil
}
