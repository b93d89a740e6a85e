package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/riskibarqy/sport-alerts/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
)

var errUsage = errors.New("usage")

var migrationDirs = []string{"./db/migrations", "/app/db/migrations"}

// command is one migrate subcommand. args excludes the command name.
type command struct {
	usage string
	exec  func(m *migrate.Migrate, args []string, logger *logging.Logger) error
}

var commands = map[string]command{
	"up": {usage: "up", exec: func(m *migrate.Migrate, _ []string, logger *logging.Logger) error {
		return settle(m.Up(), logger, "migrations applied")
	}},
	"down": {usage: "down [steps]", exec: func(m *migrate.Migrate, args []string, logger *logging.Logger) error {
		steps, err := parseSteps(args)
		if err != nil {
			return err
		}
		return settle(m.Steps(-steps), logger, "migrations rolled back", "steps", steps)
	}},
	"goto": {usage: "goto <version>", exec: func(m *migrate.Migrate, args []string, logger *logging.Logger) error {
		if len(args) == 0 {
			return crerr.New("goto requires a target version")
		}
		target, err := parseTarget(args[0])
		if err != nil {
			return err
		}
		return settle(m.Migrate(target), logger, "migrated to version", "version", target)
	}},
	"force": {usage: "force <version>", exec: func(m *migrate.Migrate, args []string, logger *logging.Logger) error {
		if len(args) == 0 {
			return crerr.New("force requires a version")
		}
		version, err := parseVersion(args[0])
		if err != nil {
			return err
		}
		if err := m.Force(version); err != nil {
			return crerr.Wrapf(err, "force version %d", version)
		}
		logger.Info("migration version forced", "version", version)
		return nil
	}},
	"version": {usage: "version", exec: func(m *migrate.Migrate, _ []string, _ *logging.Logger) error {
		return printVersion(os.Stdout, m)
	}},
}

func main() {
	logger := logging.NewJSON(logging.LevelInfo).With("service", "sport-alerts-migration")
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(os.Args[1:], logger); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr, filepath.Base(os.Args[0]))
			os.Exit(2)
		}
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, logger *logging.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	name := strings.ToLower(strings.TrimSpace(args[0]))
	if name == "migrate" {
		name = "goto"
	}
	cmd, ok := commands[name]
	if !ok {
		return errUsage
	}

	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		return crerr.New("DB_URL is required")
	}
	disableBinary, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv("DB_DISABLE_PREPARED_BINARY_RESULT")))

	dir, err := findMigrationsDir(strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")))
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+filepath.ToSlash(dir), postgres.NormalizeURL(dbURL, disableBinary))
	if err != nil {
		return crerr.Wrap(err, "create migrator")
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			logger.Warn("close migrator", "error", err)
		}
	}()

	logger.Info("running migration command", "command", name, "dir", dir)
	return cmd.exec(m, args[1:], logger)
}

// settle treats ErrNoChange as success.
func settle(err error, logger *logging.Logger, msg string, args ...any) error {
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("no migration changes")
		return nil
	case err != nil:
		return err
	default:
		logger.Info(msg, args...)
		return nil
	}
}

func printVersion(w io.Writer, m *migrate.Migrate) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		_, err = fmt.Fprintln(w, "version: none\ndirty: false")
		return err
	}
	if err != nil {
		return crerr.Wrap(err, "read version")
	}
	_, err = fmt.Fprintf(w, "version: %d\ndirty: %t\n", version, dirty)
	return err
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, crerr.Wrapf(err, "invalid down steps %q", args[0])
	}
	if steps < 1 {
		return 0, crerr.Newf("down steps must be at least 1, got %d", steps)
	}
	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, strconv.IntSize)
	if err != nil {
		return 0, crerr.Wrapf(err, "invalid version %q", raw)
	}
	if value < 0 {
		return 0, crerr.Newf("version must not be negative, got %d", value)
	}
	return int(value), nil
}

func parseTarget(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, strconv.IntSize)
	if err != nil {
		return 0, crerr.Wrapf(err, "invalid target version %q", raw)
	}
	return uint(value), nil
}

// findMigrationsDir returns the first existing directory among override and
// the default locations.
func findMigrationsDir(override string) (string, error) {
	candidates := migrationDirs
	if override != "" {
		candidates = append([]string{override}, migrationDirs...)
	}
	for _, candidate := range candidates {
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", crerr.Newf("migration directory not found in %s", strings.Join(candidates, ", "))
}

func printUsage(w io.Writer, name string) {
	_, _ = fmt.Fprintf(w, "usage: %s <command> [args]\ncommands:\n", name)
	for _, key := range []string{"up", "down", "goto", "force", "version"} {
		_, _ = fmt.Fprintf(w, "  %s %s\n", name, commands[key].usage)
	}
}
