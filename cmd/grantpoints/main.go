// Command grantpoints credits points to a user record directly in the
// database, for support and testing.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"promail/internal/account"
	"promail/internal/domain"
	"promail/internal/infra"
	"promail/internal/store"
)

func main() {
	var (
		emailFlag  string
		pointsFlag int
	)
	flag.StringVar(&emailFlag, "email", "", "email of the user to credit")
	flag.IntVar(&pointsFlag, "points", 0, "points to add (must be positive)")
	flag.Parse()

	email := strings.TrimSpace(emailFlag)
	if email == "" {
		exitWithError(errors.New("-email is required"))
	}
	if pointsFlag <= 0 {
		exitWithError(errors.New("-points must be positive"))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "grantpoints").Logger()
	records := store.NewPostgresStore(infra.NewSQLRunner(pool, logger))
	accounts := account.NewManager(records)

	user, err := accounts.Credit(ctx, account.ProfileID(email), pointsFlag)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			exitWithError(fmt.Errorf("no user record for %s; they must sign in first", email))
		}
		exitWithError(fmt.Errorf("failed to credit points: %w", err))
	}

	fmt.Printf("User %s credited %d points, balance is now %d\n", user.Email, pointsFlag, user.Points)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
