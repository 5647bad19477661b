package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/authgate/internal/authctl"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/config"
	usersrepo "github.com/dmitrijs2005/authgate/internal/server/repositories/users"
	"github.com/dmitrijs2005/authgate/internal/server/schema"
)

func main() {

	nickname := flag.String("nickname", "", "admin nickname")
	email := flag.String("email", "", "admin email")
	flag.Parse()

	if flag.Arg(0) != "create-admin" {
		fmt.Fprintln(os.Stderr, "usage: authctl -nickname <name> -email <address> create-admin")
		os.Exit(2)
	}

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	// Same gate as the server: refuse to touch a drifted table.
	if err := schema.Ensure(ctx, db, logger); err != nil {
		log.Fatalf("%v", err)
	}

	app := authctl.NewApp(usersrepo.NewPostgresRepository(db), os.Stdout)

	if _, err := app.CreateAdmin(ctx, *nickname, *email); err != nil {
		log.Fatalf("%v", err)
	}
}
