// Package cli implements the interactive modcat command-line client.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"log"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"github.com/mlodewijk/modcat/internal/client/api"
	"github.com/mlodewijk/modcat/internal/client/config"
	"github.com/mlodewijk/modcat/internal/client/repositories/localstore"
	"github.com/mlodewijk/modcat/internal/client/session"
	"github.com/mlodewijk/modcat/internal/logging"
)

// localDBFile is the SQLite file holding session state between runs.
const localDBFile = "modcat.db"

type App struct {
	config  *config.Config
	session *session.Cache
	db      *sql.DB
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	db, err := localstore.InitDatabase(ctx, localDBFile)
	if err != nil {
		return nil, err
	}

	apiClient, err := api.NewHTTPClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		db.Close()
		return nil, err
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	cache := session.NewCache(apiClient, localstore.NewSQLiteRepository(db), logger)

	return &App{
		config:  c,
		session: cache,
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.session.Current().LoggedIn
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	if err := a.session.Load(ctx); err != nil {
		log.Printf("error restoring session: %v", err)
	}

	a.Root(ctx)
}
