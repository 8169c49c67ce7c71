// Package business wires the configured components together and runs them.
package business

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/valkey-io/valkey-go"

	slogctx "github.com/veqryn/slog-context"

	"github.com/cmflairs/gateway/internal/authflow"
	"github.com/cmflairs/gateway/internal/business/server"
	"github.com/cmflairs/gateway/internal/config"
	"github.com/cmflairs/gateway/internal/gamestats"
	"github.com/cmflairs/gateway/internal/identity"
	"github.com/cmflairs/gateway/internal/refresh"
	refreshvalkey "github.com/cmflairs/gateway/internal/refresh/valkey"
	"github.com/cmflairs/gateway/internal/session"
	"github.com/cmflairs/gateway/internal/summoner"
	summonersql "github.com/cmflairs/gateway/internal/summoner/sql"
	"github.com/cmflairs/gateway/internal/user"
	usersql "github.com/cmflairs/gateway/internal/user/sql"
)

// Main starts the public API server.
func Main(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// errChan is used to capture the first error and shutdown the servers.
	errChan := make(chan error, 1)

	// wg is used to wait for all servers to shutdown.
	var wg sync.WaitGroup

	// start public HTTP REST API server
	wg.Go(func() {
		errChan <- publicMain(ctx, cfg)
	})

	// wait for any error to initiate the shutdown
	if err := <-errChan; err != nil {
		slogctx.Error(ctx, "Shutting down servers", "error", err)
	}
	cancel()

	// wait for all servers to shutdown
	wg.Wait()

	return nil
}

// publicMain starts the HTTP REST public API server.
func publicMain(ctx context.Context, cfg *config.Config) error {
	deps, err := initGateway(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialising the gateway: %w", err)
	}

	defer deps.close()

	api := server.NewAPI(deps.flow, deps.codec, deps.users, deps.summoners, deps.queue)

	return server.StartHTTPServer(ctx, cfg, api)
}

// WorkerMain runs the background refresh worker together with a ticker that
// periodically queues a bulk update of the stalest accounts.
func WorkerMain(ctx context.Context, cfg *config.Config) error {
	deps, err := initGateway(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialising the gateway: %w", err)
	}

	defer deps.close()

	apiKey, err := commoncfg.LoadValueFromSourceRef(cfg.GameStats.APIKey)
	if err != nil {
		return fmt.Errorf("loading game stats api key: %w", err)
	}

	stats := gamestats.NewClient(gamestats.Config{
		BaseURL:  cfg.GameStats.BaseURL,
		APIKey:   string(apiKey),
		CacheTTL: cfg.GameStats.CacheTTL,
	}, http.DefaultClient)

	worker := refresh.NewWorker(deps.queue, deps.summoners, stats, cfg.Worker.BatchSize)

	go startBulkTrigger(ctx, deps.queue, cfg.Worker.BulkInterval)

	slogctx.Info(ctx, "Starting refresh worker")

	return worker.Run(ctx)
}

func startBulkTrigger(ctx context.Context, queue refresh.Enqueuer, interval time.Duration) {
	c := time.Tick(interval)
	for {
		slogctx.Info(ctx, "Queueing bulk update of stalest accounts")
		if err := queue.Enqueue(ctx, refresh.Task{Kind: refresh.TaskSummonerBulkUpdate}); err != nil {
			slogctx.Error(ctx, "Failed to queue bulk update", "error", err)
		}

		select {
		case <-c:
			continue
		case <-ctx.Done():
			return
		}
	}
}

// gatewayDeps holds the shared components both entry points build on.
type gatewayDeps struct {
	codec     *session.Codec
	flow      *authflow.Flow
	users     user.Directory
	summoners summoner.Repository
	queue     refresh.Queue
	close     func()
}

func initGateway(ctx context.Context, cfg *config.Config) (*gatewayDeps, error) {
	connStr, err := config.MakeConnStr(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("making dsn from config: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parsing pgxpool config: %w", err)
	}

	poolCfg.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("initialising pgxpool connection: %w", err)
	}

	valkeyClient, err := newValkeyClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	signingKey, err := config.LoadSigningKey(cfg.Auth)
	if err != nil {
		db.Close()
		valkeyClient.Close()

		return nil, err
	}

	codec, err := session.NewCodec(signingKey, session.TTLs{
		Anonymous:  cfg.Auth.AnonymousTTL,
		Transition: cfg.Auth.TransitionTTL,
		SignedIn:   cfg.Auth.SignedInTTL,
	})
	if err != nil {
		db.Close()
		valkeyClient.Close()

		return nil, fmt.Errorf("creating token codec: %w", err)
	}

	clientID, err := commoncfg.LoadValueFromSourceRef(cfg.Auth.ClientID)
	if err != nil {
		db.Close()
		valkeyClient.Close()

		return nil, fmt.Errorf("loading client id: %w", err)
	}

	clientSecret, err := commoncfg.LoadValueFromSourceRef(cfg.Auth.ClientSecret)
	if err != nil {
		db.Close()
		valkeyClient.Close()

		return nil, fmt.Errorf("loading client secret: %w", err)
	}

	provider := identity.NewClient(identity.Config{
		TokenURL:     cfg.Auth.TokenURL,
		IdentityURL:  cfg.Auth.IdentityURL,
		RedirectURI:  cfg.Auth.RedirectURI,
		ClientID:     string(clientID),
		ClientSecret: string(clientSecret),
	}, http.DefaultClient)

	users := usersql.NewDirectory(db)
	summoners := summonersql.NewRepository(db)
	queue := refreshvalkey.NewQueue(valkeyClient, cfg.ValKey.Prefix)

	flow := authflow.New(authflow.Config{
		AuthorizeURL: cfg.Auth.AuthorizeURL,
		ClientID:     string(clientID),
		RedirectURI:  cfg.Auth.RedirectURI,
	}, codec, provider, users, queue)

	return &gatewayDeps{
		codec:     codec,
		flow:      flow,
		users:     users,
		summoners: summoners,
		queue:     queue,
		close: func() {
			valkeyClient.Close()
			db.Close()
		},
	}, nil
}

func newValkeyClient(cfg *config.Config) (valkey.Client, error) {
	valkeyHost, err := commoncfg.LoadValueFromSourceRef(cfg.ValKey.Host)
	if err != nil {
		return nil, fmt.Errorf("loading valkey host: %w", err)
	}

	valkeyUsername, err := commoncfg.LoadValueFromSourceRef(cfg.ValKey.User)
	if err != nil {
		return nil, fmt.Errorf("loading valkey username: %w", err)
	}

	valkeyPassword, err := commoncfg.LoadValueFromSourceRef(cfg.ValKey.Password)
	if err != nil {
		return nil, fmt.Errorf("loading valkey password: %w", err)
	}

	valkeyClient, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{string(valkeyHost)},
		Username:    string(valkeyUsername),
		Password:    string(valkeyPassword),
	})
	if err != nil {
		return nil, fmt.Errorf("creating a new valkey client: %w", err)
	}

	return valkeyClient, nil
}
