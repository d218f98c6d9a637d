// Package app implements the application layer for comet.
package app

import (
	"context"
	"fmt"
	"strings"

	"go.trai.ch/comet/internal/adapters/fetch"
	"go.trai.ch/comet/internal/adapters/fsops"
	"go.trai.ch/comet/internal/adapters/state"
	"go.trai.ch/comet/internal/core/domain"
	"go.trai.ch/comet/internal/core/ports"
	"go.trai.ch/comet/internal/engine/executor"
	"go.trai.ch/zerr"
)

// ConfirmFunc lets the caller approve a plan before it executes. Returning
// false aborts without touching disk.
type ConfirmFunc func(plan domain.Plan) (bool, error)

// Overrides are flag-level settings that take precedence over the config
// file. Zero values leave the loaded value in place.
type Overrides struct {
	Root        string
	SnapshotURL string
	OS          string
	Arch        string
	Parallelism int
	Prune       *bool
}

// App wires one command invocation end to end: settings, state lock,
// snapshot fetch, plan computation, and execution.
type App struct {
	loader     ports.ConfigLoader
	logger     ports.Logger
	downloader ports.Downloader
	telemetry  ports.Telemetry

	configPath string
	overrides  Overrides

	openState    func(root string) (ports.StateStore, error)
	newWorkspace func(root string) (ports.Workspace, error)
	newFetcher   func(logger ports.Logger, attempts int) ports.SnapshotFetcher
}

// Option customizes an App, mainly for tests.
type Option func(*App)

// WithStateOpener replaces the state store constructor.
func WithStateOpener(open func(root string) (ports.StateStore, error)) Option {
	return func(a *App) { a.openState = open }
}

// WithWorkspaceFactory replaces the workspace constructor.
func WithWorkspaceFactory(factory func(root string) (ports.Workspace, error)) Option {
	return func(a *App) { a.newWorkspace = factory }
}

// WithFetcherFactory replaces the snapshot fetcher constructor.
func WithFetcherFactory(factory func(logger ports.Logger, attempts int) ports.SnapshotFetcher) Option {
	return func(a *App) { a.newFetcher = factory }
}

// New creates an App backed by the real adapters.
func New(loader ports.ConfigLoader, logger ports.Logger, downloader ports.Downloader, telemetry ports.Telemetry, opts ...Option) *App {
	a := &App{
		loader:     loader,
		logger:     logger,
		downloader: downloader,
		telemetry:  telemetry,
		configPath: "comet.yaml",
		openState: func(root string) (ports.StateStore, error) {
			return state.Open(root)
		},
		newWorkspace: func(root string) (ports.Workspace, error) {
			return fsops.New(root)
		},
		newFetcher: func(logger ports.Logger, attempts int) ports.SnapshotFetcher {
			return fetch.New(logger, fetch.WithAttempts(attempts))
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetConfigPath sets the config file location before a command runs.
func (a *App) SetConfigPath(path string) {
	if path != "" {
		a.configPath = path
	}
}

// SetOverrides applies flag-level overrides for the next command.
func (a *App) SetOverrides(o Overrides) {
	a.overrides = o
}

// SetTelemetry replaces the progress recorder for the next command.
func (a *App) SetTelemetry(t ports.Telemetry) {
	a.telemetry = t
}

// Settings loads the configuration and applies overrides.
func (a *App) Settings() (*domain.Settings, error) {
	settings, err := a.loader.Load(a.configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	o := a.overrides
	if o.Root != "" {
		settings.Root = o.Root
	}
	if o.SnapshotURL != "" {
		settings.SnapshotURL = o.SnapshotURL
	}
	if o.OS != "" {
		settings.Platform.OS = o.OS
	}
	if o.Arch != "" {
		settings.Platform.Arch = o.Arch
	}
	if o.Parallelism > 0 {
		settings.Parallelism = o.Parallelism
	}
	if o.Prune != nil {
		settings.Prune = *o.Prune
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Run resolves and executes a request: fetch the snapshot, build the graph,
// compute the plan, let confirm approve it, then execute. The state lock is
// held for the whole invocation and released on every exit path.
func (a *App) Run(ctx context.Context, req domain.Request, confirm ConfirmFunc) (*domain.Report, error) {
	settings, err := a.Settings()
	if err != nil {
		return nil, err
	}
	if req.Op == domain.OpUpdate && settings.Prune {
		req.Prune = true
	}

	session, err := a.openSession(ctx, settings)
	if err != nil {
		return nil, err
	}
	defer session.close()

	snapshot, graph, err := a.resolve(ctx, settings)
	if err != nil {
		return nil, err
	}
	plan, err := domain.ComputePlan(snapshot, session.store.Installed(), graph, req)
	if err != nil {
		return nil, err
	}
	if len(plan.Stale) > 0 {
		a.logger.Warn(fmt.Sprintf("no longer available, kept: %s (use --prune to remove)",
			strings.Join(plan.Stale, ", ")))
	}
	if plan.Empty() {
		a.logger.Info("all components are up to date")
		return domain.NewReport(), nil
	}
	if confirm != nil {
		ok, err := confirm(plan)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrAborted
		}
	}
	return session.exec.Execute(ctx, graph, plan)
}

// List computes the status of every listable component against the current
// snapshot. The returned revision identifies the snapshot's freshness.
func (a *App) List(ctx context.Context) ([]domain.ComponentStatus, string, error) {
	settings, err := a.Settings()
	if err != nil {
		return nil, "", err
	}
	session, err := a.openSession(ctx, settings)
	if err != nil {
		return nil, "", err
	}
	defer session.close()

	snapshot, graph, err := a.resolve(ctx, settings)
	if err != nil {
		return nil, "", err
	}
	return domain.ListStatuses(graph, session.store.Installed()), snapshot.Revision, nil
}

type session struct {
	store ports.StateStore
	exec  *executor.Executor
}

func (s *session) close() {
	_ = s.store.Close()
}

// openSession acquires the state lock, builds the executor, and reconciles
// any interrupted transaction before the caller proceeds.
func (a *App) openSession(ctx context.Context, settings *domain.Settings) (*session, error) {
	store, err := a.openState(settings.Root)
	if err != nil {
		return nil, err
	}
	workspace, err := a.newWorkspace(settings.Root)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	exec := executor.New(store, a.downloader, workspace, a.logger, a.telemetry, settings.Parallelism)
	if store.Pending() != nil {
		if err := exec.Recover(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
	}
	return &session{store: store, exec: exec}, nil
}

func (a *App) resolve(ctx context.Context, settings *domain.Settings) (*domain.Snapshot, *domain.Graph, error) {
	fetcher := a.newFetcher(a.logger, settings.FetchAttempts)
	snapshot, err := fetcher.Fetch(ctx, settings.SnapshotURL)
	if err != nil {
		return nil, nil, err
	}
	graph, err := domain.BuildGraph(snapshot, settings.Platform)
	if err != nil {
		return nil, nil, err
	}
	return snapshot, graph, nil
}
