// Package executor implements transactional plan execution against the
// install root.
package executor

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"go.trai.ch/comet/internal/core/domain"
	"go.trai.ch/comet/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// fileFetchLimit bounds concurrent file downloads within one component.
const fileFetchLimit = 4

// Executor runs a Plan: removals first (dependents before dependencies),
// then installs and updates in dependency order with bounded parallel
// downloads. Each component's operation is atomic; the plan as a whole may
// partially succeed and reports exactly which components changed state.
type Executor struct {
	state       ports.StateStore
	downloader  ports.Downloader
	workspace   ports.Workspace
	logger      ports.Logger
	telemetry   ports.Telemetry
	parallelism int
}

// New creates an Executor. Parallelism bounds concurrent component
// operations in the install phase.
func New(
	state ports.StateStore,
	downloader ports.Downloader,
	workspace ports.Workspace,
	logger ports.Logger,
	telemetry ports.Telemetry,
	parallelism int,
) *Executor {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Executor{
		state:       state,
		downloader:  downloader,
		workspace:   workspace,
		logger:      logger,
		telemetry:   telemetry,
		parallelism: parallelism,
	}
}

// Execute performs the plan's file operations. It returns the report and,
// when any component failed or was skipped, a PartialFailureError describing
// the mixed outcome. The pending marker is written before the first mutation
// and cleared at the end; the state file stays consistent with the files
// actually on disk at every intermediate point.
func (e *Executor) Execute(ctx context.Context, graph *domain.Graph, plan domain.Plan) (*domain.Report, error) {
	report := domain.NewReport()
	if plan.Empty() {
		return report, nil
	}
	if err := e.state.Begin(plan); err != nil {
		return nil, zerr.Wrap(err, "failed to write transaction marker")
	}

	e.removePhase(ctx, graph, plan, report)
	e.installPhase(ctx, graph, plan, report)

	if err := e.state.Finalize(); err != nil {
		return nil, zerr.Wrap(err, "failed to clear transaction marker")
	}
	if !report.Clean() {
		return report, &domain.PartialFailureError{
			Completed: report.Changed(),
			Failed:    report.Failed,
			Remaining: append([]string(nil), report.Skipped...),
		}
	}
	if err := ctx.Err(); err != nil {
		return report, zerr.Wrap(err, "execution cancelled")
	}
	return report, nil
}

// removePhase deletes components dependents-first so that no removed
// component's dependency disappears while the component's own files linger.
func (e *Executor) removePhase(ctx context.Context, graph *domain.Graph, plan domain.Plan, report *domain.Report) {
	inGraph := make([]string, 0, len(plan.ToRemove))
	var stale []string
	for _, id := range plan.ToRemove {
		if graph.Has(id) {
			inGraph = append(inGraph, id)
		} else {
			stale = append(stale, id)
		}
	}
	sort.Strings(stale)
	// Stale components are unknown to the new snapshot's graph, so no
	// dependent can be ordered against them; they go last.
	order := append(graph.ReverseTopoOrder(inGraph), stale...)

	broken := make(map[string]bool)
	for _, id := range order {
		if ctx.Err() != nil {
			report.Skipped = append(report.Skipped, id)
			continue
		}
		if blocked := e.blockedByDependent(graph, plan, broken, id); blocked {
			broken[id] = true
			report.Skipped = append(report.Skipped, id)
			e.logger.Warn(fmt.Sprintf("skipping removal of %s: a dependent could not be removed", id))
			continue
		}
		if err := e.removeComponent(ctx, id); err != nil {
			broken[id] = true
			report.Failed[id] = err
			e.logger.Error(err)
			continue
		}
		report.Removed = append(report.Removed, id)
	}
}

// blockedByDependent reports whether a planned dependent of id failed or was
// skipped, in which case removing id would leave that dependent dangling.
func (e *Executor) blockedByDependent(graph *domain.Graph, plan domain.Plan, broken map[string]bool, id string) bool {
	planned := make(map[string]bool, len(plan.ToRemove))
	for _, r := range plan.ToRemove {
		planned[r] = true
	}
	for _, dep := range graph.Dependents(id) {
		if planned[dep] && broken[dep] {
			return true
		}
	}
	return false
}

func (e *Executor) removeComponent(ctx context.Context, id string) error {
	_, vertex := e.telemetry.Record(ctx, "remove "+id)
	err := e.doRemove(id)
	vertex.Complete(err)
	return err
}

func (e *Executor) doRemove(id string) error {
	if err := e.workspace.Remove(id); err != nil {
		return err
	}
	if err := e.state.CommitRemove(id); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to persist removal"), "component", id)
	}
	return nil
}

type componentStatus int

const (
	statusPending componentStatus = iota
	statusRunning
	statusDone
	statusFailed
	statusSkipped
)

type result struct {
	id  string
	err error
}

// installState drives the install/update phase: a Kahn-style ready queue
// over the phase's dependency subgraph, worked by up to parallelism
// goroutines. A component is scheduled only once all of its in-phase
// dependencies have fully applied, so downloads of independent components
// overlap while apply order respects the topology.
type installState struct {
	e       *Executor
	graph   *domain.Graph
	report  *domain.Report
	updates map[string]bool

	status   map[string]componentStatus
	inDegree map[string]int
	ready    []string
	active   int
	results  chan result
}

func (e *Executor) installPhase(ctx context.Context, graph *domain.Graph, plan domain.Plan, report *domain.Report) {
	s := e.newInstallState(graph, plan, report)
	if len(s.status) == 0 {
		return
	}
	for {
		s.schedule(ctx)
		if s.active == 0 {
			break
		}
		s.handleResult(<-s.results)
	}
	// Anything never scheduled at this point was cut off by cancellation.
	var unreached []string
	for id, st := range s.status {
		if st == statusPending {
			unreached = append(unreached, id)
		}
	}
	sort.Strings(unreached)
	report.Skipped = append(report.Skipped, unreached...)
}

func (e *Executor) newInstallState(graph *domain.Graph, plan domain.Plan, report *domain.Report) *installState {
	s := &installState{
		e:        e,
		graph:    graph,
		report:   report,
		updates:  make(map[string]bool, len(plan.ToUpdate)),
		status:   make(map[string]componentStatus),
		inDegree: make(map[string]int),
		results:  make(chan result, e.parallelism),
	}
	for _, id := range plan.ToInstall {
		s.status[id] = statusPending
	}
	for _, id := range plan.ToUpdate {
		s.status[id] = statusPending
		s.updates[id] = true
	}
	for id := range s.status {
		degree := 0
		for _, dep := range graph.Dependencies(id) {
			if _, inPhase := s.status[dep]; inPhase {
				degree++
			}
		}
		s.inDegree[id] = degree
		if degree == 0 {
			s.ready = append(s.ready, id)
		}
	}
	sort.Strings(s.ready)
	return s
}

// schedule launches ready components while worker capacity remains.
// Cancellation is honored here, between components, never mid-operation.
func (s *installState) schedule(ctx context.Context) {
	for len(s.ready) > 0 && s.active < s.e.parallelism && ctx.Err() == nil {
		id := s.ready[0]
		s.ready = s.ready[1:]
		s.status[id] = statusRunning
		s.active++
		comp, _ := s.graph.Component(id)
		update := s.updates[id]
		go func() {
			s.results <- result{id: id, err: s.e.installComponent(ctx, comp, update)}
		}()
	}
}

func (s *installState) handleResult(res result) {
	s.active--
	if res.err != nil {
		s.status[res.id] = statusFailed
		s.report.Failed[res.id] = res.err
		s.e.logger.Error(res.err)
		s.skipDependents(res.id)
		return
	}
	s.status[res.id] = statusDone
	if s.updates[res.id] {
		s.report.Updated = append(s.report.Updated, res.id)
	} else {
		s.report.Installed = append(s.report.Installed, res.id)
	}
	released := false
	for _, dep := range s.graph.Dependents(res.id) {
		if s.status[dep] != statusPending {
			continue
		}
		s.inDegree[dep]--
		if s.inDegree[dep] == 0 {
			s.ready = append(s.ready, dep)
			released = true
		}
	}
	if released {
		sort.Strings(s.ready)
	}
}

// skipDependents marks every pending in-phase component that transitively
// depends on id as skipped: attempting it would install something whose
// dependency just failed.
func (s *installState) skipDependents(id string) {
	stack := append([]string(nil), s.graph.Dependents(id)...)
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if st, inPhase := s.status[next]; !inPhase || st != statusPending {
			continue
		}
		s.status[next] = statusSkipped
		s.report.Skipped = append(s.report.Skipped, next)
		stack = append(stack, s.graph.Dependents(next)...)
	}
	sort.Strings(s.report.Skipped)
}

// installComponent downloads the component's files into staging, verifies
// every checksum, swaps the directory into place, and persists the state.
// The swap and commit always run to completion once started.
func (e *Executor) installComponent(ctx context.Context, comp domain.Component, update bool) error {
	verb := "install"
	if update {
		verb = "update"
	}
	ctx, vertex := e.telemetry.Record(ctx, verb+" "+comp.ID)
	err := e.doInstall(ctx, vertex, comp)
	vertex.Complete(err)
	return err
}

func (e *Executor) doInstall(ctx context.Context, vertex ports.Vertex, comp domain.Component) error {
	staging, err := e.workspace.Stage(comp.ID)
	if err != nil {
		return zerr.With(err, "component", comp.ID)
	}
	committed := false
	defer func() {
		if !committed {
			_ = e.workspace.DiscardStaging(staging)
		}
	}()

	if err := e.fetchFiles(ctx, vertex, comp, staging); err != nil {
		return zerr.With(err, "component", comp.ID)
	}
	if err := e.workspace.CommitSwap(comp.ID, staging); err != nil {
		return err
	}
	committed = true
	if err := e.state.CommitInstall(comp.ID, comp.Version); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to persist install"), "component", comp.ID)
	}
	return nil
}

// fetchFiles downloads and verifies all of a component's files, a bounded
// number at a time.
func (e *Executor) fetchFiles(ctx context.Context, vertex ports.Vertex, comp domain.Component, staging string) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(fileFetchLimit)
	var progressMu sync.Mutex
	for _, file := range comp.Files {
		eg.Go(func() error {
			dest := stagedPath(staging, file.Path)
			sum, err := e.downloader.Download(egCtx, file.Source, dest)
			if err != nil {
				return err
			}
			if sum != file.Checksum {
				err := zerr.With(domain.ErrChecksumMismatch, "path", file.Path)
				err = zerr.With(err, "want", file.Checksum)
				return zerr.With(err, "got", sum)
			}
			progressMu.Lock()
			fmt.Fprintf(vertex.Stdout(), "fetched %s (%d bytes)\n", file.Path, file.Size)
			progressMu.Unlock()
			return nil
		})
	}
	return eg.Wait()
}

// stagedPath resolves a component-relative file path inside the staging
// directory, refusing traversal outside it.
func stagedPath(staging, rel string) string {
	return filepath.Join(staging, filepath.Clean("/"+rel))
}
