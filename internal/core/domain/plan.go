package domain

import (
	"sort"
	"strings"

	"go.trai.ch/zerr"
)

// Op is the kind of state change a request asks for.
type Op string

const (
	// OpInstall installs the requested components and their dependencies.
	OpInstall Op = "install"
	// OpRemove removes the requested components and everything depending on them.
	OpRemove Op = "remove"
	// OpUpdate brings the requested components, or the whole installation,
	// up to the versions the snapshot offers.
	OpUpdate Op = "update"
)

// Request describes a single install/remove/update invocation.
type Request struct {
	Op  Op
	IDs []string
	// Prune removes locally installed components that the snapshot no longer
	// offers during an update. When false they are kept and reported.
	Prune bool
	// Force overrides protection when removing protected components.
	Force bool
}

// Plan is the computed set of operations needed to reach the requested target
// state. Computing a plan has no side effects; only executing it does.
type Plan struct {
	ToInstall []string
	ToUpdate  []string
	ToRemove  []string
	// Unchanged components must never be touched by execution.
	Unchanged []string
	// Stale lists installed components the snapshot no longer offers, kept
	// because pruning was not requested.
	Stale []string
}

// Empty reports whether executing the plan would change nothing.
func (p Plan) Empty() bool {
	return len(p.ToInstall) == 0 && len(p.ToUpdate) == 0 && len(p.ToRemove) == 0
}

// ComputePlan diffs the target snapshot against the installed set and
// produces a Plan for the request. The snapshot's versions are authoritative
// over locally recorded metadata.
func ComputePlan(snapshot *Snapshot, installed map[string]Version, graph *Graph, req Request) (Plan, error) {
	switch req.Op {
	case OpInstall:
		return planInstall(graph, installed, req.IDs)
	case OpUpdate:
		return planUpdate(graph, installed, req)
	case OpRemove:
		return planRemove(graph, installed, req)
	default:
		return Plan{}, zerr.With(zerr.New("unsupported operation"), "op", string(req.Op))
	}
}

func planInstall(graph *Graph, installed map[string]Version, ids []string) (Plan, error) {
	if err := checkRequestable(graph, ids); err != nil {
		return Plan{}, err
	}
	wanted, err := graph.ForwardClosure(ids)
	if err != nil {
		return Plan{}, err
	}
	return diffWanted(graph, installed, wanted, nil), nil
}

func planUpdate(graph *Graph, installed map[string]Version, req Request) (Plan, error) {
	var seeds []string
	var stale []string
	if len(req.IDs) > 0 {
		if err := checkRequestable(graph, req.IDs); err != nil {
			return Plan{}, err
		}
		seeds = req.IDs
	} else {
		// Update everything currently installed that the snapshot still
		// knows about; the rest is stale (pruned only on request).
		for id := range installed {
			if graph.Has(id) {
				seeds = append(seeds, id)
			} else {
				stale = append(stale, id)
			}
		}
		sort.Strings(stale)
	}
	wanted, err := graph.ForwardClosure(seeds)
	if err != nil {
		return Plan{}, err
	}
	plan := diffWanted(graph, installed, wanted, stale)
	if req.Prune {
		plan.ToRemove = plan.Stale
		plan.Stale = nil
		plan.Unchanged = subtract(plan.Unchanged, plan.ToRemove)
	}
	return plan, nil
}

func planRemove(graph *Graph, installed map[string]Version, req Request) (Plan, error) {
	if err := checkRequestable(graph, req.IDs); err != nil {
		return Plan{}, err
	}
	doomed, err := graph.ReverseClosure(req.IDs)
	if err != nil {
		return Plan{}, err
	}
	var toRemove, protected []string
	for _, id := range doomed {
		if _, ok := installed[id]; !ok {
			continue
		}
		toRemove = append(toRemove, id)
		if c, ok := graph.Component(id); ok && c.Protected {
			protected = append(protected, id)
		}
	}
	if len(protected) > 0 && !req.Force {
		return Plan{}, zerr.With(ErrProtectedComponent, "components", strings.Join(protected, ", "))
	}
	sort.Strings(toRemove)
	plan := Plan{ToRemove: toRemove}
	for id := range installed {
		plan.Unchanged = append(plan.Unchanged, id)
	}
	plan.Unchanged = subtract(sortedCopy(plan.Unchanged), toRemove)
	return plan, nil
}

// diffWanted splits the wanted closure into install and update sets against
// the installed map and classifies the rest of the installation as unchanged.
func diffWanted(graph *Graph, installed map[string]Version, wanted, stale []string) Plan {
	plan := Plan{Stale: stale}
	touched := make(map[string]bool, len(wanted))
	for _, id := range wanted {
		current, ok := installed[id]
		if !ok {
			plan.ToInstall = append(plan.ToInstall, id)
			continue
		}
		if c, found := graph.Component(id); found && c.Version.Newer(current) {
			plan.ToUpdate = append(plan.ToUpdate, id)
			touched[id] = true
		}
	}
	for id := range installed {
		if !touched[id] {
			plan.Unchanged = append(plan.Unchanged, id)
		}
	}
	sort.Strings(plan.ToInstall)
	sort.Strings(plan.ToUpdate)
	sort.Strings(plan.Unchanged)
	return plan
}

// checkRequestable rejects directly requested hidden components. They are
// reported as unknown so that hidden ids stay unaddressable by name.
func checkRequestable(graph *Graph, ids []string) error {
	var hidden []string
	for _, id := range ids {
		if c, ok := graph.Component(id); ok && c.Hidden {
			hidden = append(hidden, id)
		}
	}
	if len(hidden) > 0 {
		sort.Strings(hidden)
		return zerr.With(ErrUnknownComponent, "components", strings.Join(hidden, ", "))
	}
	return nil
}

func subtract(sorted []string, remove []string) []string {
	drop := make(map[string]bool, len(remove))
	for _, id := range remove {
		drop[id] = true
	}
	kept := sorted[:0]
	for _, id := range sorted {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	return kept
}

func sortedCopy(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}
