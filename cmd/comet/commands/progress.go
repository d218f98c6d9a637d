package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.trai.ch/comet/internal/adapters/telemetry"
	progrockadapter "go.trai.ch/comet/internal/adapters/telemetry/progrock"
	"go.trai.ch/comet/internal/app"
	"go.trai.ch/comet/internal/core/domain"
	"go.trai.ch/comet/internal/tui"
)

// progressView owns the lifecycle of the live progress display. When the
// terminal is not interactive or --quiet is set it does nothing.
type progressView struct {
	feed *progrockadapter.Feed
	prog *tea.Program
	wg   sync.WaitGroup
}

// newProgressView attaches a progrock recorder to the app when a live view is
// wanted, otherwise leaves the no-op telemetry in place.
func newProgressView(a *app.App, quiet bool) *progressView {
	if quiet || !isTerminal(os.Stdout) {
		a.SetTelemetry(telemetry.NewNoOp())
		return &progressView{}
	}
	feed := progrockadapter.NewFeed()
	a.SetTelemetry(progrockadapter.NewRecorder(feed))
	return &progressView{feed: feed}
}

// start launches the TUI once the plan is confirmed.
func (p *progressView) start() {
	if p.feed == nil {
		return
	}
	p.prog = tea.NewProgram(tui.NewModel(p.feed), tea.WithOutput(os.Stdout))
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		_, _ = p.prog.Run()
	}()
}

// stop ends the update stream and waits for the view to exit.
func (p *progressView) stop() {
	if p.feed == nil {
		return
	}
	_ = p.feed.Close()
	if p.prog != nil {
		p.wg.Wait()
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// printPlan writes a human readable summary of the pending changes.
func printPlan(w io.Writer, plan domain.Plan) {
	if len(plan.ToInstall) > 0 {
		fmt.Fprintf(w, "To install: %s\n", strings.Join(plan.ToInstall, ", "))
	}
	if len(plan.ToUpdate) > 0 {
		fmt.Fprintf(w, "To update: %s\n", strings.Join(plan.ToUpdate, ", "))
	}
	if len(plan.ToRemove) > 0 {
		fmt.Fprintf(w, "To remove: %s\n", strings.Join(plan.ToRemove, ", "))
	}
}

// promptYesNo asks for confirmation on the given reader. Empty input means no.
func promptYesNo(in io.Reader, out io.Writer) (bool, error) {
	fmt.Fprint(out, "Do you want to continue? [y/N] ")
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// confirmFunc builds the plan confirmation callback for a mutating command.
// With --quiet the plan is accepted without prompting. The view starts only
// after the plan is approved so the prompt and the TUI never share the
// terminal.
func (c *CLI) confirmFunc(in io.Reader, out io.Writer, quiet bool, view *progressView) app.ConfirmFunc {
	return func(plan domain.Plan) (bool, error) {
		if !quiet {
			printPlan(out, plan)
			ok, err := promptYesNo(in, out)
			if err != nil || !ok {
				return false, err
			}
		}
		view.start()
		return true, nil
	}
}

// runRequest drives a mutating command end to end: plan, confirm, live view,
// execution, summary.
func (c *CLI) runRequest(cmd *cobra.Command, req domain.Request) error {
	quiet, _ := cmd.Flags().GetBool("quiet")
	view := newProgressView(c.app, quiet)
	confirm := c.confirmFunc(cmd.InOrStdin(), cmd.OutOrStdout(), quiet, view)

	report, err := c.app.Run(cmd.Context(), req, confirm)
	view.stop()
	if report != nil {
		printReport(cmd.OutOrStdout(), report)
	}
	return err
}

// printReport summarizes the executed transaction.
func printReport(w io.Writer, report *domain.Report) {
	if len(report.Installed) > 0 {
		fmt.Fprintf(w, "Installed: %s\n", strings.Join(report.Installed, ", "))
	}
	if len(report.Updated) > 0 {
		fmt.Fprintf(w, "Updated: %s\n", strings.Join(report.Updated, ", "))
	}
	if len(report.Removed) > 0 {
		fmt.Fprintf(w, "Removed: %s\n", strings.Join(report.Removed, ", "))
	}
	if len(report.Skipped) > 0 {
		fmt.Fprintf(w, "Skipped: %s\n", strings.Join(report.Skipped, ", "))
	}
}
