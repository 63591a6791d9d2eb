package cli

import (
	"github.com/pterm/pterm"

	"github.com/danieljhkim/worksync/internal/engine"
)

// progressView renders engine progress as a spinner while projects are
// fetched and a progress bar while they sync.
type progressView struct {
	spinner *pterm.SpinnerPrinter
	bar     *pterm.ProgressbarPrinter
}

// handle implements engine.ProgressFunc.
func (v *progressView) handle(p engine.Progress) {
	switch p.Phase {
	case engine.PhaseFetching:
		spinner := pterm.DefaultSpinner.
			WithStyle(pterm.NewStyle(pterm.FgCyan)).
			WithRemoveWhenDone(true)
		v.spinner, _ = spinner.Start("Fetching projects...")

	case engine.PhaseSyncing:
		if v.bar == nil {
			v.stopSpinner()
			if p.TotalProjects == 0 {
				return
			}
			v.bar, _ = pterm.DefaultProgressbar.
				WithTotal(p.TotalProjects).
				WithTitle("Syncing projects").
				WithRemoveWhenDone(true).
				Start()
			return
		}
		if p.CurrentProject != "" {
			v.bar.UpdateTitle(p.CurrentProject)
			v.bar.Increment()
		}

	case engine.PhaseComplete, engine.PhaseError:
		v.stop()
	}
}

func (v *progressView) stopSpinner() {
	if v.spinner != nil {
		_ = v.spinner.Stop()
		v.spinner = nil
	}
}

func (v *progressView) stop() {
	v.stopSpinner()
	if v.bar != nil {
		_, _ = v.bar.Stop()
		v.bar = nil
	}
}
