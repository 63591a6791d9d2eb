package engine

import "github.com/danieljhkim/worksync/internal/sync"

// Phase is a stage of a sync run.
type Phase string

const (
	PhaseFetching Phase = "fetching"
	PhaseSyncing  Phase = "syncing"
	PhaseComplete Phase = "complete"
	PhaseError    Phase = "error"
)

// Progress is a snapshot of a running sync, reported at phase boundaries
// and after each project.
type Progress struct {
	Phase Phase `json:"phase"`

	// CurrentProject is the project just finished
	CurrentProject string `json:"currentProject,omitempty"`

	TotalProjects     int    `json:"totalProjects"`
	CompletedProjects int    `json:"completedProjects"`
	Percentage        int    `json:"percentage"`
	Message           string `json:"message"`
}

// ProgressFunc receives progress synchronously; it is never buffered.
type ProgressFunc func(Progress)

// percentage returns completed as a whole percentage of total.
func percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return completed * 100 / total
}

// tracker turns per-project sync events into Progress reports.
type tracker struct {
	emit  ProgressFunc
	total int
	done  int
}

func (t *tracker) report(p Progress) {
	if t.emit != nil {
		t.emit(p)
	}
}

func (t *tracker) phase(phase Phase, message string) {
	t.report(Progress{
		Phase:             phase,
		TotalProjects:     t.total,
		CompletedProjects: t.done,
		Percentage:        percentage(t.done, t.total),
		Message:           message,
	})
}

// onSync handles a sync.ProgressEvent.
func (t *tracker) onSync(ev sync.ProgressEvent) {
	t.total, t.done = ev.Total, ev.Completed
	if ev.Project == "" {
		t.phase(PhaseSyncing, "syncing projects")
		return
	}
	t.report(Progress{
		Phase:             PhaseSyncing,
		CurrentProject:    ev.Project,
		TotalProjects:     t.total,
		CompletedProjects: t.done,
		Percentage:        percentage(t.done, t.total),
		Message:           "synced " + ev.Project,
	})
}
