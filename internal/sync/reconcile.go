package sync

import (
	"context"
	"fmt"

	"github.com/danieljhkim/worksync/internal/planner"
)

// Reconcile syncs both directions. Remote-only projects are downloaded,
// matched projects are reconciled file by file under the strategy, and
// local-only folders are left untouched.
//
// The returned result is never nil. A non-nil error means the workspace
// could not be diffed or the pass was canceled.
func (s *Syncer) Reconcile(ctx context.Context, req *ReconcileRequest) (*SyncResult, error) {
	strategy := req.Strategy
	if strategy == "" {
		strategy = planner.DefaultStrategy
	}
	if !strategy.IsValid() {
		return NewSyncResult(ModeBidirectional, req.DryRun), fmt.Errorf("invalid conflict strategy %q", strategy)
	}
	resolver := planner.NewConflictResolver(strategy)

	r, err := s.newRun(req.OrgID, ModeBidirectional, req.DryRun, req.Exact, req.Progress)
	if err != nil {
		return NewSyncResult(ModeBidirectional, req.DryRun), err
	}

	scanMapping := make(map[string]string, len(r.mapping))
	for id, folder := range r.mapping {
		scanMapping[id] = folder
	}
	sc, err := s.scanWorkspace(ctx, req.OrgID, scanMapping, false)
	if err != nil {
		return r.result, err
	}
	r.start(len(sc.remoteOnly) + len(sc.matched))

	for _, u := range sc.remoteOnly {
		if err := ctx.Err(); err != nil {
			return r.result, err
		}

		pr := ProjectResult{ID: u.project.ID, Name: u.project.Name, Folder: u.folder}
		_, err := s.downloadProject(ctx, r, u.project, u.folder)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return r.result, ctxErr
			}
			s.logger.Warn("project sync failed", "project", u.project.Name, "error", err)
			pr.Outcome, pr.Error = OutcomeFailed, err.Error()
		} else {
			pr.Outcome = OutcomeCreated
		}
		r.finishProject(pr)
	}

	for _, m := range sc.matched {
		if err := ctx.Err(); err != nil {
			return r.result, err
		}

		pr := ProjectResult{ID: m.project.ID, Name: m.project.Name, Folder: m.folder}
		outcome, err := s.reconcileProject(ctx, r, resolver, m)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return r.result, ctxErr
			}
			s.logger.Warn("project sync failed", "project", m.project.Name, "error", err)
			pr.Outcome, pr.Error = OutcomeFailed, err.Error()
		} else {
			pr.Outcome = outcome
		}
		r.finishProject(pr)
	}

	return r.result, nil
}

// reconcileProject applies the plan for one matched project.
func (s *Syncer) reconcileProject(ctx context.Context, r *run, resolver *planner.ConflictResolver, m matchedProject) (Outcome, error) {
	if m.err != nil {
		return OutcomeFailed, m.err
	}

	if err := s.bindFolder(r, m.project, m.folder); err != nil {
		return OutcomeFailed, err
	}

	fails := &fileErrors{projectID: m.project.ID, project: m.project.Name}

	diff := m.snap.diff
	if !diff.HasDifferences {
		s.writeMetadata(r, m.project, m.folder, OutcomeSkipped, fails)
		if err := fails.err(); err != nil {
			return OutcomeFailed, err
		}
		return OutcomeSkipped, nil
	}

	var times planner.TimeLookup
	if resolver.Strategy() == planner.StrategyNewer {
		times = s.fileTimes(m.snap)
	}
	plan := resolver.Plan(diff.RemoteOnlyFiles, diff.LocalOnlyFiles, diff.ModifiedFiles, times)
	r.result.Stats.Conflicts += plan.Conflicts

	transfers := 0

	for _, op := range plan.Operations {
		if err := ctx.Err(); err != nil {
			return OutcomeFailed, err
		}

		var err error
		switch op.Type {
		case planner.OpDownload:
			err = s.pullFile(r, m.snap, op.FileName)
		case planner.OpUpload:
			err = s.pushFile(ctx, r, m.project.ID, m.snap, op.FileName)
			if err == nil {
				r.result.Stats.Uploaded++
			}
		default:
			s.logger.Info("leaving file untouched", "project", m.project.Name, "file", op.FileName, "reason", op.Reason)
			continue
		}

		if err != nil {
			fails.add(op.FileName, err)
			continue
		}
		transfers++
	}

	if err := fails.err(); err != nil {
		return OutcomeFailed, err
	}

	outcome := OutcomeSkipped
	if transfers > 0 {
		outcome = OutcomeUpdated
	}
	s.writeMetadata(r, m.project, m.folder, outcome, fails)
	if err := fails.err(); err != nil {
		return OutcomeFailed, err
	}
	return outcome, nil
}

// pullFile writes the remote version of a file into the project folder.
func (s *Syncer) pullFile(r *run, snap *snapshot, name string) error {
	rf, ok := snap.remote[name]
	if !ok {
		return fmt.Errorf("no remote content")
	}
	if err := s.tree.ValidateName(name); err != nil {
		return err
	}
	return s.write(r, fileDir(snap.folder, name), name, rf.content)
}

// pushFile uploads the local version of a file. AGENTS.md replaces the
// project instructions; anything else is uploaded as a knowledge file.
func (s *Syncer) pushFile(ctx context.Context, r *run, projectID string, snap *snapshot, name string) error {
	content, ok := snap.local[name]
	if !ok {
		return fmt.Errorf("no local content")
	}
	if r.dryRun {
		return nil
	}

	if name == InstructionsFileName {
		return s.remote.UpdateProjectInstructions(ctx, r.orgID, projectID, content)
	}
	_, err := s.remote.UploadFile(ctx, r.orgID, projectID, name, content)
	return err
}
