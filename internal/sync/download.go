package sync

import (
	"context"
	"fmt"
	"path"
	"sort"

	"github.com/danieljhkim/worksync/internal/hash"
	"github.com/danieljhkim/worksync/internal/remote"
)

// Download pulls every remote project into the workspace. The remote side
// is authoritative; unchanged content is never rewritten.
//
// The returned result is never nil. A non-nil error means the pass could
// not start (the project listing failed) or was canceled.
func (s *Syncer) Download(ctx context.Context, req *DownloadRequest) (*SyncResult, error) {
	r, err := s.newRun(req.OrgID, ModeDownload, req.DryRun, req.Exact, req.Progress)
	if err != nil {
		return NewSyncResult(ModeDownload, req.DryRun), err
	}

	projects, err := s.remote.ListProjects(ctx, req.OrgID)
	if err != nil {
		return r.result, fmt.Errorf("failed to list remote projects: %w", err)
	}
	r.start(len(projects))

	for _, p := range projects {
		if err := ctx.Err(); err != nil {
			return r.result, err
		}

		pr := ProjectResult{ID: p.ID, Name: p.Name}
		folder := s.resolver.Resolve(p.ID, p.Name, r.mapping)
		pr.Folder = folder
		outcome, err := s.downloadProject(ctx, r, p, folder)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return r.result, ctxErr
			}
			s.logger.Warn("project sync failed", "project", p.Name, "error", err)
			pr.Outcome, pr.Error = OutcomeFailed, err.Error()
		} else {
			pr.Outcome = outcome
		}
		r.finishProject(pr)
	}

	return r.result, nil
}

// downloadProject writes one remote project into folder and binds it.
// A project is created when it had no folder binding before this pass.
//
// An estimating dry run stops after the binding: a missing folder counts
// as created and an existing one as updated, without reading remote
// content.
func (s *Syncer) downloadProject(ctx context.Context, r *run, p remote.Project, folder string) (Outcome, error) {
	_, mapped := r.mapping[p.ID]
	if err := s.bindFolder(r, p, folder); err != nil {
		return OutcomeFailed, err
	}

	existed, err := s.tree.DirExists(folder)
	if err != nil {
		return OutcomeFailed, err
	}
	if r.dryRun && !r.exact {
		if existed {
			return OutcomeUpdated, nil
		}
		return OutcomeCreated, nil
	}
	if !existed && !r.dryRun {
		if err := s.tree.EnsureDir(folder); err != nil {
			return OutcomeFailed, err
		}
	}

	fails := &fileErrors{projectID: p.ID, project: p.Name}
	writes := 0

	instructions, err := s.remote.GetProjectInstructions(ctx, r.orgID, p.ID)
	if err != nil {
		fails.add(InstructionsFileName, err)
	} else if instructions.Content != "" {
		current, ok, err := s.tree.ReadText(folder, InstructionsFileName)
		switch {
		case err != nil:
			fails.add(InstructionsFileName, err)
		case !ok || current != instructions.Content:
			if err := s.write(r, folder, InstructionsFileName, instructions.Content); err != nil {
				fails.add(InstructionsFileName, err)
			} else {
				writes++
			}
		}
	}

	files, err := s.remote.GetProjectFiles(ctx, r.orgID, p.ID)
	if err != nil {
		fails.add(ContextDir, fmt.Errorf("failed to fetch project files: %w", err))
		return OutcomeFailed, fails.err()
	}
	sort.Slice(files, func(i, j int) bool { return files[i].FileName < files[j].FileName })

	contextDir := path.Join(folder, ContextDir)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return OutcomeFailed, err
		}
		if f.FileName == InstructionsFileName {
			continue
		}
		wrote, err := s.downloadFile(r, contextDir, f)
		if err != nil {
			fails.add(f.FileName, err)
			continue
		}
		if wrote {
			writes++
		}
	}

	if r.settings.SyncChats {
		s.exportChats(ctx, r, p, folder, fails)
	}

	if err := fails.err(); err != nil {
		return OutcomeFailed, err
	}

	outcome := OutcomeSkipped
	switch {
	case !mapped:
		outcome = OutcomeCreated
	case writes > 0:
		outcome = OutcomeUpdated
	}
	s.writeMetadata(r, p, folder, outcome, fails)
	if err := fails.err(); err != nil {
		return OutcomeFailed, err
	}
	return outcome, nil
}

// downloadFile writes a knowledge file unless the local copy hashes the same.
func (s *Syncer) downloadFile(r *run, dir string, f remote.FileRecord) (bool, error) {
	if err := s.tree.ValidateName(f.FileName); err != nil {
		return false, err
	}

	current, ok, err := s.tree.ReadText(dir, f.FileName)
	if err != nil {
		return false, err
	}
	if ok && hash.Equal(s.hasher, current, f.Content) {
		return false, nil
	}

	if err := s.write(r, dir, f.FileName, f.Content); err != nil {
		return false, err
	}
	return true, nil
}

// exportChats overwrites the transcript of every conversation in the project.
// Transcripts are exports, so they do not count as project changes.
func (s *Syncer) exportChats(ctx context.Context, r *run, p remote.Project, folder string, fails *fileErrors) {
	convs, err := s.projectConversations(ctx, r, p.ID)
	if err != nil {
		fails.add(ChatsDir, fmt.Errorf("failed to list conversations: %w", err))
		return
	}

	chatsDir := path.Join(folder, ChatsDir)
	for _, summary := range convs {
		if ctx.Err() != nil {
			return
		}
		name := TranscriptFileName(summary)

		conv, err := s.remote.GetConversation(ctx, r.orgID, summary.ID)
		if err != nil {
			fails.add(name, err)
			continue
		}
		if err := s.write(r, chatsDir, name, RenderTranscript(conv)); err != nil {
			fails.add(name, err)
		}
	}
}
