package sync

import (
	"context"
	"fmt"

	"github.com/danieljhkim/worksync/internal/remote"
)

// matchedProject is a remote project whose resolved folder exists locally.
type matchedProject struct {
	project remote.Project
	folder  string
	snap    *snapshot
	err     error
}

// unmatchedProject is a remote project with no local folder.
type unmatchedProject struct {
	project remote.Project
	folder  string
}

// scan is the internal form of a WorkspaceDiff.
type scan struct {
	diff       *WorkspaceDiff
	matched    []matchedProject
	remoteOnly []unmatchedProject
}

// DiffWorkspace computes the workspace-wide diff without writing anything.
// New projects are resolved against a private copy of the project map, so
// two unmapped projects with the same name still get distinct folders.
func (s *Syncer) DiffWorkspace(ctx context.Context, orgID string) (*WorkspaceDiff, error) {
	cfg, err := s.config.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace config: %w", err)
	}

	sc, err := s.scanWorkspace(ctx, orgID, cfg.Clone().ProjectMap, true)
	if err != nil {
		return nil, err
	}
	return sc.diff, nil
}

// scanWorkspace lists both sides and compares every matched project.
// Resolved folders of new projects are added to mapping. When countFiles is
// set the file count of remote-only projects is fetched for display.
func (s *Syncer) scanWorkspace(ctx context.Context, orgID string, mapping map[string]string, countFiles bool) (*scan, error) {
	projects, err := s.remote.ListProjects(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote projects: %w", err)
	}

	folders, err := s.tree.ListDirs("")
	if err != nil {
		return nil, fmt.Errorf("failed to list local folders: %w", err)
	}

	unclaimed := make(map[string]bool, len(folders))
	for _, f := range folders {
		unclaimed[f] = true
	}

	sc := &scan{
		diff: &WorkspaceDiff{
			RemoteOnly: []RemoteProject{},
			LocalOnly:  []string{},
			Matched:    []ProjectDiff{},
		},
	}

	for _, p := range projects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		folder := s.resolver.Resolve(p.ID, p.Name, mapping)
		mapping[p.ID] = folder

		exists, err := s.tree.DirExists(folder)
		if err != nil {
			return nil, fmt.Errorf("failed to check folder %q: %w", folder, err)
		}

		if !exists {
			rp := RemoteProject{ID: p.ID, Name: p.Name, Folder: folder}
			if countFiles {
				files, err := s.remote.GetProjectFiles(ctx, orgID, p.ID)
				if err != nil {
					s.logger.Warn("failed to count remote files", "project", p.Name, "error", err)
				}
				rp.FileCount = len(files)
			}
			sc.diff.RemoteOnly = append(sc.diff.RemoteOnly, rp)
			sc.remoteOnly = append(sc.remoteOnly, unmatchedProject{project: p, folder: folder})
			continue
		}

		delete(unclaimed, folder)
		m := matchedProject{project: p, folder: folder}
		m.snap, m.err = s.compareProject(ctx, orgID, folder, p)

		pd := ProjectDiff{
			Name:            p.Name,
			ID:              p.ID,
			Folder:          folder,
			RemoteOnlyFiles: []string{},
			LocalOnlyFiles:  []string{},
			ModifiedFiles:   []string{},
		}
		if m.err != nil {
			pd.Error = m.err.Error()
		} else {
			pd = *m.snap.diff
		}
		sc.diff.Matched = append(sc.diff.Matched, pd)
		sc.matched = append(sc.matched, m)
	}

	for _, f := range folders {
		if unclaimed[f] {
			sc.diff.LocalOnly = append(sc.diff.LocalOnly, f)
		}
	}

	sc.diff.Summary = DiffSummary{
		RemoteProjects: len(projects),
		LocalFolders:   len(folders),
		Matched:        len(sc.diff.Matched),
		RemoteOnly:     len(sc.diff.RemoteOnly),
		LocalOnly:      len(sc.diff.LocalOnly),
	}
	return sc, nil
}
