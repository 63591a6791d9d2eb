package sync

import (
	"context"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/danieljhkim/worksync/internal/hash"
	"github.com/danieljhkim/worksync/internal/remote"
)

// remoteFile is one file of a project as seen on the remote side.
type remoteFile struct {
	content   string
	updatedAt time.Time
}

// snapshot holds both sides of a compared project so a pass can act on the
// diff without fetching again.
type snapshot struct {
	folder string
	remote map[string]remoteFile
	local  map[string]string
	diff   *ProjectDiff
}

// CompareProject computes the three-way file difference between a remote
// project and its local folder. The instructions are compared as the
// virtual file AGENTS.md; knowledge files are compared against the
// folder's context directory.
func (s *Syncer) CompareProject(ctx context.Context, orgID, folder string, project remote.Project) (*ProjectDiff, error) {
	snap, err := s.compareProject(ctx, orgID, folder, project)
	if err != nil {
		return nil, err
	}
	return snap.diff, nil
}

func (s *Syncer) compareProject(ctx context.Context, orgID, folder string, project remote.Project) (*snapshot, error) {
	remoteFiles, err := s.fetchRemoteFiles(ctx, orgID, project.ID)
	if err != nil {
		return nil, err
	}

	localFiles, err := s.readLocalFiles(folder)
	if err != nil {
		return nil, err
	}

	diff := &ProjectDiff{
		Name:            project.Name,
		ID:              project.ID,
		Folder:          folder,
		RemoteOnlyFiles: []string{},
		LocalOnlyFiles:  []string{},
		ModifiedFiles:   []string{},
	}

	for _, name := range sortedKeys(remoteFiles) {
		local, ok := localFiles[name]
		switch {
		case !ok:
			diff.RemoteOnlyFiles = append(diff.RemoteOnlyFiles, name)
		case !hash.Equal(s.hasher, local, remoteFiles[name].content):
			diff.ModifiedFiles = append(diff.ModifiedFiles, name)
		}
	}
	for _, name := range sortedKeys(localFiles) {
		if _, ok := remoteFiles[name]; !ok {
			diff.LocalOnlyFiles = append(diff.LocalOnlyFiles, name)
		}
	}
	diff.HasDifferences = len(diff.RemoteOnlyFiles)+len(diff.LocalOnlyFiles)+len(diff.ModifiedFiles) > 0

	return &snapshot{
		folder: folder,
		remote: remoteFiles,
		local:  localFiles,
		diff:   diff,
	}, nil
}

// fetchRemoteFiles returns the remote file set, with non-empty instructions
// included as AGENTS.md. A knowledge file named AGENTS.md is shadowed by
// the instructions.
func (s *Syncer) fetchRemoteFiles(ctx context.Context, orgID, projectID string) (map[string]remoteFile, error) {
	records, err := s.remote.GetProjectFiles(ctx, orgID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project files: %w", err)
	}

	files := make(map[string]remoteFile, len(records)+1)
	for _, rec := range records {
		if rec.FileName == InstructionsFileName {
			continue
		}
		files[rec.FileName] = remoteFile{content: rec.Content, updatedAt: rec.UpdatedAt}
	}

	instructions, err := s.remote.GetProjectInstructions(ctx, orgID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project instructions: %w", err)
	}
	if instructions.Content != "" {
		files[InstructionsFileName] = remoteFile{content: instructions.Content}
	}

	return files, nil
}

// readLocalFiles reads the folder's context files and its AGENTS.md.
func (s *Syncer) readLocalFiles(folder string) (map[string]string, error) {
	contextDir := path.Join(folder, ContextDir)
	names, err := s.tree.ListFiles(contextDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list local files: %w", err)
	}

	files := make(map[string]string, len(names)+1)
	for _, name := range names {
		if name == InstructionsFileName {
			continue
		}
		content, ok, err := s.tree.ReadText(contextDir, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read local file: %w", err)
		}
		if ok {
			files[name] = content
		}
	}

	instructions, ok, err := s.tree.ReadText(folder, InstructionsFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to read local instructions: %w", err)
	}
	if ok {
		files[InstructionsFileName] = instructions
	}

	return files, nil
}

// fileTimes returns the TimeLookup used by the newer strategy. A local file
// whose mtime cannot be read counts as the zero time.
func (s *Syncer) fileTimes(snap *snapshot) func(string) (time.Time, time.Time) {
	return func(name string) (time.Time, time.Time) {
		local, err := s.tree.ModTime(fileDir(snap.folder, name), name)
		if err != nil {
			s.logger.Debug("no local modification time", "file", name, "error", err)
			local = time.Time{}
		}
		return local, snap.remote[name].updatedAt
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
