package state

import (
	"encoding/json"
	"fmt"
	"path"

	"github.com/danieljhkim/worksync/internal/fsops"
)

// LoadProjectMetadata reads the sidecar in folder. A missing or undecodable
// sidecar returns nil and no error; the sidecar is advisory only.
func LoadProjectMetadata(tree fsops.LocalTree, folder string) (*ProjectMetadata, error) {
	data, ok, err := tree.ReadText(path.Join(folder, MetaDir), MetadataFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to read project metadata: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var meta ProjectMetadata
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, nil
	}
	return &meta, nil
}

// SaveProjectMetadata writes the sidecar into folder.
func SaveProjectMetadata(tree fsops.LocalTree, folder string, meta *ProjectMetadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project metadata: %w", err)
	}

	if err := tree.WriteText(path.Join(folder, MetaDir), MetadataFileName, string(data)+"\n"); err != nil {
		return fmt.Errorf("failed to write project metadata: %w", err)
	}
	return nil
}
