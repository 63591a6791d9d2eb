package planner

import "time"

// ProjectPlan is the ordered set of transfers for one matched project.
type ProjectPlan struct {
	// Operations is the ordered list of operations to execute
	Operations []Operation

	// Conflicts is the number of files that were modified on both sides
	Conflicts int
}

// Operation is a single file transfer.
type Operation struct {
	// Type is the operation type: "download", "upload" or "skip"
	Type string

	// FileName is the project-relative file name (AGENTS.md or a knowledge file)
	FileName string

	// Conflict marks operations that came from conflict resolution
	Conflict bool

	// Reason explains why the operation was chosen
	Reason string
}

// Operation type constants
const (
	OpDownload = "download"
	OpUpload   = "upload"
	OpSkip     = "skip"
)

// NewProjectPlan creates a new empty ProjectPlan.
func NewProjectPlan() *ProjectPlan {
	return &ProjectPlan{
		Operations: []Operation{},
	}
}

// AddOperation adds an operation to the plan.
func (p *ProjectPlan) AddOperation(op Operation) {
	p.Operations = append(p.Operations, op)
}

// Count returns the number of operations of the given type.
func (p *ProjectPlan) Count(opType string) int {
	n := 0
	for _, op := range p.Operations {
		if op.Type == opType {
			n++
		}
	}
	return n
}

// HasTransfers returns true if the plan moves at least one file.
func (p *ProjectPlan) HasTransfers() bool {
	return p.Count(OpDownload)+p.Count(OpUpload) > 0
}

// TimeLookup returns the local modification time and the remote update time
// of a modified file. Unknown times are returned as the zero time.
type TimeLookup func(fileName string) (localModTime, remoteUpdatedAt time.Time)

// Plan builds the operations for a matched project. Remote-only files are
// downloaded and local-only files uploaded without counting as conflicts;
// each modified file is a conflict resolved by the strategy. times is only
// consulted for StrategyNewer and may be nil otherwise.
func (c *ConflictResolver) Plan(remoteOnly, localOnly, modified []string, times TimeLookup) *ProjectPlan {
	plan := NewProjectPlan()

	for _, name := range remoteOnly {
		plan.AddOperation(Operation{Type: OpDownload, FileName: name, Reason: "only on remote"})
	}
	for _, name := range localOnly {
		plan.AddOperation(Operation{Type: OpUpload, FileName: name, Reason: "only on local"})
	}

	for _, name := range modified {
		var local, remote time.Time
		if c.strategy == StrategyNewer && times != nil {
			local, remote = times(name)
		}
		res := c.Resolve(local, remote)
		plan.Conflicts++
		plan.AddOperation(Operation{
			Type:     res.Type,
			FileName: name,
			Conflict: true,
			Reason:   res.Reason,
		})
	}

	return plan
}
