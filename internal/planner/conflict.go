package planner

import "time"

// Resolution is the outcome of resolving one conflicting file.
type Resolution struct {
	// Type is OpUpload, OpDownload or OpSkip
	Type string

	// Reason is a human-readable explanation of the decision
	Reason string
}

// ConflictResolver resolves files that differ on both sides.
type ConflictResolver struct {
	strategy ConflictStrategy
}

// NewConflictResolver creates a new ConflictResolver for strategy.
func NewConflictResolver(strategy ConflictStrategy) *ConflictResolver {
	return &ConflictResolver{strategy: strategy}
}

// Strategy returns the strategy the resolver applies.
func (c *ConflictResolver) Strategy() ConflictStrategy {
	return c.strategy
}

// Resolve decides the direction for a modified file.
//
// localModTime is the local file's modification time. remoteUpdatedAt is the
// remote record's update time and is the zero time when the remote side does
// not report one; a missing remote timestamp counts as the epoch, so under
// StrategyNewer the local side wins in that case. Times are compared at
// millisecond precision.
func (c *ConflictResolver) Resolve(localModTime, remoteUpdatedAt time.Time) Resolution {
	switch c.strategy {
	case StrategyLocal:
		return Resolution{Type: OpUpload, Reason: "keeping local version (conflict strategy)"}

	case StrategyRemote:
		return Resolution{Type: OpDownload, Reason: "using remote version (conflict strategy)"}

	case StrategyNewer:
		local := epochMillis(localModTime)
		remote := epochMillis(remoteUpdatedAt)
		if local > remote {
			return Resolution{Type: OpUpload, Reason: "local is newer"}
		}
		if remote > local {
			return Resolution{Type: OpDownload, Reason: "remote is newer"}
		}
		return Resolution{Type: OpDownload, Reason: "identical modification time, keeping remote"}

	default:
		return Resolution{Type: OpSkip, Reason: "manual resolution required"}
	}
}

func epochMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
