package planner

import "fmt"

// ConflictStrategy selects how a file modified on both sides is resolved.
type ConflictStrategy string

const (
	// StrategyLocal always pushes the local version.
	StrategyLocal ConflictStrategy = "local"

	// StrategyRemote always overwrites the local file with the remote version.
	StrategyRemote ConflictStrategy = "remote"

	// StrategyNewer keeps whichever side was modified last; ties keep remote.
	StrategyNewer ConflictStrategy = "newer"

	// StrategyPrompt leaves the file untouched and only reports it.
	StrategyPrompt ConflictStrategy = "prompt"
)

// DefaultStrategy is used when a workspace has no strategy configured.
const DefaultStrategy = StrategyRemote

// IsValid returns true if the strategy is recognized.
func (s ConflictStrategy) IsValid() bool {
	switch s {
	case StrategyLocal, StrategyRemote, StrategyNewer, StrategyPrompt:
		return true
	default:
		return false
	}
}

// String returns the string representation of the strategy.
func (s ConflictStrategy) String() string {
	return string(s)
}

// Description returns a human-readable description of the strategy.
func (s ConflictStrategy) Description() string {
	switch s {
	case StrategyLocal:
		return "Upload the local version"
	case StrategyRemote:
		return "Overwrite the local file with the remote version"
	case StrategyNewer:
		return "Keep the most recently modified side (ties keep remote)"
	case StrategyPrompt:
		return "Leave the file untouched and report it as a conflict"
	default:
		return "Unknown strategy"
	}
}

// AllStrategies returns all supported conflict strategies.
func AllStrategies() []ConflictStrategy {
	return []ConflictStrategy{StrategyLocal, StrategyRemote, StrategyNewer, StrategyPrompt}
}

// ParseConflictStrategy validates s. An empty string yields DefaultStrategy.
func ParseConflictStrategy(s string) (ConflictStrategy, error) {
	if s == "" {
		return DefaultStrategy, nil
	}
	strategy := ConflictStrategy(s)
	if !strategy.IsValid() {
		return "", fmt.Errorf("invalid conflict strategy %q (expected one of %v)", s, AllStrategies())
	}
	return strategy, nil
}
