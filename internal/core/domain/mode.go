package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode is what the operator asked the pipeline to do.
type Mode string

const (
	// ModeCollect fetches, archives and syncs a category.
	ModeCollect Mode = "collect"
	// ModeArchive packs the snapshots of a category.
	ModeArchive Mode = "archive"
	// ModeRestore unpacks an archive and syncs it into the store.
	ModeRestore Mode = "restore"
	// ModeSync loads snapshots already on disk into the store.
	ModeSync Mode = "sync"
)

// AllModes returns all supported modes in selector order.
func AllModes() []Mode {
	return []Mode{ModeCollect, ModeRestore, ModeArchive, ModeSync}
}

// ParseMode resolves a mode from its name or selector index.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	all := AllModes()
	if idx, err := strconv.Atoi(s); err == nil {
		if idx >= 0 && idx < len(all) {
			return all[idx], nil
		}
		return "", fmt.Errorf("%w: index %d", ErrUnknownMode, idx)
	}
	for _, m := range all {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Description returns a human-readable description.
func (m Mode) Description() string {
	switch m {
	case ModeCollect:
		return "Collect, archive and sync"
	case ModeArchive:
		return "Create archive"
	case ModeRestore:
		return "Restore archive and sync"
	case ModeSync:
		return "Sync snapshots into the store"
	default:
		return string(m)
	}
}
