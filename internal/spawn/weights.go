// Package spawn decides where hunters may appear and spawns them.
package spawn

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
)

// LevelSet is the default group of levels a hunter spawns on.
type LevelSet string

const (
	SetAll     LevelSet = "all"
	SetNone    LevelSet = "none"
	SetModded  LevelSet = "modded"
	SetVanilla LevelSet = "vanilla"
)

// VanillaLevels are the levels shipped with the base game.
var VanillaLevels = []string{
	"experimentation", "assurance", "vow", "offense", "march",
	"adamance", "rend", "dine", "titan", "artifice", "embrion",
}

// ParseLevelSet parses a level set name case-insensitively.
func ParseLevelSet(s string) (LevelSet, error) {
	switch set := LevelSet(strings.ToLower(strings.TrimSpace(s))); set {
	case SetAll, SetNone, SetModded, SetVanilla:
		return set, nil
	case "":
		return SetAll, nil
	default:
		return "", fmt.Errorf("unknown level set %q", s)
	}
}

// normalizeLevel keeps only lowercase letters, so "41 Experimentation"
// and "experimentation" compare equal.
func normalizeLevel(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseLevelWeights parses comma separated name:weight pairs. Names are
// normalized; malformed entries are logged and skipped.
func ParseLevelWeights(s string) map[string]int {
	weights := make(map[string]int)
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, raw, ok := strings.Cut(entry, ":")
		level := normalizeLevel(name)
		if !ok || level == "" {
			slog.Warn("skipping malformed level weight", "entry", entry)
			continue
		}
		weight, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || weight < 0 {
			slog.Warn("skipping malformed level weight", "entry", entry, "error", err)
			continue
		}
		weights[level] = weight
	}
	return weights
}

// Weights resolves the spawn weight of a level. Database rows win over
// configured overrides, which win over the level set default.
type Weights struct {
	set       LevelSet
	base      int
	overrides map[string]int
	rows      map[string]int
}

// NewWeights builds weights from the level set, the default weight and the
// override string.
func NewWeights(set LevelSet, base int, overrides string) *Weights {
	return &Weights{
		set:       set,
		base:      max(0, base),
		overrides: ParseLevelWeights(overrides),
		rows:      map[string]int{},
	}
}

// SetRows installs weights loaded from storage.
func (w *Weights) SetRows(rows map[string]int) {
	w.rows = make(map[string]int, len(rows))
	for name, weight := range rows {
		if level := normalizeLevel(name); level != "" {
			w.rows[level] = weight
		}
	}
}

// For returns the weight of level. Zero means the hunter never spawns there.
func (w *Weights) For(level string) int {
	name := normalizeLevel(level)
	if weight, ok := lookup(w.rows, name); ok {
		return weight
	}
	if weight, ok := lookup(w.overrides, name); ok {
		return weight
	}

	vanilla := isVanilla(name)
	switch w.set {
	case SetAll:
		return w.base
	case SetVanilla:
		if vanilla {
			return w.base
		}
	case SetModded:
		if !vanilla {
			return w.base
		}
	}
	return 0
}

// lookup matches exactly, then by the longest contained key
// ("experimentationlevel" matches "experimentation").
func lookup(weights map[string]int, name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	if weight, ok := weights[name]; ok {
		return weight, true
	}
	best, found := "", false
	for key := range weights {
		if strings.Contains(name, key) && len(key) > len(best) {
			best, found = key, true
		}
	}
	return weights[best], found
}

func isVanilla(name string) bool {
	for _, v := range VanillaLevels {
		if strings.Contains(name, v) {
			return true
		}
	}
	return false
}
