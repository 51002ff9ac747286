// Package tracker classifies each observed map against the previous one.
package tracker

import (
	"sort"
)

// Transition is the outcome of comparing the current map with the last one.
type Transition int

const (
	FirstObservation Transition = iota
	Unchanged
	ChangedToFavorite
	ChangedToOther
)

func (t Transition) String() string {
	switch t {
	case FirstObservation:
		return "first_observation"
	case Unchanged:
		return "unchanged"
	case ChangedToFavorite:
		return "changed_to_favorite"
	case ChangedToOther:
		return "changed_to_other"
	default:
		return "unknown"
	}
}

// Notifies reports whether the transition raises a notification. Every
// variant except Unchanged does; favorites only alter the presentation.
func (t Transition) Notifies() bool {
	return t != Unchanged
}

// Favorite reports whether the favorite presentation applies.
func (t Transition) Favorite() bool {
	return t == ChangedToFavorite
}

// Classify is the decision table for one observation.
func Classify(lastMap string, seen bool, currentMap string, favorite bool) Transition {
	switch {
	case !seen:
		return FirstObservation
	case lastMap == currentMap:
		return Unchanged
	case favorite:
		return ChangedToFavorite
	default:
		return ChangedToOther
	}
}

// FavoriteSet is the read-only set of favorite map names.
type FavoriteSet map[string]struct{}

func NewFavoriteSet(names ...string) FavoriteSet {
	set := make(FavoriteSet, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}

func (s FavoriteSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the favorites sorted.
func (s FavoriteSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// State holds the last observed map. The zero value means nothing has been
// observed yet.
type State struct {
	lastMap string
	seen    bool
}

func (s State) LastMap() (string, bool) {
	return s.lastMap, s.seen
}

// Observe classifies currentMap and returns the state to carry into the next
// tick. The receiver is not modified.
func (s State) Observe(currentMap string, favorites FavoriteSet) (Transition, State) {
	t := Classify(s.lastMap, s.seen, currentMap, favorites.Contains(currentMap))
	return t, State{lastMap: currentMap, seen: true}
}
