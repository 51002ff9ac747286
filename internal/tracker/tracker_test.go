package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_DecisionTable(t *testing.T) {
	tests := []struct {
		name     string
		last     string
		seen     bool
		current  string
		favorite bool
		want     Transition
	}{
		{"nothing seen", "", false, "nightmare", false, FirstObservation},
		{"nothing seen, favorite", "", false, "babel", true, FirstObservation},
		{"same map", "nightmare", true, "nightmare", false, Unchanged},
		{"same favorite map", "babel", true, "babel", true, Unchanged},
		{"change to favorite", "nightmare", true, "babel", true, ChangedToFavorite},
		{"change to other", "babel", true, "arena", false, ChangedToOther},
		{"empty map name seen", "", true, "", false, Unchanged},
		{"change from empty map", "", true, "arena", false, ChangedToOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.last, tt.seen, tt.current, tt.favorite))
		})
	}
}

func TestClassify_DifferentMapsAlwaysNotify(t *testing.T) {
	maps := []string{"nightmare", "babel", "arena", "hallway", ""}
	for _, last := range maps {
		for _, current := range maps {
			for _, favorite := range []bool{false, true} {
				got := Classify(last, true, current, favorite)
				if last == current {
					assert.Equal(t, Unchanged, got)
					continue
				}
				assert.True(t, got.Notifies(), "%q -> %q", last, current)
				assert.Equal(t, favorite, got.Favorite(), "%q -> %q", last, current)
			}
		}
	}
}

func TestTransition_String(t *testing.T) {
	assert.Equal(t, "first_observation", FirstObservation.String())
	assert.Equal(t, "unchanged", Unchanged.String())
	assert.Equal(t, "changed_to_favorite", ChangedToFavorite.String())
	assert.Equal(t, "changed_to_other", ChangedToOther.String())
	assert.Equal(t, "unknown", Transition(42).String())
}

func TestState_Scenarios(t *testing.T) {
	var state State
	_, seen := state.LastMap()
	require.False(t, seen)

	// A: first observation with no favorites
	tr, state := state.Observe("nightmare", NewFavoriteSet())
	require.Equal(t, FirstObservation, tr)
	require.True(t, tr.Notifies())
	require.False(t, tr.Favorite())
	last, _ := state.LastMap()
	require.Equal(t, "nightmare", last)

	favorites := NewFavoriteSet("babel")

	// B: unchanged
	tr, state = state.Observe("nightmare", favorites)
	require.Equal(t, Unchanged, tr)
	require.False(t, tr.Notifies())

	// C: change to a favorite
	tr, state = state.Observe("babel", favorites)
	require.Equal(t, ChangedToFavorite, tr)
	require.True(t, tr.Favorite())
	last, _ = state.LastMap()
	require.Equal(t, "babel", last)

	// D: change away from the favorite
	tr, state = state.Observe("arena", favorites)
	require.Equal(t, ChangedToOther, tr)
	require.False(t, tr.Favorite())
	last, _ = state.LastMap()
	require.Equal(t, "arena", last)
}

func TestState_FirstObservationOfFavorite(t *testing.T) {
	tr, _ := State{}.Observe("babel", NewFavoriteSet("babel"))
	assert.Equal(t, FirstObservation, tr)
}

func TestState_Idempotent(t *testing.T) {
	favorites := NewFavoriteSet("babel")
	for _, m := range []string{"nightmare", "babel"} {
		_, state := State{}.Observe(m, favorites)
		tr, next := state.Observe(m, favorites)
		assert.Equal(t, Unchanged, tr)
		assert.Equal(t, state, next)
	}
}

func TestState_ObserveDoesNotMutateReceiver(t *testing.T) {
	_, state := State{}.Observe("nightmare", nil)
	_, _ = state.Observe("babel", nil)

	last, seen := state.LastMap()
	assert.True(t, seen)
	assert.Equal(t, "nightmare", last)
}

func TestFavoriteSet(t *testing.T) {
	set := NewFavoriteSet("babel", "", "arena", "babel")
	assert.Len(t, set, 2)
	assert.True(t, set.Contains("babel"))
	assert.False(t, set.Contains("Babel"))
	assert.False(t, set.Contains(""))
	assert.Equal(t, []string{"arena", "babel"}, set.Names())

	var none FavoriteSet
	assert.False(t, none.Contains("babel"))
	assert.Empty(t, none.Names())
}
