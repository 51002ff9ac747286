package servers

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// ServerDescriptor is one server's entry in the directory.
type ServerDescriptor struct {
	Name           string          `json:"name"`
	Map            string          `json:"map"`
	PlayersCurrent int             `json:"players_current"`
	PlayersMax     int             `json:"players_max"`
	Country        string          `json:"country,omitempty"`
	GameMode       string          `json:"game_mode,omitempty"`
	GameVersion    string          `json:"game_version,omitempty"`
	Identifier     string          `json:"identifier,omitempty"`
	Latency        json.RawMessage `json:"latency,omitempty"`
	LastUpdated    json.RawMessage `json:"last_updated,omitempty"`
}

// Players formats the player count the way the console status line shows it.
func (d *ServerDescriptor) Players() string {
	return fmt.Sprintf("%2d/%2d", d.PlayersCurrent, d.PlayersMax)
}

// wireDescriptor mirrors ServerDescriptor with the fields the watcher relies on
// held as pointers, so absence can be told apart from zero values.
type wireDescriptor struct {
	Name           *string         `json:"name"`
	Map            *string         `json:"map"`
	PlayersCurrent *int            `json:"players_current"`
	PlayersMax     *int            `json:"players_max"`
	Country        string          `json:"country"`
	GameMode       string          `json:"game_mode"`
	GameVersion    string          `json:"game_version"`
	Identifier     string          `json:"identifier"`
	Latency        json.RawMessage `json:"latency"`
	LastUpdated    json.RawMessage `json:"last_updated"`
}

func (w *wireDescriptor) descriptor() (*ServerDescriptor, error) {
	var missing []string
	if w.Name == nil {
		missing = append(missing, "name")
	}
	if w.Map == nil {
		missing = append(missing, "map")
	}
	if w.PlayersCurrent == nil {
		missing = append(missing, "players_current")
	}
	if w.PlayersMax == nil {
		missing = append(missing, "players_max")
	}
	if len(missing) > 0 {
		return nil, errors.Errorf("missing fields %v", missing)
	}

	return &ServerDescriptor{
		Name:           *w.Name,
		Map:            *w.Map,
		PlayersCurrent: *w.PlayersCurrent,
		PlayersMax:     *w.PlayersMax,
		Country:        w.Country,
		GameMode:       w.GameMode,
		GameVersion:    w.GameVersion,
		Identifier:     w.Identifier,
		Latency:        w.Latency,
		LastUpdated:    w.LastUpdated,
	}, nil
}
