package config

import (
	"encoding/csv"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
)

// DefaultGamesFile is the bundled LAN game database.
const DefaultGamesFile = "resources/lan-games-db/lan-games.csv"

// Game is one row of the LAN game database.
type Game struct {
	Verified      bool
	Name          string
	Series        string
	Developer     string
	Publisher     string
	DatePublished string
	UDPPorts      []uint16
}

// LoadGames reads the CSV game database at path. A malformed UdpPorts value
// is a configuration error.
func LoadGames(path string) ([]Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading game database: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing game database %s: %w", path, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("game database %s is empty", path)
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	for _, required := range []string{"Verified", "Name", "UdpPorts"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("game database %s: missing column %q", path, required)
		}
	}
	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var games []Game
	for _, record := range records[1:] {
		ports, err := parsePorts(field(record, "UdpPorts"))
		if err != nil {
			return nil, fmt.Errorf("game database %s, game %q: %w", path, field(record, "Name"), err)
		}
		games = append(games, Game{
			Verified:      field(record, "Verified") == "Yes",
			Name:          field(record, "Name"),
			Series:        field(record, "Series"),
			Developer:     field(record, "Developer"),
			Publisher:     field(record, "Publisher"),
			DatePublished: field(record, "DatePublished"),
			UDPPorts:      ports,
		})
	}
	return games, nil
}

func parsePorts(value string) ([]uint16, error) {
	var ports []uint16
	for _, part := range strings.Split(value, ",") {
		port, err := strconv.ParseUint(strings.TrimSpace(part), 10, 16)
		if err != nil {
			return nil, fmt.Errorf("unsupported value in column 'UdpPorts': %q", part)
		}
		ports = append(ports, uint16(port))
	}
	return ports, nil
}

// VerifiedGames returns only the games with verified LAN support.
func VerifiedGames(games []Game) []Game {
	var out []Game
	for _, g := range games {
		if g.Verified {
			out = append(out, g)
		}
	}
	return out
}

// WatchedPorts returns the sorted union of UDP ports across the given games,
// restricted to verified games when verifiedOnly is set.
func WatchedPorts(games []Game, verifiedOnly bool) []uint16 {
	if verifiedOnly {
		games = VerifiedGames(games)
	}
	seen := make(map[uint16]struct{})
	var ports []uint16
	for _, g := range games {
		for _, p := range g.UDPPorts {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			ports = append(ports, p)
		}
	}
	slices.Sort(ports)
	return ports
}
