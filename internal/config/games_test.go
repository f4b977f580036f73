package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGamesCSV = `Verified,Name,Series,Developer,Publisher,DatePublished,UdpPorts
Yes,Unreal Tournament 2004,Unreal,Epic Games,Atari,2004-03-16,"7777,7778,10777"
Yes,Warcraft III,Warcraft,Blizzard Entertainment,Blizzard Entertainment,2002-07-03,6112
No,Quake III Arena,Quake,id Software,Activision,1999-12-02,"27960,27961"
Yes,Age of Empires II,Age of Empires,Ensemble Studios,Microsoft,1999-09-30,"2300,2301,6073"
`

func writeGames(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lan-games.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadGames(t *testing.T) {
	games, err := LoadGames(writeGames(t, sampleGamesCSV))
	require.NoError(t, err)
	require.Len(t, games, 4)

	ut := games[0]
	assert.True(t, ut.Verified)
	assert.Equal(t, "Unreal Tournament 2004", ut.Name)
	assert.Equal(t, "Epic Games", ut.Developer)
	assert.Equal(t, []uint16{7777, 7778, 10777}, ut.UDPPorts)

	assert.False(t, games[2].Verified)
}

func TestLoadGamesMissingFile(t *testing.T) {
	_, err := LoadGames(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestLoadGamesBadPort(t *testing.T) {
	csv := "Verified,Name,Series,Developer,Publisher,DatePublished,UdpPorts\n" +
		"Yes,Broken Game,,,,,\"7777,oops\"\n"
	_, err := LoadGames(writeGames(t, csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UdpPorts")
}

func TestLoadGamesMissingColumn(t *testing.T) {
	csv := "Name,Series\nSome Game,None\n"
	_, err := LoadGames(writeGames(t, csv))
	require.Error(t, err)
}

func TestVerifiedGames(t *testing.T) {
	games, err := LoadGames(writeGames(t, sampleGamesCSV))
	require.NoError(t, err)

	verified := VerifiedGames(games)
	require.Len(t, verified, 3)
	for _, g := range verified {
		assert.True(t, g.Verified)
	}
}

func TestWatchedPorts(t *testing.T) {
	games, err := LoadGames(writeGames(t, sampleGamesCSV))
	require.NoError(t, err)

	verifiedOnly := WatchedPorts(games, true)
	assert.Equal(t, []uint16{2300, 2301, 6073, 6112, 7777, 7778, 10777}, verifiedOnly)

	all := WatchedPorts(games, false)
	assert.Contains(t, all, uint16(27960))
	assert.Contains(t, all, uint16(27961))
}

func TestWatchedPortsDeduplicates(t *testing.T) {
	csv := "Verified,Name,Series,Developer,Publisher,DatePublished,UdpPorts\n" +
		"Yes,Game A,,,,,6112\n" +
		"Yes,Game B,,,,,6112\n"
	games, err := LoadGames(writeGames(t, csv))
	require.NoError(t, err)

	assert.Equal(t, []uint16{6112}, WatchedPorts(games, true))
}
