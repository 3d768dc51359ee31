package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"leaguectl"}, args...))
	return out.String(), err
}

func writeRoster(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const fourPlayers = `
division: Tuesday Open
match_time: "19:30"
players:
  - {first_name: Ava, last_name: Lindqvist, rating: 700}
  - {first_name: Ben, last_name: Okafor}
  - {first_name: Carla, last_name: Reyes, rating: 585}
  - {first_name: Dmitri, last_name: Volkov, rating: 720}
`

func TestWeightCommand(t *testing.T) {
	t.Setenv("LEAGUE_RULES_PATH", "")
	out, err := runCLI(t, "weight", "--a", "700", "--b", "600")
	require.NoError(t, err)
	require.Equal(t, "A (700) races to 8, B (600) races to 7\n", out)
}

func TestRatingChangeCommand(t *testing.T) {
	t.Setenv("LEAGUE_RULES_PATH", "")
	out, err := runCLI(t, "rating-change", "--winner-games", "0", "--loser-games", "0", "--balls", "2")
	require.NoError(t, err)
	require.Equal(t, "winner +20, loser -20\n", out)

	_, err = runCLI(t, "rating-change", "--balls", "-1")
	require.Error(t, err)
}

func TestScheduleCommand(t *testing.T) {
	t.Setenv("LEAGUE_RULES_PATH", "")
	roster := writeRoster(t, fourPlayers)
	book := filepath.Join(t.TempDir(), "out.xlsx")

	out, err := runCLI(t, "schedule", "--roster", roster, "--start", "2026-03-03", "--xlsx", book)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// header + 12 double round robin fixtures + "wrote" line
	require.Len(t, lines, 14)
	require.Contains(t, lines[1], "2026-03-03")
	require.Contains(t, lines[1], "19:30")
	require.Contains(t, out, "Ben Okafor (600)")

	f, err := excelize.OpenFile(book)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Tuesday Open")
	require.NoError(t, err)
	require.Len(t, rows, 13)
}

func TestScheduleCommand_Single(t *testing.T) {
	t.Setenv("LEAGUE_RULES_PATH", "")
	roster := writeRoster(t, fourPlayers)

	out, err := runCLI(t, "schedule", "--roster", roster, "--start", "2026-03-03", "--single")
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 7)
}

func TestScheduleCommand_RejectsBadRoster(t *testing.T) {
	t.Setenv("LEAGUE_RULES_PATH", "")
	tests := []struct {
		name string
		body string
	}{
		{name: "one player", body: "players:\n  - {first_name: A, last_name: B}\n"},
		{name: "bad time", body: "match_time: 7pm\nplayers:\n  - {first_name: A, last_name: B}\n  - {first_name: C, last_name: D}\n"},
		{name: "missing last name", body: "players:\n  - {first_name: A}\n  - {first_name: C, last_name: D}\n"},
		{name: "not yaml", body: "players: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, "schedule", "--roster", writeRoster(t, tt.body), "--start", "2026-03-03")
			require.Error(t, err)
		})
	}
}

func TestTokenCommand(t *testing.T) {
	out, err := runCLI(t, "token", "--secret", "s3cret")
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(strings.TrimSpace(out), "."))
}
