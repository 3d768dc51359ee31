// Package export renders league schedules as spreadsheets for the league night score sheet.
package export

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/player"
	"github.com/xuri/excelize/v2"
)

const maxSheetNameLen = 31

var scheduleHeader = []any{
	"Date", "Time", "Home", "Home rating", "Home race", "Away", "Away rating", "Away race", "Completed", "Winner",
}

// ScheduleSheet is one worksheet, usually one division.
type ScheduleSheet struct {
	Name     string
	Fixtures []fixture.Fixture
	Players  map[int64]player.Player
}

// WriteSchedule writes one worksheet per sheet, fixtures ordered by date then id.
func WriteSchedule(w io.Writer, sheets []ScheduleSheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("at least one sheet is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(f.GetActiveSheetIndex())
	used := make(map[string]int, len(sheets))
	for i, sheet := range sheets {
		name := uniqueSheetName(sheet.Name, i, used)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return fmt.Errorf("rename sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
		if err := writeFixtureRows(f, name, sheet); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeFixtureRows(f *excelize.File, name string, sheet ScheduleSheet) error {
	if err := f.SetSheetRow(name, "A1", &scheduleHeader); err != nil {
		return fmt.Errorf("write header of %q: %w", name, err)
	}

	fixtures := slices.Clone(sheet.Fixtures)
	slices.SortFunc(fixtures, func(a, b fixture.Fixture) int {
		if c := a.ScheduledDate.Compare(b.ScheduledDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	for i, fx := range fixtures {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name for row %d: %w", i+2, err)
		}
		winner := ""
		if fx.WinnerID != nil {
			winner = playerName(sheet.Players, *fx.WinnerID)
		}
		completed := "no"
		if fx.Completed {
			completed = "yes"
		}
		row := []any{
			fx.ScheduledDate.Format("2006-01-02"),
			fx.ScheduledDate.Format("15:04"),
			playerName(sheet.Players, fx.Player1ID),
			fx.Player1Rating,
			fx.Player1Weight,
			playerName(sheet.Players, fx.Player2ID),
			fx.Player2Rating,
			fx.Player2Weight,
			completed,
			winner,
		}
		if err := f.SetSheetRow(name, axis, &row); err != nil {
			return fmt.Errorf("write row %d of %q: %w", i+2, name, err)
		}
	}
	return nil
}

func playerName(players map[int64]player.Player, id int64) string {
	if p, ok := players[id]; ok {
		if name := p.DisplayName(); name != "" {
			return name
		}
	}
	return fmt.Sprintf("player %d", id)
}

// uniqueSheetName trims to Excel's limit, drops forbidden characters and
// disambiguates repeats.
func uniqueSheetName(raw string, index int, used map[string]int) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, strings.TrimSpace(raw))
	if name == "" {
		name = fmt.Sprintf("Division %d", index+1)
	}
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}

	key := strings.ToLower(name)
	used[key]++
	if n := used[key]; n > 1 {
		suffix := fmt.Sprintf(" (%d)", n)
		if len(name)+len(suffix) > maxSheetNameLen {
			name = name[:maxSheetNameLen-len(suffix)]
		}
		name += suffix
		used[strings.ToLower(name)]++
	}
	return name
}
