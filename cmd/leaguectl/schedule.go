package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/riskibarqy/pool-league/internal/domain/competition"
	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/player"
	"github.com/riskibarqy/pool-league/internal/infrastructure/export"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const previewDivisionID = 1

type roster struct {
	Division  string         `yaml:"division"`
	MatchTime string         `yaml:"match_time"`
	Players   []rosterPlayer `yaml:"players"`
}

type rosterPlayer struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Rating    *int   `yaml:"rating"`
}

func readRoster(path string, baseline int) (roster, []player.Player, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return roster{}, nil, fmt.Errorf("read roster: %w", err)
	}

	var out roster
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return roster{}, nil, fmt.Errorf("parse roster %s: %w", path, err)
	}
	if strings.TrimSpace(out.Division) == "" {
		out.Division = "Division"
	}
	if out.MatchTime == "" {
		out.MatchTime = "19:00"
	}
	if _, err := time.Parse("15:04", out.MatchTime); err != nil {
		return roster{}, nil, fmt.Errorf("roster match_time must be HH:MM")
	}
	if len(out.Players) < 2 {
		return roster{}, nil, fmt.Errorf("roster needs at least two players")
	}

	players := make([]player.Player, 0, len(out.Players))
	for i, rp := range out.Players {
		p := player.Player{
			ID:        int64(i + 1),
			FirstName: strings.TrimSpace(rp.FirstName),
			LastName:  strings.TrimSpace(rp.LastName),
			Rating:    baseline,
		}
		if rp.Rating != nil {
			p.Rating = *rp.Rating
		}
		if err := p.Validate(); err != nil {
			return roster{}, nil, fmt.Errorf("roster player %d: %w", i+1, err)
		}
		players = append(players, p)
	}
	return out, players, nil
}

func scheduleCommand() *cli.Command {
	return &cli.Command{
		Name:  "schedule",
		Usage: "preview a round robin for a roster file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "roster", Required: true, Usage: "roster YAML file"},
			&cli.StringFlag{Name: "start", Required: true, Usage: "first league night, YYYY-MM-DD"},
			&cli.BoolFlag{Name: "single", Usage: "one leg instead of home and away"},
			&cli.StringFlag{Name: "xlsx", Usage: "also write the schedule to this workbook"},
		},
		Action: func(c *cli.Context) error {
			rules, err := loadRules(c)
			if err != nil {
				return err
			}
			start, err := time.Parse(time.DateOnly, c.String("start"))
			if err != nil {
				return fmt.Errorf("--start must be YYYY-MM-DD")
			}
			r, players, err := readRoster(c.String("roster"), rules.BaselineRating)
			if err != nil {
				return err
			}

			fixtures := buildPreview(rules, r, players, start, !c.Bool("single"))
			byID := make(map[int64]player.Player, len(players))
			for _, p := range players {
				byID[p.ID] = p
			}
			if err := printSchedule(c.App.Writer, fixtures, byID); err != nil {
				return err
			}

			if path := c.String("xlsx"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create %s: %w", path, err)
				}
				defer f.Close()
				if err := export.WriteSchedule(f, []export.ScheduleSheet{{Name: r.Division, Fixtures: fixtures, Players: byID}}); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
			}
			return nil
		},
	}
}

func buildPreview(rules competition.Rules, r roster, players []player.Player, start time.Time, double bool) []fixture.Fixture {
	matchTime, _ := time.Parse("15:04", r.MatchTime)
	fixtures := rules.Schedule(players, start, 0, previewDivisionID, double)
	for i := range fixtures {
		fixtures[i].ID = int64(i + 1)
		d := fixtures[i].ScheduledDate
		fixtures[i].ScheduledDate = time.Date(d.Year(), d.Month(), d.Day(), matchTime.Hour(), matchTime.Minute(), 0, 0, time.UTC)
	}
	return fixtures
}

func printSchedule(w io.Writer, fixtures []fixture.Fixture, players map[int64]player.Player) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTIME\tHOME\tRACE\tAWAY\tRACE")
	for _, fx := range fixtures {
		fmt.Fprintf(tw, "%s\t%s\t%s (%d)\t%d\t%s (%d)\t%d\n",
			fx.ScheduledDate.Format(time.DateOnly),
			fx.ScheduledDate.Format("15:04"),
			players[fx.Player1ID].DisplayName(), fx.Player1Rating, fx.Player1Weight,
			players[fx.Player2ID].DisplayName(), fx.Player2Rating, fx.Player2Weight,
		)
	}
	return tw.Flush()
}
