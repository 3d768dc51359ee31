// Command leaguectl runs the league engine offline: handicap lookups, rating
// changes and schedule previews from a YAML roster.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/riskibarqy/pool-league/internal/config"
	"github.com/riskibarqy/pool-league/internal/domain/competition"
	"github.com/riskibarqy/pool-league/internal/infrastructure/auth"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "leaguectl",
		Usage: "pool league engine from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rules", EnvVars: []string{"LEAGUE_RULES_PATH"}, Usage: "league rules YAML file"},
		},
		Commands: []*cli.Command{
			weightCommand(),
			ratingChangeCommand(),
			scheduleCommand(),
			tokenCommand(),
		},
	}
}

func loadRules(c *cli.Context) (competition.Rules, error) {
	rules, err := config.LoadRules(c.String("rules"))
	if err != nil {
		return competition.Rules{}, err
	}
	if rules.BaseSwing != competition.CanonicalBaseSwing {
		fmt.Fprintf(c.App.ErrWriter, "warning: base swing %.0f differs from the canonical %d\n", rules.BaseSwing, competition.CanonicalBaseSwing)
	}
	return rules, nil
}

func weightCommand() *cli.Command {
	return &cli.Command{
		Name:  "weight",
		Usage: "race lengths for two ratings",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "a", Required: true, Usage: "rating of player A"},
			&cli.IntFlag{Name: "b", Required: true, Usage: "rating of player B"},
		},
		Action: func(c *cli.Context) error {
			rules, err := loadRules(c)
			if err != nil {
				return err
			}
			if c.Int("a") < 0 || c.Int("b") < 0 {
				return fmt.Errorf("ratings must be >= 0")
			}
			wa, wb := rules.MatchWeight(c.Int("a"), c.Int("b"))
			fmt.Fprintf(c.App.Writer, "A (%d) races to %d, B (%d) races to %d\n", c.Int("a"), wa, c.Int("b"), wb)
			return nil
		},
	}
}

func ratingChangeCommand() *cli.Command {
	return &cli.Command{
		Name:  "rating-change",
		Usage: "rating deltas for one game",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "winner-games", Usage: "games the winner played before this one"},
			&cli.IntFlag{Name: "loser-games", Usage: "games the loser played before this one"},
			&cli.IntFlag{Name: "balls", Usage: "balls the loser left on the table"},
		},
		Action: func(c *cli.Context) error {
			rules, err := loadRules(c)
			if err != nil {
				return err
			}
			if c.Int("balls") < 0 || c.Int("winner-games") < 0 || c.Int("loser-games") < 0 {
				return fmt.Errorf("games and balls must be >= 0")
			}
			gain, loss := rules.RatingChange(c.Int("winner-games"), c.Int("loser-games"), c.Int("balls"))
			fmt.Fprintf(c.App.Writer, "winner %+d, loser %+d\n", gain, loss)
			return nil
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "sign an admin bearer token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "secret", EnvVars: []string{"AUTH_JWT_SECRET"}, Required: true},
			&cli.StringFlag{Name: "issuer", EnvVars: []string{"AUTH_JWT_ISSUER"}},
			&cli.StringFlag{Name: "subject", Value: "leaguectl"},
			&cli.DurationFlag{Name: "ttl", Value: 12 * time.Hour},
		},
		Action: func(c *cli.Context) error {
			token, err := auth.IssueToken(c.String("secret"), c.String("issuer"), c.String("subject"), c.Duration("ttl"), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}
