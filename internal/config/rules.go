package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/riskibarqy/pool-league/internal/domain/competition"
)

const rulesEnvPrefix = "LEAGUE_RULES_"

type tierFile struct {
	MaxGap int `koanf:"max_gap"`
	High   int `koanf:"high"`
	Low    int `koanf:"low"`
}

type rulesFile struct {
	BaselineRating    int        `koanf:"baseline_rating"`
	BaseSwing         float64    `koanf:"base_swing"`
	Decay             float64    `koanf:"decay"`
	HandicapTiers     []tierFile `koanf:"handicap_tiers"`
	OverflowHigh      int        `koanf:"overflow_high"`
	OverflowLow       int        `koanf:"overflow_low"`
	PointsShutout     int        `koanf:"points_shutout"`
	PointsWin         int        `koanf:"points_win"`
	PointsHill        int        `koanf:"points_hill"`
	RoundIntervalDays int        `koanf:"round_interval_days"`
}

// LoadRules layers the league rules, lowest precedence first:
//  1. competition.DefaultRules
//  2. the YAML file at path, when path is not empty
//  3. LEAGUE_RULES_* env vars, e.g. LEAGUE_RULES_BASE_SWING=23
func LoadRules(path string) (competition.Rules, error) {
	k := koanf.New(".")

	if path = strings.TrimSpace(path); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return competition.Rules{}, fmt.Errorf("load rules file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(rulesEnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, rulesEnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return competition.Rules{}, fmt.Errorf("load rules env: %w", err)
	}

	out := toRulesFile(competition.DefaultRules())
	if k.Exists("handicap_tiers") {
		out.HandicapTiers = nil
	}
	if err := k.UnmarshalWithConf("", &out, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return competition.Rules{}, fmt.Errorf("decode rules: %w", err)
	}

	rules := out.toRules()
	if err := rules.Validate(); err != nil {
		return competition.Rules{}, err
	}
	return rules, nil
}

func toRulesFile(r competition.Rules) rulesFile {
	tiers := make([]tierFile, 0, len(r.HandicapTiers))
	for _, t := range r.HandicapTiers {
		tiers = append(tiers, tierFile{MaxGap: t.MaxGap, High: t.High, Low: t.Low})
	}
	return rulesFile{
		BaselineRating:    r.BaselineRating,
		BaseSwing:         r.BaseSwing,
		Decay:             r.Decay,
		HandicapTiers:     tiers,
		OverflowHigh:      r.OverflowHigh,
		OverflowLow:       r.OverflowLow,
		PointsShutout:     r.Points.Shutout,
		PointsWin:         r.Points.Win,
		PointsHill:        r.Points.Hill,
		RoundIntervalDays: r.RoundIntervalDays,
	}
}

func (f rulesFile) toRules() competition.Rules {
	tiers := make([]competition.Tier, 0, len(f.HandicapTiers))
	for _, t := range f.HandicapTiers {
		tiers = append(tiers, competition.Tier{MaxGap: t.MaxGap, High: t.High, Low: t.Low})
	}
	return competition.Rules{
		BaselineRating:    f.BaselineRating,
		BaseSwing:         f.BaseSwing,
		Decay:             f.Decay,
		HandicapTiers:     tiers,
		OverflowHigh:      f.OverflowHigh,
		OverflowLow:       f.OverflowLow,
		Points:            competition.Points{Shutout: f.PointsShutout, Win: f.PointsWin, Hill: f.PointsHill},
		RoundIntervalDays: f.RoundIntervalDays,
	}
}
