package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string                  `json:"description"`
	StartState      FixtureStartState       `json:"start_state"`
	Config          FixtureConfig           `json:"config"`
	Steps           []FixtureStep           `json:"steps"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixtureStartState holds the persisted records the run starts from. Either
// may be omitted; the usual load rules fill in defaults.
type FixtureStartState struct {
	Day      json.RawMessage `json:"day,omitempty"`
	Learning json.RawMessage `json:"learning,omitempty"`
}

// FixtureConfig overrides engine settings for a replay run.
type FixtureConfig struct {
	TimeOfDay        string `json:"time_of_day"`
	LearnFromIgnored *bool  `json:"learn_from_ignored"`
}

// FixtureStep is one command. Op selects which fields are read:
//
//	tick           count (default 1), respond
//	add            value, respond
//	set_today      value, respond
//	set_yesterday  value
//	set_avg7       value
//	set_threshold  trigger, value
//	activity       name
//	tone           name
//	language       name
//	resolve        outcome
//	rollover       carry
//	reset
//
// respond resolves every notification the step shows with that outcome.
type FixtureStep struct {
	Op      string `json:"op"`
	Count   int    `json:"count,omitempty"`
	Value   int    `json:"value,omitempty"`
	Trigger string `json:"trigger,omitempty"`
	Name    string `json:"name,omitempty"`
	Outcome string `json:"outcome,omitempty"`
	Respond string `json:"respond,omitempty"`
	Carry   bool   `json:"carry,omitempty"`
}

// FixtureExpectedResult describes one expected notification. Empty fields
// are not compared.
type FixtureExpectedResult struct {
	Day      int    `json:"day,omitempty"`
	Today    int    `json:"today,omitempty"`
	Trigger  string `json:"trigger"`
	Tone     string `json:"tone,omitempty"`
	Hook     string `json:"hook,omitempty"`
	Outcome  string `json:"outcome,omitempty"`
	Decision string `json:"decision,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	for i, s := range f.Steps {
		if !knownOps[s.Op] {
			return nil, fmt.Errorf("fixture %s: step %d: unknown op %q", path, i, s.Op)
		}
	}
	return &f, nil
}

// ToKV seeds an in-memory store with the start records.
func (s *FixtureStartState) ToKV() (*state.MemoryKV, error) {
	kv := state.NewMemoryKV()
	if len(s.Day) > 0 {
		if err := kv.Put(state.DayStateKey, string(s.Day)); err != nil {
			return nil, err
		}
	}
	if len(s.Learning) > 0 {
		if err := kv.Put(state.LearningKey, string(s.Learning)); err != nil {
			return nil, err
		}
	}
	return kv, nil
}

// ToReplayConfig applies the overrides to DefaultReplayConfig.
func (fc *FixtureConfig) ToReplayConfig() ReplayConfig {
	c := DefaultReplayConfig()
	if fc.TimeOfDay != "" {
		c.TimeOfDay = state.ParseTimeOfDay(fc.TimeOfDay)
	}
	if fc.LearnFromIgnored != nil {
		c.GateConfig.LearnFromIgnored = *fc.LearnFromIgnored
	}
	return c
}

var knownOps = map[string]bool{
	"tick": true, "add": true, "set_today": true, "set_yesterday": true, "set_avg7": true,
	"set_threshold": true, "activity": true, "tone": true, "language": true,
	"resolve": true, "rollover": true, "reset": true,
}

// #endregion fixture-loader
