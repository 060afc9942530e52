package state

import (
	"encoding/json"
	"fmt"
	"sync"
)

// #region keys
// Fixed record keys in the key-value store.
const (
	DayStateKey = "stw_state"
	LearningKey = "stw_learning"
)

// #endregion keys

// #region kv
// KV is the opaque key-value store the records live in.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Put(key, value string) error
}

// MemoryKV is an in-process KV used by tests and replay runs.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryKV returns an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

// Get returns the raw value for key.
func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Put stores value under key.
func (m *MemoryKV) Put(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// #endregion kv

// #region day-record
// LoadDay reads the day record, overlaying stored fields onto defaults.
// A missing or unparseable record yields the defaults. The returned error
// only reports store access failures; the state is usable either way.
func LoadDay(kv KV) (DayState, error) {
	raw, ok, err := kv.Get(DayStateKey)
	if err != nil {
		return DefaultDayState(), fmt.Errorf("load day: %w", err)
	}
	if !ok || raw == "" {
		return DefaultDayState(), nil
	}
	d := DefaultDayState()
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return DefaultDayState(), nil
	}
	d.Normalize()
	return d, nil
}

// SaveDay writes the day record.
func SaveDay(kv KV, d DayState) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal day: %w", err)
	}
	if err := kv.Put(DayStateKey, string(data)); err != nil {
		return fmt.Errorf("save day: %w", err)
	}
	return nil
}

// #endregion day-record

// #region learning-record
// LoadLearning reads the learning record with the same overlay rules as LoadDay.
func LoadLearning(kv KV) (LearningModel, error) {
	raw, ok, err := kv.Get(LearningKey)
	if err != nil {
		return DefaultLearningModel(), fmt.Errorf("load learning: %w", err)
	}
	if !ok || raw == "" {
		return DefaultLearningModel(), nil
	}
	m := DefaultLearningModel()
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return DefaultLearningModel(), nil
	}
	m.Normalize()
	return m, nil
}

// SaveLearning writes the learning record.
func SaveLearning(kv KV, m LearningModel) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal learning: %w", err)
	}
	if err := kv.Put(LearningKey, string(data)); err != nil {
		return fmt.Errorf("save learning: %w", err)
	}
	return nil
}

// Normalize drops unknown keys, restores missing entries and clamps hook scores.
func (m *LearningModel) Normalize() {
	def := DefaultLearningModel()
	tones := make(map[Trigger]Tone, len(Triggers))
	for _, t := range Triggers {
		tone, ok := m.ToneByTrigger[t]
		if !ok || LadderIndex(tone) < 0 {
			tone = def.ToneByTrigger[t]
		}
		tones[t] = tone
	}
	scores := make(map[Hook]float64, len(Hooks))
	for _, h := range Hooks {
		v, ok := m.HookScores[h]
		if !ok {
			v = def.HookScores[h]
		}
		scores[h] = ClampHookScore(v)
	}
	m.ToneByTrigger = tones
	m.HookScores = scores
}

// ClampHookScore restricts v to [MinHookScore, MaxHookScore].
func ClampHookScore(v float64) float64 {
	if v < MinHookScore {
		return MinHookScore
	}
	if v > MaxHookScore {
		return MaxHookScore
	}
	return v
}

// #endregion learning-record
