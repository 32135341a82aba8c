package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

type Capability string

const CapabilityAnalyze Capability = "analyze"

var (
	ErrPluginNotFound    = errors.New("plugin not found")
	ErrPluginDisabled    = errors.New("plugin is disabled")
	ErrChecksumMismatch  = errors.New("plugin checksum mismatch")
	ErrCapabilityMissing = errors.New("plugin capability missing")
	ErrAnalyzerNotFound  = errors.New("analyzer not found")
	ErrPluginTimeout     = errors.New("plugin timeout")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

type Manifest struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Binary       string       `json:"binary"`
	SHA256       string       `json:"sha256"`
	Enabled      bool         `json:"enabled"`
	Capabilities []Capability `json:"capabilities"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("plugin binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("plugin sha256 must be lowercase 64-char hex")
	}
	if len(m.Capabilities) == 0 {
		return fmt.Errorf("plugin capabilities are required")
	}
	seen := map[Capability]struct{}{}
	for _, capability := range m.Capabilities {
		if capability != CapabilityAnalyze {
			return fmt.Errorf("unknown capability: %s", capability)
		}
		if _, ok := seen[capability]; ok {
			return fmt.Errorf("duplicate capability: %s", capability)
		}
		seen[capability] = struct{}{}
	}
	return nil
}

func (m Manifest) HasCapability(capability Capability) bool {
	for _, c := range m.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

type Metadata struct {
	Name         string
	Version      string
	Capabilities []Capability
}

type AnalyzerDescriptor struct {
	ID          string
	Title       string
	Description string
	TimeoutMS   int
}

func (d AnalyzerDescriptor) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("analyzer id is required")
	}
	if d.TimeoutMS < 0 {
		return fmt.Errorf("analyzer %s: negative timeout", d.ID)
	}
	return nil
}

// Timeout prefers the analyzer's own budget over fallback.
func (d AnalyzerDescriptor) Timeout(fallback time.Duration) time.Duration {
	if d.TimeoutMS > 0 {
		return time.Duration(d.TimeoutMS) * time.Millisecond
	}
	return fallback
}

// Dataset is what an analyzer gets to look at: one experiment and every
// daily log that references it.
type Dataset struct {
	Experiment ExperimentData
	Logs       []LogData
}

type ExperimentData struct {
	ID         string
	Name       string
	Hypothesis string
	Status     string
	StartDate  string
	EndDate    string
	Variables  []string
	Metrics    []string
}

type LogData struct {
	Date         string
	Mood         int
	Energy       int
	SleepHours   float64
	SleepQuality int
	Stress       int
	Weight       float64
	Compliant    *bool
}

type AnalyzeRequest struct {
	AnalyzerID string
	Dataset    Dataset
}

type Insight struct {
	Title  string
	Detail string
	Value  float64
}

type AnalyzeResult struct {
	Summary  string
	Insights []Insight
}
