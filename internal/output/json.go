package output

import (
	"encoding/json"
	"io"
	"time"
)

type JSONFormatter struct{}

type JSONOutput struct {
	Timestamp  time.Time `json:"timestamp"`
	SystemInfo any       `json:"system_info,omitempty"`
	Config     any       `json:"config"`
	Results    any       `json:"results"`
	Benchmarks any       `json:"benchmarks,omitempty"`
	Summary    struct {
		Operations      int           `json:"operations"`
		TotalUnits      int           `json:"total_units"`
		TotalTime       time.Duration `json:"total_time"`
		TotalTimeString string        `json:"total_time_string"`
	} `json:"summary"`
}

func (j *JSONFormatter) Format(w io.Writer, data Data) error {
	output := JSONOutput{
		Timestamp: time.Now(),
		Config: map[string]any{
			"separator":     data.Config.Separator,
			"max_units":     data.Config.MaxUnits,
			"seed":          data.Config.Seed,
			"show_progress": data.Config.ShowProgress,
			"verbose":       data.Config.Verbose,
		},
		Results: data.Results,
	}
	if len(data.Benchmarks) > 0 {
		output.Benchmarks = data.Benchmarks
	}
	if data.BenchConfig != nil {
		output.Config = data.BenchConfig
	}
	if data.SystemInfo != nil {
		output.SystemInfo = data.SystemInfo
	}

	// Calculate summary
	totalTime := time.Duration(0)
	for _, result := range data.Results {
		totalTime += result.Duration
	}

	output.Summary.Operations = len(data.Results)
	output.Summary.TotalUnits = totalUnits(data.Results)
	output.Summary.TotalTime = totalTime
	output.Summary.TotalTimeString = totalTime.String()

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
