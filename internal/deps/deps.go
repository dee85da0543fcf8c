// Package deps probes the external binaries clipcast shells out to so
// the daemon can surface missing tools before a job fails on them.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"clipcast/internal/config"
	"clipcast/internal/render"
	"clipcast/internal/services/whisper"
)

// Requirement defines an external dependency clipcast relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description,omitempty"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// Check probes the binaries the current configuration will invoke.
func Check(cfg *config.Config) []Status {
	ffmpeg := strings.TrimSpace(cfg.Render.FFmpegBinary)
	if ffmpeg == "" {
		ffmpeg = render.DefaultBinary
	}
	requirements := []Requirement{
		{
			Name:        "FFmpeg",
			Command:     ffmpeg,
			Description: "Renders the visualization and encodes the artifact",
		},
	}
	if cfg.Transcriber.Enabled {
		binary := strings.TrimSpace(cfg.Transcriber.Binary)
		if binary == "" {
			binary = whisper.DefaultBinary
		}
		requirements = append(requirements, Requirement{
			Name:        "Whisper",
			Command:     binary,
			Description: "Transcribes source audio into caption segments",
			Optional:    true,
		})
	}
	return CheckBinaries(requirements)
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
