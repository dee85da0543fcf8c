package filtergraph

import (
	"fmt"
	"strings"
)

// Input and output labels used by the serialized graph.
const (
	backgroundLabel = "bg"
	vizLabel        = "viz"
	audioInput      = "0:a"
)

// Serialize renders the chain into ffmpeg filter_complex syntax and
// returns the graph plus the final video output label. The chain must
// open with Background, Visualization, Overlay in that order; every
// later stage consumes the previous output label.
func Serialize(chain *Chain) (graph string, output string, err error) {
	if chain == nil || chain.Len() < 3 {
		return "", "", fmt.Errorf("filter graph needs background, visualization, and overlay stages")
	}
	stages := chain.Stages()

	background, ok := stages[0].(Background)
	if !ok {
		return "", "", fmt.Errorf("stage 0 must be Background, got %T", stages[0])
	}
	visualization, ok := stages[1].(Visualization)
	if !ok {
		return "", "", fmt.Errorf("stage 1 must be Visualization, got %T", stages[1])
	}
	overlay, ok := stages[2].(Overlay)
	if !ok {
		return "", "", fmt.Errorf("stage 2 must be Overlay, got %T", stages[2])
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%s[%s]", serializeBackground(background), backgroundLabel))
	parts = append(parts, fmt.Sprintf("[%s]%s[%s]", audioInput, serializeVisualization(visualization), vizLabel))

	current := "v0"
	parts = append(parts, fmt.Sprintf("[%s][%s]%s[%s]", backgroundLabel, vizLabel, serializeOverlay(overlay), current))

	for i, stage := range stages[3:] {
		next := fmt.Sprintf("v%d", i+1)
		var body string
		switch s := stage.(type) {
		case Box:
			body = serializeBox(s)
		case Text:
			body = serializeText(s)
		default:
			return "", "", fmt.Errorf("stage %d: %T cannot follow the overlay", i+3, stage)
		}
		parts = append(parts, fmt.Sprintf("[%s]%s[%s]", current, body, next))
		current = next
	}

	return strings.Join(parts, ";"), current, nil
}

func serializeBackground(s Background) string {
	return fmt.Sprintf("color=c=%s:s=%dx%d:r=%d:d=%d", s.Color, s.Width, s.Height, s.FrameRate, s.DurationSeconds)
}

func serializeVisualization(s Visualization) string {
	if s.Mode == ModeSpectrum {
		return fmt.Sprintf("showspectrum=s=%dx%d:color=intensity:slide=scroll", s.Width, s.Height)
	}
	return fmt.Sprintf("showwaves=s=%dx%d:mode=cline:colors=%s", s.Width, s.Height, s.Color)
}

func serializeOverlay(s Overlay) string {
	return fmt.Sprintf("overlay=x=%d:y=%d", s.X, s.Y)
}

func serializeBox(s Box) string {
	return fmt.Sprintf("drawbox=x=%d:y=%d:w=%d:h=%d:color=%s:t=fill", s.X, s.Y, s.Width, s.Height, s.Color)
}

func serializeText(s Text) string {
	var sb strings.Builder
	sb.WriteString("drawtext=text='")
	sb.WriteString(escapeText(s.Text))
	sb.WriteString("'")
	if s.FontFile != "" {
		sb.WriteString(":fontfile='")
		sb.WriteString(escapeText(s.FontFile))
		sb.WriteString("'")
	}
	fmt.Fprintf(&sb, ":fontcolor=%s:fontsize=%d", s.FontColor, s.FontSize)
	fmt.Fprintf(&sb, ":x=%s:y=%s", s.X, s.Y)
	if s.Box {
		fmt.Fprintf(&sb, ":box=1:boxcolor=%s:boxborderw=%d", s.BoxColor, s.BoxBorder)
	}
	if s.Enable != nil {
		fmt.Fprintf(&sb, ":enable='gte(t,%s)*lt(t,%s)'", trimFloat(s.Enable.Start), trimFloat(s.Enable.End))
	}
	return sb.String()
}

// escapeText neutralizes the filter-graph delimiter characters inside
// literal text so titles and transcribed captions cannot break stage
// syntax or leak into neighboring stages. Newlines become spaces.
func escapeText(text string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		"\n", " ",
		"\r", " ",
	)
	return replacer.Replace(text)
}

func trimFloat(value float64) string {
	formatted := fmt.Sprintf("%.3f", value)
	formatted = strings.TrimRight(formatted, "0")
	return strings.TrimRight(formatted, ".")
}
