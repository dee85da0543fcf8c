package filtergraph

import (
	"fmt"

	"clipcast/internal/captions"
)

const (
	titleCardSeconds = 1.2
	captionBoxColor  = "black@0.55"
	captionBoxBorder = 18
)

// Options describes one render target. Lines carry source-audio
// timestamps; the builder shifts them by ClipStartSeconds so every
// enable window in the graph is clip-local.
type Options struct {
	Width            int
	Height           int
	FrameRate        int
	DurationSeconds  int
	ClipStartSeconds float64

	BackgroundColor string
	BarColor        string
	BrandText       string
	Title           string
	FontFile        string

	Lines           []captions.Line
	IncludeTitle    bool
	IncludeCaptions bool
}

// Build assembles the layered graph: background, audio visualization,
// overlay compositing, brand bar, masthead text, then the title card
// when IncludeTitle is set and the caption stages when IncludeCaptions
// is set. The two knobs are independent so a job with no usable
// transcript still shows its title card. A reduced graph with both off
// keeps only the base layers plus the masthead, which is what the
// renderer falls back to when a captioned run fails.
func Build(opts Options) *Chain {
	chain := NewChain()

	chain.Append(Background{
		Width:           opts.Width,
		Height:          opts.Height,
		FrameRate:       opts.FrameRate,
		DurationSeconds: opts.DurationSeconds,
		Color:           opts.BackgroundColor,
	})

	vizHeight := opts.Height / 3
	chain.Append(Visualization{
		Width:  opts.Width,
		Height: vizHeight,
		Color:  opts.BarColor,
		Mode:   ModeWaves,
	})

	chain.Append(Overlay{
		X: 0,
		Y: (opts.Height - vizHeight) / 2,
	})

	barHeight := opts.Height / 12
	chain.Append(Box{
		X:      0,
		Y:      0,
		Width:  opts.Width,
		Height: barHeight,
		Color:  opts.BarColor,
	})

	brandSize := barHeight * 6 / 10
	chain.Append(Text{
		Text:      opts.BrandText,
		FontFile:  opts.FontFile,
		FontColor: ForegroundFor(opts.BarColor),
		FontSize:  brandSize,
		X:         fmt.Sprintf("%d", barHeight/3),
		Y:         fmt.Sprintf("(%d-th)/2", barHeight),
	})

	if opts.IncludeTitle && opts.Title != "" {
		chain.Append(Text{
			Text:      opts.Title,
			FontFile:  opts.FontFile,
			FontColor: ForegroundLight,
			FontSize:  opts.Height / 16,
			X:         "(w-text_w)/2",
			Y:         "(h-text_h)/2",
			Box:       true,
			BoxColor:  captionBoxColor,
			BoxBorder: captionBoxBorder,
			Enable:    &Window{Start: 0, End: titleCardSeconds},
		})
	}

	if !opts.IncludeCaptions {
		return chain
	}

	duration := float64(opts.DurationSeconds)
	for _, line := range opts.Lines {
		start := line.Start - opts.ClipStartSeconds
		end := line.End - opts.ClipStartSeconds
		if start < 0 {
			start = 0
		}
		if end > duration {
			end = duration
		}
		if end <= start {
			continue
		}
		chain.Append(Text{
			Text:      line.Text,
			FontFile:  opts.FontFile,
			FontColor: ForegroundLight,
			FontSize:  opts.Height / 20,
			X:         "(w-text_w)/2",
			Y:         "h*3/4",
			Box:       true,
			BoxColor:  captionBoxColor,
			BoxBorder: captionBoxBorder,
			Enable:    &Window{Start: start, End: end},
		})
	}

	return chain
}
