package filtergraph

// Stage is one composition step. Concrete variants stay structured until
// serialization so no stage carries pre-escaped text or hand-built syntax.
type Stage interface {
	isStage()
}

// Background is a solid canvas generated at the configured size and rate.
type Background struct {
	Width           int
	Height          int
	FrameRate       int
	DurationSeconds int
	Color           string
}

// Visualization modes.
const (
	ModeWaves    = "waves"
	ModeSpectrum = "spectrum"
)

// Visualization renders the source audio as a waveform or spectrum at
// canvas dimensions.
type Visualization struct {
	Width  int
	Height int
	Color  string
	Mode   string
}

// Overlay composites the visualization onto the background at a fixed
// offset. It is the only stage consuming two labels.
type Overlay struct {
	X int
	Y int
}

// Box draws a filled rectangle, used for the brand bar.
type Box struct {
	X      int
	Y      int
	Width  int
	Height int
	Color  string
}

// Window gates a text stage to clip-local time start <= t < end.
type Window struct {
	Start float64
	End   float64
}

// Text burns a literal string into the frame, optionally boxed and
// optionally gated to a time window. Text is raw here; escaping is the
// serializer's job.
type Text struct {
	Text      string
	FontFile  string
	FontColor string
	FontSize  int
	X         string
	Y         string
	Box       bool
	BoxColor  string
	BoxBorder int
	Enable    *Window
}

func (Background) isStage()    {}
func (Visualization) isStage() {}
func (Overlay) isStage()       {}
func (Box) isStage()           {}
func (Text) isStage()          {}

// Chain is the ordered stage list from raw inputs to the final frame.
type Chain struct {
	stages []Stage
}

// NewChain returns an empty chain.
func NewChain() *Chain {
	return &Chain{}
}

// Append adds a stage to the end of the chain.
func (c *Chain) Append(stage Stage) {
	c.stages = append(c.stages, stage)
}

// Stages returns the ordered stage descriptors.
func (c *Chain) Stages() []Stage {
	return c.stages
}

// Len returns the number of stages.
func (c *Chain) Len() int {
	return len(c.stages)
}
