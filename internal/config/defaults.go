package config

const (
	defaultDataDir            = "~/.local/share/clipcast/data"
	defaultWorkDir            = "~/.local/share/clipcast/work"
	defaultLogDir             = "~/.local/share/clipcast/logs"
	defaultAPIBind            = "127.0.0.1:7319"
	defaultJobsKey            = "state/jobs.json"
	defaultPostsDBName        = "posts.db"
	defaultWidth              = 1080
	defaultHeight             = 1920
	defaultFrameRate          = 30
	defaultBackgroundColor    = "#052962"
	defaultBarColor           = "#ffe500"
	defaultBrandText          = "clipcast"
	defaultMaxLineChars       = 42
	defaultLayout             = LayoutVertical
	defaultFFmpegBinary       = "ffmpeg"
	defaultRenderTimeout      = 600
	defaultWhisperBinary      = "whisper"
	defaultWhisperModel       = "base"
	defaultWhisperLanguage    = "en"
	defaultTranscribeTimeout  = 300
	defaultTickInterval       = 5
	defaultMaxRetries         = 3
	defaultMaxDurationSeconds = 60
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Layout values accepted by render.layout.
const (
	LayoutVertical = "vertical"
	LayoutSquare   = "square"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Store: Store{
			JobsKey:     defaultJobsKey,
			PostsDBName: defaultPostsDBName,
		},
		Render: Render{
			Width:           defaultWidth,
			Height:          defaultHeight,
			FrameRate:       defaultFrameRate,
			BackgroundColor: defaultBackgroundColor,
			BarColor:        defaultBarColor,
			BrandText:       defaultBrandText,
			MaxLineChars:    defaultMaxLineChars,
			Layout:          defaultLayout,
			FFmpegBinary:    defaultFFmpegBinary,
			TimeoutSeconds:  defaultRenderTimeout,
		},
		Transcriber: Transcriber{
			Enabled:        true,
			Binary:         defaultWhisperBinary,
			Model:          defaultWhisperModel,
			Language:       defaultWhisperLanguage,
			TimeoutSeconds: defaultTranscribeTimeout,
		},
		Worker: Worker{
			TickIntervalSeconds: defaultTickInterval,
			MaxRetries:          defaultMaxRetries,
			MaxDurationSeconds:  defaultMaxDurationSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
