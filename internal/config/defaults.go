package config

const (
	defaultOutputDir       = "~/Music/tracksplit"
	defaultWorkDir         = "~/.local/share/tracksplit/work"
	defaultLogDir          = "~/.local/share/tracksplit/logs"
	defaultBinary          = "yt-dlp"
	defaultUpdateCheckDays = 7
	defaultNoiseDB         = -30
	defaultMinDuration     = 1.0
	defaultRefineWindow    = 5.0
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
		},
		Downloader: Downloader{
			Binary:          defaultBinary,
			UpdateCheckDays: defaultUpdateCheckDays,
		},
		Silence: Silence{
			NoiseDB:      defaultNoiseDB,
			MinDuration:  defaultMinDuration,
			RefineWindow: defaultRefineWindow,
		},
		Split: Split{
			EmbedCoverArt: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
