package config

const (
	defaultConfigPath       = "~/.config/stl2scc/config.toml"
	projectConfigName       = "stl2scc.toml"
	defaultLogDir           = "~/.local/share/stl2scc/logs"
	defaultHistoryDB        = "~/.local/share/stl2scc/history.db"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
	defaultCodePage         = "latin1"
	defaultSourceRate       = "25"
	defaultTargetRate       = "29.97"
	defaultTimecodeEncoding = "binary"
	defaultLayout           = "ebu"
	defaultSeparatorStyle   = "nondrop"
	defaultMaxChars         = 31
	defaultAlignment        = "left"
	defaultStartOffset      = "none"
	defaultExtension        = ".scc"
	defaultBatchWorkers     = 4

	// autoValue selects header-derived settings.
	autoValue = "auto"
	// keepArtifact removes a default artifact entry.
	keepArtifact = "keep"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Input: Input{
			CodePage:         defaultCodePage,
			FrameRate:        defaultSourceRate,
			TimecodeEncoding: defaultTimecodeEncoding,
			Layout:           defaultLayout,
			StrictHeader:     true,
		},
		Output: Output{
			FrameRate:       defaultTargetRate,
			SeparatorStyle:  defaultSeparatorStyle,
			MaxCharsPerLine: defaultMaxChars,
			Alignment:       defaultAlignment,
			DoubleControls:  true,
			StartOffset:     defaultStartOffset,
			Extension:       defaultExtension,
		},
		Batch: Batch{
			Workers: defaultBatchWorkers,
		},
		Paths: Paths{
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
