package config

// Tie-break strategy names accepted by [resolve].
const (
	StrategyShortest  = "shortest"
	StrategyLongest   = "longest"
	StrategyPerformer = "performer"
)

// Font role names accepted by [annotations.*].font.
const (
	FontRegular = "regular"
	FontItalic  = "italic"
	FontSans    = "sans"
)

const (
	defaultOutputDir      = "."
	defaultStateDir       = "~/.local/share/booklet"
	defaultDelimiter      = "\t"
	defaultRestStrategy   = StrategyShortest
	defaultMatchStrategy  = StrategyLongest
	defaultHistoryLimit   = 20
	defaultDebounceMillis = 500
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultFontSize       = 13
)

// Default returns a Config populated with repository defaults. The annotation
// layout mirrors the booklets the tool has always produced.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			StateDir:  defaultStateDir,
		},
		Spreadsheet: Spreadsheet{
			Delimiter: defaultDelimiter,
		},
		Resolve: Resolve{
			RestStrategy:  defaultRestStrategy,
			MatchStrategy: defaultMatchStrategy,
		},
		History: History{
			Enabled: true,
			Limit:   defaultHistoryLimit,
		},
		Watch: Watch{
			DebounceMillis: defaultDebounceMillis,
		},
		Annotations: DefaultAnnotations(),
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// DefaultAnnotations returns the stock annotation layout.
func DefaultAnnotations() Annotations {
	return Annotations{
		Fonts: Fonts{
			Regular: "Times-Roman",
			Italic:  "Times-Italic",
			Sans:    "Helvetica",
		},
		Tempo: Annotation{
			Font:   FontRegular,
			Color:  "#000000",
			X:      0.1,
			Y:      0.96,
			Size:   defaultFontSize,
			Prefix: "tempo: ",
		},
		Cue: Annotation{
			Font:  FontItalic,
			Color: "#cc3333",
			X:     0.1,
			Y:     0.98,
			Size:  defaultFontSize + 1,
		},
		Patch: Annotation{
			Font:  FontSans,
			Color: "#333380",
			X:     0.7,
			Y:     0.98,
			Size:  defaultFontSize,
		},
		EndNote: Annotation{
			Font:  FontSans,
			Color: "#338033",
			X:     0.7,
			Y:     0.02,
			Size:  defaultFontSize,
		},
	}
}
