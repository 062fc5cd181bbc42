package config

// Config holds the build paths. Everything is explicit configuration; no
// directory or file name is special unless set here.
type Config struct {
	// Template is the path to the shared template document containing the
	// content marker line.
	Template string `mapstructure:"template"`
	// Content is the directory of page fragments, one output page per file.
	Content string `mapstructure:"content"`
	// Output is the directory generated pages are written to.
	Output string `mapstructure:"output"`
	// Static is an optional directory copied verbatim into Output. Skipped
	// when the directory does not exist.
	Static string `mapstructure:"static"`
	// IndexOutput, when non-empty, is the directory index.html is written
	// to instead of Output. Empty disables the routing.
	IndexOutput string `mapstructure:"indexOutput"`
}
