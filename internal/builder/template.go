package builder

import (
	"bytes"
	"fmt"
	"os"
)

// ContentMarker is the literal placeholder line content is spliced into.
const ContentMarker = "{{content}}"

// ConfigError reports a template that cannot be built from: a missing or
// duplicated content marker. IO failures are not ConfigErrors.
type ConfigError struct {
	Path string
	Msg  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// Template is a parsed template document split at its marker line. The
// prefix and suffix keep the original bytes, line endings included, so a
// rendered page is exactly prefix ++ fragment ++ suffix.
type Template struct {
	prefix []byte
	suffix []byte
}

// LoadTemplate reads the template at path and locates its marker line.
// Exactly one line must contain ContentMarker; zero or more than one is a
// *ConfigError.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}

	lines := splitLines(data)
	idx, err := findMarker(path, lines)
	if err != nil {
		return nil, err
	}

	return &Template{
		prefix: bytes.Join(lines[:idx], nil),
		suffix: bytes.Join(lines[idx+1:], nil),
	}, nil
}

// Render splices the fragment in place of the marker line.
func (t *Template) Render(fragment []byte) []byte {
	out := make([]byte, 0, len(t.prefix)+len(fragment)+len(t.suffix))
	out = append(out, t.prefix...)
	out = append(out, fragment...)
	out = append(out, t.suffix...)
	return out
}

// splitLines splits data into lines keeping the line terminators, so that
// joining the result reproduces data byte-for-byte. A final line without a
// trailing newline is kept as-is.
func splitLines(data []byte) [][]byte {
	var lines [][]byte
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			lines = append(lines, data)
			break
		}
		lines = append(lines, data[:i+1])
		data = data[i+1:]
	}
	return lines
}

// findMarker returns the index of the single line containing ContentMarker.
// Multiple marker lines are rejected rather than silently using the first.
func findMarker(path string, lines [][]byte) (int, error) {
	idx := -1
	for i, line := range lines {
		if !bytes.Contains(line, []byte(ContentMarker)) {
			continue
		}
		if idx >= 0 {
			return 0, &ConfigError{
				Path: path,
				Msg:  fmt.Sprintf("%q appears on multiple lines (%d and %d)", ContentMarker, idx+1, i+1),
			}
		}
		idx = i
	}
	if idx < 0 {
		return 0, &ConfigError{
			Path: path,
			Msg:  fmt.Sprintf("template must contain %q", ContentMarker),
		}
	}
	return idx, nil
}

// expandTokens replaces {{key}} tokens in doc with the given values. The
// content marker is never a token; it is gone before this runs.
func expandTokens(doc []byte, params map[string]string) []byte {
	for key, val := range params {
		if key == "content" {
			continue
		}
		doc = bytes.ReplaceAll(doc, []byte("{{"+key+"}}"), []byte(val))
	}
	return doc
}
