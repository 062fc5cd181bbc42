package model

import "fmt"

// Site holds site-wide data loaded once at startup and shared by every
// command.
type Site struct {
	// Params is the optional site.yaml parameter map. Keys appear in
	// templates as {{key}} tokens.
	Params map[string]interface{}
}

// ParamString returns the parameter rendered as a string, or "" if unset.
func (s *Site) ParamString(key string) string {
	if s == nil || s.Params == nil {
		return ""
	}
	v, ok := s.Params[key]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
