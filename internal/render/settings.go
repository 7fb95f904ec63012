package render

// Settings is the option bag forwarded to both implementations.
// Zero MaxSize and MaxExpand mean no limit.
type Settings struct {
	DisplayMode  bool    `json:"display_mode" yaml:"display_mode"`
	Output       string  `json:"output" yaml:"output"`
	ThrowOnError bool    `json:"throw_on_error" yaml:"throw_on_error"`
	Trust        bool    `json:"trust" yaml:"trust"`
	MaxSize      float64 `json:"max_size,omitempty" yaml:"max_size,omitempty"`
	MaxExpand    int     `json:"max_expand,omitempty" yaml:"max_expand,omitempty"`
	Strict       string  `json:"strict" yaml:"strict"`
}

// DefaultSettings returns display mode with trust enabled, 1000 macro
// expansions and a 200000em size cap.
func DefaultSettings() Settings {
	return Settings{
		DisplayMode: true,
		Output:      "html",
		Trust:       true,
		MaxSize:     200000,
		MaxExpand:   1000,
		Strict:      "ignore",
	}
}

// Wire returns the settings as sent to an implementation. Errors must come
// back as values, so ThrowOnError is always false.
func (s Settings) Wire() Settings {
	s.ThrowOnError = false
	return s
}
