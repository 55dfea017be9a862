// highlight.go holds the default highlight color used for {==...==} spans.
// The config is process-wide from the CLI's perspective but explicitly
// scoped: callers construct one and thread it into generation.
package docx

import (
	"fmt"
	"sync"
)

// DefaultHighlightColor is the fallback for unset or invalid values.
const DefaultHighlightColor = "yellow"

// highlightColors are the color names the document format accepts on a
// highlight run property.
var highlightColors = map[string]bool{
	"black": true, "blue": true, "cyan": true, "green": true,
	"magenta": true, "red": true, "yellow": true, "white": true,
	"darkBlue": true, "darkCyan": true, "darkGreen": true,
	"darkMagenta": true, "darkRed": true, "darkYellow": true,
	"darkGray": true, "lightGray": true,
}

// HighlightColors returns the accepted color names in no particular order.
func HighlightColors() []string {
	names := make([]string, 0, len(highlightColors))
	for name := range highlightColors {
		names = append(names, name)
	}
	return names
}

// HighlightConfig is the settable default highlight color. The zero value
// falls back to yellow. Safe for concurrent use.
type HighlightConfig struct {
	mu    sync.RWMutex
	color string
}

// NewHighlightConfig returns a config holding the default color.
func NewHighlightConfig() *HighlightConfig {
	return &HighlightConfig{color: DefaultHighlightColor}
}

// Set stores a highlight color. Unknown names are rejected and leave the
// current value unchanged.
func (c *HighlightConfig) Set(color string) error {
	if !highlightColors[color] {
		return fmt.Errorf("unknown highlight color %q", color)
	}
	c.mu.Lock()
	c.color = color
	c.mu.Unlock()
	return nil
}

// Get returns the configured color, falling back to yellow.
func (c *HighlightConfig) Get() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !highlightColors[c.color] {
		return DefaultHighlightColor
	}
	return c.color
}

// Reset restores the yellow default.
func (c *HighlightConfig) Reset() {
	c.mu.Lock()
	c.color = DefaultHighlightColor
	c.mu.Unlock()
}
