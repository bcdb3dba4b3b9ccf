package lighting

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tuf2go/tuf2go/internal/ui"
)

const (
	DefaultColor = "ff0000"
	ColorOff     = "000000"
	ColorWhite   = "FFFFFF"
)

var hexColorPattern = regexp.MustCompile(`^[0-9a-fA-F]{0,6}$`)

// FormatColor sanitizes a user supplied color before it is placed into a command argument or
// hardware write. An optional leading '#' is removed, up to 6 hex digits are left-padded with zeros
// and anything else is replaced by red.
func FormatColor(hex string) string {
	color := strings.TrimPrefix(hex, "#")
	if !hexColorPattern.MatchString(color) {
		ui.Warning("Invalid color format received: '%s', defaulting to red", hex)
		return DefaultColor
	}
	return strings.Repeat("0", 6-len(color)) + color
}

// RGB splits a color into its components, the color is sanitized first
func RGB(hex string) (r, g, b int) {
	color := FormatColor(hex)
	components := make([]int, 3)
	for i := range components {
		value, _ := strconv.ParseInt(color[i*2:i*2+2], 16, 32)
		components[i] = int(value)
	}
	return components[0], components[1], components[2]
}
