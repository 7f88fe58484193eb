package model

// Level is a log severity. The zero value is Debug; the declaration order is
// the display order of every report.
type Level uint8

const (
	Debug Level = iota
	Info
	Warning
	Error
	Critical
)

// NumLevels is the size of the closed set of severities.
const NumLevels = int(Critical) + 1

// Levels lists all severities in display order.
var Levels = [NumLevels]Level{Debug, Info, Warning, Error, Critical}

var levelNames = [NumLevels]string{
	Debug:    "DEBUG",
	Info:     "INFO",
	Warning:  "WARNING",
	Error:    "ERROR",
	Critical: "CRITICAL",
}

func (l Level) String() string {
	if !l.Valid() {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// Valid reports whether l belongs to the closed set of severities.
func (l Level) Valid() bool {
	return int(l) < NumLevels
}

// ParseLevel recognizes exactly the five upper-case level tokens.
func ParseLevel(s string) (Level, bool) {
	for _, l := range Levels {
		if levelNames[l] == s {
			return l, true
		}
	}
	return 0, false
}

// Line is a parsed log line. Handler is empty when the line carries a level
// but no identifiable request handler.
type Line struct {
	Level   Level
	Handler string
}
