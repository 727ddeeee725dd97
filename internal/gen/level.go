package gen

import (
	"math/rand"
	"strings"
)

// Level is a log severity level.
type Level int

const (
	Trace Level = iota
	Debug
	Info
	Warn
	Error
	Fatal

	numLevels = int(Fatal) + 1
)

// Tag returns the three-letter form rendered into log lines.
func (l Level) Tag() string {
	switch l {
	case Trace:
		return "TRC"
	case Debug:
		return "DBG"
	case Info:
		return "INF"
	case Warn:
		return "WRN"
	case Error:
		return "ERR"
	case Fatal:
		return "FTL"
	}
	return "INF"
}

func (l Level) String() string {
	switch l {
	case Trace:
		return "TRACE"
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	case Fatal:
		return "FATAL"
	}
	return "INFO"
}

// ParseLevel maps a level name or tag (case-insensitive) to a Level.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE", "TRC":
		return Trace, true
	case "DEBUG", "DBG":
		return Debug, true
	case "INFO", "INF":
		return Info, true
	case "WARN", "WARNING", "WRN":
		return Warn, true
	case "ERROR", "ERR":
		return Error, true
	case "FATAL", "FTL":
		return Fatal, true
	}
	return Info, false
}

// pickLevel draws a level with probability weight/sum(weights).
func pickLevel(rng *rand.Rand, weights [numLevels]int) Level {
	total := 0
	for _, w := range weights {
		total += w
	}
	n := rng.Intn(total)
	for i, w := range weights {
		if n < w {
			return Level(i)
		}
		n -= w
	}
	return Info
}
