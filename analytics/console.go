package analytics

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// DirectMessageGuild tags usage that happened outside any guild.
const DirectMessageGuild = "direct"

// Level is the severity of a log point.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// warn is red, error is yellow.
func (l Level) color() string {
	switch l {
	case LevelError:
		return "\x1b[33m"
	case LevelWarn:
		return "\x1b[31m"
	default:
		return "\x1b[32m"
	}
}

const colorReset = "\x1b[0m"

type console struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

// print writes "<RFC3339 UTC> [<colored level>] msg".
func (c *console) print(level Level, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s [%s%s%s] %s\n",
		c.now().UTC().Format(time.RFC3339), level.color(), level, colorReset, msg)
}
