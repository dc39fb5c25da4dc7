package artifact

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const maxPlainAttempts = 3

// IDGenerator issues test case ids that never repeat within its lifetime.
type IDGenerator struct {
	// Prefix is prepended to every id, e.g. "Generated-".
	Prefix string

	mu    sync.Mutex
	seen  map[string]bool
	now   func() time.Time
	token func() string
}

// NewIDGenerator creates an IDGenerator using the wall clock and random UUIDs.
func NewIDGenerator(prefix string) *IDGenerator {
	return &IDGenerator{
		Prefix: prefix,
		seen:   make(map[string]bool),
		now:    time.Now,
		token:  func() string { return uuid.NewString()[:8] },
	}
}

// NewIDGeneratorFunc creates an IDGenerator with a custom clock and token source.
func NewIDGeneratorFunc(prefix string, now func() time.Time, token func() string) *IDGenerator {
	return &IDGenerator{
		Prefix: prefix,
		seen:   make(map[string]bool),
		now:    now,
		token:  token,
	}
}

// New returns <machine>_<unix>_<token>_<version with dots as underscores>, or
// <unix>-<token> when machine or version is unknown.
func (g *IDGenerator) New(machine, version string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	for attempt := 0; ; attempt++ {
		token := g.token()
		// Past a few collisions the attempt number keeps the token distinct.
		if attempt >= maxPlainAttempts {
			token += strconv.Itoa(attempt)
		}
		id := g.Prefix + g.format(machine, version, token)
		if !g.seen[id] {
			g.seen[id] = true
			return id
		}
	}
}

func (g *IDGenerator) format(machine, version, token string) string {
	ts := g.now().Unix()
	if machine != "" && version != "" {
		return fmt.Sprintf("%s_%d_%s_%s", machine, ts, token, strings.ReplaceAll(version, ".", "_"))
	}
	return fmt.Sprintf("%d-%s", ts, token)
}
