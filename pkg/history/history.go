// Package history stores submitted commands for one session and ranks them
// by how often and how recently they were used.
package history

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alantheprice/exoshell/pkg/configuration"
	"github.com/alantheprice/exoshell/pkg/filesystem"
	"github.com/alantheprice/exoshell/pkg/utils"
)

// Entry is one distinct command. Timestamp is in Unix seconds.
type Entry struct {
	Command   string `yaml:"command"`
	Count     uint64 `yaml:"count"`
	Timestamp int64  `yaml:"timestamp"`
}

// History is an ordered list of unique commands bound to a file. A history
// with an empty path is kept in memory only.
type History struct {
	mutex   sync.RWMutex
	path    string
	entries []Entry
	now     func() time.Time
}

// New creates an empty history that persists to path.
func New(path string) *History {
	return &History{path: path, now: time.Now}
}

// Load reads a history file. Entries that appear more than once are merged.
func Load(path string) (*History, error) {
	data, err := filesystem.ReadFileBytes(path)
	if err != nil {
		return nil, utils.NewIOError("read history", path, err)
	}

	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, utils.NewDeserializationError(path, err)
	}

	h := New(path)
	for _, e := range entries {
		h.merge(e)
	}
	utils.GetLogger().Logf("loaded %d history entries from %s", len(h.entries), path)
	return h, nil
}

// Open loads the history for a session name. It never fails: an unreadable
// file gives an empty history that will overwrite it on the next write, and an
// unresolvable directory gives a history that is never written.
func Open(name string) *History {
	logger := utils.GetLogger()

	path, err := configuration.HistoryPath(name)
	if err != nil {
		logger.LogError(err)
		return New("")
	}

	h, err := Load(path)
	if err != nil {
		logger.Logf("starting with empty history for %q: %v", name, err)
		return New(path)
	}
	return h
}

// SetClock replaces the time source used by Update and Rank.
func (h *History) SetClock(now func() time.Time) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.now = now
}

// Path returns the file the history is written to, or "" if ephemeral.
func (h *History) Path() string {
	return h.path
}

// Len returns the number of distinct commands.
func (h *History) Len() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.entries)
}

// Entries returns a copy of the entries in storage order.
func (h *History) Entries() []Entry {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Lookup returns the entry for cmd if present.
func (h *History) Lookup(cmd string) (Entry, bool) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	for _, e := range h.entries {
		if e.Command == cmd {
			return e, true
		}
	}
	return Entry{}, false
}

// Add records one use of cmd at timestamp ts. The entry's last use becomes
// ts even if the clock went backwards.
func (h *History) Add(cmd string, ts int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if i := h.index(cmd); i >= 0 {
		h.entries[i].Count++
		h.entries[i].Timestamp = ts
		return
	}
	h.entries = append(h.entries, Entry{Command: cmd, Count: 1, Timestamp: ts})
}

// merge folds a loaded entry into the list, keeping the latest timestamp of
// duplicates.
func (h *History) merge(e Entry) {
	if i := h.index(e.Command); i >= 0 {
		h.entries[i].Count += e.Count
		h.entries[i].Timestamp = max(h.entries[i].Timestamp, e.Timestamp)
		return
	}
	h.entries = append(h.entries, e)
}

func (h *History) index(cmd string) int {
	for i := range h.entries {
		if h.entries[i].Command == cmd {
			return i
		}
	}
	return -1
}

// Update records a use of cmd now and persists the history. An empty command
// is ignored.
func (h *History) Update(cmd string) error {
	if cmd == "" {
		return nil
	}

	h.mutex.RLock()
	now := h.now()
	h.mutex.RUnlock()
	if now.Before(time.Unix(0, 0)) {
		return utils.NewTimeError(fmt.Errorf("clock reads %s, before the Unix epoch", now.UTC().Format(time.RFC3339)))
	}

	h.Add(cmd, now.Unix())
	return h.Write()
}

// Clear removes every entry and persists the empty history.
func (h *History) Clear() error {
	h.mutex.Lock()
	h.entries = nil
	h.mutex.Unlock()
	return h.Write()
}

// Write saves all entries, replacing the file atomically.
func (h *History) Write() error {
	if h.path == "" {
		return nil
	}

	h.mutex.RLock()
	entries := h.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := yaml.Marshal(entries)
	h.mutex.RUnlock()
	if err != nil {
		return utils.NewSerializationError(h.path, err)
	}

	if err := filesystem.WriteFileAtomic(h.path, data, 0600); err != nil {
		return utils.NewIOError("write history", h.path, err)
	}
	utils.GetLogger().Logf("wrote %d bytes to %s", len(data), h.path)
	return nil
}

// Scored is an entry with its ranking score at a point in time.
type Scored struct {
	Entry
	Score  float64
	Bucket Bucket
}

// Score ranks every entry at the current time, best first.
func (h *History) Score() []Scored {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	now := h.now().Unix()
	scored := make([]Scored, len(h.entries))
	for i, e := range h.entries {
		b := BucketFor(now, e.Timestamp)
		scored[i] = Scored{Entry: e, Score: float64(e.Count) * b.Weight(), Bucket: b}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Timestamp != b.Timestamp {
			return a.Timestamp > b.Timestamp
		}
		return a.Command < b.Command
	})
	return scored
}

// Rank returns the entries ordered by score, best first.
func (h *History) Rank() []Entry {
	scored := h.Score()
	ranked := make([]Entry, len(scored))
	for i, s := range scored {
		ranked[i] = s.Entry
	}
	return ranked
}
