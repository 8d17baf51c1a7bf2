// Package cache provides LRU caching of per-callable complexity results
// with msgpack disk persistence. Keys are fingerprints of the instruction
// stream, so a callable is re-evaluated only when its bytecode changes.
package cache

import (
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"sync"
	"time"

	"github.com/l3aro/go-ccm/pkg/complexity"
	"github.com/l3aro/go-ccm/pkg/instr"
	"github.com/vmihailenco/msgpack/v5"
)

// Entry is one cached analysis result.
type Entry struct {
	Key        string               `msgpack:"k"`
	Callable   string               `msgpack:"c"`
	Bytecode   complexity.Report    `msgpack:"b"`
	Source     complexity.Report    `msgpack:"s"`
	BasisPaths int                  `msgpack:"bp"`
	Risk       complexity.RiskLevel `msgpack:"r"`
	CreatedAt  time.Time            `msgpack:"t"`
}

// Fingerprint derives the cache key for a callable from its instruction
// stream and the instruction-set version it will be classified with.
func Fingerprint(raws []instr.Raw, version string) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s\n", version)
	for _, raw := range raws {
		target := -1
		if raw.JumpTarget != nil {
			target = *raw.JumpTarget
		}
		fmt.Fprintf(h, "%d %d %s %d\n", raw.Offset, raw.Line, raw.OpName, target)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// node is an element of the intrusive LRU list (most recent at front).
type node struct {
	entry Entry
	prev  *node
	next  *node
}

// LRU is an in-memory least-recently-used cache of analysis results.
// Safe for concurrent use.
type LRU struct {
	mu      sync.Mutex
	items   map[string]*node
	head    *node
	tail    *node
	maxSize int
	onEvict func(Entry)
}

// NewLRU creates a cache holding at most maxSize entries. maxSize <= 0
// means unbounded.
func NewLRU(maxSize int) *LRU {
	return &LRU{
		items:   make(map[string]*node),
		maxSize: maxSize,
	}
}

// OnEvict registers a callback invoked for every evicted entry.
func (c *LRU) OnEvict(fn func(Entry)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get retrieves an entry and marks it most recently used.
func (c *LRU) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok {
		return Entry{}, false
	}
	c.moveToFront(n)
	return n.entry, true
}

// Set stores an entry, evicting the least recently used entry if the cache
// is full.
func (c *LRU) Set(e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.items[e.Key]; ok {
		n.entry = e
		c.moveToFront(n)
		return
	}

	n := &node{entry: e}
	c.items[e.Key] = n
	c.pushFront(n)

	if c.maxSize > 0 && len(c.items) > c.maxSize {
		c.evictBack()
	}
}

// Delete removes a key. Returns true if it was present.
func (c *LRU) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok {
		return false
	}
	c.unlink(n)
	delete(c.items, key)
	return true
}

// Clear removes all entries without invoking the eviction callback.
func (c *LRU) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*node)
	c.head = nil
	c.tail = nil
}

// Len returns the number of cached entries.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *LRU) pushFront(n *node) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *LRU) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev = nil
	n.next = nil
}

func (c *LRU) moveToFront(n *node) {
	if n == c.head {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

func (c *LRU) evictBack() {
	n := c.tail
	if n == nil {
		return
	}
	c.unlink(n)
	delete(c.items, n.entry.Key)
	if c.onEvict != nil {
		c.onEvict(n.entry)
	}
}

// cacheData is the serialized structure for persistence. Entries are kept
// in recency order, most recent first.
type cacheData struct {
	MaxSize int     `msgpack:"max"`
	Entries []Entry `msgpack:"es"`
}

// Save persists the cache to w in msgpack format.
func (c *LRU) Save(w io.Writer) error {
	c.mu.Lock()
	data := cacheData{MaxSize: c.maxSize}
	for n := c.head; n != nil; n = n.next {
		data.Entries = append(data.Entries, n.entry)
	}
	c.mu.Unlock()

	if err := msgpack.NewEncoder(w).Encode(&data); err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	return nil
}

// Load restores the cache from r, replacing the current contents.
func (c *LRU) Load(r io.Reader) error {
	var data cacheData
	if err := msgpack.NewDecoder(r).Decode(&data); err != nil {
		return fmt.Errorf("failed to decode cache: %w", err)
	}

	c.Clear()
	// Insert oldest first so recency order is rebuilt.
	for i := len(data.Entries) - 1; i >= 0; i-- {
		c.Set(data.Entries[i])
	}
	return nil
}

// SaveFile persists the cache to a file.
func (c *LRU) SaveFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()
	return c.Save(file)
}

// LoadFile restores the cache from a file. A missing file leaves the cache
// empty and returns nil.
func (c *LRU) LoadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()
	return c.Load(file)
}
