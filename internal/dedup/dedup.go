package dedup

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// SentRegister is the persisted set of addresses that have already been
// contacted. Adding an address twice is a no-op.
type SentRegister struct {
	filePath string
	sent     mapset.Set[string]
}

// NewSentRegister loads the register at path. A missing file is an empty
// register; a corrupt one is logged and also treated as empty.
func NewSentRegister(path string) *SentRegister {
	reg := &SentRegister{
		filePath: path,
		sent:     mapset.NewSet[string](),
	}
	reg.load()
	return reg
}

func (r *SentRegister) Contains(addr string) bool {
	return r.sent.Contains(addr)
}

func (r *SentRegister) Len() int {
	return r.sent.Cardinality()
}

// Filter splits addrs into those never contacted, in input order, and the
// number skipped because they already are in the register.
func (r *SentRegister) Filter(addrs []string) (fresh []string, skipped int) {
	fresh = make([]string, 0, len(addrs))
	for _, addr := range addrs {
		if r.Contains(addr) {
			skipped++
			continue
		}
		fresh = append(fresh, addr)
	}
	return fresh, skipped
}

func (r *SentRegister) Add(addrs ...string) {
	r.sent.Append(addrs...)
}

// Save writes the register atomically as a sorted JSON array.
func (r *SentRegister) Save() error {
	entries := r.sent.ToSlice()
	sort.Strings(entries)
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sent register: %w", err)
	}

	dir := filepath.Dir(r.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create register directory: %w", err)
	}
	tmp := r.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, r.filePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", r.filePath, err)
	}
	log.Printf("💾 Saved %d contacted addresses to %s", len(entries), r.filePath)
	return nil
}

func (r *SentRegister) load() {
	data, err := os.ReadFile(r.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read %s: %v", r.filePath, err)
		}
		return
	}

	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse %s, starting with an empty register: %v", r.filePath, err)
		return
	}
	r.sent.Append(entries...)
	log.Printf("📋 Loaded %d previously contacted addresses", r.sent.Cardinality())
}
