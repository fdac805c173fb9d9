package triggers

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

// DefaultPatternCacheSize bounds the number of compiled name patterns kept by a Detector.
const DefaultPatternCacheSize = 512

// Word boundaries are Unicode-aware so "plan" matches neither "planet" nor "plané".
const (
	boundaryBefore = `(?:^|[^\p{L}\p{N}_])`
	boundaryAfter  = `(?:$|[^\p{L}\p{N}_])`
)

// Detector finds which enabled triggers a piece of user text mentions.
type Detector struct {
	registry *Registry
	patterns *lru.Cache[string, *regexp.Regexp]
}

// NewDetector creates a detector over the registry with a bounded pattern cache.
func NewDetector(registry *Registry, cacheSize int) *Detector {
	if cacheSize <= 0 {
		cacheSize = DefaultPatternCacheSize
	}
	cache, _ := lru.New[string, *regexp.Regexp](cacheSize)
	return &Detector{
		registry: registry,
		patterns: cache,
	}
}

// Detect returns every enabled trigger whose name occurs in text as a whole word or
// contiguous phrase, case-insensitively. Results follow registry order, each entry at
// most once. No matches yields an empty slice.
func (d *Detector) Detect(text string) []onyxtypes.DetectedTrigger {
	detected := []onyxtypes.DetectedTrigger{}
	if strings.TrimSpace(text) == "" {
		return detected
	}

	for _, def := range d.registry.ListAll() {
		if !def.Enabled {
			continue
		}
		pattern := d.pattern(def.Name)
		if pattern == nil || !pattern.MatchString(text) {
			continue
		}
		detected = append(detected, onyxtypes.DetectedTrigger{
			Name:         def.Name,
			CanonicalTag: Normalize(def.Name),
			Category:     def.Category,
			Instruction:  def.Instruction,
		})
	}
	return detected
}

// Matches reports whether text mentions name under the detector's matching rules.
func (d *Detector) Matches(name, text string) bool {
	pattern := d.pattern(name)
	return pattern != nil && pattern.MatchString(text)
}

func (d *Detector) pattern(name string) *regexp.Regexp {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil
	}
	if re, ok := d.patterns.Get(key); ok {
		return re
	}
	re := compileNamePattern(key)
	d.patterns.Add(key, re)
	return re
}

// compileNamePattern builds a case-insensitive phrase pattern. Whitespace inside a
// multi-word name matches any run of whitespace.
func compileNamePattern(name string) *regexp.Regexp {
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)` + boundaryBefore + strings.Join(words, `\s+`) + boundaryAfter)
}
