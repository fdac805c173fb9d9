// Package triggers implements the trigger-tag response engine: the trigger registry,
// detection of triggers in user text, assembly of directive prompts, and parsing of
// tagged AI replies into clean content plus extractable segments.
//
// Detection, assembly and parsing are pure computations over strings and a registry
// snapshot. Only the registry touches persistence, through an injected KVStore.
package triggers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

// DefaultStoreKey is the key under which custom triggers are persisted.
const DefaultStoreKey = "custom_triggers"

// Registry is the catalog of built-in and custom triggers.
// Built-ins are immutable; custom entries are persisted as one JSON array in the store.
type Registry struct {
	store    onyxtypes.KVStore
	key      string
	builtins []onyxtypes.TriggerDefinition

	observer func(RegistryEvent)

	mu       sync.RWMutex
	snapshot []onyxtypes.TriggerDefinition // nil when stale
	tags     map[string]struct{}
}

// RegistryEvent describes a completed mutation, or a failed read of the custom
// entries (Op "load" with Err set).
type RegistryEvent struct {
	Op    string
	Name  string
	Count int
	Err   error
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithStoreKey overrides the key used for the custom trigger record.
func WithStoreKey(key string) RegistryOption {
	return func(r *Registry) {
		if key != "" {
			r.key = key
		}
	}
}

// WithObserver registers fn to receive every RegistryEvent. The registry itself
// never logs; callers that want a trail observe it.
func WithObserver(fn func(RegistryEvent)) RegistryOption {
	return func(r *Registry) {
		r.observer = fn
	}
}

// NewRegistry creates a registry over the given built-ins and store.
// Passing nil builtins yields a registry with only custom entries.
func NewRegistry(store onyxtypes.KVStore, builtins []onyxtypes.TriggerDefinition, opts ...RegistryOption) *Registry {
	r := &Registry{
		store: store,
		key:   DefaultStoreKey,
	}
	for _, def := range builtins {
		def.IsCustom = false
		r.builtins = append(r.builtins, def)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load reads the custom entries and rebuilds the merged view, reporting store or
// decoding errors. ListAll degrades to built-ins on the same errors.
func (r *Registry) Load() error {
	r.Invalidate()
	_, err := r.view()
	return err
}

// Invalidate drops the cached merged view so the next read goes back to the store.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	r.snapshot = nil
	r.tags = nil
	r.mu.Unlock()
}

// ListAll returns built-ins merged with custom entries. A custom entry whose name
// matches a built-in case-insensitively takes the built-in's position; the remaining
// custom entries follow in insertion order.
func (r *Registry) ListAll() []onyxtypes.TriggerDefinition {
	view, err := r.view()
	if err != nil {
		r.notify(RegistryEvent{Op: "load", Err: err})
	}
	out := make([]onyxtypes.TriggerDefinition, len(view))
	copy(out, view)
	return out
}

// ListCustom returns only the persisted custom entries in insertion order.
func (r *Registry) ListCustom() ([]onyxtypes.TriggerDefinition, error) {
	return r.loadCustom()
}

// Lookup finds an entry in the merged view by name, case-insensitively.
func (r *Registry) Lookup(name string) (onyxtypes.TriggerDefinition, bool) {
	view, _ := r.view()
	for _, def := range view {
		if strings.EqualFold(def.Name, name) {
			return def, true
		}
	}
	return onyxtypes.TriggerDefinition{}, false
}

// IsBuiltin reports whether name belongs to a built-in entry, overridden or not.
func (r *Registry) IsBuiltin(name string) bool {
	for _, def := range r.builtins {
		if strings.EqualFold(def.Name, name) {
			return true
		}
	}
	return false
}

// Add persists a new custom trigger. It fails with *DuplicateTriggerError when the
// name collides case-insensitively with any entry of the merged view.
func (r *Registry) Add(def onyxtypes.TriggerDefinition) error {
	def.Name = strings.TrimSpace(def.Name)
	if def.Name == "" {
		return fmt.Errorf("trigger name cannot be empty")
	}

	view, err := r.view()
	if err != nil {
		return err
	}
	for _, existing := range view {
		if strings.EqualFold(existing.Name, def.Name) {
			return &onyxtypes.DuplicateTriggerError{Name: def.Name, Existing: existing.Name}
		}
	}

	custom, err := r.loadCustom()
	if err != nil {
		return err
	}
	def.IsCustom = true
	custom = append(custom, def)
	if err := r.saveCustom(custom); err != nil {
		return err
	}

	r.notify(RegistryEvent{Op: "add", Name: def.Name, Count: 1})
	return nil
}

// Update replaces the entry named oldName, keeping its position. A missing oldName
// is a no-op. Built-ins are never modified: updating one stores a custom override
// under the built-in's name. Renaming onto another entry's name fails with
// *DuplicateTriggerError.
func (r *Registry) Update(oldName string, def onyxtypes.TriggerDefinition) error {
	view, err := r.view()
	if err != nil {
		return err
	}
	current, found := findByName(view, oldName)
	if !found {
		return nil
	}

	def.Name = strings.TrimSpace(def.Name)
	if def.Name == "" {
		def.Name = current.Name
	}
	if !current.IsCustom || r.IsBuiltin(current.Name) {
		def.Name = current.Name
	}
	if !strings.EqualFold(def.Name, current.Name) {
		if other, taken := findByName(view, def.Name); taken {
			return &onyxtypes.DuplicateTriggerError{Name: def.Name, Existing: other.Name}
		}
	}

	custom, err := r.loadCustom()
	if err != nil {
		return err
	}
	def.IsCustom = true
	replaced := false
	for i := range custom {
		if strings.EqualFold(custom[i].Name, current.Name) {
			custom[i] = def
			replaced = true
			break
		}
	}
	if !replaced {
		custom = append(custom, def)
	}
	if err := r.saveCustom(custom); err != nil {
		return err
	}

	r.notify(RegistryEvent{Op: "update", Name: def.Name, Count: 1})
	return nil
}

// SetEnabled toggles detection for the named entry. A missing name is a no-op.
func (r *Registry) SetEnabled(name string, enabled bool) error {
	def, ok := r.Lookup(name)
	if !ok || def.Enabled == enabled {
		return nil
	}
	def.Enabled = enabled
	return r.Update(name, def)
}

// Delete removes custom entries with the given name. Built-ins are silently kept;
// deleting a custom override brings the built-in underneath back.
func (r *Registry) Delete(name string) error {
	custom, err := r.loadCustom()
	if err != nil {
		return err
	}

	kept := custom[:0]
	for _, def := range custom {
		if !strings.EqualFold(def.Name, name) {
			kept = append(kept, def)
		}
	}
	if len(kept) == len(custom) {
		return nil
	}
	if err := r.saveCustom(kept); err != nil {
		return err
	}

	r.notify(RegistryEvent{Op: "delete", Name: name, Count: len(custom) - len(kept)})
	return nil
}

// Reset discards every custom entry, restoring exactly the built-in set.
func (r *Registry) Reset() error {
	if err := r.store.Delete(r.key); err != nil {
		return fmt.Errorf("failed to reset custom triggers: %w", err)
	}
	r.Invalidate()
	r.notify(RegistryEvent{Op: "reset"})
	return nil
}

// ValidTag reports whether tagText normalizes to the canonical tag of any registry
// entry, enabled or disabled.
func (r *Registry) ValidTag(tagText string) bool {
	tag := Normalize(tagText)
	if tag == "" {
		return false
	}
	_, ok := r.tagSet()[tag]
	return ok
}

// ValidTags returns a copy of the canonical tag set.
func (r *Registry) ValidTags() map[string]struct{} {
	src := r.tagSet()
	out := make(map[string]struct{}, len(src))
	for tag := range src {
		out[tag] = struct{}{}
	}
	return out
}

// CategoryForTag returns the category of the first entry, in registry order, whose
// canonical tag equals Normalize(tag).
func (r *Registry) CategoryForTag(tag string) (onyxtypes.Category, bool) {
	want := Normalize(tag)
	view, _ := r.view()
	for _, def := range view {
		if Normalize(def.Name) == want {
			return def.Category, true
		}
	}
	return "", false
}

// Export returns the custom entries as the persisted JSON array.
func (r *Registry) Export() ([]byte, error) {
	custom, err := r.loadCustom()
	if err != nil {
		return nil, err
	}
	return marshalDefinitions(custom)
}

// ExportAll returns the merged view as a JSON array of the same shape.
func (r *Registry) ExportAll() ([]byte, error) {
	return marshalDefinitions(r.ListAll())
}

// Import loads a JSON array of definitions as custom entries. With merge, entries
// replace same-named custom entries and the rest are appended; without it, the
// custom set is replaced. Entries identical to an unmodified built-in are skipped so
// an ExportAll file round-trips without creating overrides.
func (r *Registry) Import(data []byte, merge bool) error {
	incoming, err := decodeDefinitions(data)
	if err != nil {
		return err
	}

	var custom []onyxtypes.TriggerDefinition
	if merge {
		if custom, err = r.loadCustom(); err != nil {
			return err
		}
	}

	for _, def := range incoming {
		def.Name = strings.TrimSpace(def.Name)
		if def.Name == "" || r.matchesBuiltin(def) {
			continue
		}
		def.IsCustom = true
		if i, ok := indexByName(custom, def.Name); ok {
			custom[i] = def
			continue
		}
		custom = append(custom, def)
	}

	if err := r.saveCustom(custom); err != nil {
		return err
	}

	op := "import"
	if merge {
		op = "merge"
	}
	r.notify(RegistryEvent{Op: op, Count: len(incoming)})
	return nil
}

func (r *Registry) notify(event RegistryEvent) {
	if r.observer != nil {
		r.observer(event)
	}
}

func (r *Registry) matchesBuiltin(def onyxtypes.TriggerDefinition) bool {
	if def.IsCustom {
		return false
	}
	for _, b := range r.builtins {
		if b.Name == def.Name && b.Category == def.Category && b.Instruction == def.Instruction &&
			b.Example == def.Example && b.Enabled == def.Enabled {
			return true
		}
	}
	return false
}

func (r *Registry) view() ([]onyxtypes.TriggerDefinition, error) {
	r.mu.RLock()
	if r.snapshot != nil {
		view := r.snapshot
		r.mu.RUnlock()
		return view, nil
	}
	r.mu.RUnlock()

	custom, err := r.loadCustom()
	merged := mergeDefinitions(r.builtins, custom)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		// Not cached, so a later read retries the store.
		return merged, err
	}
	r.snapshot = merged
	r.tags = tagsOf(merged)
	return merged, nil
}

func (r *Registry) tagSet() map[string]struct{} {
	r.mu.RLock()
	tags := r.tags
	r.mu.RUnlock()
	if tags != nil {
		return tags
	}
	view, _ := r.view()
	return tagsOf(view)
}

func (r *Registry) loadCustom() ([]onyxtypes.TriggerDefinition, error) {
	data, ok, err := r.store.Get(r.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read custom triggers: %w", err)
	}
	if !ok || len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	defs, err := decodeDefinitions(data)
	if err != nil {
		return nil, err
	}
	for i := range defs {
		defs[i].IsCustom = true
	}
	return defs, nil
}

func (r *Registry) saveCustom(defs []onyxtypes.TriggerDefinition) error {
	if defs == nil {
		defs = []onyxtypes.TriggerDefinition{}
	}
	data, err := marshalDefinitions(defs)
	if err != nil {
		return err
	}
	if err := r.store.Set(r.key, data); err != nil {
		return fmt.Errorf("failed to write custom triggers: %w", err)
	}
	r.Invalidate()
	return nil
}

func mergeDefinitions(builtins, custom []onyxtypes.TriggerDefinition) []onyxtypes.TriggerDefinition {
	overrides := make(map[string]onyxtypes.TriggerDefinition, len(custom))
	for _, def := range custom {
		key := strings.ToLower(def.Name)
		if _, dup := overrides[key]; !dup {
			overrides[key] = def
		}
	}

	used := make(map[string]bool, len(builtins)+len(custom))
	merged := make([]onyxtypes.TriggerDefinition, 0, len(builtins)+len(custom))
	for _, def := range builtins {
		key := strings.ToLower(def.Name)
		if used[key] {
			continue
		}
		used[key] = true
		if override, ok := overrides[key]; ok {
			merged = append(merged, override)
			continue
		}
		merged = append(merged, def)
	}
	for _, def := range custom {
		key := strings.ToLower(def.Name)
		if used[key] {
			continue
		}
		used[key] = true
		merged = append(merged, def)
	}
	return merged
}

func tagsOf(defs []onyxtypes.TriggerDefinition) map[string]struct{} {
	tags := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if tag := Normalize(def.Name); tag != "" {
			tags[tag] = struct{}{}
		}
	}
	return tags
}

func findByName(defs []onyxtypes.TriggerDefinition, name string) (onyxtypes.TriggerDefinition, bool) {
	if i, ok := indexByName(defs, name); ok {
		return defs[i], true
	}
	return onyxtypes.TriggerDefinition{}, false
}

func indexByName(defs []onyxtypes.TriggerDefinition, name string) (int, bool) {
	for i, def := range defs {
		if strings.EqualFold(def.Name, name) {
			return i, true
		}
	}
	return -1, false
}

func decodeDefinitions(data []byte) ([]onyxtypes.TriggerDefinition, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &onyxtypes.ImportParseError{Err: fmt.Errorf("expected a JSON array")}
	}
	var defs []onyxtypes.TriggerDefinition
	if err := json.Unmarshal(trimmed, &defs); err != nil {
		return nil, &onyxtypes.ImportParseError{Err: err}
	}
	return defs, nil
}

func marshalDefinitions(defs []onyxtypes.TriggerDefinition) ([]byte, error) {
	if defs == nil {
		defs = []onyxtypes.TriggerDefinition{}
	}
	data, err := json.MarshalIndent(defs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode triggers: %w", err)
	}
	return data, nil
}
