package onyxtypes

// MemoryItem is a single remembered fact about the user.
type MemoryItem struct {
	Key        string `json:"key" yaml:"key"`
	Value      string `json:"value" yaml:"value"`
	Importance int    `json:"importance,omitempty" yaml:"importance,omitempty"`
}

// MemoryContext is the optional internal context passed to the prompt assembler.
// Either field may be empty; both empty means no memory lines are emitted.
type MemoryContext struct {
	Text  string       `json:"text,omitempty" yaml:"text,omitempty"`
	Items []MemoryItem `json:"items,omitempty" yaml:"items,omitempty"`
}

// IsEmpty reports whether the context carries nothing to append.
func (m MemoryContext) IsEmpty() bool {
	return m.Text == "" && len(m.Items) == 0
}
