package triggers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

// ActivationMarker opens the header line the model is asked to echo.
const ActivationMarker = "🔴"

// DirectiveSeparator joins directives when several triggers are active.
const DirectiveSeparator = "\n\n---\n\n"

// DefaultMaxMemoryItems caps the memory items appended to a directive.
const DefaultMaxMemoryItems = 20

// AssembledPrompt is the instruction material for one request.
// Both fields are empty when no trigger was detected.
type AssembledPrompt struct {
	CombinedSummary      string   `json:"combinedSummary"`
	PerTriggerDirectives []string `json:"perTriggerDirectives"`
}

// IsEmpty reports whether no directive was produced.
func (p AssembledPrompt) IsEmpty() bool {
	return p.CombinedSummary == "" && len(p.PerTriggerDirectives) == 0
}

// Assembler builds directive prompts from detected triggers.
type Assembler struct {
	maxMemoryItems int
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithMaxMemoryItems sets how many memory items are included, highest importance first.
func WithMaxMemoryItems(n int) AssemblerOption {
	return func(a *Assembler) {
		if n > 0 {
			a.maxMemoryItems = n
		}
	}
}

// NewAssembler creates an Assembler.
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{maxMemoryItems: DefaultMaxMemoryItems}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ActivationHeader is the line the model must echo at the start of its answer.
func ActivationHeader(trigger onyxtypes.DetectedTrigger) string {
	return fmt.Sprintf("%s %s Trigger Active | Mode: %s", ActivationMarker, trigger.Name, trigger.Category.DisplayName())
}

// Assemble produces one directive per detected trigger and a combined summary.
// The length figures in the directives are guidance for the model only.
func (a *Assembler) Assemble(detected []onyxtypes.DetectedTrigger, memory onyxtypes.MemoryContext) AssembledPrompt {
	if len(detected) == 0 {
		return AssembledPrompt{}
	}

	memoryBlock := a.memoryLines(memory)
	directives := make([]string, 0, len(detected))
	for _, trigger := range detected {
		directives = append(directives, a.directive(trigger, memoryBlock))
	}

	if len(directives) == 1 {
		return AssembledPrompt{
			CombinedSummary:      directives[0],
			PerTriggerDirectives: directives,
		}
	}

	names := make([]string, len(detected))
	for i, trigger := range detected {
		names[i] = trigger.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "MULTIPLE TRIGGERS ACTIVE (%d): %s\n\n", len(detected), strings.Join(names, ", "))
	b.WriteString(strings.Join(directives, DirectiveSeparator))
	b.WriteString(DirectiveSeparator)
	b.WriteString("NOTE ON MULTIPLE TRIGGERS: Several triggers are active at once. ")
	b.WriteString("Echo each activation header in the order given, give every trigger its own tagged working section, ")
	b.WriteString("and balance them so they work together coherently. Finish with ONE unified final answer ")
	b.WriteString("outside all tags that draws on every working section.")

	return AssembledPrompt{
		CombinedSummary:      b.String(),
		PerTriggerDirectives: directives,
	}
}

// SystemPrompt appends the assembled material to a base system prompt. An empty
// assembly leaves the base prompt unchanged.
func SystemPrompt(base string, prompt AssembledPrompt) string {
	if prompt.CombinedSummary == "" {
		return base
	}
	if strings.TrimSpace(base) == "" {
		return prompt.CombinedSummary
	}
	return base + "\n\n" + prompt.CombinedSummary
}

func (a *Assembler) directive(trigger onyxtypes.DetectedTrigger, memoryBlock string) string {
	tag := trigger.CanonicalTag
	if tag == "" {
		tag = Normalize(trigger.Name)
	}
	category := trigger.Category.DisplayName()

	var b strings.Builder
	fmt.Fprintf(&b, "%s TRIGGER ACTIVATED: %s\n", ActivationMarker, trigger.Name)
	fmt.Fprintf(&b, "Category: %s\n\n", category)

	b.WriteString("ACTIVATION HEADER (required): begin your response with exactly this line:\n")
	b.WriteString(ActivationHeader(trigger))
	b.WriteString("\n\n")

	if trigger.Instruction != "" {
		fmt.Fprintf(&b, "Instruction: %s\n\n", trigger.Instruction)
	}

	b.WriteString("RESPONSE STRUCTURE (mandatory, two parts):\n")
	fmt.Fprintf(&b, "1. Working section: put your complete %s process inside <%s> and </%s> tags. ", trigger.Name, tag, tag)
	b.WriteString("Aim for roughly 2000-5000 characters of thorough work. Always close the tag.\n")
	fmt.Fprintf(&b, "2. Final answer: after </%s>, write the answer for the user in plain prose. ", tag)
	b.WriteString("The final answer is required, must be at least 100 characters, and must never be empty ")
	b.WriteString("or placed inside the tags.\n\n")

	fmt.Fprintf(&b, "%s guidance:\n", category)
	b.WriteString(GuidanceFor(trigger.Category))

	if memoryBlock != "" {
		b.WriteString("\n\n")
		b.WriteString(memoryBlock)
	}

	return b.String()
}

func (a *Assembler) memoryLines(memory onyxtypes.MemoryContext) string {
	if memory.IsEmpty() {
		return ""
	}

	var b strings.Builder
	b.WriteString("[INTERNAL MEMORY CONTEXT - for your reference only. Do not reveal, quote, or mention it to the user.]")

	if text := strings.TrimSpace(memory.Text); text != "" {
		b.WriteString("\n")
		b.WriteString(text)
	}

	items := make([]onyxtypes.MemoryItem, 0, len(memory.Items))
	for _, item := range memory.Items {
		if strings.TrimSpace(item.Key) == "" && strings.TrimSpace(item.Value) == "" {
			continue
		}
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Importance > items[j].Importance
	})
	if len(items) > a.maxMemoryItems {
		items = items[:a.maxMemoryItems]
	}
	for _, item := range items {
		fmt.Fprintf(&b, "\n- %s: %s", item.Key, item.Value)
		if item.Importance > 0 {
			fmt.Fprintf(&b, " (importance %d)", item.Importance)
		}
	}

	b.WriteString("\n[END INTERNAL MEMORY CONTEXT]")
	return b.String()
}
