// Package schema implements the typed catalog of node/mark/inline specs,
// parse rules, sanitize allowances, input rules, keymaps, toolbar items
// and file handlers that a host plugin set registers into (spec.md §4.3).
// The registry is mutable but scoped to a single editor instance — never
// process-wide (spec.md §9).
package schema

import (
	"fmt"
	"sort"

	"github.com/scrivlet/editorcore/model"
)

// AttributeSpec describes a single node/mark attribute's default value.
type AttributeSpec struct {
	Default any
}

// ParseRule describes how to recognize this node/mark type when parsing
// host markup. Priority defaults to 50 and higher values are tried first
// (spec.md §6).
type ParseRule struct {
	Selector string
	Priority int
}

// SanitizeSpec lists the tags/attrs a node or mark type needs the HTML
// sanitizer to allow through.
type SanitizeSpec struct {
	Tags  []string
	Attrs []string
}

// NodeSpec describes a block node type.
type NodeSpec struct {
	Type      model.NodeType
	Content   model.ContentRule
	Attrs     map[string]AttributeSpec
	ParseHTML []ParseRule
	Sanitize  SanitizeSpec
	ToDOM     func(b *model.BlockNode) any
	ToHTML    func(b *model.BlockNode, content string) string
}

// MarkSpec describes a mark type. Rank controls nesting order when
// serializing wrapped marks: lower rank nests closer to the text content
// (spec.md §4.3). Style-based marks set ToHTMLStyle instead of / in
// addition to ToHTML so the serializer can merge them into one wrapper.
type MarkSpec struct {
	Type        model.MarkTypeName
	Rank        int
	Attrs       map[string]AttributeSpec
	ParseHTML   []ParseRule
	Sanitize    SanitizeSpec
	ToHTML      func(m model.Mark, content string) string
	ToHTMLStyle func(m model.Mark) string // e.g. "color: #ff0000"
}

// EffectiveRank returns Rank, defaulting to 99 per spec.md §4.3.
func (s MarkSpec) EffectiveRank() int {
	if s.Rank == 0 {
		return 99
	}
	return s.Rank
}

// IsStyleBased reports whether this mark serializes via a merged style
// wrapper rather than its own nested element.
func (s MarkSpec) IsStyleBased() bool { return s.ToHTMLStyle != nil }

// InlineNodeSpec describes an inline atom type (image, mention, hard
// break, ...). Naming of specific atoms is left to this layer per
// spec.md §9; the core only knows they have length 1 and opaque attrs.
type InlineNodeSpec struct {
	Type      model.NodeType
	Attrs     map[string]AttributeSpec
	ParseHTML []ParseRule
	Sanitize  SanitizeSpec
	ToHTML    func(a model.InlineAtom) string
}

// Keymap binds a key descriptor (e.g. "Mod-b") to a command name.
type Keymap struct {
	Key     string
	Command string
}

// InputRule recognizes a typed pattern and converts it into a command
// invocation (e.g. "## " -> setBlockType(heading, {level:2})).
type InputRule struct {
	Name    string
	Pattern string
	Command string
}

// ToolbarItem is a toolbar registration, optionally tagged with the
// plugin id that registered it so the plugin fabric can bulk-remove it.
type ToolbarItem struct {
	ID       string
	Label    string
	Command  string
	PluginID string
}

// BlockTypePickerEntry is a "turn this block into..." menu entry.
type BlockTypePickerEntry struct {
	ID       string
	Label    string
	NodeType model.NodeType
	PluginID string
}

// FileHandler matches files by MIME pattern: exact ("image/png"), suffix
// wildcard ("image/*"), or universal ("*" / "*/*").
type FileHandler struct {
	ID       string
	MIME     string
	PluginID string
	Handle   func(data []byte, mime string) error
}

func (h FileHandler) matches(mime string) bool {
	switch h.MIME {
	case "*", "*/*":
		return true
	}
	if h.MIME == mime {
		return true
	}
	if len(h.MIME) > 2 && h.MIME[len(h.MIME)-2:] == "/*" {
		prefix := h.MIME[:len(h.MIME)-1] // keep trailing '/'
		return len(mime) >= len(prefix) && mime[:len(prefix)] == prefix
	}
	return false
}

// RegistrationError is returned for duplicate registration of a
// type-keyed item (spec.md §4.3, §7).
type RegistrationError struct {
	Kind string
	Key  string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("schema: duplicate %s registration for %q", e.Kind, e.Key)
}

// Registry is the mutable, per-editor-instance schema catalog.
type Registry struct {
	nodes    map[model.NodeType]NodeSpec
	marks    map[model.MarkTypeName]MarkSpec
	inlines  map[model.NodeType]InlineNodeSpec
	nodeView map[model.NodeType]any

	keymaps     map[string]Keymap
	inputRules  map[string]InputRule
	toolbar     map[string]ToolbarItem
	pickerItems map[string]BlockTypePickerEntry
	fileHandles map[string]FileHandler

	onKeymapCollision func(key string)
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		nodes:       make(map[model.NodeType]NodeSpec),
		marks:       make(map[model.MarkTypeName]MarkSpec),
		inlines:     make(map[model.NodeType]InlineNodeSpec),
		nodeView:    make(map[model.NodeType]any),
		keymaps:     make(map[string]Keymap),
		inputRules:  make(map[string]InputRule),
		toolbar:     make(map[string]ToolbarItem),
		pickerItems: make(map[string]BlockTypePickerEntry),
		fileHandles: make(map[string]FileHandler),
	}
}

// OnKeymapCollision installs a callback invoked (not thrown) whenever
// RegisterKeymap overwrites an existing binding, per spec.md §4.3.
func (r *Registry) OnKeymapCollision(fn func(key string)) { r.onKeymapCollision = fn }

// --- Node specs ---

func (r *Registry) RegisterNode(spec NodeSpec) error {
	if _, exists := r.nodes[spec.Type]; exists {
		return &RegistrationError{Kind: "node", Key: string(spec.Type)}
	}
	r.nodes[spec.Type] = spec
	return nil
}

func (r *Registry) GetNode(t model.NodeType) (NodeSpec, bool) {
	s, ok := r.nodes[t]
	return s, ok
}

func (r *Registry) RemoveNode(t model.NodeType) { delete(r.nodes, t) }

// NodeTypes returns every registered block node type, order unspecified.
// Used by host-side markup parsers (e.g. htmlbridge) that need to try
// every spec's ParseHTML rules against an element.
func (r *Registry) NodeTypes() []model.NodeType {
	out := make([]model.NodeType, 0, len(r.nodes))
	for t := range r.nodes {
		out = append(out, t)
	}
	return out
}

// ContentRuleFor implements model.ContentLookup.
func (r *Registry) ContentRuleFor(t model.NodeType) (model.ContentRule, bool) {
	s, ok := r.nodes[t]
	return s.Content, ok
}

// --- Mark specs ---

func (r *Registry) RegisterMark(spec MarkSpec) error {
	if _, exists := r.marks[spec.Type]; exists {
		return &RegistrationError{Kind: "mark", Key: string(spec.Type)}
	}
	r.marks[spec.Type] = spec
	return nil
}

func (r *Registry) GetMark(t model.MarkTypeName) (MarkSpec, bool) {
	s, ok := r.marks[t]
	return s, ok
}

func (r *Registry) RemoveMark(t model.MarkTypeName) { delete(r.marks, t) }

// SortedMarkTypes returns mark types whose specs are registered, ordered
// by ascending rank then name, for use by an HTML serializer deciding
// wrapper nesting order (spec.md §4.3).
func (r *Registry) SortedMarkTypes() []model.MarkTypeName {
	out := make([]model.MarkTypeName, 0, len(r.marks))
	for t := range r.marks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := r.marks[out[i]], r.marks[out[j]]
		if si.EffectiveRank() != sj.EffectiveRank() {
			return si.EffectiveRank() < sj.EffectiveRank()
		}
		return out[i] < out[j]
	})
	return out
}

// --- Inline node specs ---

func (r *Registry) RegisterInlineNode(spec InlineNodeSpec) error {
	if _, exists := r.inlines[spec.Type]; exists {
		return &RegistrationError{Kind: "inline node", Key: string(spec.Type)}
	}
	r.inlines[spec.Type] = spec
	return nil
}

func (r *Registry) GetInlineNode(t model.NodeType) (InlineNodeSpec, bool) {
	s, ok := r.inlines[t]
	return s, ok
}

func (r *Registry) RemoveInlineNode(t model.NodeType) { delete(r.inlines, t) }

// --- Node views ---

func (r *Registry) RegisterNodeView(t model.NodeType, factory any) error {
	if _, exists := r.nodeView[t]; exists {
		return &RegistrationError{Kind: "node view", Key: string(t)}
	}
	r.nodeView[t] = factory
	return nil
}

func (r *Registry) GetNodeView(t model.NodeType) (any, bool) {
	v, ok := r.nodeView[t]
	return v, ok
}

func (r *Registry) RemoveNodeView(t model.NodeType) { delete(r.nodeView, t) }

// --- Keymaps ---

// RegisterKeymap logs (via OnKeymapCollision), rather than throws, on
// collision; last registration wins (spec.md §4.3).
func (r *Registry) RegisterKeymap(k Keymap) {
	if _, exists := r.keymaps[k.Key]; exists && r.onKeymapCollision != nil {
		r.onKeymapCollision(k.Key)
	}
	r.keymaps[k.Key] = k
}

func (r *Registry) GetKeymap(key string) (Keymap, bool) {
	k, ok := r.keymaps[key]
	return k, ok
}

func (r *Registry) RemoveKeymap(key string) { delete(r.keymaps, key) }

// --- Input rules ---

func (r *Registry) RegisterInputRule(rule InputRule) error {
	if _, exists := r.inputRules[rule.Name]; exists {
		return &RegistrationError{Kind: "input rule", Key: rule.Name}
	}
	r.inputRules[rule.Name] = rule
	return nil
}

func (r *Registry) RemoveInputRule(name string) { delete(r.inputRules, name) }

func (r *Registry) InputRules() []InputRule {
	out := make([]InputRule, 0, len(r.inputRules))
	for _, v := range r.inputRules {
		out = append(out, v)
	}
	return out
}

// --- Toolbar items / block type picker ---

func (r *Registry) RegisterToolbarItem(item ToolbarItem) error {
	if _, exists := r.toolbar[item.ID]; exists {
		return &RegistrationError{Kind: "toolbar item", Key: item.ID}
	}
	r.toolbar[item.ID] = item
	return nil
}

func (r *Registry) RemoveToolbarItem(id string) { delete(r.toolbar, id) }

func (r *Registry) ToolbarItemsByPlugin(pluginID string) []string {
	var ids []string
	for id, item := range r.toolbar {
		if item.PluginID == pluginID {
			ids = append(ids, id)
		}
	}
	return ids
}

func (r *Registry) RegisterBlockTypePickerEntry(entry BlockTypePickerEntry) error {
	if _, exists := r.pickerItems[entry.ID]; exists {
		return &RegistrationError{Kind: "block type picker entry", Key: entry.ID}
	}
	r.pickerItems[entry.ID] = entry
	return nil
}

func (r *Registry) RemoveBlockTypePickerEntry(id string) { delete(r.pickerItems, id) }

func (r *Registry) BlockTypePickerEntriesByPlugin(pluginID string) []string {
	var ids []string
	for id, entry := range r.pickerItems {
		if entry.PluginID == pluginID {
			ids = append(ids, id)
		}
	}
	return ids
}

// --- File handlers ---

func (r *Registry) RegisterFileHandler(h FileHandler) error {
	if _, exists := r.fileHandles[h.ID]; exists {
		return &RegistrationError{Kind: "file handler", Key: h.ID}
	}
	r.fileHandles[h.ID] = h
	return nil
}

func (r *Registry) RemoveFileHandler(id string) { delete(r.fileHandles, id) }

// FileHandlersFor returns every registered handler whose MIME pattern
// matches mime, in a deterministic (registration id) order so that
// plugin-order-preserving hosts get stable results (spec.md §4.3).
func (r *Registry) FileHandlersFor(mime string) []FileHandler {
	ids := make([]string, 0, len(r.fileHandles))
	for id := range r.fileHandles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []FileHandler
	for _, id := range ids {
		h := r.fileHandles[id]
		if h.matches(mime) {
			out = append(out, h)
		}
	}
	return out
}

// --- Sanitize allowances ---

// DefaultAllowedTags is the base tag allowance per spec.md §4.3.
var DefaultAllowedTags = []string{"p", "br", "div", "span"}

// DefaultAllowedAttrs is the base attribute allowance per spec.md §4.3.
var DefaultAllowedAttrs = []string{"style"}

func appendUnique(dst []string, items ...string) []string {
	for _, item := range items {
		found := false
		for _, existing := range dst {
			if existing == item {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, item)
		}
	}
	return dst
}

// GetAllowedTags returns the union of DefaultAllowedTags with every
// registered node/mark/inline spec's sanitize contribution.
func (r *Registry) GetAllowedTags() []string {
	out := append([]string(nil), DefaultAllowedTags...)
	for _, s := range r.nodes {
		out = appendUnique(out, s.Sanitize.Tags...)
	}
	for _, s := range r.marks {
		out = appendUnique(out, s.Sanitize.Tags...)
	}
	for _, s := range r.inlines {
		out = appendUnique(out, s.Sanitize.Tags...)
	}
	sort.Strings(out)
	return out
}

// GetAllowedAttrs returns the union of DefaultAllowedAttrs with every
// registered node/mark/inline spec's sanitize contribution.
func (r *Registry) GetAllowedAttrs() []string {
	out := append([]string(nil), DefaultAllowedAttrs...)
	for _, s := range r.nodes {
		out = appendUnique(out, s.Sanitize.Attrs...)
	}
	for _, s := range r.marks {
		out = appendUnique(out, s.Sanitize.Attrs...)
	}
	for _, s := range r.inlines {
		out = appendUnique(out, s.Sanitize.Attrs...)
	}
	sort.Strings(out)
	return out
}

// Clear removes every registration of every kind.
func (r *Registry) Clear() {
	r.nodes = make(map[model.NodeType]NodeSpec)
	r.marks = make(map[model.MarkTypeName]MarkSpec)
	r.inlines = make(map[model.NodeType]InlineNodeSpec)
	r.nodeView = make(map[model.NodeType]any)
	r.keymaps = make(map[string]Keymap)
	r.inputRules = make(map[string]InputRule)
	r.toolbar = make(map[string]ToolbarItem)
	r.pickerItems = make(map[string]BlockTypePickerEntry)
	r.fileHandles = make(map[string]FileHandler)
}
