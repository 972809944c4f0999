package plugin

import (
	"github.com/scrivlet/editorcore/model"
	"github.com/scrivlet/editorcore/schema"
	"github.com/scrivlet/editorcore/state"
	"github.com/scrivlet/editorcore/transaction"
)

// Context is the capability handle a plugin's Init receives: every
// registration it performs through Context is recorded so Fabric.Destroy
// can reverse it later.
type Context struct {
	fabric     *Fabric
	id         ID
	regs       *Registrations
	getStateFn func() *state.EditorState
	dispatchFn func(transaction.Transaction) error
}

// PluginID returns the owning plugin's ID.
func (c *Context) PluginID() ID { return c.id }

// GetState returns the current editor state.
func (c *Context) GetState() *state.EditorState { return c.getStateFn() }

// Dispatch routes tr through the editor's normal dispatch pipeline.
func (c *Context) Dispatch(tr transaction.Transaction) error { return c.dispatchFn(tr) }

// GetContainer returns the host's single top-level mount point.
func (c *Context) GetContainer() Container { return RootContainer }

// GetPluginContainer returns a named mount point for a plugin to render
// into; the host interprets the position string (e.g. "toolbar",
// "statusline").
func (c *Context) GetPluginContainer(position string) Container { return Container(position) }

// Announce emits an accessibility-style status message on the shared bus.
func (c *Context) Announce(text string) {
	c.fabric.bus.Emit(EventAnnounce, text)
}

// GetEventBus returns the shared event bus.
func (c *Context) GetEventBus() *EventBus { return c.fabric.bus }

// On subscribes to an event and auto-tears the subscription down when this
// plugin is destroyed.
func (c *Context) On(key EventKey, fn func(payload any)) func() {
	unsub := c.fabric.bus.On(key, fn)
	c.regs.eventUnsubs = append(c.regs.eventUnsubs, unsub)
	return unsub
}

// RegisterNode adds a block node type to the shared schema.
func (c *Context) RegisterNode(spec schema.NodeSpec) error {
	if err := c.fabric.schema.RegisterNode(spec); err != nil {
		return err
	}
	c.regs.Nodes = append(c.regs.Nodes, spec.Type)
	return nil
}

// RegisterMark adds a mark type to the shared schema.
func (c *Context) RegisterMark(spec schema.MarkSpec) error {
	if err := c.fabric.schema.RegisterMark(spec); err != nil {
		return err
	}
	c.regs.Marks = append(c.regs.Marks, spec.Type)
	return nil
}

// RegisterInlineNode adds an inline atom type to the shared schema.
func (c *Context) RegisterInlineNode(spec schema.InlineNodeSpec) error {
	if err := c.fabric.schema.RegisterInlineNode(spec); err != nil {
		return err
	}
	c.regs.InlineNodes = append(c.regs.InlineNodes, spec.Type)
	return nil
}

// RegisterNodeView attaches a presentation hook for a node type.
func (c *Context) RegisterNodeView(t model.NodeType, view any) error {
	if err := c.fabric.schema.RegisterNodeView(t, view); err != nil {
		return err
	}
	c.regs.NodeViews = append(c.regs.NodeViews, t)
	return nil
}

// RegisterKeymap binds a key chord to a command name. A collision
// overwrites the existing binding (spec.md §4.3); it never fails.
func (c *Context) RegisterKeymap(k schema.Keymap) {
	c.fabric.schema.RegisterKeymap(k)
	c.regs.Keymaps = append(c.regs.Keymaps, k.Key)
}

// RegisterInputRule adds a pattern-triggered autoformat rule.
func (c *Context) RegisterInputRule(rule schema.InputRule) error {
	if err := c.fabric.schema.RegisterInputRule(rule); err != nil {
		return err
	}
	c.regs.InputRules = append(c.regs.InputRules, rule.Name)
	return nil
}

// RegisterToolbarItem adds a toolbar entry, tagged with this plugin's ID.
func (c *Context) RegisterToolbarItem(item schema.ToolbarItem) error {
	item.PluginID = string(c.id)
	if err := c.fabric.schema.RegisterToolbarItem(item); err != nil {
		return err
	}
	c.regs.ToolbarItems = append(c.regs.ToolbarItems, item.ID)
	return nil
}

// RegisterBlockTypePickerEntry adds a block-type-picker entry, tagged with
// this plugin's ID.
func (c *Context) RegisterBlockTypePickerEntry(entry schema.BlockTypePickerEntry) error {
	entry.PluginID = string(c.id)
	if err := c.fabric.schema.RegisterBlockTypePickerEntry(entry); err != nil {
		return err
	}
	c.regs.PickerEntries = append(c.regs.PickerEntries, entry.ID)
	return nil
}

// RegisterFileHandler adds a paste/drop file handler, tagged with this
// plugin's ID.
func (c *Context) RegisterFileHandler(h schema.FileHandler) error {
	h.PluginID = string(c.id)
	if err := c.fabric.schema.RegisterFileHandler(h); err != nil {
		return err
	}
	c.regs.FileHandlers = append(c.regs.FileHandlers, h.ID)
	return nil
}

// RegisterCommand adds name to the shared command table. A name already
// held by another plugin fails with a RegistrationError naming the
// incumbent (spec.md §4.9).
func (c *Context) RegisterCommand(name string, fn CommandFn) error {
	if owner, exists := c.fabric.commandOwner[name]; exists {
		return &RegistrationError{Kind: "command", Key: name, Owner: owner}
	}
	c.fabric.commands[name] = fn
	c.fabric.commandOwner[name] = c.id
	c.regs.Commands = append(c.regs.Commands, name)
	return nil
}

// RegisterMiddleware adds a transaction middleware step at the given
// priority (ascending; lower runs first).
func (c *Context) RegisterMiddleware(fn Middleware, priority int) {
	c.fabric.middleware = append(c.fabric.middleware, middlewareEntry{fn: fn, priority: priority, pluginID: c.id})
}

// RegisterService publishes impl under key for other plugins to look up.
// A key already held by another plugin fails with a RegistrationError.
func (c *Context) RegisterService(key ServiceKey, impl any) error {
	if owner, exists := c.fabric.serviceOwner[key]; exists {
		return &RegistrationError{Kind: "service", Key: string(key), Owner: owner}
	}
	c.fabric.services[key] = impl
	c.fabric.serviceOwner[key] = c.id
	c.regs.Services = append(c.regs.Services, key)
	return nil
}

// GetService looks up a service published by any plugin (including this
// one).
func (c *Context) GetService(key ServiceKey) (any, bool) {
	v, ok := c.fabric.services[key]
	return v, ok
}

// RegisterStyleSheet contributes CSS text a host may concatenate into its
// rendered output.
func (c *Context) RegisterStyleSheet(css string) {
	c.fabric.styleSheets = append(c.fabric.styleSheets, styleSheetEntry{css: css, pluginID: c.id})
	c.regs.StyleSheets = append(c.regs.StyleSheets, css)
}
