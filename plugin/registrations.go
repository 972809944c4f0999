package plugin

import "github.com/scrivlet/editorcore/model"

// Registrations enumerates the mutations one plugin made to shared fabric
// state, so Fabric.Destroy can reverse them atomically (spec.md §4.9
// "per-plugin Registrations record"). Middleware is not listed here; it
// carries its plugin id and Destroy drops it by that id.
type Registrations struct {
	Nodes         []model.NodeType
	Marks         []model.MarkTypeName
	InlineNodes   []model.NodeType
	NodeViews     []model.NodeType
	Keymaps       []string
	InputRules    []string
	ToolbarItems  []string
	PickerEntries []string
	FileHandlers  []string
	Commands      []string
	Services      []ServiceKey
	StyleSheets   []string

	eventUnsubs []func()
}

type styleSheetEntry struct {
	css      string
	pluginID ID
}

type middlewareEntry struct {
	fn       Middleware
	priority int
	pluginID ID
}
