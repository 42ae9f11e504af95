package browse

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	filter     key.Binding
	clear      key.Binding
	nextColumn key.Binding
	sort       key.Binding
	open       key.Binding
	yank       key.Binding
	geo        key.Binding
	rescan     key.Binding
	export     key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		nextColumn: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next sort column"),
		),
		sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "open folder"),
		),
		yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy path"),
		),
		geo: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "coordinates"),
		),
		rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "export csv"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.filter, k.nextColumn, k.sort, k.open, k.yank, k.geo, k.rescan, k.export, k.quit}
}
