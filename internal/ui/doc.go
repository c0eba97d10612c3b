// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a two-view workflow over the beatmap library:
//  1. [LibraryListView] : Browse library items with filtering
//  2. [DetailView] : Inspect one map, including its rendered highlight bar
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Done/todo toggling writes through to the item repository immediately.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, d, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
