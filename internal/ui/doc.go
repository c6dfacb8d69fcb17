// Package ui is the Bubble Tea terminal interface of jot.
//
// # Architecture
//
// Model follows the Elm loop: Update receives messages, applies
// state.State transitions and returns commands; View renders from the
// state alone. Requests never run inside Update. They are tea.Cmds that
// report back with a message:
//
//	fetchTodosCmd  -> todosLoadedMsg
//	createTodoCmd  -> todoCreatedMsg
//	savePrefsCmd   -> prefsSavedMsg
//
// A todosLoadedMsg carrying afterCreate finishes a submit: the list is
// replaced first, then the input is cleared.
//
// # Package Structure
//
//   - app.go: Model, Update, messages, commands and Run
//   - view.go: header, list card, form card and footer
//   - help.go: key overlay
//   - keys.go: bindings
//   - theme.go: palettes and lipgloss styles
//
// # Input
//
// Every keystroke that changes the input is offered to State.Edit first.
// A value over the length limit is rejected and the input keeps its old
// text, so a paste that would overflow is dropped whole. Input is ignored
// while a submit is outstanding.
package ui
