// Package ui contains the Bubble Tea program that browses a session's result
// cases. The Model type focuses on message orchestration, while dedicated
// helpers own navigation, input, rendering, and the detail panel.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages.
//   - Update forwards messages to the script prompt while it is open. Otherwise
//     the message is routed through a typed handler registry so each tea.Msg
//     is handled by a focused function (key presses, watcher events, action
//     results).
//   - Navigation helpers (navigation.go) manage the stack of menu levels.
//     Result groups open nested levels whose ids encode the path into the
//     result tree ("results:0:2"). Filter and input helpers (input.go) keep
//     text entry isolated from the event loop.
//
// State ownership:
//   - The session (internal/session) owns models, cases, and labels. It is
//     only touched from Update: menu actions and loaders run before their
//     tea.Cmd is returned, and the commands merely deliver the outcome.
//   - The Model is the session catalog's Browser. UpdateResults receives
//     every tree push and rebuilds the open result levels.
//   - Menu level state lives in internal/ui/state.Level, which tracks items,
//     filtering, and viewport calculations.
//
// Watcher interactions:
//   - A backend.Watcher parses files dropped into the watch directory on its
//     own goroutine and streams them as events. Update hands each one to the
//     dispatcher, which loads it into the session, then refreshes the levels
//     that depend on it.
package ui
