// Package ui is the interactive dashboard: the screen state machine, the
// process table controller, the render composer and the bubbletea event loop
// that owns them.
//
// All mutable dashboard state lives in Model and is only touched from
// Update. Rendering goes through Compose, which reads a Frame and never
// writes back.
package ui
