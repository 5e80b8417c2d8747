// Package ui contains the Fyne desktop interface. It wires user input to the
// download service and renders one row per task with its progress, state and
// Cancel/Restart/Show/Open actions.
package ui
