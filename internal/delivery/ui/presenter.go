package ui

// Presenter is the display surface the event loop drives.
type Presenter interface {
	ShowInfo(message string)
	ShowWarning(message string)
	// ForceTerminate ends the process after releasing what it can.
	ForceTerminate()
}
