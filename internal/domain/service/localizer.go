package service

// Localizer resolves message keys to display text in the configured language.
type Localizer interface {
	// Get renders key with args; an unknown key renders as the key itself.
	Get(key string, args ...any) string
}
