package notifier

// TextNotifier defines a minimal text notification interface.
// It is intentionally small so the pipeline can depend on it without
// importing concrete transports.
type TextNotifier interface {
	SendText(text string) error
}
