package chatbot

// WidgetConfig carries the embedded-widget settings: a vendor CDN bundle
// plus stylesheet, pointed at the same automation webhook. When Enabled,
// the chat page injects the vendor widget instead of the in-page exchange.
type WidgetConfig struct {
	Enabled       bool
	ScriptURL     string // vendor CDN module bundle
	StylesheetURL string
	WebhookURL    string // baked into the widget at initialization
}

// Valid reports whether the config is complete enough to inject.
func (w WidgetConfig) Valid() bool {
	return w.Enabled && w.ScriptURL != "" && w.WebhookURL != ""
}
