package web

// Type is the first byte of every message sent to a browser.
type Type = uint8

const (
	// Hello is sent first and carries the history retention as a u16le.
	Hello Type = iota
	// Screen replaces the screen: [Screen][idx u16le][html]. The
	// browser also stores the html in its cache at idx.
	Screen
	// ScreenCache replaces the screen with a cached entry: [ScreenCache][idx u16le].
	ScreenCache
	// ScreenCacheSync fills a cache entry without displaying it.
	ScreenCacheSync
	// StateLine appends a line to the state history: [StateLine][html].
	StateLine
	// HistorySync replaces the whole state history: [HistorySync][html].
	HistorySync
	// ScrollToEnd scrolls the state history to its newest line.
	ScrollToEnd
	// ToggleInfo sets the toggle: [ToggleInfo][style][label].
	ToggleInfo
	// SpeedInfo sets a speed widget: [SpeedInfo][ControlSlider|ControlBox][decimal text].
	SpeedInfo
	// StatusInfo sets the bridge indicator: [StatusInfo][kind][message].
	StatusInfo
	// ControlsInfo enables and disables controls: [ControlsInfo][bits].
	ControlsInfo
	// ServerInfo carries per-client latency: ([id][rtt ms u16le])*.
	ServerInfo
)

// Control bits of a ControlsInfo message.
const (
	ControlToggle = 1 << iota
	ControlSlider
	ControlBox
	ControlLoad
)

// Input is the first byte of every message sent by a browser.
type Input = uint8

const (
	// InputToggle is an activation of the run/pause control.
	InputToggle Input = iota
	// InputSlider is slider input: [InputSlider][text].
	InputSlider
	// InputBox is numeric box input: [InputBox][text].
	InputBox
	// InputLoad is an activation of the load control.
	InputLoad
	KeepAlive = 254
	Closing   = 255
)
