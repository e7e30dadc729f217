package ipc

// Request is one command forwarded to the running gestured daemon. Label is
// only meaningful for the record command.
type Request struct {
	Command string `json:"command"`
	Label   string `json:"label,omitempty"`
}

// Response carries the daemon's reply. Counts is populated for the counts
// command; Result carries the latest classification outcome when present.
type Response struct {
	OK      bool           `json:"ok"`
	State   string         `json:"state,omitempty"`
	Message string         `json:"message,omitempty"`
	Error   string         `json:"error,omitempty"`
	Result  string         `json:"result,omitempty"`
	Counts  map[string]int `json:"counts,omitempty"`
}
