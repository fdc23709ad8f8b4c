package ws

import (
	"github.com/coreman2200/arcaluminis-presets/internal/diagnostics"
	"github.com/coreman2200/arcaluminis-presets/internal/player"
	"github.com/coreman2200/arcaluminis-presets/internal/scene"
)

// Frame is streamed to /ws clients.
type Frame struct {
	Type    string             `json:"type"` // "frame"
	FrameID uint64             `json:"frame_id"`
	Time    float64            `json:"time"`
	State   player.State       `json:"state"`
	Mode    player.Mode        `json:"mode"`
	Camera  scene.Camera       `json:"camera"`
	Params  map[string]float64 `json:"params,omitempty"`
	Events  []string           `json:"events,omitempty"`
	Objects []scene.Object     `json:"objects"`
}

// Topology is sent once when a /ws client connects.
type Topology struct {
	Type    string   `json:"type"` // "scene"
	Objects int      `json:"objects"`
	Roles   []string `json:"roles"`
	Solver  string   `json:"solver,omitempty"`
	FPS     int      `json:"fps"`
}

// Command is one /control request.
type Command struct {
	Cmd string `json:"cmd"`

	T     float64 `json:"t,omitempty"`    // seek
	Name  string  `json:"name,omitempty"` // savePose, solver, openProject path
	Bass  float64 `json:"bass,omitempty"`
	Mids  float64 `json:"mids,omitempty"`
	Highs float64 `json:"highs,omitempty"`

	// param
	Descriptor string  `json:"descriptor,omitempty"`
	Key        string  `json:"key,omitempty"`
	Value      float64 `json:"value,omitempty"`
}

// Ack answers every command.
type Ack struct {
	Type  string       `json:"type"` // "ack"
	Cmd   string       `json:"cmd"`
	OK    bool         `json:"ok"`
	Error string       `json:"error,omitempty"`
	State player.State `json:"state"`
	Time  float64      `json:"time"`
}

type diagMsg struct {
	Type string `json:"type"` // "diag"
	diagnostics.Diagnostic
}
