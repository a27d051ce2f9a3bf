package protocol

import "voxelmaze.ai/internal/maze"

// GENERATE (client -> server)
type GenerateMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RequestID       string `json:"request_id,omitempty"`
	Size            [3]int `json:"size"`
	Seed            int64  `json:"seed,omitempty"`
	EmptyBlock      string `json:"empty_block,omitempty"`
	WallBlock       string `json:"wall_block,omitempty"`
	IncludeSlices   bool   `json:"include_slices,omitempty"`
}

// MAZE (server -> client)
type MazeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RequestID       string `json:"request_id,omitempty"`
	MazeID          string `json:"maze_id"`
	Seed            int64  `json:"seed"`
	Size            [3]int `json:"size"`

	EmptyBlock string `json:"empty_block"`
	WallBlock  string `json:"wall_block"`
	Empty      uint16 `json:"empty"`
	Wall       uint16 `json:"wall"`

	Encoding string `json:"encoding"`
	Data     string `json:"data"`
	Digest   string `json:"digest"`

	Stats  maze.Stats  `json:"stats"`
	Report maze.Report `json:"report"`

	Slices []string `json:"slices,omitempty"`
}

// ERROR (server -> client)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RequestID       string `json:"request_id,omitempty"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}

func NewError(requestID, code, message string) ErrorMsg {
	return ErrorMsg{
		Type:            TypeError,
		ProtocolVersion: Version,
		RequestID:       requestID,
		Code:            code,
		Message:         message,
	}
}
