package ws

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"voxelmaze.ai/internal/encoding"
	"voxelmaze.ai/internal/generator"
	"voxelmaze.ai/internal/persistence/snapshot"
	"voxelmaze.ai/internal/protocol"
	"voxelmaze.ai/internal/render"
)

// Sink receives every maze the server generates.
type Sink interface {
	Record(res generator.Result, source string) (string, snapshot.SnapshotV1, error)
}

type Options struct {
	// Block names used when a request omits them.
	EmptyBlock string
	WallBlock  string

	// MaxInFlight bounds concurrent generations across all connections.
	MaxInFlight int
}

type Server struct {
	gen  *generator.Generator
	sink Sink
	log  *log.Logger
	opts Options

	slots    chan struct{}
	upgrader websocket.Upgrader
}

// NewServer returns a generation server. sink may be nil.
func NewServer(gen *generator.Generator, sink Sink, opts Options, logger *log.Logger) *Server {
	if opts.MaxInFlight <= 0 {
		opts.MaxInFlight = 4
	}
	if opts.EmptyBlock == "" {
		opts.EmptyBlock = "AIR"
	}
	if opts.WallBlock == "" {
		opts.WallBlock = "STONE"
	}
	return &Server{
		gen:   gen,
		sink:  sink,
		log:   logger,
		opts:  opts,
		slots: make(chan struct{}, opts.MaxInFlight),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.SetReadLimit(64 * 1024)

		for {
			_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := writeJSON(conn, s.handle(msg)); err != nil {
				return
			}
		}
	}
}

// handle turns one inbound message into the reply to send.
func (s *Server) handle(msg []byte) any {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return protocol.NewError("", protocol.ErrProtoBadRequest, "invalid json")
	}
	if base.Type != protocol.TypeGenerate {
		return protocol.NewError(base.RequestID, protocol.ErrProtoBadRequest, "expected GENERATE")
	}
	if base.ProtocolVersion != protocol.Version {
		return protocol.NewError(base.RequestID, protocol.ErrProtoBadRequest, "bad protocol_version")
	}
	m, err := protocol.DecodeGenerate(msg)
	if err != nil {
		return protocol.NewError(base.RequestID, protocol.ErrBadRequest, err.Error())
	}

	req := generator.Request{
		Size:       m.Size,
		Seed:       m.Seed,
		EmptyBlock: m.EmptyBlock,
		WallBlock:  m.WallBlock,
	}
	if req.EmptyBlock == "" {
		req.EmptyBlock = s.opts.EmptyBlock
	}
	if req.WallBlock == "" {
		req.WallBlock = s.opts.WallBlock
	}
	if _, _, err := s.gen.Check(req); err != nil {
		return errorFor(m.RequestID, err)
	}

	s.slots <- struct{}{}
	res, err := s.gen.Generate(req)
	<-s.slots
	if err != nil {
		return errorFor(m.RequestID, err)
	}

	if s.sink != nil {
		if _, _, err := s.sink.Record(res, "ws"); err != nil && s.log != nil {
			s.log.Printf("record maze %s: %v", res.ID, err)
		}
	}

	out := protocol.MazeMsg{
		Type:            protocol.TypeMaze,
		ProtocolVersion: protocol.Version,
		RequestID:       m.RequestID,
		MazeID:          res.ID,
		Seed:            res.Seed,
		Size:            res.Size,
		EmptyBlock:      res.EmptyBlock,
		WallBlock:       res.WallBlock,
		Empty:           res.Empty,
		Wall:            res.Wall,
		Encoding:        encoding.Name,
		Data:            encoding.EncodeGrid(res.Grid),
		Digest:          res.Digest,
		Stats:           res.Stats,
		Report:          res.Report,
	}
	if m.IncludeSlices {
		out.Slices = render.SliceStrings[uint16](res.Grid, res.Wall)
	}
	return out
}

func errorFor(requestID string, err error) protocol.ErrorMsg {
	code := protocol.ErrInternal
	switch {
	case errors.Is(err, generator.ErrTooLarge):
		code = protocol.ErrTooLarge
	case errors.Is(err, generator.ErrUnknownBlock):
		code = protocol.ErrUnknownBlock
	case errors.Is(err, generator.ErrBadSize):
		code = protocol.ErrBadRequest
	}
	return protocol.NewError(requestID, code, err.Error())
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
