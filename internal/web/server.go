package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"crossword/internal/puzzle"
	"crossword/internal/solve"
	"crossword/internal/telemetry"
)

const maxEventSize = 4 << 10

// Server exposes one solve session over JSON and server-sent events.
type Server struct {
	mux     *http.ServeMux
	backend Backend
	logger  telemetry.Logger
	sse     *Broadcaster
	cancel  func()
}

func NewServer(backend Backend, logger telemetry.Logger) *Server {
	if logger == nil {
		logger = telemetry.Nop{}
	}
	s := &Server{
		mux:     http.NewServeMux(),
		backend: backend,
		logger:  logger,
		sse:     NewBroadcaster(),
	}
	s.cancel = backend.Subscribe(s.publish)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/puzzle", s.handlePuzzle)
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("POST /api/events", s.handleEvent)
	s.mux.HandleFunc("GET /api/events/stream", s.handleStream)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; connect-src 'self'")
	s.mux.ServeHTTP(w, r)
}

// Close stops forwarding session changes to streams.
func (s *Server) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Server) publish(v solve.View) {
	evt, err := stateEvent(v)
	if err != nil {
		s.logger.Error("web.encode_failed", map[string]any{"seq": v.Seq, "error": err.Error()})
		return
	}
	s.sse.Broadcast(evt)
}

func stateEvent(v solve.View) (string, error) {
	b, err := json.Marshal(map[string]any{"type": "state", "state": v})
	return string(b), err
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /api/puzzle - grid geometry and clues, without answers.
func (s *Server) handlePuzzle(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newPuzzlePayload(s.backend.Puzzle()))
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.backend.Board())
}

// eventRequest is one browser action. Type selects which fields matter.
type eventRequest struct {
	Type      string `json:"type"`
	Key       string `json:"key"`
	Shift     bool   `json:"shift"`
	Text      string `json:"text"`
	Delete    bool   `json:"delete"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Number    int    `json:"number"`
	Direction string `json:"direction"`
	Scope     string `json:"scope"`
}

// POST /api/events - apply one action; the new state arrives on the stream.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxEventSize)).Decode(&req); err != nil {
		jsonError(w, "invalid json", http.StatusBadRequest)
		return
	}

	b := s.backend
	kind := strings.ToLower(strings.TrimSpace(req.Type))
	switch kind {
	case "key":
		b.OnKey(req.Key, req.Shift)
	case "text":
		b.OnInput(req.Text, req.Delete)
	case "cell_click":
		b.OnCellClick(req.Row, req.Col)
	case "clue_click":
		dir, err := puzzle.ParseDirection(req.Direction)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.OnClueClick(req.Number, dir)
	case "check", "reveal":
		scope, err := solve.ParseScope(req.Scope)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if kind == "check" {
			b.OnCheck(scope)
		} else {
			b.OnReveal(scope)
		}
	case "restart":
		b.OnRestart()
	case "pause":
		b.OnTogglePause()
	case "play":
		b.OnPlay()
	default:
		jsonError(w, "unknown event type", http.StatusBadRequest)
		return
	}
	s.logger.Debug("web.event", map[string]any{"type": kind})
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/events/stream - the current state on connect, then every change.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	s.sse.ServeSSE(w, r, func(c *client) {
		evt, err := stateEvent(s.backend.Board())
		if err != nil {
			return
		}
		c.offer(evt)
	})
}

type puzzlePayload struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Author       string        `json:"author"`
	Date         string        `json:"date"`
	NotesMD      string        `json:"notes_md"`
	CompletionMD string        `json:"completion_md"`
	Rows         int           `json:"rows"`
	Cols         int           `json:"cols"`
	Cells        []cellPayload `json:"cells"`
	Across       []cluePayload `json:"across"`
	Down         []cluePayload `json:"down"`
}

type cellPayload struct {
	Row    int `json:"row"`
	Col    int `json:"col"`
	Number int `json:"number,omitempty"`
}

type cluePayload struct {
	Number int    `json:"number"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Length int    `json:"length"`
	Text   string `json:"text"`
}

func newPuzzlePayload(ix *puzzle.Index) puzzlePayload {
	def := ix.Definition()
	g := ix.Grid()
	out := puzzlePayload{
		ID:           def.PuzzleID,
		Title:        def.Title,
		Author:       def.Author,
		Date:         def.Date,
		NotesMD:      def.NotesMD,
		CompletionMD: def.CompletionMD,
		Rows:         g.Rows,
		Cols:         g.Cols,
		Cells:        make([]cellPayload, 0, g.Len()),
	}
	for _, p := range g.Positions() {
		cell, _ := g.At(p)
		out.Cells = append(out.Cells, cellPayload{Row: p.Row, Col: p.Col, Number: cell.Number})
	}
	for _, c := range ix.Clues(puzzle.Across) {
		out.Across = append(out.Across, newCluePayload(c))
	}
	for _, c := range ix.Clues(puzzle.Down) {
		out.Down = append(out.Down, newCluePayload(c))
	}
	return out
}

func newCluePayload(c puzzle.Clue) cluePayload {
	return cluePayload{Number: c.Number, Row: c.Row, Col: c.Col, Length: len(c.Word), Text: c.Text}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
