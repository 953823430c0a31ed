package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Timing grounded on vibetunnel's raw_websocket.go: a generous pong
// wait with a ping interval comfortably under it, so a silent client
// is dropped well before a transport-level timeout would fire.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// controlMessage is the JSON envelope a client sends in a text frame.
// The only type acted on is "resize"; keepalives use websocket
// ping/pong control frames, not this envelope.
type controlMessage struct {
	Type string `json:"type"`
	Cols int    `json:"cols,omitempty"`
	Rows int    `json:"rows,omitempty"`
}

// server wires the session manager to an HTTP+websocket transport. It
// is the devcond analogue of devcon's direct host-terminal loop: many
// remote clients in place of one local one.
type server struct {
	mgr *manager
	log *zap.Logger
}

func newServer(mgr *manager, log *zap.Logger) *server {
	return &server{mgr: mgr, log: log}
}

func (s *server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws/{name}", s.handleWebsocket)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleWebsocket upgrades the connection, attaches it to the named
// session (creating one on first use), and pumps bytes in both
// directions until either side closes — the split reader/writer
// goroutine shape raw_websocket.go uses, with a buffered send channel
// so a slow reader never blocks the session's pty pump.
func (s *server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	sess, err := s.mgr.getOrCreate(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	s.log.Info("client attached", zap.String("session", name), zap.String("id", sess.ID))

	outbound := sess.subscribe()
	done := make(chan struct{})

	go s.writer(conn, outbound, done)
	s.reader(conn, sess, outbound, done)
}

func (s *server) writer(conn *websocket.Conn, outbound chan []byte, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer conn.Close()

	for {
		select {
		case data, ok := <-outbound:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (s *server) reader(conn *websocket.Conn, sess *session, outbound chan []byte, done chan struct{}) {
	defer close(done)
	defer sess.unsubscribe(outbound)

	conn.SetReadLimit(32 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		switch msgType {
		case websocket.BinaryMessage:
			_, _ = sess.Write(data)
		case websocket.TextMessage:
			var ctrl controlMessage
			if err := json.Unmarshal(data, &ctrl); err != nil {
				continue
			}
			switch ctrl.Type {
			case "resize":
				_ = sess.Resize(ctrl.Cols, ctrl.Rows)
			case "input":
				// Accepted but not forwarded: controlMessage has no
				// payload field. PTY input is taken from binary frames only.
			}
		}
	}
}
