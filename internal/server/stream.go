package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ppiankov/verinex/internal/logging"
	"github.com/ppiankov/verinex/internal/model"
	"github.com/ppiankov/verinex/internal/pipeline"
	"github.com/ppiankov/verinex/internal/validate"
)

const streamWriteWait = 10 * time.Second

// Stream message types
const (
	msgLog    = "log"
	msgResult = "result"
	msgDone   = "done"
	msgError  = "error"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 16 * 1024,
}

type streamMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
	Time time.Time   `json:"time"`
}

// streamWriter sends stream messages. All writes happen on the goroutine
// running the analysis.
type streamWriter struct {
	conn *websocket.Conn
	err  error
}

func (sw *streamWriter) send(kind string, data interface{}) {
	if sw.err != nil {
		return
	}
	payload, err := json.Marshal(streamMessage{Type: kind, Data: data, Time: time.Now()})
	if err != nil {
		sw.err = err
		return
	}
	_ = sw.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	sw.err = sw.conn.WriteMessage(websocket.TextMessage, payload)
}

func (sw *streamWriter) OnLog(e model.LogEntry)  { sw.send(msgLog, e) }
func (sw *streamWriter) OnResult(r *model.Report) { sw.send(msgResult, r) }

var _ pipeline.Observer = (*streamWriter)(nil)

// handleVerifyStream plays the paced analysis log over a WebSocket.
// Each text message from the client is a verifyRequest; the server answers
// with log lines, the result, then done. Closing the socket cancels the
// analysis in progress.
func (srv *Server) handleVerifyStream(w http.ResponseWriter, r *http.Request) {
	s := srv.session(w, r)

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.C(r.Context()).Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithCancel(logging.WithRequest(context.Background(), logging.RequestID(r.Context()), s.ID()))
	defer cancel()
	log := logging.C(ctx)

	requests := make(chan verifyRequest)
	go func() {
		defer cancel()
		defer close(requests)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req verifyRequest
			if err := json.Unmarshal(data, &req); err != nil {
				req = verifyRequest{Text: string(data)}
			}
			select {
			case requests <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	sw := &streamWriter{conn: conn}
	for req := range requests {
		_, err := srv.verify(ctx, s, req, sw)
		switch {
		case err != nil && ctx.Err() != nil:
			log.Debug().Msg("stream closed during analysis")
			return
		case err != nil:
			sw.send(msgError, errorWire{Error: validate.Message(err), Notification: currentNotice(s)})
		default:
			sw.send(msgDone, messageResponse{Notification: currentNotice(s)})
		}
		if sw.err != nil {
			log.Debug().Err(sw.err).Msg("stream write failed")
			return
		}
	}
}
