package websocket

import (
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/timkanbur/asyncNetwork/pkg/logger"
	"github.com/timkanbur/asyncNetwork/pkg/network"
)

const (
	maxMessageSize = 10 * 1024
	pongTime       = 60 * time.Second
	pingTime       = pongTime * 9 / 10
	writeWait      = 10 * time.Second
	dialWait       = 3 * time.Second
	sendBuffer     = 32
)

// MessageHandler is invoked by the reader pump for every inbound message.
type MessageHandler func(message []byte, err error)

type WS struct {
	id   network.Uid
	conn deadlinedConn
	send chan []byte

	// OnMessage must be set before Listen is called.
	OnMessage MessageHandler

	pingPong bool

	closed chan struct{}
	once   sync.Once
	log    *logger.Logger

	// Done closes when the reader pump stops, i.e. the connection is gone.
	Done chan struct{}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	WriteBufferPool: &sync.Pool{},
}

// NewServer upgrades an inbound HTTP request to a websocket connection.
func NewServer(w http.ResponseWriter, r *http.Request, log *logger.Logger) (*WS, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return newSocket(conn, true, log), nil
}

// NewClient dials a websocket server with a bounded handshake timeout,
// so one stalled endpoint cannot hang a discovery probe run.
func NewClient(address url.URL, log *logger.Logger) (*WS, error) {
	dialer := websocket.Dialer{HandshakeTimeout: dialWait}
	conn, _, err := dialer.Dial(address.String(), nil)
	if err != nil {
		return nil, err
	}
	return newSocket(conn, false, log), nil
}

func newSocket(conn *websocket.Conn, pingPong bool, log *logger.Logger) *WS {
	ws := &WS{
		id:       network.NewUid(),
		conn:     deadlinedConn{sock: conn, wt: writeWait},
		send:     make(chan []byte, sendBuffer),
		pingPong: pingPong,
		closed:   make(chan struct{}),
		log:      log,
		Done:     make(chan struct{}),
	}
	return ws
}

func (ws *WS) Id() network.Uid { return ws.id }

// Listen starts the reader and writer pumps.
func (ws *WS) Listen() {
	go ws.writer()
	go ws.reader()
}

// reader pumps messages from the websocket connection to the OnMessage callback.
// Serializes all websocket reads.
func (ws *WS) reader() {
	defer func() {
		ws.shut()
		close(ws.Done)
		ws.log.Debug().Msgf("%v [ws] close reader", ws.id.Short())
	}()
	ws.conn.setup(func(conn *websocket.Conn) {
		conn.SetReadLimit(maxMessageSize)
		if ws.pingPong {
			_ = conn.SetReadDeadline(time.Now().Add(pongTime))
			conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(pongTime)) })
		}
	})
	for {
		message, err := ws.conn.read()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ws.log.Debug().Err(err).Msgf("%v [ws] read", ws.id.Short())
			}
			return
		}
		if ws.OnMessage != nil {
			ws.OnMessage(message, nil)
		}
	}
}

// writer pumps messages from the send channel to the websocket
// connection and owns the connection teardown: on close it first
// flushes what was queued before the close request, so a warning sent
// right before a forced disconnect still reaches the peer.
// Serializes all websocket writes.
func (ws *WS) writer() {
	var ping <-chan time.Time
	if ws.pingPong {
		ticker := time.NewTicker(pingTime)
		defer ticker.Stop()
		ping = ticker.C
	}
	defer func() { _ = ws.conn.close() }()
	for {
		select {
		case message := <-ws.send:
			if err := ws.conn.write(websocket.TextMessage, message); err != nil {
				ws.shut()
				return
			}
		case <-ping:
			if err := ws.conn.write(websocket.PingMessage, nil); err != nil {
				ws.shut()
				return
			}
		case <-ws.closed:
			ws.flush()
			_ = ws.conn.write(websocket.CloseMessage, []byte{})
			return
		}
	}
}

func (ws *WS) flush() {
	for {
		select {
		case message := <-ws.send:
			if err := ws.conn.write(websocket.TextMessage, message); err != nil {
				return
			}
		default:
			return
		}
	}
}

// Write queues a message for sending. Messages to an already closed
// connection are dropped silently.
func (ws *WS) Write(data []byte) {
	select {
	case ws.send <- data:
	case <-ws.closed:
	}
}

// Close requests a teardown. Pending messages are flushed by the
// writer pump before the underlying connection goes away, which
// means Listen must have been called before.
func (ws *WS) Close() { ws.shut() }

func (ws *WS) shut() {
	ws.once.Do(func() { close(ws.closed) })
}
