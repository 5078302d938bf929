package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"controlling_doze/internal/logger"
	"controlling_doze/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000
)

const (
	frameStatus = "status"
	frameError  = "error"
)

const errSerialRequired = "query parameter 'serial' is required"

type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// statusSource produces one snapshot per push.
type statusSource func(ctx context.Context, serial string) (models.StatusSnapshot, error)

// streamOptions are read from the /ws query string.
type streamOptions struct {
	serial      string
	interval    time.Duration
	snapshot    bool // stored snapshot instead of a device read
	onlyChanges bool // skip frames whose doze states equal the last one sent
}

func parseStreamOptions(c *gin.Context) streamOptions {
	o := streamOptions{serial: c.Query("serial"), interval: parseInterval(c)}
	o.snapshot, _ = strconv.ParseBool(c.Query("snapshot"))
	o.onlyChanges, _ = strconv.ParseBool(c.Query("only_changes"))
	return o
}

// parseInterval reads ?interval=2s or ?interval_ms=2000, bounded by maxInterval.
func parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultInterval
}

// @Summary      Stream doze status
// @Description  Upgrades to WebSocket and pushes {"type":"status","data":StatusSnapshot} every interval. With snapshot=1 the stored snapshot is sent instead of querying the device; with only_changes=1 unchanged states are not resent.
// @Tags         doze
// @Param        serial        query  string  true   "Device serial"
// @Param        interval      query  string  false  "Push interval, e.g. 2s (max 10s)"
// @Param        interval_ms   query  int     false  "Push interval in milliseconds"
// @Param        snapshot      query  bool    false  "Send the stored snapshot"
// @Param        only_changes  query  bool    false  "Push only when a doze state changes"
// @Param        access_token  query  string  false  "Operator token when the Authorization header cannot be set"
// @Failure      401           {object}  map[string]string
// @Router       /ws [get]
// @Security     BearerAuth
func (h *Handler) wsConnect(c *gin.Context) {
	opts := parseStreamOptions(c)
	if opts.serial == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errSerialRequired})
		return
	}
	source := statusSource(h.services.Monitoring.GetStatus)
	if opts.snapshot {
		source = h.services.Monitoring.LastSnapshot
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err, "serial", opts.serial)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	s := &statusStream{conn: conn, source: source, opts: opts, log: h.log.Device(opts.serial)}
	s.run(c.Request.Context())
}

// statusStream pushes status frames for one device over one connection.
type statusStream struct {
	conn   *websocket.Conn
	source statusSource
	opts   streamOptions
	log    *logger.Logger

	last *models.StatusSnapshot
}

func (s *statusStream) run(ctx context.Context) {
	s.conn.SetReadLimit(maxMsgSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	closed := make(chan struct{})
	go s.drain(closed)

	ticker := time.NewTicker(s.opts.interval)
	ping := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer ping.Stop()

	if err := s.push(ctx); err != nil {
		s.info("ws_write_failed_initial", err)
		return
	}
	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.info("ws_ping_failed", err)
				return
			}
		case <-ticker.C:
			if err := s.push(ctx); err != nil {
				s.info("ws_write_failed", err)
				return
			}
		}
	}
}

// drain consumes client frames so control messages are handled, and closes
// closed when the peer goes away.
func (s *statusStream) drain(closed chan<- struct{}) {
	defer close(closed)
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			s.info("ws_read_closed", err)
			return
		}
	}
}

// push reads one snapshot and sends it. A read failure is sent as an error
// frame and ends the stream.
func (s *statusStream) push(ctx context.Context) error {
	st, err := s.source(ctx, s.opts.serial)
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err != nil {
		if s.log != nil {
			s.log.Errorw("ws_get_status_failed", "err", err)
		}
		_ = s.conn.WriteJSON(wsEnvelope{Type: frameError, Error: err.Error()})
		return err
	}
	if s.opts.onlyChanges && s.last != nil && s.last.Deep == st.Deep && s.last.Light == st.Light {
		return nil
	}
	s.last = &st
	return s.conn.WriteJSON(wsEnvelope{Type: frameStatus, Data: st})
}

func (s *statusStream) info(event string, err error) {
	if s.log != nil {
		s.log.Infow(event, "err", err)
	}
}
