package websocketPkg

import (
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrClosed    = errors.New("chat connection closed")
	ErrReplyLost = errors.New("chat reply lost")
)

// Reply is one server frame from the chat socket. Error is set instead of
// Response when the turn was rejected.
type Reply struct {
	Response       string    `json:"response"`
	SessionID      string    `json:"session_id"`
	Category       string    `json:"category"`
	MatchedKeyword *string   `json:"matched_keyword"`
	Timestamp      time.Time `json:"timestamp"`
	ProcessingTime float64   `json:"processing_time"`
	Error          string    `json:"error,omitempty"`
}

type IChatClient interface {
	Send(message string) (*Reply, error)
	SessionID() string
	Close() error
}

type Options struct {
	SessionID    string
	PingInterval time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Logger       *logrus.Logger
}

type chatClient struct {
	endpoint     string
	conn         *websocket.Conn
	mu           sync.Mutex
	sessionID    string
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	log          *logrus.Logger
	done         chan struct{}
	closeOnce    sync.Once
}

// Dial opens a chat socket. When opts.SessionID is set the server resumes
// that conversation.
func Dial(endpoint string, opts Options) (IChatClient, error) {
	c := &chatClient{
		endpoint:     endpoint,
		sessionID:    opts.SessionID,
		pingInterval: opts.PingInterval,
		readTimeout:  opts.ReadTimeout,
		writeTimeout: opts.WriteTimeout,
		log:          opts.Logger,
		done:         make(chan struct{}),
	}

	if c.pingInterval <= 0 {
		c.pingInterval = 30 * time.Second
	}
	if c.readTimeout <= 0 {
		c.readTimeout = 60 * time.Second
	}
	if c.writeTimeout <= 0 {
		c.writeTimeout = 5 * time.Second
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}

	if err := c.connect(); err != nil {
		return nil, err
	}

	go c.keepAlive()

	return c, nil
}

func (c *chatClient) dialURL() (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid chat endpoint %q: %w", c.endpoint, err)
	}

	if c.sessionID != "" {
		q := u.Query()
		q.Set("session_id", c.sessionID)
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

func (c *chatClient) connect() error {
	target, err := c.dialURL()
	if err != nil {
		return err
	}

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(target, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.endpoint, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			c.log.Debugf("Error sending pong: %v", err)
		}
		return nil
	})

	c.conn = conn
	c.log.WithField("endpoint", c.endpoint).Debug("Connected to chat socket")
	return nil
}

func (c *chatClient) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Send writes one message and waits for the matching reply. A connection
// that fails on write is redialled once, resuming the current session. A
// reply lost after a successful write returns ErrReplyLost without resending,
// since the server may already have stored the turn.
func (c *chatClient) Send(message string) (*Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return nil, ErrClosed
	default:
	}

	if err := c.write(message); err != nil {
		c.log.WithField("error", err.Error()).Warn("Chat socket write failed, reconnecting")
		if err := c.reconnect(); err != nil {
			return nil, err
		}
		if err := c.write(message); err != nil {
			return nil, err
		}
	}

	data, err := c.read()
	if err != nil {
		c.log.WithField("error", err.Error()).Warn("Chat reply lost, reconnecting")
		if err := c.reconnect(); err != nil {
			c.log.WithField("error", err.Error()).Warn("Reconnect failed")
		}
		return nil, fmt.Errorf("%w: %v", ErrReplyLost, err)
	}

	var reply Reply
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, fmt.Errorf("error decoding reply: %w", err)
	}

	if reply.SessionID != "" {
		c.sessionID = reply.SessionID
	}

	return &reply, nil
}

func (c *chatClient) reconnect() error {
	_ = c.conn.Close()
	return c.connect()
}

func (c *chatClient) write(message string) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}
	return nil
}

func (c *chatClient) read() ([]byte, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
		return nil, err
	}
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("error reading reply: %w", err)
	}
	return data, nil
}

func (c *chatClient) keepAlive() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			conn := c.conn
			c.mu.Unlock()

			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeTimeout)); err != nil {
				c.log.Debugf("Ping failed: %v", err)
			}
		}
	}
}

func (c *chatClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		defer c.mu.Unlock()

		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(c.writeTimeout),
		)
		err = c.conn.Close()
	})
	return err
}
