package hpl

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const HS_TIMEOUT_S = 5   // handshake timeout in seconds
const HB_INTERVAL_S = 55 // heartbeat interval in seconds

// HplStream is a single-subscription websocket that reconnects and
// resubscribes until its context is cancelled.
type HplStream struct {
	ctx          context.Context
	wsUrl        string
	params       map[string]string
	onEvent      func(e []byte)
	dialer       websocket.Dialer
	conn         *websocket.Conn
	lastPingpong time.Time

	doneC          chan struct{}
	isDisconnected bool // temporary disconnection; the stream may auto-reconnect
	isClosed       bool // permanent closure; the stream will not reconnect

	mu      sync.Mutex
	writeMu sync.Mutex
	logger  *log.Entry
}

func NewStream(ctx context.Context, wsUrl string, params map[string]string, onEvent func(e []byte)) (*HplStream, error) {
	if _, err := url.Parse(wsUrl); err != nil {
		return nil, err
	}
	return &HplStream{
		ctx:     ctx,
		wsUrl:   wsUrl,
		params:  params,
		onEvent: onEvent,
		dialer: websocket.Dialer{
			HandshakeTimeout:  time.Duration(HS_TIMEOUT_S) * time.Second,
			EnableCompression: true,
		},
		logger: log.WithFields(log.Fields{
			"url":  wsUrl,
			"type": params["type"],
		}),
	}, nil
}

// ConnectAndSubscribe returns a channel closed once the stream is closed for good.
func (sm *HplStream) ConnectAndSubscribe() (<-chan struct{}, error) {
	if err := sm.connect(); err != nil {
		return nil, err
	}
	if err := sm.sendSubMsg(); err != nil {
		sm.getConn().Close()
		return nil, err
	}
	sm.setLastPingpong()
	sm.doneC = make(chan struct{})

	go func() {
		<-sm.ctx.Done()
		sm.Close()
	}()
	go sm.subscribe()
	return sm.doneC, nil
}

func (sm *HplStream) connect() error {
	c, _, err := sm.dialer.DialContext(sm.ctx, sm.wsUrl, nil)
	if err != nil {
		sm.logger.Errorf("fail to connect stream: %v", err)
		return err
	}
	sm.mu.Lock()
	sm.conn = c
	sm.mu.Unlock()
	return nil
}

func (sm *HplStream) getConn() *websocket.Conn {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.conn
}

func (sm *HplStream) sendSubMsg() error {
	sm.writeMu.Lock()
	defer sm.writeMu.Unlock()

	subMsg := map[string]interface{}{
		"method":       "subscribe",
		"subscription": sm.params,
	}
	return sm.getConn().WriteJSON(subMsg)
}

func (sm *HplStream) writeMessage(messageType int, data []byte) error {
	sm.writeMu.Lock()
	defer sm.writeMu.Unlock()
	return sm.getConn().WriteMessage(messageType, data)
}

func (sm *HplStream) handleReconnect() {
	sm.forceDisconnect()

	for {
		if sm.IsClosed() {
			return
		}
		select {
		case <-sm.ctx.Done():
			return
		case <-time.After(1 * time.Second):
		}

		if err := sm.connect(); err != nil {
			sm.logger.Errorf("fail to reconnect stream (retrying...): %v", err)
			continue
		}
		if err := sm.sendSubMsg(); err != nil {
			sm.logger.Errorf("fail to resubscribe stream: %v", err)
			sm.getConn().Close()
			continue
		}
		sm.logger.Info("reconnect and resubscribe stream success")
		sm.setLastPingpong()
		sm.mu.Lock()
		sm.isDisconnected = false
		sm.mu.Unlock()
		return
	}
}

func (sm *HplStream) subscribe() {
	// keep stream connection alive
	sm.keepAlive(time.Duration(HB_INTERVAL_S) * time.Second)

	for {
		if sm.IsClosed() {
			return
		}
		_, msg, err := sm.getConn().ReadMessage()
		if err != nil {
			if sm.IsClosed() {
				return
			}
			sm.logger.Errorf("fail to read stream message (trying to reconnect): %v", err)
			sm.handleReconnect()
			continue
		}

		// @dev
		// HPL sends `{"channel": "pong"}` as a regular ws message
		var wsGenericRes wsGenericResponse
		if err := json.Unmarshal(msg, &wsGenericRes); err != nil {
			sm.logger.Warnf("found unknown message format: %v: %v", err, string(msg))
			continue
		}
		sm.setLastPingpong()
		switch wsGenericRes.Channel {
		case "pong":
			sm.logger.Debug("received pong")
		case "error":
			sm.logger.Errorf("found err message during stream: %v", string(msg))
		default:
			sm.onEvent(msg)
		}
	}
}

func (sm *HplStream) keepAlive(interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				// @dev: must check the state inside the ticker loop to handle reconnections
				if sm.IsClosed() {
					return
				}
				if sm.IsDisconnected() {
					continue
				}
				if time.Since(sm.getLastPingpong()) > time.Duration(HS_TIMEOUT_S+HB_INTERVAL_S)*time.Second {
					sm.logger.Warn("KeepAlive timeout: force disconnecting")
					sm.forceDisconnect()
					continue
				}

				ping, _ := json.Marshal(map[string]string{"method": "ping"})
				if err := sm.writeMessage(websocket.TextMessage, ping); err != nil {
					sm.logger.Warnf("fail to write ping during keepAlive: %v", err)
				}
			case <-sm.doneC:
				return
			}
		}
	}()
}

func (sm *HplStream) setLastPingpong() {
	sm.mu.Lock()
	sm.lastPingpong = time.Now()
	sm.mu.Unlock()
}

func (sm *HplStream) getLastPingpong() time.Time {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.lastPingpong
}

// Close() is the final function to be called; the stream cannot be reopened afterward
func (sm *HplStream) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	// @dev: must directly read sm.isClosed here to prevent mutex deadlock
	if sm.isClosed {
		return
	}
	if sm.conn != nil {
		if err := sm.conn.Close(); err != nil {
			sm.logger.Warnf("fail to close stream: %v", err)
		}
	}
	sm.isDisconnected = true
	sm.isClosed = true
	close(sm.doneC)
	sm.logger.Info("🔌 stream closed")
}

func (sm *HplStream) forceDisconnect() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	// @dev: must directly read sm.isDisconnected here to prevent mutex deadlock
	if sm.isDisconnected {
		return
	}
	sm.conn.Close()
	sm.isDisconnected = true
}

func (sm *HplStream) IsDisconnected() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.isDisconnected
}

func (sm *HplStream) IsClosed() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.isClosed
}
