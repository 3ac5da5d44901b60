package rpcpool

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Watcher defaults.
const (
	DefaultStaleAfter     = 30 * time.Second
	DefaultCheckInterval  = 10 * time.Second
	DefaultReconnectDelay = 5 * time.Second
	handshakeTimeout      = 10 * time.Second
)

// SlotWatcher subscribes to slot notifications on each endpoint's
// WebSocket counterpart and demotes the pool's sticky index off
// endpoints that stop producing slots. The pool works without it;
// the watcher only improves the first guess.
type SlotWatcher struct {
	pool      *Pool
	endpoints []string // WS URLs, index-aligned with the pool
	staleAfter time.Duration
	checkEvery time.Duration
	reconnect  time.Duration
	logger     *log.Logger

	lastSeen []atomic.Int64 // Unix ms of last slot notification per endpoint

	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// WatcherOptions configures a SlotWatcher.
type WatcherOptions struct {
	Pool      *Pool
	Endpoints []string // WS URLs, one per pool endpoint

	StaleAfter     time.Duration
	CheckInterval  time.Duration
	ReconnectDelay time.Duration
	Logger         *log.Logger
}

// NewSlotWatcher creates a watcher. Start must be called to begin watching.
func NewSlotWatcher(opts WatcherOptions) *SlotWatcher {
	w := &SlotWatcher{
		pool:       opts.Pool,
		endpoints:  opts.Endpoints,
		staleAfter: opts.StaleAfter,
		checkEvery: opts.CheckInterval,
		reconnect:  opts.ReconnectDelay,
		logger:     opts.Logger,
		lastSeen:   make([]atomic.Int64, len(opts.Endpoints)),
		done:       make(chan struct{}),
	}
	if w.staleAfter == 0 {
		w.staleAfter = DefaultStaleAfter
	}
	if w.checkEvery == 0 {
		w.checkEvery = DefaultCheckInterval
	}
	if w.reconnect == 0 {
		w.reconnect = DefaultReconnectDelay
	}
	if w.logger == nil {
		w.logger = log.Default()
	}
	return w
}

// Start launches one subscription goroutine per endpoint plus the
// staleness checker.
func (w *SlotWatcher) Start(ctx context.Context) {
	now := time.Now().UnixMilli()
	for i := range w.endpoints {
		w.lastSeen[i].Store(now)
		w.wg.Add(1)
		go w.watch(ctx, i)
	}

	w.wg.Add(1)
	go w.checkLoop(ctx)
}

// Stop shuts down all goroutines and waits for them.
func (w *SlotWatcher) Stop() {
	w.once.Do(func() { close(w.done) })
	w.wg.Wait()
}

// LastSeen returns when endpoint i last produced a slot notification.
func (w *SlotWatcher) LastSeen(i int) time.Time {
	return time.UnixMilli(w.lastSeen[i].Load())
}

// watch maintains a slotSubscribe subscription to one endpoint,
// reconnecting with a fixed delay on any failure.
func (w *SlotWatcher) watch(ctx context.Context, idx int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case <-ctx.Done():
			return
		default:
		}

		if err := w.subscribe(ctx, idx); err != nil {
			w.logger.Printf("slot watcher %s: %v", w.endpoints[idx], err)
		}

		select {
		case <-w.done:
			return
		case <-ctx.Done():
			return
		case <-time.After(w.reconnect):
		}
	}
}

type slotNotification struct {
	Method string `json:"method"`
	Params struct {
		Result struct {
			Slot int64 `json:"slot"`
		} `json:"result"`
	} `json:"params"`
}

// subscribe dials the endpoint, issues slotSubscribe and consumes
// notifications until the connection drops or the watcher stops.
func (w *SlotWatcher) subscribe(ctx context.Context, idx int) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, w.endpoints[idx], nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	req := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "slotSubscribe",
	}
	if err := conn.WriteJSON(req); err != nil {
		return err
	}

	// Close the connection when the watcher stops so ReadMessage unblocks.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-w.done:
			conn.Close()
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var notif slotNotification
		if err := json.Unmarshal(msg, &notif); err != nil {
			continue
		}
		if notif.Method != "slotNotification" {
			continue
		}

		w.lastSeen[idx].Store(time.Now().UnixMilli())
	}
}

// checkLoop periodically demotes endpoints that have gone stale.
func (w *SlotWatcher) checkLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.checkEvery)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-w.staleAfter).UnixMilli()
			for i := range w.lastSeen {
				if w.lastSeen[i].Load() < cutoff {
					w.pool.Demote(i)
				}
			}
		}
	}
}
