package cart

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	cartdto "github.com/angelmondragon/reactmeals-backend/api/controllers/cart/dto"
	"github.com/angelmondragon/reactmeals-backend/api/responses"
	cartsvc "github.com/angelmondragon/reactmeals-backend/internal/cart"
	"github.com/angelmondragon/reactmeals-backend/pkg/logger"
)

const (
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 10 * time.Second
	wsEventBuffer  = 32
)

// WebSocketOptions tunes the cart stream.
type WebSocketOptions struct {
	CheckOrigin  func(r *http.Request) bool
	PingInterval time.Duration
}

// CartWebSocket streams the cart: a snapshot on connect, one event per
// published state afterwards.
func CartWebSocket(sessions Sessions, logg *logger.Logger, opts WebSocketOptions) http.HandlerFunc {
	upgrader := websocket.Upgrader{CheckOrigin: opts.CheckOrigin}
	ping := opts.PingInterval
	if ping <= 0 {
		ping = wsPingInterval
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := controllerFor(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			if logg != nil {
				logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "cart.ws_upgrade_failed")
			}
			return
		}
		defer conn.Close()

		events := make(chan cartdto.CartEvent, wsEventBuffer)
		overflow := make(chan struct{})
		var overflowed bool
		// Subscribers run under the controller lock, so the send never blocks.
		snapshot, unsubscribe := ctrl.SubscribeWithSnapshot(func(state cartsvc.State) {
			if overflowed {
				return
			}
			select {
			case events <- newCartEvent(EventUpdated, state):
			default:
				overflowed = true
				close(overflow)
			}
		})
		defer unsubscribe()

		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.NextReader(); err != nil {
					return
				}
			}
		}()

		ctx := r.Context()
		if logg != nil {
			logg.Debug(ctx, "cart.ws_connected")
		}

		if err := writeEvent(conn, newCartEvent(EventSnapshot, snapshot)); err != nil {
			return
		}

		ticker := time.NewTicker(ping)
		defer ticker.Stop()
		for {
			select {
			case evt := <-events:
				if err := writeEvent(conn, evt); err != nil {
					return
				}
			case <-ticker.C:
				ctrl.Touch()
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-overflow:
				if logg != nil {
					logg.Warn(ctx, "cart.ws_slow_consumer")
				}
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "client too slow"),
					time.Now().Add(wsWriteTimeout))
				return
			case <-closed:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}

func writeEvent(conn *websocket.Conn, evt cartdto.CartEvent) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(evt)
}
