package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"fleet-tracking-service/internal/api/dto"
	"fleet-tracking-service/internal/platform/auth"
	"fleet-tracking-service/internal/ports"
	"fleet-tracking-service/internal/services"

	"github.com/gorilla/websocket"
)

const (
	liveAuthTimeout = 5 * time.Second
	livePingEvery   = 30 * time.Second
	livePongWait    = 60 * time.Second
	liveWriteWait   = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict origins once the dashboard's deploy host is fixed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LiveHandler streams aggregated trip snapshots over a websocket. The client
// authenticates with its first message ({"token": "..."}); every subsequent
// frame from the server is a full trips payload, sent only when the
// underlying runs changed.
type LiveHandler struct {
	Feed   ports.RunFeed
	Users  ports.UserRepository
	Tokens *auth.TokenService
}

func (h *LiveHandler) Trips(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	claims, ok := h.authenticate(conn)
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sub, err := h.Feed.SubscribeRuns(ctx, claims.CompanyID, claims.SectorID)
	if err != nil {
		log.Printf("subscribe runs failed: %v", err)
		_ = conn.WriteJSON(map[string]string{"error": "subscription unavailable"})
		return
	}
	defer sub.Close()

	// Read pump: the client sends nothing after auth, but reading is what
	// surfaces pong frames and connection closure.
	go func() {
		defer cancel()
		conn.SetReadLimit(1024)
		_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(livePongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(livePingEvery)
	defer ticker.Stop()

	query := services.TripQuery{CompanyID: claims.CompanyID, SectorID: claims.SectorID}

	for {
		select {
		case <-ctx.Done():
			return

		case runs, open := <-sub.Updates():
			if !open {
				if err := sub.Err(); err != nil {
					log.Printf("live feed ended: %v", err)
				}
				return
			}

			shifts, err := services.ShiftLookup(ctx, query, h.Users)
			if err != nil {
				log.Printf("shift lookup failed: %v", err)
				return
			}
			trips := services.AggregateRuns(runs, shifts)

			payload := dto.ListTripsResponse{Trips: make([]dto.TripResponse, 0, len(trips))}
			for _, t := range trips {
				payload.Trips = append(payload.Trips, tripResponse(t))
			}

			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteJSON(payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// authenticate enforces first-message token auth within a short deadline.
func (h *LiveHandler) authenticate(conn *websocket.Conn) (*auth.Claims, bool) {
	_ = conn.SetReadDeadline(time.Now().Add(liveAuthTimeout))

	var msg struct {
		Token string `json:"token"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseProtocolError, "auth timeout"))
		return nil, false
	}

	claims, err := h.Tokens.Validate(msg.Token)
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"error": "invalid token"})
		return nil, false
	}

	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	_ = conn.WriteJSON(map[string]string{"status": "authenticated", "user_id": claims.UserID})
	return claims, true
}
