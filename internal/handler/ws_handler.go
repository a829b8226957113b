package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dalbom/arithmetic/internal/arithmetic"
	"github.com/dalbom/arithmetic/internal/middleware"
	"github.com/dalbom/arithmetic/internal/model"
	"github.com/dalbom/arithmetic/internal/response"
	"github.com/dalbom/arithmetic/internal/service"
	"github.com/dalbom/arithmetic/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	ws "github.com/dalbom/arithmetic/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams large worksheets page by page over a WebSocket.
type WSHandler struct {
	worksheetService *service.WorksheetService
	log              zerolog.Logger
	upgrader         websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(worksheetService *service.WorksheetService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		worksheetService: worksheetService,
		log:              log.With().Str("component", "ws_handler").Logger(),
		upgrader:         buildUpgrader(allowedOrigins),
	}
}

// StreamWorksheets godoc
// WS /ws/v1/worksheets/stream?token=...
// Accepts generate and ping actions; each generate streams page events and
// ends with a done event.
func (h *WSHandler) StreamWorksheets(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Int("user_id", claims.UserID).Logger()
	wsLog.Info().Msg("Client connected")

	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		case ws.ActionGenerate:
			if err := h.handleGenerate(c, conn, wsLog, claims, msg.Worksheet); err != nil {
				wsLog.Debug().Err(err).Msg("Stream aborted")
				return
			}
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			ws.WriteError(conn, string(response.ErrInvalidPayload), "unknown action: "+string(msg.Action), nil)
		}
	}
}

// handleGenerate validates a worksheet request and streams it. A returned
// error means the connection is no longer usable.
func (h *WSHandler) handleGenerate(c *gin.Context, conn *websocket.Conn, wsLog zerolog.Logger, claims *service.Claims, raw json.RawMessage) error {
	var req model.GenerateWorksheetRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return ws.WriteError(conn, string(response.ErrInvalidPayload), "worksheet must be a JSON object", nil)
	}
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		return ws.WriteError(conn, string(response.ErrValidation), response.GetMessage(response.ErrValidation), validator.TranslateErrors(err))
	}

	res, err := h.worksheetService.Stream(c.Request.Context(), claims.Plan(), req.ToSpec(), func(p arithmetic.Page) error {
		return ws.WriteTyped(conn, ws.PageEvent{Event: ws.EventPage, Page: p})
	})
	if err != nil {
		var pre *service.ProRequiredError
		switch {
		case errors.As(err, &pre):
			return ws.WriteError(conn, string(response.ErrProRequired), pre.Error(), nil)
		case errors.Is(err, service.ErrInvalidWorksheet):
			return ws.WriteError(conn, string(response.ErrInvalidWorksheet), err.Error(), nil)
		}
		return err
	}

	wsLog.Info().
		Int("pages", res.Pages).
		Int("fallbacks", res.Fallbacks).
		Msg("Worksheet streamed")

	return ws.WriteTyped(conn, ws.DoneEvent{
		Event:     ws.EventDone,
		Pages:     res.Pages,
		Fallbacks: res.Fallbacks,
		Seed:      res.Seed,
	})
}
