package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/campusnest/rentals/api/internal/assistant"
	"github.com/campusnest/rentals/api/internal/dto"
	"github.com/campusnest/rentals/api/internal/latest"
	"github.com/campusnest/rentals/api/internal/middleware"
	"github.com/campusnest/rentals/api/internal/session"
)

// Frame types exchanged over the assistant socket.
const (
	FrameToggle     = "toggle"
	FrameOpen       = "open"
	FrameClose      = "close"
	FrameMessage    = "message"
	FrameSuggestion = "suggestion"
	FrameSearch     = "search"

	FrameState   = "state"
	FrameTyping  = "typing"
	FrameIgnored = "ignored"
	FrameLoading = "loading"
	FrameResults = "results"
	FrameAuth    = "auth"
	FrameError   = "error"
)

const (
	socketWriteWait      = 10 * time.Second
	socketMaxFrameBytes  = 64 << 10
	socketReadBufferSize = 1024
)

// Socket handles GET /ws/assistant. Each connection owns one widget; its transcript
// lives as long as the connection.
func (h *AssistantHandler) Socket(c echo.Context) error {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  socketReadBufferSize,
		WriteBufferSize: socketReadBufferSize,
		CheckOrigin:     h.checkOrigin,
	}
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.WarnContext(c.Request().Context(), "websocket upgrade failed", slog.Any("error", err))
		return nil
	}

	s := &widgetSession{
		conn:     conn,
		widget:   assistant.NewWidget(h.assistant.Bind(h.accessor)),
		listings: h.listings,
		logger:   h.logger,
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		s.searches.Stop()
		s.wg.Wait()
		conn.Close()
	}()

	if user, ok := middleware.CurrentUser(c); ok && h.broker != nil {
		unsubscribe := h.broker.Subscribe(user.ID, func(e session.Event) {
			s.send(dto.ServerFrame{Type: FrameAuth, Payload: e})
		})
		defer unsubscribe()
	}

	s.send(dto.ServerFrame{Type: FrameState, Payload: s.snapshot()})
	s.run(ctx)
	return nil
}

// widgetSession serialises writes to one socket and drives its widget.
type widgetSession struct {
	conn     *websocket.Conn
	widget   *assistant.Widget
	listings ListingSearcher
	logger   *slog.Logger
	searches latest.Guard

	writeMu sync.Mutex
	wg      sync.WaitGroup
}

type widgetSnapshot struct {
	assistant.State
	Transcript []assistant.Message `json:"transcript"`
}

func (s *widgetSession) snapshot() widgetSnapshot {
	return widgetSnapshot{State: s.widget.State(), Transcript: s.widget.Transcript()}
}

func (s *widgetSession) send(frame dto.ServerFrame) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
	if err := s.conn.WriteJSON(frame); err != nil {
		s.logger.Debug("websocket write failed", slog.String("frame", frame.Type), slog.Any("error", err))
	}
}

func (s *widgetSession) run(ctx context.Context) {
	s.conn.SetReadLimit(socketMaxFrameBytes)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		var frame dto.SocketFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			s.send(dto.ServerFrame{Type: FrameError, Error: "malformed frame"})
			continue
		}
		s.handle(ctx, frame)
	}
}

func (s *widgetSession) handle(ctx context.Context, frame dto.SocketFrame) {
	switch frame.Type {
	case FrameToggle:
		s.send(dto.ServerFrame{Type: FrameState, Payload: s.widget.Toggle()})
	case FrameOpen:
		s.send(dto.ServerFrame{Type: FrameState, Payload: s.widget.Open()})
	case FrameClose:
		s.send(dto.ServerFrame{Type: FrameState, Payload: s.widget.Close()})
	case FrameMessage, FrameSuggestion:
		s.submit(ctx, frame.Text)
	case FrameSearch:
		s.search(ctx, frame.Criteria)
	default:
		s.send(dto.ServerFrame{Type: FrameError, Error: "unknown frame type"})
	}
}

// submit records the user message right away and answers it in the background, so a
// second submission arriving meanwhile is ignored.
func (s *widgetSession) submit(ctx context.Context, text string) {
	msg, err := s.widget.Post(text)
	switch {
	case errors.Is(err, assistant.ErrBusy):
		s.send(dto.ServerFrame{Type: FrameIgnored, Error: err.Error()})
		return
	case err != nil:
		s.send(dto.ServerFrame{Type: FrameError, Error: err.Error()})
		return
	}

	s.send(dto.ServerFrame{Type: FrameMessage, Payload: msg})
	s.send(dto.ServerFrame{Type: FrameTyping})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		reply, err := s.widget.Reply(ctx)
		if err != nil {
			return
		}
		s.send(dto.ServerFrame{Type: FrameMessage, Payload: reply})
	}()
}

// search runs a listing search; only the newest search delivers results.
func (s *widgetSession) search(ctx context.Context, raw json.RawMessage) {
	var in dto.SearchCriteria
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &in); err != nil {
			s.send(dto.ServerFrame{Type: FrameError, Error: "invalid search criteria"})
			return
		}
	}
	criteria, err := criteriaFromSearch(in)
	if err != nil {
		s.send(dto.ServerFrame{Type: FrameError, Error: err.Error()})
		return
	}

	fetchCtx, token := s.searches.Begin(ctx)
	s.send(dto.ServerFrame{Type: FrameLoading, Token: uint64(token)})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.searches.Done(token)

		listings, err := s.listings.Search(fetchCtx, criteria)
		if !s.searches.Current(token) {
			return
		}
		if err != nil {
			s.logger.Warn("widget search failed", slog.Any("error", err))
			s.send(dto.ServerFrame{Type: FrameError, Token: uint64(token), Error: "failed to load listings"})
			return
		}
		s.send(dto.ServerFrame{Type: FrameResults, Token: uint64(token), Payload: listings})
	}()
}
