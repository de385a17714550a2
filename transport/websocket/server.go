package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/config"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type roomCoordinator interface {
	CreateRoom(conn, code, name string) error
	JoinRoom(conn, code, name string) error
	MakeMove(conn, code string, index int) error
	ResetGame(conn, code string) error
	LeaveRoom(conn, code string) error
	Disconnect(conn string)
}

type Server struct {
	logger      *slog.Logger
	hub         *Hub
	coordinator roomCoordinator
	conf        config.WebSocket
	upgrader    websocket.Upgrader

	handlers map[string]func(conn string, payload json.RawMessage) error
}

func New(logger *slog.Logger, hub *Hub, coordinator roomCoordinator, conf config.WebSocket) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		hub:         hub,
		coordinator: coordinator,
		conf:        conf,

		handlers: make(map[string]func(string, json.RawMessage) error),
	}

	server.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     server.checkOrigin,
	}

	server.handlers[ActionCreateRoom] = server.handleCreateRoom
	server.handlers[ActionJoinRoom] = server.handleJoinRoom
	server.handlers[ActionMakeMove] = server.handleMakeMove
	server.handlers[ActionResetGame] = server.handleResetGame
	server.handlers[ActionLeaveRoom] = server.handleLeaveRoom

	return server
}

// Start - serves /ws on port until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.ServeWS)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	// hijacked connections are not tracked by Shutdown
	that.hub.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

// ServeWS - upgrades the request and starts the connection's pumps.
func (that *Server) ServeWS(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeWS")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Warn("failed to upgrade connection", "error", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, that.conf.SendBuffer),
	}
	that.hub.register(c)

	log.Info("WebSocket connection established", "conn", c.id, "remote", req.RemoteAddr)

	go that.writePump(c)
	go that.readPump(c)
}

func (that *Server) checkOrigin(req *http.Request) bool {
	origin := req.Header.Get("Origin")
	if origin == "" || len(that.conf.AllowedOrigins) == 0 {
		return true
	}

	return slices.Contains(that.conf.AllowedOrigins, origin)
}

// handleMessage - decodes the envelope and dispatches it.
func (that *Server) handleMessage(conn string, data []byte) {
	log := that.logger.With("method", "handleMessage", "conn", conn)

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		log.Warn("failed to unmarshal message", "error", err)
		that.hub.Notify(conn, entity.RoomError(apperror.Message(err)))
		return
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action", "action", message.Action)
		that.hub.Notify(conn, entity.RoomError(apperror.Message(nil)))
		return
	}

	if err := handler(conn, message.Payload); err != nil {
		log.Debug("request rejected", "action", message.Action, "error", err)
	}
}

// rejectPayload - the coordinator never saw the request, so answer it here.
func (that *Server) rejectPayload(conn string, err error) error {
	if apperror.IsMoveError(err) {
		that.hub.Notify(conn, entity.MoveError(apperror.Message(err)))
		return err
	}

	that.hub.Notify(conn, entity.RoomError(apperror.Message(err)))
	return err
}

func (that *Server) handleCreateRoom(conn string, payload json.RawMessage) error {
	req, err := decodeRoomRequest(payload)
	if err != nil {
		return that.rejectPayload(conn, err)
	}

	return that.coordinator.CreateRoom(conn, req.Code, req.Name)
}

func (that *Server) handleJoinRoom(conn string, payload json.RawMessage) error {
	req, err := decodeRoomRequest(payload)
	if err != nil {
		return that.rejectPayload(conn, err)
	}

	return that.coordinator.JoinRoom(conn, req.Code, req.Name)
}

func (that *Server) handleMakeMove(conn string, payload json.RawMessage) error {
	code, index, err := decodeMoveRequest(payload)
	if err != nil {
		return that.rejectPayload(conn, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err))
	}

	return that.coordinator.MakeMove(conn, code, index)
}

func (that *Server) handleResetGame(conn string, payload json.RawMessage) error {
	req, err := decodeRoomRequest(payload)
	if err != nil {
		return that.rejectPayload(conn, err)
	}

	return that.coordinator.ResetGame(conn, req.Code)
}

func (that *Server) handleLeaveRoom(conn string, payload json.RawMessage) error {
	req, err := decodeRoomRequest(payload)
	if err != nil {
		return that.rejectPayload(conn, err)
	}

	return that.coordinator.LeaveRoom(conn, req.Code)
}
