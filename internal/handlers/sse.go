package handlers

import (
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rmacedo/opsdesk-api/internal/middleware"
	"github.com/rmacedo/opsdesk-api/internal/services"
	"github.com/rmacedo/opsdesk-api/internal/session"
)

// SSEHandler streams session state transitions to UI consumers. A client
// only ever receives events for its own identity.
type SSEHandler struct {
	controller *session.Controller
}

func NewSSEHandler(controller *session.Controller) *SSEHandler {
	return &SSEHandler{controller: controller}
}

func (h *SSEHandler) Connect(c *drift.Context) {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	email := services.NormalizeEmail(middleware.GetEmail(c))
	if email == "" {
		c.Unauthorized("not authenticated")
		return
	}

	sseCtx := c.SSE()

	clientID := uuid.New().String()
	client := &session.Client{
		ID:    clientID,
		Email: email,
		Send:  make(chan []byte, 256),
	}

	h.controller.Subscribe(client)
	defer h.controller.Unsubscribe(client)

	if err := sseCtx.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": clientID,
	}, "system", ""); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		<-c.Request.Context().Done()
		close(done)
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
