package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/campusmap/internal/core/ports"
	"github.com/samirrijal/campusmap/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Places  *usecases.PlaceService
	Slots   ports.SlotStore
	Backend string
	NATS    *nats.Conn
}
