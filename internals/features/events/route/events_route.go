package route

import (
	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/features/events/controller"
	"sekolahku_backend/internals/helpers/events"
)

// EventsPath dipakai middleware timeout/limiter untuk mengecualikan stream.
const EventsPath = "/api/public/events"

func EventsPublicRoutes(r fiber.Router, bus *events.Bus) {
	ctrl := controller.NewStreamController(bus)
	r.Get("/events", ctrl.Stream)
}
