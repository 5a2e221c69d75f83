package controller

import (
	"bufio"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/helpers/events"
)

const heartbeatEvery = 25 * time.Second

type StreamController struct {
	Bus *events.Bus
}

func NewStreamController(bus *events.Bus) *StreamController {
	return &StreamController{Bus: bus}
}

// =============================
// 📡 GET /events?topics=footer.updated,gallery.updated (SSE)
// =============================
func (ctrl *StreamController) Stream(c *fiber.Ctx) error {
	var topics []string
	for _, t := range strings.Split(c.Query("topics"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	sub := ctrl.Bus.Subscribe(topics...)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer sub.Close()

		fmt.Fprintf(w, "retry: 3000\n: subscribed %s\n\n", strings.Join(topics, ","))
		if err := w.Flush(); err != nil {
			return
		}

		tick := time.NewTicker(heartbeatEvery)
		defer tick.Stop()
		for {
			select {
			case ev, ok := <-sub.C:
				if !ok {
					return
				}
				if err := WriteEvent(w, ev); err != nil {
					return
				}
			case <-tick.C:
				fmt.Fprint(w, ": ping\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
	return nil
}

// WriteEvent menulis satu event SSE lalu flush; error = client sudah pergi.
func WriteEvent(w *bufio.Writer, ev events.Event) error {
	data, err := sonic.Marshal(ev)
	if err != nil {
		log.Printf("[EVENTS] ⚠️ marshal %s: %v", ev.Topic, err)
		return nil
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Topic, data)
	return w.Flush()
}
