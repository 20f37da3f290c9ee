// Command events tails the query lifecycle events on the NATS EVENTS
// stream. Useful for watching a running deployment answer questions.
//
// Usage:
//
//	go run ./cmd/events [-durable query-events-monitor]
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"ai-research-hub-be/internal/config"
	"ai-research-hub-be/pkg/events"
	pkgNats "ai-research-hub-be/pkg/nats"
)

func main() {
	durable := flag.String("durable", "query-events-monitor", "durable consumer name")
	flag.Parse()

	cfg := config.Load()

	sub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Error: Failed to connect to NATS at %s: %v", cfg.App.NatsURL, err)
	}
	defer sub.Close()

	if err := sub.Subscribe("events.>", *durable, printEvent); err != nil {
		log.Fatalf("Error: Failed to subscribe: %v", err)
	}

	color.Cyan("Listening for query events on %s (ctrl-c to stop)...", cfg.App.NatsURL)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
}

func printEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	switch event.EventType() {
	case "events." + events.TypeQueryAnswered:
		color.Green("✔ answered  %v", payload["raw_text"])
		color.HiBlack("  citations=%v partial=%v latency_ms=%v",
			payload["citations"], payload["partial"], payload["latency_ms"])
	case "events." + events.TypeQueryFailed:
		color.Red("✗ failed    %v", payload["raw_text"])
		color.HiBlack("  kind=%v detail=%v latency_ms=%v",
			payload["error_kind"], payload["detail"], payload["latency_ms"])
	default:
		log.Printf("event %s: %v", event.EventType(), payload)
	}

	return nil
}
