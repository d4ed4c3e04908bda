package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/siherrmann/eventract"
	"github.com/siherrmann/eventract/model"
)

const sampleEmail = `Hi team,

Quick reminder: the Q3 planning session is tomorrow at 2pm at the CN Tower.
If you can't make it in person, click here to join: https://zoom.us/j/8155551234

Agenda:
- roadmap review
- staffing

See you there!
Dana`

func main() {
	// Load ANTHROPIC_API_KEY (and optional EVENTRACT_* overrides) from .env
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, relying on the environment: %v", err)
	}

	config, err := model.NewConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.Timezone = "America/Toronto"

	e, err := eventract.NewEventract(config)
	if err != nil {
		log.Fatalf("Failed to create eventract: %v", err)
	}

	// Wire the default Anthropic-backed inference collaborator
	if err := e.UseDefaultInference(); err != nil {
		log.Fatalf("Failed to set up inference: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	extraction, document, err := e.ExtractToCalendar(ctx, sampleEmail, time.Now(), config.Timezone)
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}

	if !extraction.HasEvent {
		fmt.Println("No event found in the text.")
		return
	}

	for i, event := range extraction.Events {
		fmt.Printf("Event %d: %v\n", i+1, event.Title)
		fmt.Printf("  Start:    %v\n", event.Start.Format(time.RFC1123))
		fmt.Printf("  End:      %v\n", event.End.Format(time.RFC1123))
		fmt.Printf("  Location: %v\n", event.DisplayLocation())
		if event.MeetingLink != "" {
			fmt.Printf("  Link:     %v\n", event.MeetingLink)
		}
		for _, warning := range event.Warnings {
			fmt.Printf("  Warning:  %v\n", warning)
		}
	}

	fmt.Println("\nCalendar document:")
	fmt.Println(document)
}
