// Command ask is a terminal client for the /api/ask endpoint.
//
// Usage:
//
//	go run ./cmd/ask -q "latest advances in llm reasoning" [-year 2025] [-category reasoning] [-budget 2000]
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"

	"ai-research-hub-be/internal/dto"
)

type askEnvelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    *dto.AskResponse `json:"data"`
}

func main() {
	var (
		query    = flag.String("q", "", "question to ask (required)")
		year     = flag.Int("year", 0, "restrict to a publication year")
		category = flag.String("category", "", "restrict to a paper category")
		budget   = flag.Int("budget", 0, "context token budget (0 = server default)")
		baseURL  = flag.String("url", envOr("ASK_BASE_URL", "http://localhost:3000"), "server base URL")
	)
	flag.Parse()

	if *query == "" {
		flag.Usage()
		os.Exit(2)
	}

	payload, err := json.Marshal(dto.AskRequest{
		Query:        *query,
		Year:         *year,
		Category:     *category,
		BudgetTokens: *budget,
	})
	if err != nil {
		log.Fatalf("marshal request: %v", err)
	}

	client := &http.Client{Timeout: 2 * time.Minute}
	start := time.Now()
	resp, err := client.Post(*baseURL+"/api/ask/v1", "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("read response: %v", err)
	}

	var envelope askEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.Fatalf("decode response (%d): %v\n%s", resp.StatusCode, err, body)
	}

	if !envelope.Success || envelope.Data == nil {
		color.Red("✗ %s (HTTP %d)", envelope.Message, resp.StatusCode)
		os.Exit(1)
	}

	answer := envelope.Data

	color.Cyan("Q: %s", *query)
	if answer.Partial {
		color.Yellow("⚠ partial answer (some evidence sources were unavailable)")
	}
	fmt.Println()
	fmt.Println(answer.Answer)
	fmt.Println()

	if len(answer.Citations) > 0 {
		color.Green("Sources:")
		for i, c := range answer.Citations {
			fmt.Printf("  [%d] %s", i+1, c.Title)
			if c.Locator != "" {
				fmt.Printf(" — %s", c.Locator)
			}
			fmt.Printf(" (%s)\n", c.Source)
		}
	}

	for _, d := range answer.Diagnostics {
		color.Yellow("  note: %s", d)
	}

	cached := ""
	if answer.Cached {
		cached = ", cached"
	}
	color.HiBlack("\n%s server-side, %s total%s", time.Duration(answer.LatencyMs)*time.Millisecond, time.Since(start).Round(time.Millisecond), cached)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
