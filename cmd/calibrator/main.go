package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/jengzang/fingerprint-calibrator/internal/client"
	"github.com/jengzang/fingerprint-calibrator/internal/config"
	"github.com/jengzang/fingerprint-calibrator/internal/console"
	"github.com/jengzang/fingerprint-calibrator/internal/render"
	"github.com/jengzang/fingerprint-calibrator/internal/session"
	"github.com/jengzang/fingerprint-calibrator/internal/workflow"
)

func main() {
	// 加载配置
	cfg := config.Load()

	backendURL := flag.String("backend", cfg.BackendURL, "fingerprint backend base URL")
	width := flag.Float64("width", cfg.PhysicalWidth, "physical width of the floor plan in meters")
	secret := flag.String("jwt-secret", cfg.JWTSecret, "HS256 secret shared with the backend, empty disables auth")
	verbose := flag.Bool("v", false, "log workflow transitions")
	flag.Parse()

	ctx := context.Background()
	backend := client.New(client.Config{BaseURL: *backendURL, JWTSecret: *secret})
	canvas := render.NewCanvas()
	operator := console.NewOperator(os.Stdin, os.Stdout)

	s := session.New(backend, canvas, operator)
	if *verbose {
		s.OnTransition(func(from, to workflow.State) {
			log.Printf("Capture %s -> %s", from, to)
		})
	}
	if err := s.Setup(ctx, *width); err != nil {
		log.Fatal("Failed to set up session:", err)
	}

	shell := console.NewShell(s, canvas, operator)
	shell.ImageBase = strings.TrimRight(*backendURL, "/")
	if err := shell.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
