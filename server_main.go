//go:build server

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"clawdeck/internal/websocket"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := NewApp()
	app.Startup(ctx)

	wsServer := websocket.NewServer(app)
	app.SetEventHubBroadcaster(wsServer)

	if _, err := wsServer.Start(ctx); err != nil {
		fmt.Printf("Failed to start WebSocket server: %v\n", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("Shutting down...")
	wsServer.Stop(ctx)
	app.Shutdown(ctx)
}
