package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/quietpawn/gambit/internal/engine"
	"github.com/quietpawn/gambit/internal/rules"
)

func main() {
	explicit := os.Getenv("STOCKFISH_PATH")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	info, err := engine.Probe(ctx, explicit, nil)
	if err != nil {
		log.Printf("probe failed: %v", err)
		if explicit == "" {
			log.Println("hint: set STOCKFISH_PATH to the engine binary")
		}
		os.Exit(1)
	}
	log.Printf("engine ok: path=%s name=%q", info.Path, info.Name)

	bridge, err := engine.NewBridge(info, zap.NewNop())
	if err != nil {
		log.Printf("bridge init failed: %v", err)
		os.Exit(1)
	}

	mv, err := bridge.SelectMove(ctx, rules.StartingFEN, 1)
	if err != nil {
		log.Printf("bestmove query failed: %v", err)
		os.Exit(1)
	}
	fmt.Printf("bestmove from the initial position: %s\n", mv)
}
