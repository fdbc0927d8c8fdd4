package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	root, closeEnv := newRootCmd()
	err := root.ExecuteContext(ctx)
	closeEnv()
	if err != nil {
		stop()
		os.Exit(1)
	}
}
