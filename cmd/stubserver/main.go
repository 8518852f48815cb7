// Package main starts the in-memory stub backend used for local
// development of the diginex client.
package main

import (
	"flag"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/coskuntekin/diginex/internal/logger"
	"github.com/coskuntekin/diginex/internal/stub"
)

func main() {
	var (
		addr   string
		secret string
		level  string
	)
	flag.StringVar(&addr, "a", "localhost:8080", "run on ip:port")
	flag.StringVar(&secret, "secret", "stub-secret", "token signing secret")
	flag.StringVar(&level, "l", "debug", "log level")
	flag.Parse()

	if env := os.Getenv("SERVER_ADDRESS"); env != "" {
		addr = env
	}
	if env := os.Getenv("TOKEN_SECRET"); env != "" {
		secret = env
	}

	log := logger.New()
	if err := log.Init(level); err != nil {
		panic(err)
	}
	defer func() { _ = log.Log.Sync() }()

	server := stub.NewServer(secret, log.Log)

	log.Log.Info("starting stub API server",
		zap.String("addr", addr),
		zap.String("admin", stub.AdminUsername),
	)
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		log.Log.Fatal("server stopped", zap.Error(err))
	}
}
