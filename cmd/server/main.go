// cmd/server/main.go
package main

import (
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/redorblack/server/internal/cache"
	"github.com/redorblack/server/internal/game"
	"github.com/redorblack/server/internal/handlers"
	"github.com/redorblack/server/internal/middleware"
)

func main() {
	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}

	cfg := game.DefaultConfig()
	if n := getEnvInt("CARD_HISTORY_SIZE", 0); n > 0 {
		cfg.CardHistorySize = n
	}
	if n := getEnvInt("TURN_HISTORY_SIZE", 0); n > 0 {
		cfg.TurnHistorySize = n
	}
	g := game.NewGameWithConfig(cfg)

	var historian *cache.Publisher
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		p, err := cache.NewPublisher(addr, os.Getenv("HISTORIAN_QUEUE_NAME"))
		if err != nil {
			logger.Warnf("turn historian disabled: %v", err)
		} else {
			historian = p
			defer p.Close()
		}
	}

	srv := handlers.NewServer(logger, g, historian)

	mux := http.NewServeMux()
	mux.HandleFunc("/", handlers.PingHandler)
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.WSHandler(logger, srv),
	)))

	server := &http.Server{
		Handler:     mux,
		ReadTimeout: time.Second * 10,
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	l, err := net.Listen("tcp", ":"+port)
	if err != nil {
		logger.Fatalf("failed to listen: %v", err)
	}
	logger.Infof("listening on %s", l.Addr())

	errc := make(chan error, 1)
	go func() {
		errc <- server.Serve(l)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	select {
	case err := <-errc:
		logger.Errorf("failed to serve: %v", err)
	case sig := <-sigs:
		logger.Infof("terminating: %v", sig)
	}
}

// getEnvInt parses an environment variable as an integer, else the
// default.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
