package main

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/santoshk66/maizic-chatbot/internal/api"
	"github.com/santoshk66/maizic-chatbot/internal/chatlog"
	"github.com/santoshk66/maizic-chatbot/internal/config"
	"github.com/santoshk66/maizic-chatbot/internal/faq"
	"github.com/santoshk66/maizic-chatbot/internal/llm"
	"github.com/santoshk66/maizic-chatbot/internal/relay"
	"github.com/santoshk66/maizic-chatbot/internal/session"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	entries, err := faq.Load(cfg.FAQFile)
	if err != nil {
		logger.Fatal("failed to load FAQ table",
			zap.Error(err),
			zap.String("faqFile", cfg.FAQFile))
	}
	matcher := faq.NewOverlapMatcher(entries)

	var sessions session.Store
	switch cfg.SessionBackend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		sessions = session.NewRedisStore(client, relay.SystemPrompt, cfg.SessionTimeout)
		logger.Info("using redis session store", zap.String("addr", cfg.RedisAddr))
	default:
		sessions = session.NewMemoryStore(relay.SystemPrompt, cfg.SessionTimeout)
		logger.Info("using in-memory session store")
	}
	defer sessions.Close()

	var completer llm.Completer
	if cfg.APIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, chat replies with an apology until configured")
		completer = llm.Disabled{}
	} else {
		client, err := llm.NewOpenAIClient(cfg.APIKey, logger)
		if err != nil {
			logger.Fatal("failed to initialize completion client", zap.Error(err))
		}
		completer = client
	}

	var recorder chatlog.Recorder
	fileRecorder, err := chatlog.NewFileRecorder(cfg.ChatLogFile)
	if err != nil {
		logger.Warn("chat log unavailable, transcripts disabled",
			zap.Error(err),
			zap.String("chatLogFile", cfg.ChatLogFile))
		recorder = chatlog.Nop{}
	} else {
		defer fileRecorder.Close()
		recorder = fileRecorder
	}

	r := relay.New(matcher, sessions, completer, recorder, logger)
	handler := api.NewHandler(r, sessions, matcher, cfg.APIKey != "", logger)

	addr := ":" + cfg.Port
	logger.Info("starting server",
		zap.String("addr", addr),
		zap.Int("faqEntries", matcher.Len()))
	if err := http.ListenAndServe(addr, handler.Router()); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
