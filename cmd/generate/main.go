package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"quizcraft/internal/adapter"
	"quizcraft/internal/cache"
	"quizcraft/internal/completion"
	"quizcraft/internal/config"
	"quizcraft/internal/domain"
	"quizcraft/internal/logger"
	"quizcraft/internal/service"

	"go.uber.org/zap"
)

func main() {
	var (
		contentPath = flag.String("content", "", "path to the source content file (required)")
		typesFlag   = flag.String("types", "single_choice", "comma-separated question types to generate")
		count       = flag.Int("count", 5, "number of questions per type")
		difficulty  = flag.String("difficulty", "medium", "difficulty tier: easy, medium, hard")
		level       = flag.String("level", "understand", "cognitive level: remember, understand, apply, analyze, evaluate, create")
		language    = flag.String("language", "English", "output language")
		topic       = flag.String("topic", "", "optional topic focus within the content")
		outPath     = flag.String("out", "", "write results to this file instead of stdout")
	)
	flag.Parse()

	if *contentPath == "" {
		fmt.Println("Usage: generate -content <file> [-types single_choice,true_false] [-count N] ...")
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		// Logger is not initialized yet, so use fmt for this critical error
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Quiz generation starting up...")

	content, err := os.ReadFile(*contentPath)
	if err != nil {
		log.Fatal("Failed to read content file", zap.String("path", *contentPath), zap.Error(err))
	}

	// Initialize result cache when Redis is configured
	var resultCache service.ResultCacheService
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to initialize Redis client", zap.Error(err))
		}
		ttl := cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.GenerationResult, 24*time.Hour)
		resultCache = service.NewResultCacheService(adapter.NewRedisCacheAdapter(redisClient), ttl)
		log.Info("Generation result cache initialized.")
	} else {
		log.Warn("Redis is not configured. Running without result cache.")
	}

	// Initialize completion client
	client, err := completion.NewClient(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize completion client", zap.Error(err))
	}

	genService := service.NewGenerationService(client, resultCache, cfg, log)

	// One generation config per requested type
	var configs []domain.GenerationConfig
	for _, t := range strings.Split(*typesFlag, ",") {
		qType := domain.QuestionType(strings.TrimSpace(t))
		configs = append(configs, domain.GenerationConfig{
			Content:        string(content),
			Type:           qType,
			Quantity:       *count,
			Difficulty:     domain.Difficulty(*difficulty),
			CognitiveLevel: domain.CognitiveLevel(*level),
			Language:       *language,
			TopicFocus:     *topic,
		})
	}

	log.Info("Generating questions",
		zap.String("types", *typesFlag),
		zap.Int("count_per_type", *count))

	results := genService.GenerateBatch(context.Background(), configs)

	failed := 0
	for i, res := range results {
		if !res.Success {
			failed++
			log.Error("Generation failed",
				zap.String("type", string(configs[i].Type)),
				zap.String("error", res.Error))
		}
	}

	output, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		log.Fatal("Failed to encode results", zap.Error(err))
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, output, 0o644); err != nil {
			log.Fatal("Failed to write results file", zap.String("path", *outPath), zap.Error(err))
		}
		log.Info("Results written", zap.String("path", *outPath))
	} else {
		fmt.Println(string(output))
	}

	log.Info("Quiz generation finished",
		zap.Int("requested", len(configs)),
		zap.Int("failed", failed))
	if failed > 0 {
		os.Exit(1)
	}
}
