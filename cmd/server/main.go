package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ordermatch/catalog"
	"ordermatch/database"
	"ordermatch/internal/config"
	"ordermatch/matching"
	"ordermatch/orders"
	"ordermatch/server"
	"ordermatch/server/handlers"
	"ordermatch/server/services"
	"ordermatch/synonyms"
	"ordermatch/versioning"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════")
	log.Println("🚀 Запуск сервера матчинга заказов...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Printf("Предупреждение: не удалось создать папку %s: %v", cfg.UploadDir, err)
	}

	dbConfig := database.DBConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}

	db, err := database.NewCatalogDBWithConfig(cfg.DatabasePath, dbConfig)
	if err != nil {
		log.Fatalf("Ошибка создания базы данных: %v", err)
	}
	defer db.Close()

	if cfg.SeedDemoData {
		if err := db.EnsureDemoProducts(); err != nil {
			log.Printf("Предупреждение: не удалось заполнить демо-каталог: %v", err)
		}
	}

	cache := catalog.NewCache()
	versionsMgr := versioning.NewManager(db, db)
	catalogSvc := services.NewCatalogService(db, cache, versionsMgr)

	if err := catalogSvc.RefreshCache(); err != nil {
		log.Fatalf("Ошибка начальной загрузки кэша каталога: %v", err)
	}

	synonymMgr := synonyms.NewManager(db, db, versionsMgr, catalogSvc.RefreshCache)

	engine := matching.NewEngine(cache, matching.Thresholds{
		FuzzyArticle:  cfg.FuzzyArticleThreshold,
		FuzzyName:     cfg.FuzzyNameThreshold,
		SuggestionLow: cfg.SuggestionLow,
	}, synonymMgr)

	processor := orders.NewProcessor(engine, cache)
	orderSvc := services.NewOrderService(engine, processor)

	handler := handlers.NewHandler(catalogSvc, orderSvc, synonymMgr,
		int64(cfg.MaxUploadSizeMB)*1024*1024)

	router := server.NewRouter(cfg, handler)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("✗ КРИТИЧЕСКАЯ ОШИБКА: Ошибка запуска сервера: %v", err)
		}
	}()

	log.Println("═══════════════════════════════════════════════════════")
	log.Printf("✓ Сервер успешно запущен на порту %s", cfg.Port)
	log.Printf("✓ API доступно: http://localhost:%s/api", cfg.Port)
	log.Printf("✓ База каталога: %s", cfg.DatabasePath)
	log.Printf("✓ Записей в кэше: %d", cache.Info().Entries)
	log.Println("  Для остановки нажмите Ctrl+C")
	log.Println("═══════════════════════════════════════════════════════")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("═══════════════════════════════════════════════════════")
	log.Println("⏹  Получен сигнал завершения, останавливаю сервер...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("✗ Ошибка при остановке сервера: %v", err)
	} else {
		log.Println("✓ Сервер успешно остановлен")
	}
}
