package server

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"MeloFM/config"
	"MeloFM/core/bus"
	"MeloFM/core/setting"
	"MeloFM/db"
	"MeloFM/repository"
	"MeloFM/storage"

	"github.com/gorilla/mux"
	"github.com/minio/minio-go/v7"
)

// Start initializes and starts the HTTP server.
func Start(cfg *config.Config, eventBus *bus.Bus) {
	// 设置服务器超时
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 初始化 MinIO 客户端
	if err := storage.InitMinio(cfg); err != nil {
		log.Fatalf("Failed to initialize MinIO: %v", err)
	}

	// Connect to the database
	if err := db.ConnectDB(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.DB.Close()

	if err := db.ConnectGormDB(cfg); err != nil {
		log.Fatalf("Failed to connect to database with GORM: %v", err)
	}
	defer db.CloseGormDB()

	// Connect to Redis
	if err := db.ConnectRedis(cfg); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer db.CloseRedis()
	log.Println("Successfully connected to Redis")

	// Initialize database schema
	if err := db.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	musicRepo := repository.NewMySQLMusicRepository()
	musicbillRepo := repository.NewMySQLMusicbillRepository()
	singerRepo := repository.NewMySQLSingerRepository()
	userRepo := repository.NewMySQLUserRepository()
	recordRepo := repository.NewGormPlayRecordRepository(db.GormDB)

	// 播放器设置：JSON 文件 + fsnotify 监听外部修改
	settingStore, err := setting.NewStore(cfg.SettingFile, eventBus)
	if err != nil {
		log.Fatalf("Failed to load player settings: %v", err)
	}
	if err := settingStore.Watch(); err != nil {
		log.Printf("Settings watcher unavailable: %v", err)
	}
	defer settingStore.Close()

	mediaCache := storage.NewMediaCache(storage.GetMinioClient(), cfg.MinioBucket)

	// 初始化处理器
	apiHandler := NewAPIHandler(musicRepo, musicbillRepo, singerRepo, userRepo, recordRepo, cfg)
	eventBridge := NewEventBridge(eventBus, recordRepo, mediaCache, settingStore, cfg)

	// 使用 gorilla/mux 创建路由器
	router := mux.NewRouter()

	// 添加 CORS 中间件
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Range")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range")
			w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// API Endpoints
	router.HandleFunc("/api/musicbill/public", apiHandler.GetPublicMusicbillHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/musics", apiHandler.AuthMiddleware(apiHandler.GetMusicsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/music/play_record", apiHandler.AuthMiddleware(apiHandler.CreatePlayRecordHandler)).Methods(http.MethodPost)

	// 用户认证相关的API端点
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/register", apiHandler.RegisterHandler).Methods(http.MethodPost)

	// 播放事件桥接
	router.HandleFunc("/ws/events", eventBridge.HandleWS)

	// 媒体与封面资源由 MinIO 提供
	router.PathPrefix("/asset/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		objectPath := strings.TrimPrefix(r.URL.Path, "/asset/")
		client := storage.GetMinioClient()
		if client == nil {
			http.Error(w, "MinIO client not available", http.StatusInternalServerError)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		object, err := client.GetObject(ctx, cfg.MinioBucket, objectPath, minio.GetObjectOptions{})
		if err != nil {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		defer object.Close()

		var contentType string
		if strings.HasPrefix(objectPath, "cover/") {
			contentType = "image/jpeg"
		} else if strings.HasSuffix(objectPath, ".flac") {
			contentType = "audio/flac"
		} else if strings.HasPrefix(objectPath, "music/") || strings.HasPrefix(objectPath, "media/") {
			contentType = "audio/mpeg"
		} else {
			contentType = "application/octet-stream"
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Cache-Control", "public, max-age=31536000") // 缓存一年

		if _, err := io.Copy(w, object); err != nil {
			log.Printf("Error serving file from MinIO: %v", err)
		}
	})

	server.Handler = router

	// 创建一个通道来接收操作系统信号
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 在goroutine中启动服务器
	go func() {
		log.Printf("Server starting on %s...", cfg.ServerAddr)
		log.Println("Fetch public musicbills via GET /api/musicbill/public?id=")
		log.Println("Upload play records via POST /api/music/play_record")
		log.Println("Subscribe to playback events via /ws/events")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// 等待中断信号
	<-stop
	log.Println("Shutting down server...")

	// 创建一个5秒超时的上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 优雅关闭服务器
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
