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

	awsgo_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"

	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/api"
	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/api/handler"
	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/api/middleware"
	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/camera"
	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/config"
	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/directory/restapi"
	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/service"
)

// cameraGate chuyển *camera.Controller thành service.CameraGate.
type cameraGate struct {
	controller *camera.Controller
}

func (g cameraGate) Acquire(holder string) (service.CameraLease, error) {
	lease, err := g.controller.Acquire(holder)
	if err != nil {
		return nil, err
	}
	return lease, nil
}

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	log.Println("Cấu hình đã được tải.")

	// 2. Khởi tạo AWS SDK Config và Rekognition client (nhận dạng biển số)
	awsSDKCfg, err := awsgo_config.LoadDefaultConfig(context.TODO(), awsgo_config.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatalf("Không thể tải AWS SDK config: %v", err)
	}
	log.Println("Đã tải AWS SDK config thành công cho region:", cfg.AWSRegion)

	rekognitionClient := rekognition.NewFromConfig(awsSDKCfg)
	recognizer := service.NewRekognitionRecognizer(rekognitionClient)

	// 3. Camera tại cổng: một thiết bị, một quy trình giữ tại một thời điểm
	if cfg.CameraSnapshotURL == "" {
		log.Println("CẢNH BÁO: CAMERA_SNAPSHOT_URL chưa được cấu hình. Bước chụp ảnh sẽ luôn thất bại.")
	}
	device := camera.NewDevice(cfg.CameraSnapshotURL, cfg.CameraUsername, cfg.CameraPassword, cfg.CameraTimeout)
	controller := camera.NewController(device)

	// 4. Session Directory client (backend bãi xe)
	dirClient := restapi.NewClient(cfg.DirectoryBaseURL, cfg.DirectoryTimeout)
	log.Println("Directory client trỏ tới:", cfg.DirectoryBaseURL)

	// 5. WebSocket manager cho dashboard
	webSocketManager := handler.NewWebSocketManager()
	go webSocketManager.Start()
	log.Println("WebSocket Manager đã được khởi động.")

	// 6. Services
	codes := service.NewCodeGenerator()
	entryService := service.NewEntryWorkflowService(dirClient, recognizer, cameraGate{controller}, codes, webSocketManager)
	exitService := service.NewExitWorkflowService(dirClient, cameraGate{controller}, webSocketManager)
	reportService := service.NewReportService(dirClient)

	// 7. Auth Middleware (token do Directory phát hành, secret dùng chung)
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	// 8. Background job hủy các quy trình bỏ dở để trả lại camera
	go startWorkflowExpiryJob(entryService, exitService, cfg.WorkflowTTL)

	// 9. Setup HTTP Router
	router := api.SetupRouter(dirClient, entryService, exitService, reportService, authMiddleware, webSocketManager)

	// 10. Start HTTP Server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server đang chạy trên port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Lỗi ListenAndServe(): %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Đang tắt server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server buộc phải tắt: %v", err)
	}

	log.Println("Server đã tắt.")
}

func startWorkflowExpiryJob(entryService *service.EntryWorkflowService, exitService *service.ExitWorkflowService, ttl time.Duration) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		if count := entryService.ExpireIdle(ttl); count > 0 {
			log.Printf("Đã hủy %d quy trình xe vào bỏ dở", count)
		}
		if count := exitService.ExpireIdle(ttl); count > 0 {
			log.Printf("Đã hủy %d quy trình xe ra bỏ dở", count)
		}
	}
}
