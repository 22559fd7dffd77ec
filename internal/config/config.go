package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	DirectoryBaseURL string        // Base URL của Session Directory (backend bãi xe)
	DirectoryTimeout time.Duration // Timeout cho mỗi request tới Directory

	AWSRegion string // Region cho Rekognition (nhận dạng biển số)

	CameraSnapshotURL string // Endpoint ảnh tĩnh của camera IP tại cổng
	CameraUsername    string
	CameraPassword    string
	CameraTimeout     time.Duration

	JWTSecret string // Secret dùng chung với Directory để xác thực token operator

	WorkflowTTL time.Duration // Quy trình bỏ dở quá lâu sẽ bị hủy để trả lại camera
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Cảnh báo: Không thể tải file .env: %v", err)
	}

	dirTimeout, _ := strconv.Atoi(getEnv("DIRECTORY_TIMEOUT_SECONDS", "15"))
	camTimeout, _ := strconv.Atoi(getEnv("CAMERA_TIMEOUT_SECONDS", "10"))
	workflowTTL, _ := strconv.Atoi(getEnv("WORKFLOW_TTL_MINUTES", "10"))

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DirectoryBaseURL: getEnv("DIRECTORY_BASE_URL", "http://localhost:9090/api/v1"),
		DirectoryTimeout: time.Duration(dirTimeout) * time.Second,

		AWSRegion: getEnv("AWS_REGION", "ap-southeast-1"),

		CameraSnapshotURL: getEnv("CAMERA_SNAPSHOT_URL", ""), // << ĐIỀN URL SNAPSHOT CỦA CAMERA
		CameraUsername:    getEnv("CAMERA_USERNAME", "admin"),
		CameraPassword:    getEnv("CAMERA_PASSWORD", ""),
		CameraTimeout:     time.Duration(camTimeout) * time.Second,

		JWTSecret: getEnv("JWT_SECRET", "your-very-secret-key-for-jwt-!@#$"), // << THAY BẰNG SECRET KEY MẠNH HƠN

		WorkflowTTL: time.Duration(workflowTTL) * time.Minute,
	}
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Biến môi trường '%s' không được đặt, sử dụng giá trị mặc định: '%s'", key, fallback)
	return fallback
}
