package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/domain"
)

// textDetector là phần của Rekognition client mà recognizer cần.
type textDetector interface {
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
}

// Regex cơ bản cho biển số Việt Nam, ví dụ: 29A-12345, 51G-123.45.
var plateRegex = regexp.MustCompile(`^[0-9]{2}[A-Z]{1,2}[- ]?[0-9]{3,5}(\.[0-9]{2})?$`)

// RekognitionRecognizer trích xuất biển số từ ảnh bằng Rekognition DetectText.
// Không tự retry: operator chụp lại nếu nhận dạng thất bại.
type RekognitionRecognizer struct {
	client textDetector
}

func NewRekognitionRecognizer(client textDetector) *RekognitionRecognizer {
	return &RekognitionRecognizer{client: client}
}

func (s *RekognitionRecognizer) Recognize(ctx context.Context, image []byte) (*domain.RecognitionResult, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: ảnh rỗng", ErrValidation)
	}

	input := &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: image},
	}

	result, err := s.client.DetectText(ctx, input)
	if err != nil {
		log.Printf("Recognizer: lỗi khi gọi Rekognition DetectText: %v", err)
		return nil, fmt.Errorf("lỗi dịch vụ nhận dạng: %w", err)
	}

	var bestPlate string
	var bestConfidence float32

	for _, detection := range result.TextDetections {
		if detection.Type != types.TextTypesLine && detection.Type != types.TextTypesWord {
			continue
		}
		if detection.DetectedText == nil || detection.Confidence == nil {
			continue
		}
		txt := strings.ToUpper(strings.ReplaceAll(*detection.DetectedText, " ", ""))
		if !plateRegex.MatchString(strings.ReplaceAll(txt, ".", "")) {
			continue
		}
		if *detection.Confidence > bestConfidence {
			bestConfidence = *detection.Confidence
			bestPlate = txt
		}
	}

	// Chuỗi rỗng hoặc toàn khoảng trắng không phải là một biển số.
	if strings.TrimSpace(bestPlate) == "" {
		log.Printf("Recognizer: Rekognition trả về %d khối văn bản nhưng không khối nào là biển số", len(result.TextDetections))
		return nil, ErrPlateNotRecognized
	}

	log.Printf("Recognizer: biển số được chọn: '%s' với độ tin cậy %.2f", bestPlate, bestConfidence)
	return &domain.RecognitionResult{Plate: bestPlate, Confidence: bestConfidence}, nil
}
