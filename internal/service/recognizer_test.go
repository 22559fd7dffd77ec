package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDetector struct {
	output *rekognition.DetectTextOutput
	err    error
}

func (f *fakeDetector) DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error) {
	return f.output, f.err
}

func detection(kind types.TextTypes, text string, confidence float32) types.TextDetection {
	return types.TextDetection{
		Type:         kind,
		DetectedText: aws.String(text),
		Confidence:   aws.Float32(confidence),
	}
}

func TestRecognizer_PicksBestPlate(t *testing.T) {
	detector := &fakeDetector{output: &rekognition.DetectTextOutput{
		TextDetections: []types.TextDetection{
			detection(types.TextTypesLine, "TRONG GIU XE 24/7", 99.0),
			detection(types.TextTypesLine, "29A-12345", 87.5),
			detection(types.TextTypesWord, "51G-678.90", 95.2),
		},
	}}
	recognizer := NewRekognitionRecognizer(detector)

	result, err := recognizer.Recognize(context.Background(), []byte("jpeg"))
	require.NoError(t, err)

	// Trong các khối khớp dạng biển số, chọn khối có độ tin cậy cao nhất.
	assert.Equal(t, "51G-678.90", result.Plate)
	assert.InDelta(t, 95.2, float64(result.Confidence), 0.001)
}

func TestRecognizer_NormalizesSpacing(t *testing.T) {
	detector := &fakeDetector{output: &rekognition.DetectTextOutput{
		TextDetections: []types.TextDetection{
			detection(types.TextTypesLine, "29a 12345", 90.0),
		},
	}}
	recognizer := NewRekognitionRecognizer(detector)

	result, err := recognizer.Recognize(context.Background(), []byte("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "29A12345", result.Plate)
}

func TestRecognizer_NoPlateInText(t *testing.T) {
	tests := []struct {
		name       string
		detections []types.TextDetection
	}{
		{"không có văn bản", nil},
		{
			"văn bản không phải biển số",
			[]types.TextDetection{
				detection(types.TextTypesLine, "LOI VAO", 99.0),
				detection(types.TextTypesWord, "XIN CHAO", 98.0),
			},
		},
		{
			"thiếu trường bắt buộc",
			[]types.TextDetection{{Type: types.TextTypesLine}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detector := &fakeDetector{output: &rekognition.DetectTextOutput{TextDetections: tt.detections}}
			recognizer := NewRekognitionRecognizer(detector)

			_, err := recognizer.Recognize(context.Background(), []byte("jpeg"))
			assert.ErrorIs(t, err, ErrPlateNotRecognized)
		})
	}
}

func TestRecognizer_ServiceError(t *testing.T) {
	detector := &fakeDetector{err: errors.New("throttled")}
	recognizer := NewRekognitionRecognizer(detector)

	_, err := recognizer.Recognize(context.Background(), []byte("jpeg"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPlateNotRecognized)
}

func TestRecognizer_EmptyImage(t *testing.T) {
	recognizer := NewRekognitionRecognizer(&fakeDetector{})

	_, err := recognizer.Recognize(context.Background(), nil)
	assert.ErrorIs(t, err, ErrValidation)
}
