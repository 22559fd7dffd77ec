package domain

// RecognitionResult là kết quả nhận dạng biển số từ một ảnh chụp.
// Chỉ dùng để điền sẵn ô biển số cho operator xác nhận, không lưu trữ.
type RecognitionResult struct {
	Plate      string  `json:"plate"`
	Confidence float32 `json:"confidence"`
}
