package service

import (
	"errors"
	"math/rand"
	"strconv"
	"sync"
	"time"
)

var ErrCodeSpaceExhausted = errors.New("không còn mã phiên trống để cấp")

const (
	codeMin = 100
	codeMax = 999

	// Khi toàn bộ dải 3 chữ số đã bị chiếm, mở rộng sang 4 chữ số thay vì
	// lặp vô hạn. Code chỉ là gợi ý; Directory mới là nơi cấp code chính thức.
	wideCodeMin = 1000
	wideCodeMax = 9999
)

// CodeGenerator sinh mã phiên ngắn cho chủ xe, không trùng với các mã
// đang hoạt động trong snapshot được cung cấp.
type CodeGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewCodeGeneratorWithSource cho phép test inject nguồn ngẫu nhiên cố định.
func NewCodeGeneratorWithSource(rnd *rand.Rand) *CodeGenerator {
	return &CodeGenerator{rnd: rnd}
}

// Generate chọn ngẫu nhiên một mã trong [100, 999] chưa có trong active.
// Dải 3 chữ số đầy thì chuyển sang [1000, 9999]; cả hai dải đầy mới báo lỗi.
func (g *CodeGenerator) Generate(active map[string]struct{}) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if code, ok := g.sample(active, codeMin, codeMax); ok {
		return code, nil
	}
	if code, ok := g.sample(active, wideCodeMin, wideCodeMax); ok {
		return code, nil
	}
	return "", ErrCodeSpaceExhausted
}

func (g *CodeGenerator) sample(active map[string]struct{}, min, max int) (string, bool) {
	taken := 0
	for code := range active {
		if n, err := strconv.Atoi(code); err == nil && n >= min && n <= max {
			taken++
		}
	}
	if taken >= max-min+1 {
		return "", false
	}

	for {
		code := strconv.Itoa(min + g.rnd.Intn(max-min+1))
		if _, exists := active[code]; !exists {
			return code, true
		}
	}
}

// ActiveCodeSet rút tập code đang hoạt động từ danh sách phiên ACTIVE.
func ActiveCodeSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		if code != "" {
			set[code] = struct{}{}
		}
	}
	return set
}
