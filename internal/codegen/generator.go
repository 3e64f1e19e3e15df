package codegen

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Alphabet 62-символьный URL-safe алфавит коротких кодов.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultLength длина кода по умолчанию.
const DefaultLength = 6

// Generator генерирует случайные короткие коды. Источник случайности
// передается явно, чтобы генерация была детерминируемой в тестах.
// Уникальность кодов генератор не гарантирует - коллизии разруливает
// вызывающая сторона через повторную генерацию.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func New(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// Default возвращает генератор на стандартном источнике.
func Default() *Generator {
	return New(rand.NewSource(time.Now().UnixNano()))
}

// Generate возвращает случайную строку заданной длины из Alphabet.
// При length <= 0 используется DefaultLength.
func (g *Generator) Generate(length int) string {
	if length <= 0 {
		length = DefaultLength
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(Alphabet[g.rnd.Intn(len(Alphabet))])
	}
	return b.String()
}
