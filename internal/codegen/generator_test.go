package codegen

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerator_Generate(t *testing.T) {
	tests := []struct {
		name       string
		length     int
		wantLength int
	}{
		{name: "default length", length: 0, wantLength: DefaultLength},
		{name: "negative length", length: -5, wantLength: DefaultLength},
		{name: "explicit length", length: 10, wantLength: 10},
		{name: "single char", length: 1, wantLength: 1},
	}

	g := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := g.Generate(tt.length)
			assert.Len(t, code, tt.wantLength)
			for _, r := range code {
				assert.Contains(t, Alphabet, string(r))
			}
		})
	}
}

func TestGenerator_Generate_Deterministic(t *testing.T) {
	g1 := New(rand.NewSource(42))
	g2 := New(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		assert.Equal(t, g1.Generate(DefaultLength), g2.Generate(DefaultLength))
	}
}

func TestGenerator_Generate_Distribution(t *testing.T) {
	// На 10к кодов по 6 символов каждый символ алфавита должен встретиться
	// хотя бы раз.
	g := New(rand.NewSource(1))
	var sb strings.Builder
	for i := 0; i < 10000; i++ {
		sb.WriteString(g.Generate(DefaultLength))
	}
	generated := sb.String()
	for _, r := range Alphabet {
		assert.True(t, strings.ContainsRune(generated, r), "alphabet char %q never generated", r)
	}
}
