package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Men's Conference T-Shirt", "men-s-conference-t-shirt"},
		{"Bible Study   Guide!", "bible-study-guide"},
		{"  Youth Camp 2026  ", "youth-camp-2026"},
		{"---", ""},
		{"Already-Slugged", "already-slugged"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(tt.in))
		})
	}
}
