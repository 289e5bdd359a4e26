package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentage(t *testing.T) {
	cases := []struct {
		part, total, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 4, 0},
		{1, 2, 50},
		{2, 2, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 向上取整
		{7, 10, 70},
		{5, 4, 100},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, Percentage(c.part, c.total), "part=%d total=%d", c.part, c.total)
	}
}
