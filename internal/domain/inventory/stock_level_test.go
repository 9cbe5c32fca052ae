package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := map[int]Level{
		0:   LevelOut,
		-2:  LevelOut,
		5:   LevelCritical,
		6:   LevelLow,
		15:  LevelLow,
		30:  LevelMedium,
		31:  LevelOK,
		500: LevelOK,
	}
	for stock, want := range cases {
		assert.Equal(t, want, Classify(stock, DefaultThresholds), "stock=%d", stock)
	}
}
