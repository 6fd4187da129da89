package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreForIsDeterministic(t *testing.T) {
	first := scoreFor("1234567890")
	second := scoreFor("1234567890")
	assert.Equal(t, first, second)
}

func TestScoreForStaysInRange(t *testing.T) {
	documents := []string{"1", "1234567890", "9999999999", "abc", ""}
	for _, document := range documents {
		score := scoreFor(document)
		assert.GreaterOrEqual(t, score, scoreMin, "document %q", document)
		assert.LessOrEqual(t, score, scoreMax, "document %q", document)
	}
}

func TestRiskLevelFor(t *testing.T) {
	assert.Equal(t, "LOW", riskLevelFor(700))
	assert.Equal(t, "MEDIUM", riskLevelFor(699))
	assert.Equal(t, "MEDIUM", riskLevelFor(550))
	assert.Equal(t, "HIGH", riskLevelFor(549))
	assert.Equal(t, "HIGH", riskLevelFor(300))
}
