package service

import (
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-ensemble/internal/ensemble"
	"github.com/yourusername/prop-ensemble/internal/fixtures"
	"github.com/yourusername/prop-ensemble/internal/models"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newOrchestrator(t *testing.T) *ensemble.Orchestrator {
	t.Helper()
	o, err := ensemble.New(ensemble.DefaultConfig())
	require.NoError(t, err)
	return o
}

// countingEvaluator counts calls and tracks peak concurrency
type countingEvaluator struct {
	next    Evaluator
	delay   time.Duration
	calls   atomic.Int64
	mu      sync.Mutex
	active  int
	maxSeen int
}

func (c *countingEvaluator) Evaluate(input *models.ModelInput) models.EnsembleResult {
	c.calls.Add(1)
	c.mu.Lock()
	c.active++
	if c.active > c.maxSeen {
		c.maxSeen = c.active
	}
	c.mu.Unlock()

	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	result := c.next.Evaluate(input)

	c.mu.Lock()
	c.active--
	c.mu.Unlock()
	return result
}

func (c *countingEvaluator) peak() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxSeen
}

func sampleInput(player string, seed int64) *models.ModelInput {
	spec := fixtures.DefaultGameLogSpec()
	spec.Seed = seed
	input := fixtures.Input(spec, player, 24.5)
	input.MarketOdds = models.Float64(1.85)
	return input
}
