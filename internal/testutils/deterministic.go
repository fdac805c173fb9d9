// Package testutils provides deterministic generators and test doubles for Onyx testing.
// The generators keep production formats so output stays comparable between modes.
package testutils

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TestModeEnv switches the generators to deterministic output when set to "1" or "true".
const TestModeEnv = "ONYX_TEST_MODE"

// Mode reports whether deterministic output is wanted.
type Mode interface {
	IsTestMode() bool
}

// EnvMode reads test mode from ONYX_TEST_MODE.
type EnvMode struct{}

// IsTestMode implements Mode.
func (EnvMode) IsTestMode() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(TestModeEnv)))
	return v == "1" || v == "true"
}

// FixedMode is a Mode with a constant answer.
type FixedMode bool

// IsTestMode implements Mode.
func (m FixedMode) IsTestMode() bool {
	return bool(m)
}

var (
	// Thread-safe counter for deterministic ID generation
	idCounter uint64
	idMutex   sync.Mutex

	// Thread-safe counter for deterministic timestamp generation
	timeCounter int64
	timeMutex   sync.Mutex
)

// GenerateUUID generates a UUID that is deterministic in test mode but random in production.
// In test mode, returns UUIDs in format: 00000001-0000-4000-8000-000000000001, 00000002-0000-4000-8000-000000000002, etc.
func GenerateUUID(mode Mode) string {
	if mode != nil && mode.IsTestMode() {
		return getDeterministicUUID()
	}
	return uuid.New().String()
}

// GenerateTurnID returns the identifier logged for one ask/chat turn.
func GenerateTurnID(mode Mode) string {
	return "turn_" + GenerateUUID(mode)[:8]
}

// GetCurrentTime returns the current time, deterministic in test mode but real in production.
// In test mode, returns incrementing time starting from 2025-01-01T00:00:01Z.
func GetCurrentTime(mode Mode) time.Time {
	if mode != nil && mode.IsTestMode() {
		return getDeterministicTime()
	}
	return time.Now()
}

// getDeterministicUUID keeps the UUID v4 layout: version nibble 4, variant 8.
func getDeterministicUUID() string {
	idMutex.Lock()
	defer idMutex.Unlock()

	idCounter++
	return fmt.Sprintf("%08x-0000-4000-8000-%012x", idCounter, idCounter)
}

func getDeterministicTime() time.Time {
	timeMutex.Lock()
	defer timeMutex.Unlock()

	timeCounter++
	baseTime := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return baseTime.Add(time.Duration(timeCounter) * time.Second)
}

// ResetTestCounters resets the deterministic counters.
// This should only be called from test code to ensure consistent test runs.
func ResetTestCounters() {
	idMutex.Lock()
	timeMutex.Lock()
	defer idMutex.Unlock()
	defer timeMutex.Unlock()

	idCounter = 0
	timeCounter = 0
}
