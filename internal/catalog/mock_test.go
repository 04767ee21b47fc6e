package catalog

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSource is a mock implementation of Source
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Name() string {
	return "mock"
}

func (m *MockSource) Fetch(ctx context.Context) ([]RawRecord, error) {
	args := m.Called(ctx)
	raw, _ := args.Get(0).([]RawRecord)
	return raw, args.Error(1)
}

func ptr(s string) *string { return &s }

// sampleRecords is the two-game catalog used across the filter tests.
func sampleRecords() []GameRecord {
	return []GameRecord{
		{
			ID:            1,
			Title:         "Catan",
			Genre:         "Strategy",
			Players:       PlayerRange{Min: 3, Max: 4},
			Playtime:      90,
			PlaytimeKnown: true,
			Rating:        7.2,
			Description:   "Trade and build on an island.",
		},
		{
			ID:            2,
			Title:         "Codenames",
			Genre:         "Party",
			Players:       PlayerRange{Min: 2, Max: 8},
			Playtime:      20,
			PlaytimeKnown: true,
			Rating:        7.8,
			Description:   "Give one-word clues to find your agents.",
		},
	}
}
