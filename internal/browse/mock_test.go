package browse

import (
	"io"

	"github.com/stretchr/testify/mock"

	"boardgame-catalog/internal/catalog"
)

// MockRenderer is a mock implementation of render.Renderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) RenderList(w io.Writer, records []catalog.GameRecord) error {
	args := m.Called(w, records)
	return args.Error(0)
}

func (m *MockRenderer) RenderFeatured(w io.Writer, record *catalog.GameRecord) error {
	args := m.Called(w, record)
	return args.Error(0)
}

func (m *MockRenderer) RenderDetail(w io.Writer, record catalog.GameRecord) error {
	args := m.Called(w, record)
	return args.Error(0)
}

func testRecords() []catalog.GameRecord {
	return []catalog.GameRecord{
		{ID: 1, Title: "Catan", Genre: "Strategy", Players: catalog.PlayerRange{Min: 3, Max: 4}, Playtime: 90, PlaytimeKnown: true, Rating: 7.2, Description: "Trade and build on an island."},
		{ID: 2, Title: "Codenames", Genre: "Party", Players: catalog.PlayerRange{Min: 2, Max: 8}, Playtime: 20, PlaytimeKnown: true, Rating: 7.8, Description: "Give one-word clues."},
		{ID: 17, Title: "Azul", Genre: "Abstract", Players: catalog.PlayerRange{Min: 2, Max: 4}, Playtime: 45, PlaytimeKnown: true, Rating: 7.8, Shelf: "B2"},
	}
}
