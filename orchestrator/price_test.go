package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"pkg.sigmaverse.dev/bridge/assert"
	bridgeerrors "pkg.sigmaverse.dev/bridge/errors"
	"pkg.sigmaverse.dev/bridge/program"
	"pkg.sigmaverse.dev/bridge/types"
)

type mockTemplates struct {
	mock.Mock
}

func (m *mockTemplates) DebugInfo(
	ctx context.Context, race types.Race, _ ...program.QueryOption,
) (types.CyborNftDebugInfo, error) {
	ret := m.Called(ctx, race)
	info, _ := ret.Get(0).(types.CyborNftDebugInfo)
	return info, ret.Error(1)
}

func TestFixedPriceNeedsNoQuery(t *testing.T) {
	src := &mockTemplates{}
	s := NewPriceSchedule(src, DefaultFixedPrices(), time.Minute)

	p, err := s.Price(context.Background(), types.RaceNguyen)
	assert.NilError(t, err)
	assert.Equal(t, "2000000000000", p.String())
	src.AssertNotCalled(t, "DebugInfo", mock.Anything, mock.Anything)
}

func TestTemplatePriceIsCached(t *testing.T) {
	src := &mockTemplates{}
	src.On("DebugInfo", mock.Anything, types.RaceRodriguez).Return(types.CyborNftDebugInfo{
		Temp: types.CyborTemplate{RaceName: "rodriguez", Price: types.MustParseAmount("5000000000000")},
	}, nil).Once()
	s := NewPriceSchedule(src, DefaultFixedPrices(), time.Minute)

	for i := 0; i < 3; i++ {
		p, err := s.Price(context.Background(), types.RaceRodriguez)
		assert.NilError(t, err)
		assert.Equal(t, "5000000000000", p.String())
	}
	src.AssertExpectations(t)
}

func TestTemplatePriceFailure(t *testing.T) {
	src := &mockTemplates{}
	src.On("DebugInfo", mock.Anything, types.RaceRodriguez).Return(types.CyborNftDebugInfo{}, bridgeerrors.ErrUnknownRace)
	s := NewPriceSchedule(src, DefaultFixedPrices(), time.Minute)

	_, err := s.Price(context.Background(), types.RaceRodriguez)
	assert.ErrorIs(t, err, bridgeerrors.ErrPriceUnavailable)

	_, err = NewPriceSchedule(nil, nil, 0).Price(context.Background(), types.RaceRodriguez)
	assert.ErrorIs(t, err, bridgeerrors.ErrPriceUnavailable)
}
