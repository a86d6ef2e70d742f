package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/coocood/freecache"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"

	bridgeerrors "pkg.sigmaverse.dev/bridge/errors"
	"pkg.sigmaverse.dev/bridge/program"
	"pkg.sigmaverse.dev/bridge/types"
)

const (
	// NguyenPrice is the fixed mint price of a nguyen Cybor, 2 tokens in base units.
	NguyenPrice = 2_000_000_000_000

	defaultPriceCacheBytes = 256 * 1024
	defaultPriceTTL        = time.Minute
)

// TemplateSource reads the current template of a race, which carries its mint price.
type TemplateSource interface {
	DebugInfo(ctx context.Context, race types.Race, opts ...program.QueryOption) (types.CyborNftDebugInfo, error)
}

// PriceSchedule maps a race to the value that must be attached to its mint. Fixed prices win; other races are
// priced from the remote template, cached for a short while.
type PriceSchedule struct {
	fixed  map[types.Race]types.Amount
	source TemplateSource
	cache  *freecache.Cache
	ttl    time.Duration
}

func DefaultFixedPrices() map[types.Race]types.Amount {
	return map[types.Race]types.Amount{
		types.RaceNguyen: types.NewAmount(NguyenPrice),
	}
}

func NewPriceSchedule(source TemplateSource, fixed map[types.Race]types.Amount, ttl time.Duration) *PriceSchedule {
	if ttl <= 0 {
		ttl = defaultPriceTTL
	}
	return &PriceSchedule{
		fixed:  fixed,
		source: source,
		cache:  freecache.NewCache(defaultPriceCacheBytes),
		ttl:    ttl,
	}
}

// Price returns the raw amount a mint of race must carry. A zero amount means the race is free.
func (s *PriceSchedule) Price(ctx context.Context, race types.Race) (types.Amount, error) {
	if p, ok := s.fixed[race]; ok {
		return p, nil
	}
	key := []byte(race)
	if cached, err := s.cache.Get(key); err == nil {
		return types.ParseAmount(string(cached))
	} else if !errors.Is(err, freecache.ErrNotFound) {
		log.Logger.Warn().Err(err).Msg("price cache read failed")
	}
	if s.source == nil {
		return types.Amount{}, eris.Wrapf(bridgeerrors.ErrPriceUnavailable, "race %s has no fixed price", race)
	}
	info, err := s.source.DebugInfo(ctx, race)
	if err != nil {
		return types.Amount{}, eris.Wrapf(bridgeerrors.ErrPriceUnavailable, "race %s: %v", race, err)
	}
	price := info.Temp.Price
	if err := s.cache.Set(key, []byte(price.String()), int(s.ttl.Seconds())); err != nil {
		log.Logger.Warn().Err(err).Msg("price cache write failed")
	}
	return price, nil
}
