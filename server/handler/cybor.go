package handler

import (
	"github.com/gofiber/fiber/v2"

	"pkg.sigmaverse.dev/bridge/bridge"
	bridgeerrors "pkg.sigmaverse.dev/bridge/errors"
	"pkg.sigmaverse.dev/bridge/program"
	"pkg.sigmaverse.dev/bridge/state"
	"pkg.sigmaverse.dev/bridge/types"
)

type CyborsResponse struct {
	Owner  *types.ActorID               `json:"owner,omitempty"`
	Cybors map[string]types.CyborStream `json:"cybors"`
}

type CyborResponse struct {
	TokenID types.TokenID     `json:"tokenId"`
	Cybor   types.CyborStream `json:"cybor"`
}

// GetCybors returns the cached collection of the active identity, keyed by decimal token id.
func GetCybors(store *state.Store) func(*fiber.Ctx) error {
	return func(ctx *fiber.Ctx) error {
		assets := store.Assets()
		res := CyborsResponse{Cybors: make(map[string]types.CyborStream, len(assets.Records))}
		if !assets.Owner.IsZero() {
			owner := assets.Owner
			res.Owner = &owner
		}
		for _, r := range assets.Records {
			res.Cybors[r.ID.Key()] = r.Value
		}
		return ctx.JSON(res)
	}
}

// GetCybor queries a Cybor from the chain. A failed program reply is reported as 502 with the program's message.
func GetCybor(store *state.Store, cybors bridge.CyborQuerier) func(*fiber.Ctx) error {
	return func(ctx *fiber.Ctx) error {
		id, err := types.ParseTokenID(ctx.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid token id: "+err.Error())
		}
		var opts []program.QueryOption
		if active, ok := store.Active(); ok {
			opts = append(opts, program.WithOrigin(active.Address))
		}
		cybor, err := cybors.CyborInfo(ctx.UserContext(), id, opts...)
		if err != nil {
			if rce, ok := bridgeerrors.AsRemoteCallError(err); ok {
				return fiber.NewError(fiber.StatusBadGateway, rce.Message)
			}
			return fiber.NewError(fiber.StatusServiceUnavailable, "failed to query cybor: "+err.Error())
		}
		return ctx.JSON(CyborResponse{TokenID: id, Cybor: cybor})
	}
}
