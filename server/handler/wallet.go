package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"pkg.sigmaverse.dev/bridge/orchestrator"
	"pkg.sigmaverse.dev/bridge/state"
	"pkg.sigmaverse.dev/bridge/types"
)

type WalletResponse struct {
	Address *types.ActorID `json:"address,omitempty"`
	Source  string         `json:"source,omitempty"`
	Name    string         `json:"name,omitempty"`
	// Balance is the raw amount, omitted while unknown.
	Balance        *types.Amount `json:"balance,omitempty"`
	DisplayBalance string        `json:"displayBalance"`
}

type SelectWalletRequest struct {
	Address types.ActorID `json:"address"`
	Source  string        `json:"source"`
	Name    string        `json:"name"`
}

func walletResponse(w state.Wallet, decimals int) WalletResponse {
	res := WalletResponse{DisplayBalance: "0", Balance: w.Balance}
	if w.Identity != nil {
		addr := w.Identity.Address
		res.Address = &addr
		res.Source = w.Identity.Source
		res.Name = w.Identity.Name
	}
	if w.Balance != nil {
		res.DisplayBalance = types.FormatAmount(*w.Balance, decimals)
	}
	return res
}

func GetWallet(store *state.Store, decimals int) func(*fiber.Ctx) error {
	return func(ctx *fiber.Ctx) error {
		return ctx.JSON(walletResponse(store.Wallet(), decimals))
	}
}

// PostSelectWallet makes the posted identity the active one. Its balance is read first so the selection and the
// balance are published together; when the read fails the balance stays unknown until the next poll.
func PostSelectWallet(
	store *state.Store, balances orchestrator.BalanceSource, decimals int,
) func(*fiber.Ctx) error {
	return func(ctx *fiber.Ctx) error {
		req := new(SelectWalletRequest)
		if err := ctx.BodyParser(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "failed to parse request body: "+err.Error())
		}
		if req.Address.IsZero() {
			return fiber.NewError(fiber.StatusBadRequest, "address is required")
		}
		if req.Source == "" {
			return fiber.NewError(fiber.StatusBadRequest, "source is required")
		}

		var balance *types.Amount
		if b, err := balances.Balance(ctx.UserContext(), req.Address); err != nil {
			log.Warn().Err(err).Str("address", req.Address.Hex()).Msg("selected wallet without a balance")
		} else {
			balance = &b
		}
		store.SelectIdentity(state.Identity{Address: req.Address, Source: req.Source, Name: req.Name}, balance)
		return ctx.JSON(walletResponse(store.Wallet(), decimals))
	}
}

func PostDisconnectWallet(store *state.Store) func(*fiber.Ctx) error {
	return func(ctx *fiber.Ctx) error {
		store.ClearIdentity()
		return ctx.SendStatus(fiber.StatusNoContent)
	}
}
