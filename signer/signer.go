package signer

// signer.go holds the key backed signer used to authorize program messages on behalf of a wallet account.

import (
	"context"
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rotisserie/eris"

	"pkg.sigmaverse.dev/bridge/sign"
	"pkg.sigmaverse.dev/bridge/types"
)

var _ Signer = &keySigner{}

type Signer interface {
	Address() types.ActorID
	SignMessage(ctx context.Context, msg sign.Message) (*sign.SignedMessage, error)
}

type keySigner struct {
	key     *ecdsa.PrivateKey
	address types.ActorID
}

func NewKeySigner(key *ecdsa.PrivateKey) Signer {
	return &keySigner{
		key:     key,
		address: sign.ActorIDFromPubkey(&key.PublicKey),
	}
}

// ParseHexKey loads a secp256k1 private key from its hex encoding, with or without the 0x prefix.
func ParseHexKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, eris.Wrap(err, "failed to parse private key")
	}
	return key, nil
}

func (s *keySigner) Address() types.ActorID {
	return s.address
}

func (s *keySigner) SignMessage(ctx context.Context, msg sign.Message) (*sign.SignedMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "signing cancelled")
	}
	msg.Source = s.address
	return sign.NewSignedMessage(s.key, msg)
}
