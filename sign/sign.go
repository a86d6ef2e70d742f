// Package sign allows for the cryptographic signing and verification of program messages submitted to the
// Sigmaverse gateway.
package sign

import (
	"crypto/ecdsa"
	"encoding/binary"
	"errors"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"pkg.sigmaverse.dev/bridge/types"
)

var (
	// ErrSignatureValidationFailed is returned when a signature is not valid.
	ErrSignatureValidationFailed = errors.New("signature validation failed")
)

// Message is the unsigned body of a program message.
type Message struct {
	Source      types.ActorID `json:"source"`
	Destination types.ActorID `json:"destination"`
	Payload     hexutil.Bytes `json:"payload"`
	Value       types.Amount  `json:"value"`
	GasLimit    uint64        `json:"gasLimit"`
	Nonce       uint64        `json:"nonce"`
}

type SignedMessage struct {
	Message
	Signature hexutil.Bytes `json:"signature"`
}

// ActorIDFromPubkey derives the 32 byte account id of a secp256k1 key: the keccak hash of the uncompressed
// public key without its format prefix.
func ActorIDFromPubkey(pub *ecdsa.PublicKey) types.ActorID {
	var id types.ActorID
	copy(id[:], crypto.Keccak256(crypto.FromECDSAPub(pub)[1:]))
	return id
}

// NewSignedMessage signs msg with pk. msg.Source must be the account id of pk.
func NewSignedMessage(pk *ecdsa.PrivateKey, msg Message) (*SignedMessage, error) {
	if ActorIDFromPubkey(&pk.PublicKey) != msg.Source {
		return nil, eris.New("message source does not match signing key")
	}
	sm := &SignedMessage{Message: msg}
	sig, err := crypto.Sign(sm.Hash(), pk)
	if err != nil {
		return nil, eris.Wrap(err, "failed to sign message")
	}
	sm.Signature = sig
	return sm, nil
}

// Unmarshal attempts to unmarshal the given buf into a SignedMessage. SignedMessage.Verify must still
// be called to verify this signature.
func Unmarshal(buf []byte) (*SignedMessage, error) {
	sm := &SignedMessage{}
	if err := json.Unmarshal(buf, sm); err != nil {
		return nil, eris.Wrap(err, "failed to decode signed message")
	}
	return sm, nil
}

// Marshal serializes this SignedMessage to bytes, which can then be passed in to Unmarshal.
func (s *SignedMessage) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Verify verifies the signature was produced by the key behind Source.
func (s *SignedMessage) Verify() error {
	pub, err := crypto.SigToPub(s.Hash(), s.Signature)
	if err != nil {
		return eris.Wrap(ErrSignatureValidationFailed, err.Error())
	}
	if ActorIDFromPubkey(pub) != s.Source {
		return eris.Wrap(ErrSignatureValidationFailed, "recovered key does not match source")
	}
	return nil
}

// Hash is the keccak digest the signature commits to.
func (m *Message) Hash() []byte {
	var num [8]byte
	hash := crypto.NewKeccakState()
	hash.Write(m.Source[:])
	hash.Write(m.Destination[:])
	hash.Write(m.Payload)
	hash.Write(m.Value.Big().FillBytes(make([]byte, 32)))
	binary.BigEndian.PutUint64(num[:], m.GasLimit)
	hash.Write(num[:])
	binary.BigEndian.PutUint64(num[:], m.Nonce)
	hash.Write(num[:])
	return hash.Sum(nil)
}
