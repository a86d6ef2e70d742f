// Package program is the typed client of the Sigmaverse program. Queries are simulated against the node and
// return decoded results. Mutations return a Transaction that is configured and submitted by the caller.
// Event subscriptions filter the node's user message stream down to one program event.
package program

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	bridgeerrors "pkg.sigmaverse.dev/bridge/errors"
	"pkg.sigmaverse.dev/bridge/gateway"
	"pkg.sigmaverse.dev/bridge/signer"
	"pkg.sigmaverse.dev/bridge/types"
)

const (
	CyborNftService   = "CyborNft"
	ImprintNftService = "ImprintNft"

	// defaultGasMarginPercent is added on top of the estimated minimum gas limit.
	defaultGasMarginPercent = 10
)

type Program struct {
	node   gateway.Node
	nonces signer.NonceManager
	logger zerolog.Logger

	gasMarginPercent uint64

	mu        sync.RWMutex
	programID *types.ActorID

	CyborNft   *CyborNft
	ImprintNft *ImprintNft
}

type Option func(*Program)

func WithProgramID(id types.ActorID) Option {
	return func(p *Program) {
		p.programID = &id
	}
}

func WithNonceManager(nm signer.NonceManager) Option {
	return func(p *Program) {
		p.nonces = nm
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(p *Program) {
		p.logger = logger
	}
}

func WithGasMargin(percent uint64) Option {
	return func(p *Program) {
		p.gasMarginPercent = percent
	}
}

func New(node gateway.Node, opts ...Option) *Program {
	p := &Program{
		node:             node,
		nonces:           signer.NewMemoryNonceManager(),
		logger:           log.Logger,
		gasMarginPercent: defaultGasMarginPercent,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.CyborNft = &CyborNft{service{program: p, name: CyborNftService}}
	p.ImprintNft = &ImprintNft{service{program: p, name: ImprintNftService}}
	return p
}

// SetProgramID points the client at a deployed program.
func (p *Program) SetProgramID(id types.ActorID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.programID = &id
}

func (p *Program) ProgramID() (types.ActorID, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.programID == nil {
		return types.ActorID{}, bridgeerrors.ErrProgramIDNotSet
	}
	return *p.programID, nil
}

func (p *Program) Node() gateway.Node {
	return p.node
}

// service is the part shared by the NFT services of the program.
type service struct {
	program *Program
	name    string
}

func (s service) Name() string {
	return s.name
}
