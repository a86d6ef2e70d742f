package program

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	bridgeerrors "pkg.sigmaverse.dev/bridge/errors"
	"pkg.sigmaverse.dev/bridge/gateway"
	"pkg.sigmaverse.dev/bridge/sign"
	"pkg.sigmaverse.dev/bridge/testutils"
	"pkg.sigmaverse.dev/bridge/types"
)

func TestCalculateGasAppliesMargin(t *testing.T) {
	node := &testutils.MockNode{}
	p := New(node, WithProgramID(testProgramID), WithGasMargin(10))
	acct := newTestSigner(t)

	node.On("CalculateGas", mock.Anything, mock.MatchedBy(func(req gateway.CalculateGasRequest) bool {
		return req.Origin == acct.Address() && req.Destination == testProgramID &&
			req.Value.Cmp(types.NewAmount(5)) == 0
	})).Return(&gateway.GasInfo{MinLimit: 1000}, nil).Once()

	tx := p.CyborNft.Mint(types.RaceNguyen).WithAccount(acct).WithValue(types.NewAmount(5))
	limit, err := tx.CalculateGas(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(1100), limit)
	require.Equal(t, uint64(1100), tx.GasLimit())
	node.AssertExpectations(t)
}

func TestSignAndSendUsesCalculatedGas(t *testing.T) {
	node := &testutils.MockNode{}
	p := New(node, WithProgramID(testProgramID), WithGasMargin(0))
	acct := newTestSigner(t)

	node.On("CalculateGas", mock.Anything, mock.Anything).Return(&gateway.GasInfo{MinLimit: 500}, nil).Once()
	node.On("SendMessage", mock.Anything, mock.MatchedBy(func(msg *sign.SignedMessage) bool {
		return msg.GasLimit == 500 && msg.Source == acct.Address() && len(msg.Signature) > 0
	})).Return(gateway.MessageID("0x01"), nil).Once()

	tx := p.CyborNft.Mint(types.RaceNguyen).WithAccount(acct)
	id, err := tx.SignAndSend(context.Background())
	require.NoError(t, err)
	require.Equal(t, gateway.MessageID("0x01"), id)

	_, err = tx.SignAndSend(context.Background())
	require.ErrorIs(t, err, bridgeerrors.ErrSubmissionFailed)
	node.AssertExpectations(t)
}

func TestSignAndSendRejectedByNode(t *testing.T) {
	node := &testutils.MockNode{}
	p := New(node, WithProgramID(testProgramID))
	acct := newTestSigner(t)

	node.On("SendMessage", mock.Anything, mock.Anything).Return(gateway.MessageID(""), eris.New("pool full")).Once()

	tx := p.CyborNft.Mint(types.RaceNguyen).WithAccount(acct).WithGasLimit(42)
	_, err := tx.SignAndSend(context.Background())
	require.ErrorIs(t, err, bridgeerrors.ErrSubmissionFailed)
	require.Empty(t, tx.MessageID())
	node.AssertNotCalled(t, "CalculateGas", mock.Anything, mock.Anything)
}
