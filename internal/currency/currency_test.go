package currency

import (
	"testing"

	"ritmo-vivo/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardSelection(t *testing.T) {
	board, err := NewBoard(USD, nil)
	require.NoError(t, err)
	assert.Equal(t, USD, board.Current())

	require.NoError(t, board.Set(MXN))
	assert.Equal(t, MXN, board.Current())

	err = board.Set(Code("XXX"))
	assert.True(t, utils.IsErrorCode(err, utils.ErrUnknownCurrency))
	assert.Equal(t, MXN, board.Current(), "failed switch leaves selection unchanged")
}

func TestConvert(t *testing.T) {
	board, err := NewBoard(MXN, map[Code]float64{USD: 1, MXN: 20})
	require.NoError(t, err)

	amount, code, err := board.Convert(10, USD)
	require.NoError(t, err)
	assert.Equal(t, MXN, code)
	assert.InDelta(t, 200, amount, 1e-9)

	// Converting from the selected currency is the identity.
	amount, _, err = board.Convert(150, MXN)
	require.NoError(t, err)
	assert.InDelta(t, 150, amount, 1e-9)

	_, _, err = board.Convert(10, Code("XXX"))
	assert.True(t, utils.IsErrorCode(err, utils.ErrUnknownCurrency))
}

func TestUpdateRate(t *testing.T) {
	board, err := NewBoard(USD, nil)
	require.NoError(t, err)

	require.NoError(t, board.UpdateRate(MXN, 21))
	require.NoError(t, board.Set(MXN))
	amount, _, err := board.Convert(1, USD)
	require.NoError(t, err)
	assert.InDelta(t, 21, amount, 1e-9)

	err = board.UpdateRate(MXN, 0)
	assert.True(t, utils.IsErrorCode(err, utils.ErrValidation))
}

func TestNewBoardRejectsUnknownSelection(t *testing.T) {
	_, err := NewBoard(Code("XXX"), nil)
	assert.True(t, utils.IsErrorCode(err, utils.ErrUnknownCurrency))
}
