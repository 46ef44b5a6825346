package entity

import (
	"encoding/json"
	"testing"

	"github.com/rocketscienceinc/oxbingo-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_UnmarshalJSON(t *testing.T) {
	t.Run("Reads a full board", func(t *testing.T) {
		// Given: a stored board with two marks
		raw := `[["O","","",""],["","X","",""],["","","",""],["","","",""]]`

		// When: decoding it
		var board Board
		err := json.Unmarshal([]byte(raw), &board)

		// Then: the cells land where they were
		require.NoError(t, err)
		assert.Equal(t, MarkO, board[0][0])
		assert.Equal(t, MarkX, board[1][1])
		assert.Equal(t, 14, board.Count(EmptyCell))
	})

	t.Run("Survives a round trip", func(t *testing.T) {
		// Given: a board with a mark in the last cell
		var board Board
		board[3][3] = MarkX

		raw, err := json.Marshal(board)
		require.NoError(t, err)

		// When: decoding it again
		var decoded Board
		require.NoError(t, json.Unmarshal(raw, &decoded))

		// Then: nothing changed
		assert.Equal(t, board, decoded)
	})

	for name, raw := range map[string]string{
		"too few rows":  `[["","","",""],["","","",""],["","","",""]]`,
		"too many rows": `[["","","",""],["","","",""],["","","",""],["","","",""],["","","",""]]`,
		"short row":     `[["O","X"],["","","",""],["","","",""],["","","",""]]`,
		"long row":      `[["","","","","X"],["","","",""],["","","",""],["","","",""]]`,
		"null":          `null`,
		"not an array":  `"OXOX"`,
	} {
		t.Run("Rejects "+name, func(t *testing.T) {
			// When: decoding a board of the wrong shape
			var board Board
			err := json.Unmarshal([]byte(raw), &board)

			// Then: it is refused and the board stays empty
			require.Error(t, err)
			assert.Equal(t, Board{}, board)
		})
	}

	t.Run("Shape errors are invalid boards", func(t *testing.T) {
		// When: decoding a board with a missing row
		var board Board
		err := json.Unmarshal([]byte(`[["","","",""]]`), &board)

		// Then: the error is ErrInvalidBoard
		require.ErrorIs(t, err, ErrBoardShape)
		require.ErrorIs(t, err, apperror.ErrInvalidBoard)
	})
}
