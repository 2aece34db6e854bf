package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ForeO4/teeth/engine"
	"github.com/ForeO4/teeth/models"
)

func TestIntStake(t *testing.T) {
	tests := []struct {
		name    string
		in      float64
		want    int
		wantErr bool
	}{
		{"whole number", 5, 5, false},
		{"zero", 0, 0, false},
		{"negative", -1, 0, true},
		{"fractional", 2.5, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := intStake(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				var verr *engine.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, engine.ReasonNegativeStake, verr.Reason)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateSides(t *testing.T) {
	pair := []gamePlayerReq{{UserID: 1, Side: "a"}, {UserID: 2, Side: "b"}}

	assert.NoError(t, validateSides(models.FormatMatchPlay, pair))
	assert.NoError(t, validateSides(models.FormatNassau, pair))

	assert.Error(t, validateSides(models.FormatMatchPlay, pair[:1]))
	assert.Error(t, validateSides(models.FormatMatchPlay,
		[]gamePlayerReq{{UserID: 1, Side: "a"}, {UserID: 2, Side: "a"}}))
	assert.Error(t, validateSides("skins", pair))
	assert.Error(t, validateSides(models.FormatMatchPlay,
		[]gamePlayerReq{{UserID: 1, Side: "x"}, {UserID: 2, Side: "b"}}))

	fourBall := []gamePlayerReq{
		{UserID: 1, Side: "a"}, {UserID: 2, Side: "a"},
		{UserID: 3, Side: "b"}, {UserID: 4, Side: "b"},
	}
	assert.NoError(t, validateSides(models.FormatHighLowTotal, fourBall))
	assert.NoError(t, validateSides(models.FormatHighLowTotal, fourBall[:3]))
	assert.Error(t, validateSides(models.FormatHighLowTotal, fourBall[:2]))
}

func TestEngineHTTPErrorMapping(t *testing.T) {
	herr := engineHTTPError(&engine.ValidationError{Reason: engine.ReasonStartNotAhead})
	assert.Equal(t, http.StatusBadRequest, herr.Code)
	assert.Equal(t, engine.ReasonStartNotAhead, herr.Message)

	herr = engineHTTPError(engine.ErrAlreadySettled)
	assert.Equal(t, http.StatusConflict, herr.Code)

	herr = engineHTTPError(engine.ErrPressLimit)
	assert.Equal(t, http.StatusConflict, herr.Code)
}

func TestSideCardsUsesBothSides(t *testing.T) {
	// Rows written before positions were counted per side carry absolute
	// positions; side B's first player must still be picked up.
	players := []models.GamePlayer{
		{GameID: 7, UserID: 1, Side: "a", Position: 0},
		{GameID: 7, UserID: 2, Side: "b", Position: 1},
	}
	cards := map[int64]engine.Scorecard{
		1: {1: 4, 2: 4, 3: 4},
		2: {1: 5, 2: 5, 3: 5},
	}

	a, b := sideCards(players, cards)
	assert.NotEmpty(t, a)
	assert.NotEmpty(t, b)

	_, res := engine.MatchState(1, 18, a, b)
	assert.Equal(t, 3, res.HolesUp)
	assert.Equal(t, engine.SideA, res.Winner)

	s := engine.SettleMatchPlay(10, 1, 2, res)
	require.NotNil(t, s)
	assert.Equal(t, int64(2), s.PayerID)
	assert.Equal(t, int64(1), s.PayeeID)
	assert.Equal(t, 30, s.Amount)
}

func TestParentStateCurrentHole(t *testing.T) {
	players := []models.GamePlayer{
		{GameID: 7, UserID: 1, Side: "a", Position: 0},
		{GameID: 7, UserID: 2, Side: "b", Position: 1},
	}
	game := &models.Game{ID: 7, StartHole: 1, EndHole: 18, Stake: 5, Status: engine.StatusActive}
	cards := map[int64]engine.Scorecard{
		1: {1: 4, 2: 4, 3: 5},
		2: {1: 5, 2: 4},
	}

	st := parentState(game, players, cards)
	assert.Equal(t, 2, st.CurrentHole)
	assert.Equal(t, engine.StatusActive, st.Status)
	assert.Equal(t, 5, st.Stake)
}
