package channel

import (
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/labstack/echo/v4"
)

type ChannelView struct {
	ChannelID common.Hash `json:"channel_id"`
	Status    Status      `json:"status"`
	SeqNum    uint64      `json:"seq_num"`
	Deadline  uint64      `json:"deadline"`
}

func NewChannelView(core *Core) ChannelView {
	return ChannelView{
		ChannelID: core.ChannelID,
		Status:    core.Status,
		SeqNum:    core.SeqNum,
		Deadline:  core.Deadline,
	}
}

type FinalizeRequest struct {
	ChannelID common.Hash `json:"channel_id"`
}

type FinalizedResponse struct {
	Finalized bool `json:"finalized"`
}

type OutcomeResponse struct {
	Outcome bool `json:"outcome"`
}

type DeadlineResponse struct {
	Value *uint64 `json:"value"`
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{ErrNotFound, http.StatusNotFound},
	{ErrEmptyBoard, http.StatusNotFound},
	{ErrAlreadyExists, http.StatusConflict},
	{ErrFinalized, http.StatusConflict},
	{ErrStaleSequence, http.StatusConflict},
	{ErrSlotOccupied, http.StatusConflict},
	{ErrNotInActionMode, http.StatusTooEarly},
	{ErrInvalidPlayerCount, http.StatusBadRequest},
	{ErrOrderingViolation, http.StatusBadRequest},
	{ErrSignatureInvalid, http.StatusBadRequest},
	{ErrInvalidPayloadLength, http.StatusBadRequest},
	{ErrInsufficientOffchainMoves, http.StatusBadRequest},
	{ErrOutOfBoundary, http.StatusBadRequest},
	{ErrNotYourTurn, http.StatusBadRequest},
	{ErrInvalidBlackID, http.StatusBadRequest},
	{ErrInvalidWinner, http.StatusBadRequest},
}

func HTTPError(err error) error {
	for _, entry := range errorStatuses {
		if errors.Is(err, entry.err) {
			return echo.NewHTTPError(entry.status, entry.err.Error())
		}
	}

	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func PathChannelID(c echo.Context) common.Hash {
	return common.HexToHash(c.Param("id"))
}

type routes[R Record] struct {
	engine *Engine[R]
}

func RegisterRoutes[R Record](g *echo.Group, engine *Engine[R]) {
	r := &routes[R]{engine: engine}

	g.POST("/settle", r.PostSettle)
	g.POST("/action", r.PostAction)
	g.POST("/finalize", r.PostFinalize)

	g.GET("/:id", r.GetChannel)
	g.GET("/:id/finalized", r.GetFinalized)
	g.GET("/:id/outcome", r.GetOutcome)
	g.GET("/:id/settle-finalized-time", r.GetSettleFinalizedTime)
	g.GET("/:id/action-deadline", r.GetActionDeadline)
}

func (r *routes[R]) PostSettle(c echo.Context) error {
	var state SignedState

	err := c.Bind(&state)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	rec, err := r.engine.SubmitState(&state)
	if err != nil {
		return HTTPError(err)
	}

	//nolint:wrapcheck
	return c.JSONPretty(http.StatusOK, NewChannelView(rec.CoreInfo()), "  ")
}

func (r *routes[R]) PostAction(c echo.Context) error {
	var request ActionRequest

	err := c.Bind(&request)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	rec, err := r.engine.SubmitAction(request.ChannelID, request.Caller, request.Action)
	if err != nil {
		return HTTPError(err)
	}

	//nolint:wrapcheck
	return c.JSONPretty(http.StatusOK, NewChannelView(rec.CoreInfo()), "  ")
}

func (r *routes[R]) PostFinalize(c echo.Context) error {
	var request FinalizeRequest

	err := c.Bind(&request)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	rec, _, err := r.engine.FinalizeOnTimeout(request.ChannelID)
	if err != nil {
		return HTTPError(err)
	}

	//nolint:wrapcheck
	return c.JSONPretty(http.StatusOK, NewChannelView(rec.CoreInfo()), "  ")
}

func (r *routes[R]) GetChannel(c echo.Context) error {
	rec, err := r.engine.Channel(PathChannelID(c))
	if err != nil {
		return HTTPError(err)
	}

	//nolint:wrapcheck
	return c.JSONPretty(http.StatusOK, NewChannelView(rec.CoreInfo()), "  ")
}

func (r *routes[R]) GetFinalized(c echo.Context) error {
	finalized, err := r.engine.IsFinalized(PathChannelID(c))
	if err != nil {
		return HTTPError(err)
	}

	//nolint:wrapcheck
	return c.JSONPretty(http.StatusOK, FinalizedResponse{Finalized: finalized}, "  ")
}

func (r *routes[R]) GetOutcome(c echo.Context) error {
	query, err := hexutil.Decode(c.QueryParam("query"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid outcome query")
	}

	outcome, err := r.engine.Outcome(PathChannelID(c), query)
	if err != nil && !errors.Is(err, ErrFalseOutcome) {
		return HTTPError(err)
	}

	//nolint:wrapcheck
	return c.JSONPretty(http.StatusOK, OutcomeResponse{Outcome: outcome}, "  ")
}

func (r *routes[R]) GetSettleFinalizedTime(c echo.Context) error {
	value, ok, err := r.engine.SettleFinalizedTime(PathChannelID(c))
	if err != nil {
		return HTTPError(err)
	}

	response := DeadlineResponse{Value: nil}
	if ok {
		response.Value = &value
	}

	//nolint:wrapcheck
	return c.JSONPretty(http.StatusOK, response, "  ")
}

func (r *routes[R]) GetActionDeadline(c echo.Context) error {
	value, ok, err := r.engine.ActionDeadline(PathChannelID(c))
	if err != nil {
		return HTTPError(err)
	}

	response := DeadlineResponse{Value: nil}
	if ok {
		response.Value = &value
	}

	//nolint:wrapcheck
	return c.JSONPretty(http.StatusOK, response, "  ")
}
