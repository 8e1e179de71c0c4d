package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/slurve/dugout/internal/apperr"
	"github.com/slurve/dugout/internal/engine"
	"github.com/slurve/dugout/internal/filter"
)

// Handler holds the request handlers' shared dependencies.
type Handler struct {
	engine *engine.Engine
	log    *zap.Logger
}

func NewHandler(eng *engine.Engine, log *zap.Logger) *Handler {
	return &Handler{engine: eng, log: log}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Characters returns the roster.
func (h *Handler) Characters(c *gin.Context) {
	chars, err := h.engine.Characters(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"characters": chars})
}

// Games lists games matching the filter params, newest first.
func (h *Handler) Games(c *gin.Context) {
	req, ok := h.filterRequest(c)
	if !ok {
		return
	}
	games, err := h.engine.Games(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

// Profile returns one user's profile.
func (h *Handler) Profile(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}
	recent, ok := h.intQuery(c, "recent")
	if !ok {
		return
	}
	result, err := h.engine.Profile(c.Request.Context(), engine.ProfileQuery{
		Username: username,
		Recent:   recent,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Detailed returns the nested stat tree for the selected games.
func (h *Handler) Detailed(c *gin.Context) {
	gameIDs, ok := h.int64Query(c, "games")
	if !ok {
		return
	}
	charIDs, ok := h.int64Query(c, "character")
	if !ok {
		return
	}
	req, ok := h.filterRequest(c)
	if !ok {
		return
	}
	q := engine.DetailedQuery{
		GameIDs:        gameIDs,
		Filter:         req,
		Users:          c.QueryArray("username"),
		CharIDs:        charIDs,
		ByUser:         boolQuery(c, "by_user"),
		ByChar:         boolQuery(c, "by_char"),
		BySwing:        boolQuery(c, "by_swing"),
		ExcludeNonFair: boolQuery(c, "exclude_nonfair"),
	}
	result, err := h.engine.Detailed(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// filterRequest reads the shared game-selection params.
func (h *Handler) filterRequest(c *gin.Context) (filter.Request, bool) {
	recent, ok := h.intQuery(c, "recent")
	if !ok {
		return filter.Request{}, false
	}
	return filter.Request{
		Users:       c.QueryArray("username"),
		VsUsers:     c.QueryArray("vs_username"),
		Tags:        c.QueryArray("tag"),
		ExcludeTags: c.QueryArray("exclude_tag"),
		StartDate:   c.Query("start_time"),
		EndDate:     c.Query("end_time"),
		Limit:       recent,
	}, true
}

func (h *Handler) intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an integer"})
		return 0, false
	}
	return v, true
}

func (h *Handler) int64Query(c *gin.Context, name string) ([]int64, bool) {
	raw := c.QueryArray(name)
	if len(raw) == 0 {
		return nil, true
	}
	out := make([]int64, 0, len(raw))
	for _, s := range raw {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be integers"})
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

func boolQuery(c *gin.Context, name string) bool {
	v, _ := strconv.ParseBool(c.DefaultQuery(name, "false"))
	return v
}

// fail maps typed engine errors onto HTTP statuses.
func (h *Handler) fail(c *gin.Context, err error) {
	var (
		unknown  *apperr.UnknownReference
		badDate  *apperr.InvalidDate
		badRange *apperr.RangeError
		upstream *apperr.UpstreamFailure
	)
	switch {
	case errors.As(err, &unknown):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &badDate), errors.As(err, &badRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &upstream):
		h.log.Error("storage failure", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "storage unavailable"})
	default:
		h.log.Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
