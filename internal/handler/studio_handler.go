package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/namesmith/internal/model"
	"github.com/fleveque/namesmith/internal/ui"
)

// IndexPage is the data the index template renders.
type IndexPage struct {
	ui.Snapshot

	// Form holds what the form fields should show. It differs from
	// Snapshot.Input only when a submission was rejected.
	Form model.UserInput

	// Notice is a validation message shown next to the form.
	Notice string

	// RefreshSeconds drives the auto-refresh while loading.
	RefreshSeconds int
}

// StudioHandler serves the server-rendered studio: the page and its form.
type StudioHandler struct {
	studio         *ui.Studio
	refreshSeconds int
	logger         *zap.Logger
}

// NewStudioHandler creates a new StudioHandler.
func NewStudioHandler(studio *ui.Studio, refreshSeconds int, logger *zap.Logger) *StudioHandler {
	return &StudioHandler{
		studio:         studio,
		refreshSeconds: refreshSeconds,
		logger:         logger,
	}
}

// Index renders the studio for the caller's session.
// Route: GET /
func (h *StudioHandler) Index(c *gin.Context) {
	state := ensureState(c, h.studio.Sessions())
	snap := state.Snapshot()

	c.HTML(http.StatusOK, "index.html", IndexPage{
		Snapshot:       snap,
		Form:           snap.Input,
		RefreshSeconds: h.refreshSeconds,
	})
}

// Generate submits the form and redirects back to the studio, which shows the
// loading state until the batch settles.
// Route: POST /generate
func (h *StudioHandler) Generate(c *gin.Context) {
	state := ensureState(c, h.studio.Sessions())

	var input model.UserInput
	if err := c.ShouldBind(&input); err != nil {
		h.reject(c, state, input, "Could not read the form. Please try again.")
		return
	}

	if err := h.studio.Submit(state, input); err != nil {
		if errors.Is(err, model.ErrIndustryRequired) {
			h.reject(c, state, input, "Please describe your industry.")
			return
		}
		h.logger.Error("submitting batch", zap.Error(err))
		h.reject(c, state, input, "Could not start generation. Please try again.")
		return
	}

	h.logger.Info("batch submitted",
		zap.String("industry", input.Industry),
	)
	// 303 turns the POST into a GET, so reloading the page does not resubmit.
	c.Redirect(http.StatusSeeOther, "/")
}

// reject re-renders the page without any state transition.
func (h *StudioHandler) reject(c *gin.Context, state *ui.State, input model.UserInput, notice string) {
	c.HTML(http.StatusBadRequest, "index.html", IndexPage{
		Snapshot:       state.Snapshot(),
		Form:           input,
		Notice:         notice,
		RefreshSeconds: h.refreshSeconds,
	})
}
