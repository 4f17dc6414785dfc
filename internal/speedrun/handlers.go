package speedrun

import (
	"errors"
	"html/template"
	"net/http"
	"time"

	"shopfront/internal/handlers"
	"shopfront/internal/obs"
	"shopfront/web"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// Pages lists the speedrun page templates.
var Pages = []string{
	"game_index.html",
	"game_form.html",
	"runner_index.html",
	"runner_form.html",
	"record_index.html",
	"record_form.html",
}

// Handler serves the speedrun pages.
type Handler struct {
	store Store
	now   func() time.Time
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store, now: time.Now}
}

// NewRouter builds the speedrun engine.
func NewRouter(h *Handler) (*gin.Engine, error) {
	funcs := template.FuncMap{"runTime": FormatRunTime}
	renderer, err := handlers.LoadTemplates(web.Templates, "templates/speedrun", funcs, Pages...)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(obs.GinLogger())
	r.Use(gin.Recovery())
	r.HTMLRender = renderer

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/game/") })

	game := r.Group("/game")
	{
		game.GET("/", h.GameIndex)
		game.GET("/create", h.GameCreateForm)
		game.POST("/create", h.GameCreate)
	}

	runner := r.Group("/runner")
	{
		runner.GET("/", h.RunnerIndex)
		runner.GET("/create", h.RunnerCreateForm)
		runner.POST("/create", h.RunnerCreate)
	}

	record := r.Group("/record")
	{
		record.GET("/", h.RecordIndex)
		record.GET("/create", h.RecordCreateForm)
		record.POST("/create", h.RecordCreate)
	}

	return r, nil
}

func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	obs.Logger.Error("speedrun request failed",
		zap.String("request_id", obs.RequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	c.String(http.StatusInternalServerError, "internal error")
}

// --- Games ---

func (h *Handler) GameIndex(c *gin.Context) {
	games, err := h.store.ListGames(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "game_index.html", gin.H{"title": "Games", "games": games})
}

func (h *Handler) renderGameForm(c *gin.Context, code int, form GameForm, errs FieldErrors, flashes ...string) {
	c.HTML(code, "game_form.html", gin.H{
		"title":     "New game",
		"form":      form,
		"errors":    errs,
		"flashes":   flashes,
		"platforms": Platforms,
	})
}

func (h *Handler) GameCreateForm(c *gin.Context) {
	h.renderGameForm(c, http.StatusOK, GameForm{}, FieldErrors{})
}

func (h *Handler) GameCreate(c *gin.Context) {
	var form GameForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		h.fail(c, err)
		return
	}

	game, errs := form.Validate()
	if errs != nil {
		h.renderGameForm(c, http.StatusBadRequest, form, errs)
		return
	}
	if err := h.store.CreateGame(c.Request.Context(), game); err != nil {
		h.fail(c, err)
		return
	}

	obs.Logger.Info("game created", zap.Uint("game_id", game.ID), zap.String("title", game.Title))
	h.renderGameForm(c, http.StatusOK, GameForm{}, FieldErrors{}, "Game Created!")
}

// --- Runners ---

func (h *Handler) RunnerIndex(c *gin.Context) {
	runners, err := h.store.ListRunners(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "runner_index.html", gin.H{"title": "Runners", "runners": runners})
}

func (h *Handler) renderRunnerForm(c *gin.Context, code int, form RunnerForm, errs FieldErrors, flashes ...string) {
	c.HTML(code, "runner_form.html", gin.H{
		"title":   "New runner",
		"form":    form,
		"errors":  errs,
		"flashes": flashes,
	})
}

func (h *Handler) RunnerCreateForm(c *gin.Context) {
	h.renderRunnerForm(c, http.StatusOK, RunnerForm{}, FieldErrors{})
}

func (h *Handler) RunnerCreate(c *gin.Context) {
	var form RunnerForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		h.fail(c, err)
		return
	}

	runner, errs := form.Validate()
	if errs != nil {
		h.renderRunnerForm(c, http.StatusBadRequest, form, errs)
		return
	}
	runner.JoinDate = h.now().UTC()
	if err := h.store.CreateRunner(c.Request.Context(), runner); err != nil {
		h.fail(c, err)
		return
	}

	obs.Logger.Info("runner created", zap.Uint("runner_id", runner.ID), zap.String("name", runner.Name))
	h.renderRunnerForm(c, http.StatusOK, RunnerForm{}, FieldErrors{}, "Runner Created!")
}

// --- Records ---

func (h *Handler) RecordIndex(c *gin.Context) {
	records, err := h.store.ListRecords(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "record_index.html", gin.H{"title": "Records", "records": records})
}

// renderRecordForm loads the game and runner choices and renders the form.
func (h *Handler) renderRecordForm(c *gin.Context, code int, form RecordForm, errs FieldErrors, flashes ...string) {
	ctx := c.Request.Context()
	games, err := h.store.ListGames(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	runners, err := h.store.ListRunners(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.HTML(code, "record_form.html", gin.H{
		"title":   "New record",
		"form":    form,
		"errors":  errs,
		"flashes": flashes,
		"games":   games,
		"runners": runners,
	})
}

func (h *Handler) RecordCreateForm(c *gin.Context) {
	h.renderRecordForm(c, http.StatusOK, RecordForm{}, FieldErrors{})
}

func (h *Handler) RecordCreate(c *gin.Context) {
	ctx := c.Request.Context()

	var form RecordForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		h.fail(c, err)
		return
	}

	record, errs := form.Validate()
	if errs == nil {
		errs = FieldErrors{}
		if _, err := h.store.GetGame(ctx, record.GameID); err != nil {
			if !errors.Is(err, ErrNotFound) {
				h.fail(c, err)
				return
			}
			errs["game"] = msgInvalidChoice
		}
		if _, err := h.store.GetRunner(ctx, record.RunnerID); err != nil {
			if !errors.Is(err, ErrNotFound) {
				h.fail(c, err)
				return
			}
			errs["runner"] = msgInvalidChoice
		}
	}
	if len(errs) > 0 {
		h.renderRecordForm(c, http.StatusBadRequest, form, errs)
		return
	}

	record.Date = h.now().UTC()
	if err := h.store.CreateRecord(ctx, record); err != nil {
		h.fail(c, err)
		return
	}

	obs.Logger.Info("record created",
		zap.Uint("record_id", record.ID),
		zap.Uint("game_id", record.GameID),
		zap.Uint("runner_id", record.RunnerID),
		zap.Int("seconds", record.Time))
	h.renderRecordForm(c, http.StatusOK, RecordForm{}, FieldErrors{}, "Record Created!")
}
