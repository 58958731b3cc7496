package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"password-study/internal/domain"
	"password-study/internal/scheme"
	"password-study/internal/sequence"
	"password-study/internal/service"
	"password-study/internal/storage"
)

// Handler wires HTTP routes to the study services.
type Handler struct {
	flow       service.FlowService
	experiment service.ExperimentService
	domains    *sequence.Sequence
	storage    storage.Service
	bucket     string
	logPrefix  string
	logger     *logrus.Logger
}

type HandlerConfig struct {
	Flow       service.FlowService
	Experiment service.ExperimentService
	Domains    *sequence.Sequence
	// Storage is optional; without it archived logs cannot be listed.
	Storage   storage.Service
	Bucket    string
	LogPrefix string
	Logger    *logrus.Logger
}

func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Handler{
		flow:       cfg.Flow,
		experiment: cfg.Experiment,
		domains:    cfg.Domains,
		storage:    cfg.Storage,
		bucket:     cfg.Bucket,
		logPrefix:  cfg.LogPrefix,
		logger:     cfg.Logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	router.POST("/new-user", h.createUser)
	router.GET("/new-user/:userId", h.getUser)
	router.POST("/check/:userId/:domain", h.check)

	for _, mode := range []domain.Mode{domain.ModePractice, domain.ModeLogin} {
		g := router.Group("/" + string(mode))
		g.POST("", h.begin(mode))
		g.GET("/:userId", h.complete(mode))
		g.GET("/:userId/:domain", h.enter(mode))
		g.POST("/:userId/:domain", h.submit(mode))
	}

	api := router.Group("/api")
	{
		api.GET("/logs", h.listLogs)
	}
}

type beginRequest struct {
	UserID int64 `form:"userId" json:"user_id" binding:"required"`
}

type passwordRequest struct {
	Password string `form:"password" json:"password"`
}

func (h *Handler) createUser(c *gin.Context) {
	user, err := h.experiment.CreateUser(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/new-user/%d", user.ID))
	c.JSON(http.StatusCreated, userToResponse(*user))
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	user, err := h.experiment.GetUser(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) begin(mode domain.Mode) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req beginRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Redirect(http.StatusSeeOther, domainPath(mode, req.UserID, h.domains.First(), ""))
	}
}

func (h *Handler) enter(mode domain.Mode) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := userIDParam(c)
		if !ok {
			return
		}

		view, err := h.flow.Enter(c.Request.Context(), service.EnterRequest{
			UserID:  id,
			Domain:  c.Param("domain"),
			Mode:    mode,
			PwError: c.Query("pwError"),
		})
		if err != nil {
			h.writeError(c, err)
			return
		}

		if view.Skipped {
			c.Redirect(http.StatusSeeOther, statePath(mode, id, view.Domain, view.Complete))
			return
		}
		c.JSON(http.StatusOK, viewToResponse(*view))
	}
}

func (h *Handler) submit(mode domain.Mode) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := userIDParam(c)
		if !ok {
			return
		}
		var req passwordRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		tr, err := h.flow.Submit(c.Request.Context(), service.SubmitRequest{
			UserID:   id,
			Domain:   c.Param("domain"),
			Mode:     mode,
			Password: req.Password,
		})
		if err != nil {
			h.writeError(c, err)
			return
		}

		if !tr.Correct {
			c.Redirect(http.StatusSeeOther, domainPath(mode, id, tr.Domain, tr.PwError))
			return
		}
		c.Redirect(http.StatusSeeOther, statePath(mode, id, tr.Domain, tr.Complete))
	}
}

func (h *Handler) complete(mode domain.Mode) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := userIDParam(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, viewToResponse(*h.flow.Complete(id, mode)))
	}
}

func (h *Handler) check(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	var req passwordRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	correct, err := h.flow.Check(c.Request.Context(), id, c.Param("domain"), req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := gin.H{"correct": correct}
	if !correct {
		resp["error"] = service.IncorrectPassword
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listLogs(c *gin.Context) {
	if h.storage == nil || h.bucket == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage service not configured"})
		return
	}

	prefix := c.DefaultQuery("prefix", h.logPrefix)
	objects, err := h.storage.ListObjects(c.Request.Context(), h.bucket, prefix)
	if err != nil {
		h.logger.WithError(err).Warn("list archived logs")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	resp := make([]StorageObjectResponse, len(objects))
	for i := range objects {
		resp[i] = objectToResponse(objects[i])
	}
	c.JSON(http.StatusOK, resp)
}

// writeError maps engine errors to status codes. Wrong passwords never get
// here; they are ordinary transitions.
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrRecordNotFound), errors.Is(err, service.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, sequence.ErrUnknownDomain), errors.Is(err, service.ErrUnknownMode):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, service.ErrPartialProvisioning):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "retry": true})
		h.logger.WithError(err).Error("provision credentials")
		return
	case errors.Is(err, scheme.ErrUnknownScheme):
		h.logger.WithError(err).Error("stored record references an unregistered scheme")
	}
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func userIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return id, true
}

func domainPath(mode domain.Mode, userID int64, domainName, pwError string) string {
	p := fmt.Sprintf("/%s/%d/%s", mode, userID, url.PathEscape(domainName))
	if pwError != "" {
		p += "?" + url.Values{"pwError": {pwError}}.Encode()
	}
	return p
}

func statePath(mode domain.Mode, userID int64, domainName string, complete bool) string {
	if complete {
		return fmt.Sprintf("/%s/%d", mode, userID)
	}
	return domainPath(mode, userID, domainName, "")
}

type UserResponse struct {
	UserID    int64           `json:"user_id"`
	Scheme    domain.SchemeID `json:"scheme"`
	Title     string          `json:"title"`
	CreatedAt string          `json:"created_at"`
}

type ViewResponse struct {
	Mode         domain.Mode     `json:"mode"`
	UserID       int64           `json:"user_id"`
	Scheme       domain.SchemeID `json:"scheme,omitempty"`
	State        string          `json:"state"`
	Template     string          `json:"template"`
	Title        string          `json:"title"`
	Password     string          `json:"password,omitempty"`
	PwError      string          `json:"pw_error,omitempty"`
	AttemptsLeft *int            `json:"attempts_left,omitempty"`
}

type StorageObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

// CompleteState is the state name reported once the sequence is exhausted.
const CompleteState = "complete"

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		UserID:    user.ID,
		Scheme:    user.Scheme,
		Title:     "Successfully created user!",
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func viewToResponse(view service.View) ViewResponse {
	state := view.Domain
	if view.Complete {
		state = CompleteState
	}
	return ViewResponse{
		Mode:         view.Mode,
		UserID:       view.UserID,
		Scheme:       view.Scheme,
		State:        state,
		Template:     view.Template,
		Title:        view.Title,
		Password:     view.Password,
		PwError:      view.PwError,
		AttemptsLeft: view.AttemptsLeft,
	}
}

func objectToResponse(obj storage.ObjectInfo) StorageObjectResponse {
	resp := StorageObjectResponse{
		Key:  obj.Key,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := obj.LastModified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}
