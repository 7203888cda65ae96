package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	goCAS "github.com/MrEthical07/goCAS"
	"github.com/MrEthical07/goCAS/middleware"
	"github.com/gin-gonic/gin"
)

// TicketAuthority is the subset of *goCAS.Authority the gateway calls.
type TicketAuthority interface {
	CheckExistingSession(ctx context.Context, globalTicket string) (goCAS.VerifyOutcome, error)
	Authenticate(ctx context.Context, username, password string) (goCAS.UserIdentity, error)
	EstablishSession(ctx context.Context, identity goCAS.UserIdentity) (string, error)
	IssueTemporaryTicket(ctx context.Context) (string, error)
	VerifyTemporaryTicket(ctx context.Context, token, callerGlobalTicket string) (goCAS.UserIdentity, error)
	RevokeSession(ctx context.Context, userID, callerGlobalTicket string) error
	Ping(ctx context.Context) error
}

type Handler struct {
	authority TicketAuthority
	cfg       Config
	cookies   CookieAttrs
	logger    *slog.Logger
}

// NewHandler validates cfg and returns a Handler. A nil logger discards.
func NewHandler(authority TicketAuthority, cfg Config, logger *slog.Logger) (*Handler, error) {
	if authority == nil {
		return nil, errors.New("gateway: authority is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Handler{
		authority: authority,
		cfg:       cfg,
		cookies: CookieAttrs{
			Domain:   cfg.CookieDomain,
			Path:     "/",
			HttpOnly: true,
			Secure:   cfg.CookieSecure,
			SameSite: cfg.CookieSameSite,
		},
		logger: logger,
	}, nil
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/login", h.checkLogin)
	r.POST("/login", h.login)
	r.POST("/verifyTmpTicket", h.verifyTmpTicket)
	r.POST("/logout", h.logout)
	r.GET("/session", middleware.GinGuard(h.authority, h.cfg.CookieName), h.session)
	r.GET("/healthz", h.health)
}

// checkLogin hands an already signed-in browser straight back to returnUrl
// with a fresh temporary ticket. Anyone else goes to the login page.
func (h *Handler) checkLogin(c *gin.Context) {
	returnURL := c.Query("returnUrl")
	if err := checkReturnURL(returnURL, h.cfg.AllowedReturnHosts); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	jar := GinCookieJar(c)

	ticket, ok := jar.Get(h.cfg.CookieName)
	if !ok {
		c.Redirect(http.StatusFound, loginPageURL(h.cfg.LoginPageURL, returnURL))
		return
	}

	outcome, err := h.authority.CheckExistingSession(ctx, ticket)
	if err != nil {
		failErr(c, err)
		return
	}
	if !outcome.Valid {
		c.Redirect(http.StatusFound, loginPageURL(h.cfg.LoginPageURL, returnURL))
		return
	}

	tmp, err := h.authority.IssueTemporaryTicket(ctx)
	if err != nil {
		failErr(c, err)
		return
	}

	c.Redirect(http.StatusFound, handoffURL(returnURL, tmp))
}

func (h *Handler) login(c *gin.Context) {
	returnURL := c.PostForm("returnUrl")
	if err := checkReturnURL(returnURL, h.cfg.AllowedReturnHosts); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()

	identity, err := h.authority.Authenticate(ctx, c.PostForm("username"), c.PostForm("password"))
	if err != nil {
		failErr(c, err)
		return
	}

	ticket, err := h.authority.EstablishSession(ctx, identity)
	if err != nil {
		failErr(c, err)
		return
	}
	GinCookieJar(c).Set(h.cfg.CookieName, ticket, h.cookies)

	tmp, err := h.authority.IssueTemporaryTicket(ctx)
	if err != nil {
		failErr(c, err)
		return
	}

	h.logger.Info("login succeeded", "user_id", identity.ID, "ip", c.ClientIP())
	success(c, gin.H{"returnUrl": handoffURL(returnURL, tmp)})
}

func (h *Handler) verifyTmpTicket(c *gin.Context) {
	ticket, _ := GinCookieJar(c).Get(h.cfg.CookieName)

	identity, err := h.authority.VerifyTemporaryTicket(c.Request.Context(), c.PostForm("tmpTicket"), ticket)
	if err != nil {
		failErr(c, err)
		return
	}

	success(c, identity)
}

// logout always answers success. The cookie is cleared even when the store
// could not be reached.
func (h *Handler) logout(c *gin.Context) {
	jar := GinCookieJar(c)
	ticket, _ := jar.Get(h.cfg.CookieName)
	userID := c.PostForm("userId")

	if err := h.authority.RevokeSession(c.Request.Context(), userID, ticket); err != nil {
		h.logger.Warn("logout revoke failed", "user_id", userID, "error", err)
	}

	jar.Clear(h.cfg.CookieName, h.cookies)
	success(c, nil)
}

func (h *Handler) session(c *gin.Context) {
	outcome, ok := middleware.OutcomeFromContext(c.Request.Context())
	if !ok {
		fail(c, http.StatusUnauthorized, "user ticket invalid")
		return
	}
	success(c, gin.H{"userId": outcome.UserID})
}

func (h *Handler) health(c *gin.Context) {
	if err := h.authority.Ping(c.Request.Context()); err != nil {
		h.logger.Warn("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
