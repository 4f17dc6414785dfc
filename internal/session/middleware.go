package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shopfront/internal/obs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CookieName is the cookie carrying the session id.
const CookieName = "session_id"

const (
	contextKey = "shop_session"
	managerKey = "shop_session_manager"
)

// Options controls the session cookie.
type Options struct {
	MaxAge time.Duration
	Secure bool
}

type manager struct {
	store Store
	opts  Options
}

func (m manager) setCookie(c *gin.Context, id string) {
	// drop a cookie set earlier in this request so only the latest id goes out
	h := c.Writer.Header()
	if prev := h.Values("Set-Cookie"); len(prev) > 0 {
		h.Del("Set-Cookie")
		for _, v := range prev {
			if !strings.HasPrefix(v, CookieName+"=") {
				h.Add("Set-Cookie", v)
			}
		}
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.opts.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware loads the client's session before the handler runs and saves it afterwards.
// Unknown or missing cookies start a fresh session, which is only stored once the
// handler puts something in it.
func Middleware(store Store, opts Options) gin.HandlerFunc {
	m := manager{store: store, opts: opts}

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var sess *Session
		if id, err := c.Cookie(CookieName); err == nil && id != "" {
			loaded, err := store.Load(ctx, id)
			switch {
			case err == nil:
				sess = loaded
			case errors.Is(err, ErrNotFound):
			default:
				obs.Logger.Error("session load failed", zap.String("request_id", obs.RequestID(c)), zap.Error(err))
			}
		}
		fresh := sess == nil
		if fresh {
			sess = New(uuid.NewString())
		}

		// Set-Cookie must go out before the handler writes the body.
		m.setCookie(c, sess.ID)
		c.Set(contextKey, sess)
		c.Set(managerKey, m)

		c.Next()

		if fresh && sess.IsEmpty() {
			return
		}
		if err := store.Save(ctx, sess); err != nil {
			obs.Logger.Error("session save failed", zap.String("request_id", obs.RequestID(c)), zap.Error(err))
		}
	}
}

// Renew moves the current session to a new id, deletes the old one and reissues
// the cookie. Call it before the handler writes its response.
func Renew(c *gin.Context) error {
	v, ok := c.Get(managerKey)
	if !ok {
		return errors.New("session middleware not installed")
	}
	m := v.(manager)

	sess := FromContext(c)
	old := sess.ID
	sess.ID = uuid.NewString()
	m.setCookie(c, sess.ID)

	if err := m.store.Delete(c.Request.Context(), old); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// FromContext returns the session attached by Middleware. Handlers outside the
// middleware get a throwaway empty session.
func FromContext(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	return New("")
}
