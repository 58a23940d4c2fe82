package helpers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// Manager writes the auth cookies. Both are HttpOnly and scoped to "/".
type Manager struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

// NewCookie builds a Manager. sameSite is "lax", "strict" or "none"; anything
// else means lax. Browsers drop SameSite=None cookies that are not Secure, so
// none forces Secure on.
func NewCookie(domain string, secure bool, sameSite string) *Manager {
	mode := http.SameSiteLaxMode
	switch strings.ToLower(strings.TrimSpace(sameSite)) {
	case "strict":
		mode = http.SameSiteStrictMode
	case "none":
		mode = http.SameSiteNoneMode
		secure = true
	}
	return &Manager{Domain: domain, Secure: secure, SameSite: mode}
}

func (m *Manager) set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(m.SameSite)
	c.SetCookie(name, value, maxAge, "/", m.Domain, m.Secure, true)
}

// SetPair stores both tokens until their own expiry.
func (m *Manager) SetPair(c *gin.Context, access string, aexp time.Time, refresh string, rexp time.Time) {
	m.set(c, AccessTokenCookie, access, maxAgeFrom(aexp))
	m.set(c, RefreshTokenCookie, refresh, maxAgeFrom(rexp))
}

// Clear expires both tokens.
func (m *Manager) Clear(c *gin.Context) {
	m.set(c, AccessTokenCookie, "", -1)
	m.set(c, RefreshTokenCookie, "", -1)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
