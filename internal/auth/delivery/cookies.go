package delivery

import (
	"net/http"

	authdomain "imagepro-backend/internal/auth/domain"

	"github.com/gin-gonic/gin"
)

// cookieCarrier binds a SessionCarrier to one gin request/response
type cookieCarrier struct {
	c *gin.Context
}

func NewCookieCarrier(c *gin.Context) authdomain.SessionCarrier {
	return &cookieCarrier{c: c}
}

func (cc *cookieCarrier) Get(name string) (string, bool) {
	value, err := cc.c.Cookie(name)
	if err != nil {
		return "", false
	}
	return value, true
}

func (cc *cookieCarrier) Set(name, value string, opts authdomain.CookieOptions) {
	http.SetCookie(cc.c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		MaxAge:   opts.MaxAge,
		Path:     opts.Path,
		Domain:   opts.Domain,
		Secure:   opts.Secure,
		HttpOnly: opts.HTTPOnly,
		SameSite: opts.SameSite,
	})
}

func (cc *cookieCarrier) Remove(name string, opts authdomain.CookieOptions) {
	http.SetCookie(cc.c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		MaxAge:   -1,
		Path:     opts.Path,
		Domain:   opts.Domain,
		Secure:   opts.Secure,
		HttpOnly: opts.HTTPOnly,
		SameSite: opts.SameSite,
	})
}
