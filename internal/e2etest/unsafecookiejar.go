package e2etest

import (
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/myrjola/botornot/internal/errors"
)

// unsafeCookieJar is a [http.CookieJar] that accepts Secure cookies over plain HTTP from loopback servers.
// Test servers listen on localhost without TLS while session and CSRF cookies are always Secure.
type unsafeCookieJar struct {
	jar *cookiejar.Jar
}

func newUnsafeCookieJar() (*unsafeCookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "new cookie jar")
	}

	return &unsafeCookieJar{jar: jar}, nil
}

func isLoopback(u *url.URL) bool {
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (u *unsafeCookieJar) SetCookies(target *url.URL, cookies []*http.Cookie) {
	if isLoopback(target) {
		for _, cookie := range cookies {
			cookie.Secure = false
		}
	}
	u.jar.SetCookies(target, cookies)
}

func (u *unsafeCookieJar) Cookies(target *url.URL) []*http.Cookie {
	return u.jar.Cookies(target)
}
