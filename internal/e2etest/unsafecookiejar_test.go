package e2etest

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_unsafeCookieJar(t *testing.T) {
	tests := []struct {
		target string
		want   int
	}{
		{target: "http://localhost:4000/", want: 1},
		{target: "http://127.0.0.1:4000/", want: 1},
		{target: "http://[::1]:4000/", want: 1},
		{target: "http://botornot.example.com/", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			jar, err := newUnsafeCookieJar()
			require.NoError(t, err)
			target, err := url.Parse(tt.target)
			require.NoError(t, err)

			jar.SetCookies(target, []*http.Cookie{{Name: "session", Value: "abc", Secure: true}})
			assert.Len(t, jar.Cookies(target), tt.want)
		})
	}
}
