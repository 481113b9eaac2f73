package middleware_test

import (
	"regexp"
	"testing"

	"github.com/serroba/burnnote-go/internal/middleware"
	"github.com/stretchr/testify/assert"
)

func TestClientKey(t *testing.T) {
	t.Run("is a sha256 hex digest", func(t *testing.T) {
		ctx := newRequest()

		key := middleware.ClientKey(ctx)

		assert.Regexp(t, regexp.MustCompile(`^[a-f0-9]{64}$`), key)
	})

	t.Run("same ip and user agent produce the same key", func(t *testing.T) {
		key1 := middleware.ClientKey(newRequest())
		key2 := middleware.ClientKey(newRequest())

		assert.Equal(t, key1, key2)
	})

	t.Run("different user agent produces a different key", func(t *testing.T) {
		ctx := newRequest()
		other := newRequest()
		other.headers["User-Agent"] = "DifferentAgent/2.0"

		assert.NotEqual(t, middleware.ClientKey(ctx), middleware.ClientKey(other))
	})

	t.Run("port does not change the key", func(t *testing.T) {
		ctx1 := newMockHumaContext()
		ctx1.host = "192.168.1.1:12345"
		ctx1.headers["User-Agent"] = testUserAgent

		ctx2 := newMockHumaContext()
		ctx2.host = "192.168.1.1:54321"
		ctx2.headers["User-Agent"] = testUserAgent

		assert.Equal(t, middleware.ClientKey(ctx1), middleware.ClientKey(ctx2))
	})

	t.Run("uses first ip from x-forwarded-for", func(t *testing.T) {
		ctx1 := newMockHumaContext()
		ctx1.host = "10.0.0.1:12345"
		ctx1.headers["X-Forwarded-For"] = "203.0.113.195, 70.41.3.18, 150.172.238.178"
		ctx1.headers["User-Agent"] = testUserAgent

		ctx2 := newMockHumaContext()
		ctx2.host = "10.0.0.2:54321"
		ctx2.headers["X-Forwarded-For"] = "203.0.113.195"
		ctx2.headers["User-Agent"] = testUserAgent

		assert.Equal(t, middleware.ClientKey(ctx1), middleware.ClientKey(ctx2))
	})

	t.Run("uses x-real-ip when no forwarded header", func(t *testing.T) {
		ctx1 := newMockHumaContext()
		ctx1.host = "10.0.0.1:12345"
		ctx1.headers["X-Real-IP"] = "203.0.113.100"
		ctx1.headers["User-Agent"] = testUserAgent

		ctx2 := newMockHumaContext()
		ctx2.host = "10.0.0.2:54321"
		ctx2.headers["X-Real-IP"] = "203.0.113.100"
		ctx2.headers["User-Agent"] = testUserAgent

		assert.Equal(t, middleware.ClientKey(ctx1), middleware.ClientKey(ctx2))
	})

	t.Run("host without port is used as-is", func(t *testing.T) {
		ctx1 := newMockHumaContext()
		ctx1.host = "192.168.1.1"
		ctx1.headers["User-Agent"] = testUserAgent

		ctx2 := newMockHumaContext()
		ctx2.host = "192.168.1.1"
		ctx2.headers["User-Agent"] = testUserAgent

		assert.Equal(t, middleware.ClientKey(ctx1), middleware.ClientKey(ctx2))
	})
}
