package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type cachedPage struct {
	status  int
	headers http.Header
	body    []byte
}

// teeWriter mirrors everything written to the response into a buffer so a
// successful page can be cached after the handler ran.
type teeWriter struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w teeWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w teeWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache serves GET responses from an in-memory store for the given duration.
// Every window endpoint renders from the same unified table, so a short
// response cache absorbs dashboard refresh bursts without a second fetch.
func Cache(store *cache.Cache, duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.RequestURI
		if hit, found := store.Get(key); found {
			page := hit.(cachedPage)
			for k, v := range page.headers {
				c.Writer.Header()[k] = v
			}
			c.Writer.WriteHeader(page.status)
			c.Writer.Write(page.body)
			c.Abort()
			return
		}

		tee := &teeWriter{buf: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = tee

		c.Next()

		// Cache successes only; errors should be retried upstream.
		if tee.Status() >= 200 && tee.Status() < 300 {
			store.Set(key, cachedPage{
				status:  tee.Status(),
				headers: tee.Header().Clone(),
				body:    tee.buf.Bytes(),
			}, duration)
		}
	}
}
