package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/parley/pkg/stream"
)

// relay copies chunks into the response body. The success status is not
// committed until the first content byte arrives, so a stream that dies
// before producing anything still gets a real status code. After the first
// byte the status line is gone and the body is the only channel left, so a
// late failure is serialized in-band as {"error": "..."}.
func relay(c *gin.Context, chunks <-chan stream.Chunk) {
	committed := false

	for chunk := range chunks {
		if chunk.Done {
			if chunk.Err == nil {
				return
			}
			if !committed {
				c.JSON(statusForStreamError(chunk.Err), gin.H{"error": chunk.Err.Error()})
				return
			}
			c.Writer.Write(stream.EncodeError(chunk.Err.Error()))
			c.Writer.Flush()
			return
		}

		if len(chunk.Data) == 0 {
			continue
		}

		if !committed {
			c.Writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
			c.Writer.Header().Set("X-Accel-Buffering", "no")
			c.Writer.WriteHeader(http.StatusOK)
			committed = true
		}

		c.Writer.Write(chunk.Data)
		c.Writer.Flush()
	}

	// Channel closed without a terminal chunk: the request was cancelled
	// and there is nobody left to tell.
}

// statusForStreamError distinguishes an unreachable upstream from an
// internal fault.
func statusForStreamError(err error) int {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
