// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/note-outline/internal/outline"
)

const bearerPrefix = "Bearer "

// Authorized reports whether an Authorization header value carries token.
// An empty token authorizes everything; that mode is for local development
// only and Run logs a warning when it is active.
func Authorized(token, header string) bool {
	if token == "" {
		return true
	}
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return false
	}
	got := strings.TrimSpace(header[len(bearerPrefix):])
	return subtle.ConstantTimeCompare([]byte(got), []byte(token)) == 1
}

func requireToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Authorized(token, c.GetHeader("Authorization")) {
			writeError(c, outline.Unauthorized)
			return
		}
		c.Next()
	}
}
