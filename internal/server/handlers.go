// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pdiddy/note-outline/internal/outline"
	"github.com/pdiddy/note-outline/internal/search"
)

// outlineRequest is the POST body. Fields are loosely typed so that
// num may be sent as a number or a string.
type outlineRequest struct {
	Query any `json:"query"`
	Num   any `json:"num"`
}

func (s *Server) outlineGET(c *gin.Context) {
	s.outline(c, c.Query("q"), ParseNum(c.Query("num")))
}

func (s *Server) outlinePOST(c *gin.Context) {
	var req outlineRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		s.logger.Debug("unreadable outline body", zap.Error(err))
	}
	query, _ := req.Query.(string)
	s.outline(c, query, ParseNum(req.Num))
}

func (s *Server) outline(c *gin.Context, query string, num int) {
	// A dropped client does not stop the pipeline.
	ctx := context.WithoutCancel(c.Request.Context())

	resp, err := s.svc.Build(ctx, query, num)
	if err != nil {
		e := outline.Classify(err)
		if e.Kind != outline.KindValidation {
			s.logger.Error("outline failed",
				zap.String("query", query),
				zap.Int("status", e.Kind.HTTPStatus()),
				zap.Error(err))
		}
		writeError(c, e)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ParseNum reads a requested result count from a query-string value or a
// decoded JSON value and clamps it to [1,10]. Missing or unparsable input
// yields search.DefaultNum; fractional numbers are truncated.
func ParseNum(v any) int {
	switch n := v.(type) {
	case float64:
		return fromFloat(n)
	case int:
		return search.ClampNum(n)
	case string:
		n = strings.TrimSpace(n)
		if i, err := strconv.Atoi(n); err == nil {
			return search.ClampNum(i)
		}
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return fromFloat(f)
		}
	}
	return search.DefaultNum
}

func fromFloat(f float64) int {
	switch {
	case math.IsNaN(f):
		return search.DefaultNum
	case f < search.MinNum:
		return search.MinNum
	case f > search.MaxNum:
		return search.MaxNum
	}
	return int(f)
}
