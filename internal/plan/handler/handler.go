package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/planstore/internal/plan"
	"github.com/gogotex/planstore/pkg/logger"
	"github.com/gogotex/planstore/pkg/middleware"
)

// MaxBodyBytes bounds the size of a posted plan.
const MaxBodyBytes = 1 << 20

const jsonContentType = "application/json; charset=utf-8"

// PlanStore is what the routes need from the service layer.
type PlanStore interface {
	Create(ctx context.Context, doc plan.Document) (*plan.Record, error)
	Read(ctx context.Context, key, ifNoneMatch string) (*plan.Record, bool, error)
	Delete(ctx context.Context, key string) (int64, error)
}

// RegisterPlanRoutes mounts POST /v1/plan, GET /v1/plan/:id and DELETE /v1/plan/:id.
// Every posted document goes through pipeline before it reaches the store.
func RegisterPlanRoutes(r gin.IRoutes, store PlanStore, pipeline plan.Pipeline) {
	r.POST("/v1/plan", func(c *gin.Context) {
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("document exceeds %d bytes", MaxBodyBytes)})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": "could not read request body"})
			return
		}
		doc, err := pipeline.Process(body)
		if err != nil {
			writeError(c, err)
			return
		}
		rec, err := store.Create(c.Request.Context(), doc)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("ETag", rec.ETag)
		c.Header("Location", "/v1/plan/"+rec.Key)
		c.Data(http.StatusCreated, jsonContentType, rec.Body)
	})

	r.GET("/v1/plan/:id", func(c *gin.Context) {
		rec, notModified, err := store.Read(c.Request.Context(), c.Param("id"), c.GetHeader("If-None-Match"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("ETag", rec.ETag)
		c.Header("Cache-Control", "no-cache")
		if notModified {
			c.Status(http.StatusNotModified)
			return
		}
		c.Data(http.StatusOK, jsonContentType, rec.Body)
	})

	r.DELETE("/v1/plan/:id", func(c *gin.Context) {
		id := c.Param("id")
		if _, err := store.Delete(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("plan %s deleted", id)})
	})
}

// writeError maps the plan error taxonomy onto status codes. Storage details
// are logged, never returned.
func writeError(c *gin.Context, err error) {
	var ve *plan.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"message": "plan failed validation", "errors": ve.Errors})
	case errors.Is(err, plan.ErrMissingIdentifier):
		c.JSON(http.StatusBadRequest, gin.H{"message": "objectId is required"})
	case errors.Is(err, plan.ErrMalformedInput):
		c.JSON(http.StatusBadRequest, gin.H{"message": "request body must be a single JSON object"})
	case errors.Is(err, plan.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("plan %s not found", c.Param("id"))})
	default:
		logger.L().Error().Err(err).Str("request_id", middleware.GetRequestID(c)).
			Str("path", c.Request.URL.Path).Msg("plan request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal storage error"})
	}
}
