package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves the API description.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(r gin.IRoutes) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>planstore - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "planstore", "version": "v1" },
  "paths": {
    "/v1/plan": {
      "post": {
        "summary": "Create or overwrite a plan keyed by objectId (creationDate DD-MM-YYYY is stored as YYYY-MM-DD)",
        "requestBody": { "required": true, "content": { "application/json": { "schema": { "type": "object", "required": ["objectId", "plan"], "properties": { "objectId": {"type": "string"}, "plan": {"type": "string"}, "creationDate": {"type": "string"} } } } } },
        "responses": { "201": { "description": "stored document, ETag header" }, "400": { "description": "validation failure or missing objectId" }, "500": { "description": "storage error" } }
      }
    },
    "/v1/plan/{id}": {
      "get": {
        "summary": "Read a plan; If-None-Match with the current ETag yields 304",
        "parameters": [ { "name": "id", "in": "path", "required": true, "schema": {"type": "string"} }, { "name": "If-None-Match", "in": "header", "schema": {"type": "string"} } ],
        "responses": { "200": { "description": "document, ETag header" }, "304": { "description": "not modified" }, "404": { "description": "not found" }, "500": { "description": "storage error" } }
      },
      "delete": {
        "summary": "Delete a plan",
        "parameters": [ { "name": "id", "in": "path", "required": true, "schema": {"type": "string"} } ],
        "responses": { "200": { "description": "deleted" }, "404": { "description": "not found" }, "500": { "description": "storage error" } }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
