package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the back-office API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>realty-api - Swagger</title>
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

// Minimal OpenAPI document. Admin routes authenticate with the admin-token cookie.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "realty-api", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "adminCookie": { "type": "apiKey", "in": "cookie", "name": "admin-token" } }
  },
  "paths": {
    "/api/auth/login": {
      "post": {
        "summary": "Admin login; sets the session cookie",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"username":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "{success, redirectUrl}" }, "400": { "description": "missing field" }, "401": { "description": "invalid credentials" }, "405": { "description": "method not allowed" }, "429": { "description": "too many failed attempts" }, "500": { "description": "server configuration error" } }
      }
    },
    "/api/auth/logout": {
      "post": { "summary": "Clear the session cookie", "responses": { "200": { "description": "{success}" }, "405": { "description": "method not allowed" } } }
    },
    "/api/auth/session": {
      "get": { "summary": "Current session", "security": [{"adminCookie": []}], "responses": { "200": { "description": "authenticated" }, "401": { "description": "no valid session" } } }
    },
    "/api/properties": {
      "get": { "summary": "List live listings", "parameters": [
        {"name":"status","in":"query","schema":{"type":"string","enum":["available","pending","sold"]}},
        {"name":"city","in":"query","schema":{"type":"string"}},
        {"name":"propertyType","in":"query","schema":{"type":"string"}},
        {"name":"listingType","in":"query","schema":{"type":"string","enum":["sale","rent"]}},
        {"name":"minPrice","in":"query","schema":{"type":"number"}},
        {"name":"maxPrice","in":"query","schema":{"type":"number"}},
        {"name":"bedrooms","in":"query","schema":{"type":"integer"}},
        {"name":"featured","in":"query","schema":{"type":"boolean"}},
        {"name":"limit","in":"query","schema":{"type":"integer"}},
        {"name":"offset","in":"query","schema":{"type":"integer"}}
      ], "responses": { "200": { "description": "{success, properties, count}" } } },
      "post": { "summary": "Create listing", "security": [{"adminCookie": []}], "responses": { "201": { "description": "created" }, "400": { "description": "invalid" }, "401": { "description": "unauthorized" } } }
    },
    "/api/properties/{id}": {
      "get": { "summary": "Get listing", "responses": { "200": { "description": "listing" }, "404": { "description": "not found" } } },
      "put": { "summary": "Update listing", "security": [{"adminCookie": []}], "responses": { "200": { "description": "updated" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Soft-delete listing", "security": [{"adminCookie": []}], "responses": { "200": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/api/admin/properties": {
      "get": { "summary": "List listings including deleted", "security": [{"adminCookie": []}], "responses": { "200": { "description": "listings" } } }
    },
    "/api/leads": {
      "post": { "summary": "Submit property inquiry", "responses": { "201": { "description": "recorded" }, "400": { "description": "invalid" } } },
      "get": { "summary": "List inquiries", "security": [{"adminCookie": []}], "responses": { "200": { "description": "leads" } } }
    },
    "/api/leads/{id}": {
      "get": { "summary": "Get inquiry", "security": [{"adminCookie": []}], "responses": { "200": { "description": "lead" }, "404": { "description": "not found" } } },
      "patch": { "summary": "Change inquiry status", "security": [{"adminCookie": []}], "responses": { "200": { "description": "updated" } } },
      "delete": { "summary": "Delete inquiry", "security": [{"adminCookie": []}], "responses": { "200": { "description": "deleted" } } }
    },
    "/api/contact": {
      "post": { "summary": "Submit contact form", "responses": { "201": { "description": "recorded" }, "400": { "description": "invalid" } } }
    },
    "/api/contact-leads": {
      "get": { "summary": "List contact submissions", "security": [{"adminCookie": []}], "responses": { "200": { "description": "contact leads" } } }
    },
    "/api/contact-leads/{id}": {
      "get": { "summary": "Get contact submission", "security": [{"adminCookie": []}], "responses": { "200": { "description": "contact lead" }, "404": { "description": "not found" } } },
      "patch": { "summary": "Change contact status", "security": [{"adminCookie": []}], "responses": { "200": { "description": "updated" } } },
      "delete": { "summary": "Delete contact submission", "security": [{"adminCookie": []}], "responses": { "200": { "description": "deleted" } } }
    },
    "/api/uploads": {
      "post": { "summary": "Upload listing image (multipart field 'file')", "security": [{"adminCookie": []}], "responses": { "200": { "description": "{success, url, key}" }, "400": { "description": "not an image" }, "413": { "description": "too large" } } },
      "delete": { "summary": "Delete uploaded image by key", "security": [{"adminCookie": []}], "responses": { "200": { "description": "deleted" }, "400": { "description": "invalid key" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check (pings configured backends)", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
