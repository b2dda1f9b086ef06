package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const swaggerUIVersion = "5.11.0"

// SetupSwagger serves the embedded OpenAPI document at /swagger/doc.json and a
// UI page for every other path under /swagger.
func SetupSwagger(router *gin.Engine, spec []byte) {
	page := []byte(fmt.Sprintf(swaggerUIPage, swaggerUIVersion, swaggerUIVersion))

	router.GET("/swagger/*any", func(c *gin.Context) {
		if c.Param("any") == "/doc.json" {
			c.Data(http.StatusOK, "application/json; charset=utf-8", spec)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})
}

const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Commission Allocation Engine API</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@%s/swagger-ui.css">
</head>
<body>
<div id="api-docs"></div>
<script src="https://unpkg.com/swagger-ui-dist@%s/swagger-ui-bundle.js"></script>
<script>
window.ui = SwaggerUIBundle({ url: "/swagger/doc.json", dom_id: "#api-docs", deepLinking: true });
</script>
</body>
</html>`
