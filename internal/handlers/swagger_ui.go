package handlers

import (
	"html/template"
	"net/http"

	"sevenguis/pkg/logging"
)

const swaggerUIVersion = "5.10.0"

type swaggerPage struct {
	Title   string
	SpecURL string
	Version string
}

var swaggerTemplate = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@{{.Version}}/swagger-ui.css">
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@{{.Version}}/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            window.ui = SwaggerUIBundle({
                url: {{.SpecURL}},
                dom_id: '#swagger-ui',
                deepLinking: true
            });
        };
    </script>
</body>
</html>`))

// SwaggerUI serves the Swagger UI page for the widget API
func (h *WidgetHandler) SwaggerUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := swaggerTemplate.Execute(w, swaggerPage{
		Title:   "7GUIs Widget API Documentation",
		SpecURL: "/api/docs/openapi.json",
		Version: swaggerUIVersion,
	})
	if err != nil {
		h.logger.Error(r.Context(), "[DOCS_RENDER_ERROR] Failed to render Swagger UI", logging.Fields{}, err)
		h.metrics.RecordAPIError("render_error", "/api/docs")
	}
}
