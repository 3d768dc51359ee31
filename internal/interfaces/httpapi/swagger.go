package httpapi

import (
	_ "embed"
	"net/http"
)

//go:embed openapi.yaml
var openAPISpec []byte

const docsCacheControl = "public, max-age=300"

// docsPage loads Swagger UI from the CDN and points it at /openapi.yaml.
const docsPage = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Pool League API Docs</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="docs"></div>
<script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
SwaggerUIBundle({url: "/openapi.yaml", dom_id: "#docs", deepLinking: true, docExpansion: "list"});
</script>
</body>
</html>
`

func (h *Handler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	h.writeDocs(w, r, "application/yaml; charset=utf-8", openAPISpec)
}

func (h *Handler) SwaggerUI(w http.ResponseWriter, r *http.Request) {
	h.writeDocs(w, r, "text/html; charset=utf-8", []byte(docsPage))
}

func (h *Handler) writeDocs(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", docsCacheControl)
	if _, err := w.Write(body); err != nil {
		h.logger.WarnContext(r.Context(), "write docs failed", "path", r.URL.Path, "error", err)
	}
}
