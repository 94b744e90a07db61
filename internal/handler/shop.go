package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
)

// ShopHandler serves the shop page; the HTML shell the static JS client
// boots from. Templates are parsed once at startup and reused.
type ShopHandler struct {
	templates *template.Template
	logger    *slog.Logger
}

// NewShopHandler parses the page templates. base.html defines the page
// frame; shop.html fills its "content" block.
func NewShopHandler(templateDir string, logger *slog.Logger) (*ShopHandler, error) {
	tmpl, err := template.ParseFiles(
		filepath.Join(templateDir, "base.html"),
		filepath.Join(templateDir, "shop.html"),
	)
	if err != nil {
		return nil, err
	}

	return &ShopHandler{
		templates: tmpl,
		logger:    logger,
	}, nil
}

// HandleShop renders the shop page.
//
// HTTP: GET /
func (h *ShopHandler) HandleShop(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title": "Sweet Shop",
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := h.templates.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render template", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
