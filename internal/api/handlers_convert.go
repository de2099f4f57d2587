package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sll518/notion-to-md/internal/export"
	"github.com/sll518/notion-to-md/internal/notion"
)

const (
	formatMarkdown = "markdown"
	formatHTML     = "html"
)

type convertRequest struct {
	PageID      string `json:"page_id"`
	Format      string `json:"format"`
	FrontMatter bool   `json:"frontmatter"`
}

type convertResponse struct {
	PageID  string `json:"page_id"`
	Format  string `json:"format"`
	Content string `json:"content"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.PageID == "" {
		jsonError(w, "page_id is required", http.StatusBadRequest)
		return
	}
	pageID, err := notion.NormalizeID(req.PageID)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	format := req.Format
	if format == "" {
		format = formatMarkdown
	}
	if format != formatMarkdown && format != formatHTML {
		jsonError(w, "format must be markdown or html", http.StatusBadRequest)
		return
	}

	markdown, err := s.converter.PageToMarkdown(r.Context(), pageID)
	if err != nil {
		jsonError(w, "conversion failed: "+err.Error(), upstreamStatus(err))
		return
	}

	// Frontmatter only makes sense on Markdown output.
	if req.FrontMatter && format == formatMarkdown {
		page, err := s.pages.Page(r.Context(), pageID)
		if err != nil {
			jsonError(w, "fetch page metadata: "+err.Error(), upstreamStatus(err))
			return
		}
		fm := export.FromPage(page)
		markdown, err = export.Markdown(markdown, &fm)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	content := markdown
	if format == formatHTML {
		content, err = export.HTML(markdown)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	respondJSON(w, http.StatusOK, convertResponse{
		PageID:  pageID,
		Format:  format,
		Content: content,
	})
}

// upstreamStatus maps a conversion failure to an HTTP status: remote 404s
// pass through, other remote failures surface as a bad gateway, anything
// else is internal.
func upstreamStatus(err error) int {
	var apiErr *notion.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
