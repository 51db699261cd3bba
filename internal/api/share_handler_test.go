package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"resumaker/internal/api/middleware"
)

func TestShareHandler_BuildsIntentLinks(t *testing.T) {
	st := newTestStore(t)
	authSvc := newTestAuth(t)
	token := bearerToken(t, authSvc)

	seeded := mustResumes(t, 1)
	seeded[0].Content.JobTitle = "Product Designer"
	if err := st.SaveResumes(context.Background(), seeded); err != nil {
		t.Fatalf("seed resumes: %v", err)
	}

	router := newTestRouter()
	h := NewShareHandler(st, "https://resumaker.example/")
	router.GET("/v1/resumes/:id/share", middleware.AuthMiddleware(authSvc), h.GetShareLinks)

	w := doJSON(t, router, http.MethodGet, "/v1/resumes/"+seeded[0].ID+"/share", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("share status = %d, body %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["url"] != "https://resumaker.example/resume/"+seeded[0].ID {
		t.Fatalf("unexpected page url: %s", resp["url"])
	}
	if !strings.HasPrefix(resp["twitter"], "https://twitter.com/intent/tweet?") {
		t.Fatalf("unexpected twitter link: %s", resp["twitter"])
	}
	if !strings.Contains(resp["twitter"], "Product+Designer") {
		t.Fatalf("tweet text should mention the job title: %s", resp["twitter"])
	}
	if !strings.HasPrefix(resp["linkedin"], "https://www.linkedin.com/sharing/share-offsite/?") {
		t.Fatalf("unexpected linkedin link: %s", resp["linkedin"])
	}
}

func TestShareHandler_MissingResume(t *testing.T) {
	st := newTestStore(t)
	authSvc := newTestAuth(t)
	router := newTestRouter()
	h := NewShareHandler(st, "https://resumaker.example")
	router.GET("/v1/resumes/:id/share", middleware.AuthMiddleware(authSvc), h.GetShareLinks)

	w := doJSON(t, router, http.MethodGet, "/v1/resumes/nope/share", bearerToken(t, authSvc), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing resume should 404, got %d", w.Code)
	}
}

func TestExportHandler_UnimplementedFormats(t *testing.T) {
	st := newTestStore(t)
	authSvc := newTestAuth(t)
	token := bearerToken(t, authSvc)

	router := newTestRouter()
	h := NewExportHandler(st, nil, nil, nil, slog.Default())
	router.POST("/v1/resumes/:id/export", middleware.AuthMiddleware(authSvc), h.ExportResume)

	for _, format := range []string{"docx", "png"} {
		w := doJSON(t, router, http.MethodPost, "/v1/resumes/x/export", token, map[string]string{"format": format})
		if w.Code != http.StatusNotImplemented {
			t.Fatalf("format %s should 501, got %d", format, w.Code)
		}
	}

	w := doJSON(t, router, http.MethodPost, "/v1/resumes/x/export", token, map[string]string{"format": "html"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown format should 400, got %d", w.Code)
	}
}
