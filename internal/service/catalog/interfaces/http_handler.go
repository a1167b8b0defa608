package interfaces

import (
	"net/http"

	"lessonhub/internal/pkg/web"
	"lessonhub/internal/service/catalog/application"
	"lessonhub/internal/service/catalog/domain"
)

// CatalogHandler 封装了课程目录的 HTTP 处理器
type CatalogHandler struct {
	service *application.CatalogService
}

func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /lessons", h.handleList)
	mux.HandleFunc("GET /lessons/{id}", h.handleGet)
	mux.HandleFunc("PUT /lessons/{id}", h.handleUpdate)
	mux.HandleFunc("GET /search", h.handleSearch)
	mux.HandleFunc("POST /seed", h.handleSeed)
}

func (h *CatalogHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := web.ExtractContext(r)

	lessons, err := h.service.ListItems(ctx, r.URL.Query().Get("filter"))
	if err != nil {
		web.WriteError(ctx, w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, nonNil(lessons))
}

func (h *CatalogHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := web.ExtractContext(r)

	lesson, err := h.service.GetItem(ctx, r.PathValue("id"))
	if err != nil {
		web.WriteError(ctx, w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, lesson)
}

func (h *CatalogHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := web.ExtractContext(r)

	var patch domain.LessonPatch
	if err := web.DecodeJSON(r, &patch); err != nil {
		web.WriteError(ctx, w, err)
		return
	}
	lesson, err := h.service.UpdateItem(ctx, r.PathValue("id"), patch)
	if err != nil {
		web.WriteError(ctx, w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, lesson)
}

func (h *CatalogHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := web.ExtractContext(r)

	lessons, err := h.service.SearchItems(ctx, r.URL.Query().Get("q"))
	if err != nil {
		web.WriteError(ctx, w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, nonNil(lessons))
}

func (h *CatalogHandler) handleSeed(w http.ResponseWriter, r *http.Request) {
	ctx := web.ExtractContext(r)

	inserted, err := h.service.SeedCatalog(ctx)
	if err != nil {
		web.WriteError(ctx, w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]int{"inserted": inserted})
}

// 空结果返回 [] 而不是 null
func nonNil(lessons []domain.Lesson) []domain.Lesson {
	if lessons == nil {
		return []domain.Lesson{}
	}
	return lessons
}
