package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resumaker/internal/catalog"
)

// TemplateHandler 负责模板目录相关的 API。目录是静态的，不走存储。
type TemplateHandler struct{}

func NewTemplateHandler() *TemplateHandler {
	return &TemplateHandler{}
}

type templateListResponse struct {
	Items       []catalog.Template `json:"items"`
	Total       int                `json:"total"`
	Visible     int                `json:"visible"`
	NextVisible int                `json:"next_visible,omitempty"`
}

// GET /v1/templates
// 按分类过滤并做"加载更多"式分页：visible 控制当前可见数量。
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	list := catalog.All()
	if raw := c.Query("category"); raw != "" {
		cat := catalog.Category(raw)
		if !cat.Valid() {
			BadRequest(c, "unknown category")
			return
		}
		list = catalog.ByCategory(cat)
	}

	visible := catalog.InitialPageSize
	if raw := c.Query("visible"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			BadRequest(c, "invalid visible count")
			return
		}
		visible = parsed
	}

	page := catalog.Page(list, visible)
	c.JSON(http.StatusOK, templateListResponse{
		Items:       page,
		Total:       len(list),
		Visible:     len(page),
		NextVisible: catalog.NextVisible(list, visible),
	})
}

// GET /v1/templates/:id
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		BadRequest(c, "invalid template id")
		return
	}

	tpl, ok := catalog.ByID(id)
	if !ok {
		NotFound(c, "template not found")
		return
	}
	c.JSON(http.StatusOK, tpl)
}
