package catalog

import "fmt"

// Category 是模板分类。
type Category string

const (
	CategoryModern       Category = "Modern"
	CategoryProfessional Category = "Professional"
	CategoryCreative     Category = "Creative"
	CategoryAcademic     Category = "Academic"
	CategoryMinimalist   Category = "Minimalist"
)

// Valid 报告分类是否是五个已知分类之一。
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Categories 返回全部分类，顺序固定。
func Categories() []Category {
	return []Category{
		CategoryModern,
		CategoryProfessional,
		CategoryCreative,
		CategoryAcademic,
		CategoryMinimalist,
	}
}

// Template 是一条不可变的目录项。目录在启动时生成一次，之后不再变化。
type Template struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Category  Category `json:"category"`
	Thumbnail string   `json:"thumbnail"`
}

// 目录规模与画廊分页常量。
const (
	TemplateCount      = 25
	InitialPageSize    = 15
	PageIncrement      = 10
	thumbnailSeedStart = 50
)

var templates = buildTemplates()

func buildTemplates() []Template {
	cats := Categories()
	out := make([]Template, 0, TemplateCount)
	for i := 0; i < TemplateCount; i++ {
		out = append(out, Template{
			ID:        i + 1,
			Name:      fmt.Sprintf("Template %d", i+1),
			Category:  cats[i%len(cats)],
			Thumbnail: fmt.Sprintf("https://picsum.photos/seed/%d/400/600", i+thumbnailSeedStart),
		})
	}
	return out
}

// All 返回完整目录的副本，调用方可安全持有。
func All() []Template {
	return append([]Template(nil), templates...)
}

// ByCategory 按分类过滤；空分类返回完整目录。
func ByCategory(category Category) []Template {
	if category == "" {
		return All()
	}
	out := make([]Template, 0, TemplateCount/len(Categories())+1)
	for _, t := range templates {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// ByID 按 ID 查找模板。
func ByID(id int) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Page 返回前 visible 条目录项。visible 非法时退回首屏大小。
func Page(list []Template, visible int) []Template {
	if visible <= 0 {
		visible = InitialPageSize
	}
	if visible > len(list) {
		visible = len(list)
	}
	return list[:visible]
}

// NextVisible 返回下一次"加载更多"后的可见数量；没有更多时返回 0。
func NextVisible(list []Template, visible int) int {
	if visible <= 0 {
		visible = InitialPageSize
	}
	if visible >= len(list) {
		return 0
	}
	next := visible + PageIncrement
	if next > len(list) {
		next = len(list)
	}
	return next
}
