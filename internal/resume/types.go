package resume

import "time"

// User 表示一次登录后保存的身份快照。
// 登录时创建，之后不再变更；落盘仅用于刷新后跳过重新登录。
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Content 表示一份简历的语义内容。
// 字段之间互不派生，均可独立编辑；JSON 字段名即存储格式。
type Content struct {
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	JobTitle     string       `json:"jobTitle"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	Address      string       `json:"address"`
	Summary      string       `json:"summary"`
	Skills       []string     `json:"skills"`
	Experience   []Experience `json:"experience"`
	Education    []Education  `json:"education"`
	ProfileImage string       `json:"profileImage,omitempty"`
}

// Experience 表示一段工作经历。
type Experience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

// Education 表示一段教育经历。
type Education struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Year   string `json:"year"`
}

// Colors 表示简历的四个配色槽位，仅用于展示。
type Colors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Text       string `json:"text"`
	Background string `json:"background"`
}

// UserResume 是聚合根：一份属于用户集合的简历。
// ID、TemplateID、CreatedAt 创建后不再变更；编辑只替换 Content 与 Colors。
type UserResume struct {
	ID         string    `json:"id"`
	TemplateID int       `json:"templateId"`
	Content    Content   `json:"content"`
	Colors     Colors    `json:"colors"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Clone 返回 Content 的深拷贝，切片不共享底层数组。
func (c Content) Clone() Content {
	out := c
	if c.Skills != nil {
		out.Skills = append([]string(nil), c.Skills...)
	}
	if c.Experience != nil {
		out.Experience = append([]Experience(nil), c.Experience...)
	}
	if c.Education != nil {
		out.Education = append([]Education(nil), c.Education...)
	}
	return out
}

// Clone 返回简历的深拷贝。
func (r UserResume) Clone() UserResume {
	out := r
	out.Content = r.Content.Clone()
	return out
}
