package resume

// 新建简历的种子内容：保证每份新简历都是完整填充的样板，
// 避免下游渲染时出现空字段。

const defaultProfileImage = "https://picsum.photos/seed/profile/200/200"

// DefaultContent 返回全局默认内容的独立副本。
// 调用方可以任意修改返回值，不会影响其他简历。
func DefaultContent() Content {
	return Content{
		FirstName: "John",
		LastName:  "Doe",
		JobTitle:  "Senior Software Engineer",
		Email:     "john.doe@example.com",
		Phone:     "+1 (555) 000-1111",
		Address:   "San Francisco, CA",
		Summary:   "Experienced developer with a passion for building scalable web applications and leading cross-functional teams.",
		Skills:    []string{"React", "TypeScript", "Node.js", "Tailwind CSS", "Gemini AI"},
		Experience: []Experience{
			{
				Company:     "TechCorp Solutions",
				Role:        "Senior Developer",
				Period:      "2020 - Present",
				Description: "Lead developer for the core cloud infrastructure team. Improved performance by 40%.",
			},
			{
				Company:     "Startup Hub",
				Role:        "Full Stack Engineer",
				Period:      "2018 - 2020",
				Description: "Built the initial MVP for a social networking platform using MERN stack.",
			},
		},
		Education: []Education{
			{
				School: "University of Technology",
				Degree: "B.S. in Computer Science",
				Year:   "2018",
			},
		},
		ProfileImage: defaultProfileImage,
	}
}

// DefaultColors 返回默认配色的副本。
func DefaultColors() Colors {
	return Colors{
		Primary:    "#3b82f6",
		Secondary:  "#1e3a8a",
		Text:       "#111827",
		Background: "#ffffff",
	}
}
