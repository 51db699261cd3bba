package worker

import (
	"bytes"
	"fmt"
	"html/template"

	"resumaker/internal/resume"
)

// pdfTemplateString 是 PDF 渲染的 Go HTML 模板：
// 经典双栏简历布局，左侧联系方式与技能，右侧经历与教育。
// 四个配色槽位直接注入 CSS 变量。
const pdfTemplateString = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        @page {
            size: A4;
            margin: 0;
        }
        :root {
            --primary: {{.Colors.Primary}};
            --secondary: {{.Colors.Secondary}};
            --text: {{.Colors.Text}};
            --background: {{.Colors.Background}};
        }
        body {
            margin: 0;
            padding: 0;
            font-family: 'Helvetica Neue', Arial, sans-serif;
            font-size: 10pt;
            color: var(--text);
            background: var(--background);
        }
        .a4-page {
            width: 794px;  /* A4 @ 96 DPI */
            min-height: 1122px;
            box-sizing: border-box;
            display: flex;
        }
        .sidebar {
            width: 260px;
            box-sizing: border-box;
            padding: 32px 24px;
            background: var(--secondary);
            color: var(--background);
        }
        .sidebar h2 {
            font-size: 11pt;
            text-transform: uppercase;
            letter-spacing: 1px;
            border-bottom: 1px solid var(--background);
            padding-bottom: 4px;
            margin: 24px 0 8px;
        }
        .profile-image {
            width: 120px;
            height: 120px;
            border-radius: 50%;
            object-fit: cover;
            display: block;
            margin: 0 auto 16px;
            border: 3px solid var(--background);
        }
        .contact p {
            margin: 4px 0;
            word-break: break-all;
        }
        .skills li {
            margin: 4px 0;
        }
        .main {
            flex: 1;
            box-sizing: border-box;
            padding: 32px 28px;
        }
        .name {
            font-size: 24pt;
            font-weight: 700;
            color: var(--primary);
            margin: 0;
        }
        .job-title {
            font-size: 13pt;
            color: var(--secondary);
            margin: 4px 0 20px;
        }
        .main h2 {
            font-size: 12pt;
            text-transform: uppercase;
            letter-spacing: 1px;
            color: var(--primary);
            border-bottom: 2px solid var(--primary);
            padding-bottom: 4px;
            margin: 20px 0 10px;
        }
        .entry {
            margin-bottom: 12px;
        }
        .entry .heading {
            font-weight: 700;
        }
        .entry .period {
            color: var(--secondary);
            font-size: 9pt;
        }
        .entry p {
            margin: 4px 0 0;
        }
    </style>
</head>
<body>
    <div class="a4-page">
        <aside class="sidebar">
            {{if .ProfileImage}}
            <img class="profile-image" src="{{.ProfileImage}}" alt="profile">
            {{end}}
            <h2>Contact</h2>
            <div class="contact">
                {{if .Content.Email}}<p>{{.Content.Email}}</p>{{end}}
                {{if .Content.Phone}}<p>{{.Content.Phone}}</p>{{end}}
                {{if .Content.Address}}<p>{{.Content.Address}}</p>{{end}}
            </div>
            {{if .Content.Skills}}
            <h2>Skills</h2>
            <ul class="skills">
                {{range .Content.Skills}}<li>{{.}}</li>{{end}}
            </ul>
            {{end}}
        </aside>
        <main class="main">
            <h1 class="name">{{.Content.FirstName}} {{.Content.LastName}}</h1>
            <p class="job-title">{{.Content.JobTitle}}</p>
            {{if .Content.Summary}}
            <h2>Summary</h2>
            <p>{{.Content.Summary}}</p>
            {{end}}
            {{if .Content.Experience}}
            <h2>Experience</h2>
            {{range .Content.Experience}}
            <div class="entry">
                <div class="heading">{{.Role}} · {{.Company}}</div>
                <div class="period">{{.Period}}</div>
                <p>{{.Description}}</p>
            </div>
            {{end}}
            {{end}}
            {{if .Content.Education}}
            <h2>Education</h2>
            {{range .Content.Education}}
            <div class="entry">
                <div class="heading">{{.Degree}} · {{.School}}</div>
                <div class="period">{{.Year}}</div>
            </div>
            {{end}}
            {{end}}
        </main>
    </div>
</body>
</html>
`

var pdfTemplate = template.Must(template.New("resume-pdf").Parse(pdfTemplateString))

type pdfViewModel struct {
	Content resume.Content
	Colors  resume.Colors
	// data: 形式的头像会被模板引擎的 URL 过滤器拦掉，这里显式放行。
	ProfileImage template.URL
}

// RenderResumeHTML 把一份简历渲染为可打印的 HTML 文档。
func RenderResumeHTML(r resume.UserResume) (string, error) {
	var buf bytes.Buffer
	vm := pdfViewModel{
		Content:      r.Content,
		Colors:       r.Colors,
		ProfileImage: template.URL(r.Content.ProfileImage),
	}
	if err := pdfTemplate.Execute(&buf, vm); err != nil {
		return "", fmt.Errorf("execute pdf template: %w", err)
	}
	return buf.String(), nil
}
