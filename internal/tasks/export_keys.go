package tasks

import (
	"fmt"
	"time"
)

// 导出结果在 Redis 中的登记约定，API 与 Worker 共用。
const PDFExportTTL = 7 * 24 * time.Hour

// PDFExportRedisKey 返回某份简历最近一次导出产物的登记键，
// 值为 MinIO 对象键。
func PDFExportRedisKey(resumeID string) string {
	return fmt.Sprintf("export:pdf:%s", resumeID)
}
