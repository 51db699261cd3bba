package errcode

// 错误码约定：
// - 0：无错误
// - 4xxx：业务可恢复/告警类错误（例如达到上限、资源缺失）
// - 5xxx：系统错误（需要中断流程）
const (
	OK              = 0
	LimitReached    = 4003
	ResourceMissing = 4004
	AIBusy          = 4009
	SystemError     = 5000
)
