package model

// 输出字段命名
// 1. 提升后的字段名 = 源字段名 + 后缀
// 2. 后缀默认 _dummy，可在配置文件或命令行中修改

const DefaultSuffix = "_dummy"

// 字段类名
const (
	ScalarInternalClass = "volScalarField::Internal"
	VectorInternalClass = "volVectorField::Internal"
	ScalarVolClass      = "volScalarField"
	VectorVolClass      = "volVectorField"
)

// 推送消息类型
const (
	MsgTime     = "time"     // 开始处理一个时间步
	MsgMissing  = "missing"  // 请求的字段不存在
	MsgSkipped  = "skipped"  // 当前时间步被跳过
	MsgPromoted = "promoted" // 写出了一个提升后的字段
	MsgFinished = "finished" // 全部时间步处理完成
)

// 前后端通信消息结构
type Msg struct {
	Type    string `json:"type"`
	Time    string `json:"time,omitempty"`
	Content string `json:"content"`
}
