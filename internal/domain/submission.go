package domain

// Kind 表示提交的类型
type Kind string

const (
	// KindContact 联系表单提交
	KindContact Kind = "contact"
	// KindCareerApplication 职位申请提交
	KindCareerApplication Kind = "career_application"
)

// Submission 表示一次进入接收管线的表单提交。
//
// 生命周期：由请求载荷构造 → 校验 → 被一次管线执行消费 → 丢弃。
// 不落库，不在请求之间共享。
type Submission struct {
	Kind       Kind        `json:"kind"`                 // 提交类型
	Name       string      `json:"name"`                 // 提交人姓名
	Email      string      `json:"email"`                // 提交人邮箱
	Phone      string      `json:"phone,omitempty"`      // 电话，可选
	Message    string      `json:"message,omitempty"`    // 留言；联系表单必填
	Position   string      `json:"position,omitempty"`   // 应聘职位；职位申请必填
	Experience string      `json:"experience,omitempty"` // 工作经验；职位申请必填
	Resume     *Attachment `json:"-"`                    // 简历附件；职位申请必填
}

// Attachment 表示随提交上传的附件
type Attachment struct {
	Filename string // 用户上传时的原始文件名
	Size     int64  // 大小（字节）
	Content  []byte // 附件内容
}

// StoredAttachment 表示已落盘的附件
type StoredAttachment struct {
	OriginalName string // 原始文件名
	StoredName   string // 生成的唯一文件名：<毫秒时间戳>_<清洗后的原始名>
	PublicPath   string // 对外可访问的相对路径
	Size         int64  // 大小（字节）
}
