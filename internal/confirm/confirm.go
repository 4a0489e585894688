// Package confirm 描述破坏性操作前的确认步骤，与具体界面形式无关。
package confirm

import "context"

// Prompt 确认提示
type Prompt struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	// Severe 不可撤销的操作（删除），界面上应使用更醒目的样式
	Severe bool `json:"severe"`
}

// Confirmer 在变更发出前询问是否继续
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) bool
}

// Func 函数适配器
type Func func(ctx context.Context, p Prompt) bool

// Confirm 实现 Confirmer
func (f Func) Confirm(ctx context.Context, p Prompt) bool { return f(ctx, p) }

// Always 总是确认
var Always Confirmer = Func(func(context.Context, Prompt) bool { return true })

// Never 总是拒绝
var Never Confirmer = Func(func(context.Context, Prompt) bool { return false })

// Recorder 记录收到的提示并返回固定结果，网关用它在未确认时取回提示内容
type Recorder struct {
	Answer bool
	Asked  []Prompt
}

// Confirm 实现 Confirmer
func (r *Recorder) Confirm(_ context.Context, p Prompt) bool {
	r.Asked = append(r.Asked, p)
	return r.Answer
}

// Last 最近一次提示
func (r *Recorder) Last() (Prompt, bool) {
	if len(r.Asked) == 0 {
		return Prompt{}, false
	}
	return r.Asked[len(r.Asked)-1], true
}
