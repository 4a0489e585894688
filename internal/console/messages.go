package console

import "github.com/nguyenthanhphat1510/tp-shop-admin/internal/confirm"

// loadedMsg 页面加载结束
type loadedMsg struct {
	tab int
	err error
}

// confirmMsg 变更需要用户确认
type confirmMsg struct {
	prompt confirm.Prompt
	tab    int
	id     string
	op     action
	done   string
}

// actionDoneMsg 变更结束
type actionDoneMsg struct {
	tab  int
	done string
	err  error
}

// clearNoticeMsg 通知到期，seq 不匹配说明已被新通知替换
type clearNoticeMsg struct {
	seq int
}
