// Package console 实现终端管理界面：每个资源一个标签页，表格展示当前页，
// 支持搜索、筛选、排序、翻页，变更前弹出确认对话框。
package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/backend"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/confirm"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/service"
)

// 通知显示时长
const (
	noticeDuration     = 3 * time.Second
	constraintDuration = 6 * time.Second
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeConfirm
)

type noticeKind int

const (
	noticeSuccess noticeKind = iota
	noticeError
	noticeWarning
)

type notice struct {
	text string
	kind noticeKind
	seq  int
}

// Options 控制台选项
type Options struct {
	PageSize int
	// Timeout 单次加载或变更的超时时间
	Timeout time.Duration
	Logger  *zap.Logger
	Screen  []service.Option
}

// Model 根模型
type Model struct {
	tabs    []*tab
	active  int
	timeout time.Duration
	logger  *zap.Logger

	table  table.Model
	search textinput.Model
	mode   mode

	pending *confirmMsg
	notice  *notice
	seq     int

	pageInfo pageView
	width    int
	height   int
}

// New 创建控制台模型
func New(res Resources, o Options) Model {
	if o.Timeout <= 0 {
		o.Timeout = 15 * time.Second
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "Tìm kiếm..."
	ti.Prompt = "/ "
	ti.CharLimit = 100

	m := Model{
		tabs:    newTabs(res, o.PageSize, o.Screen...),
		timeout: o.Timeout,
		logger:  o.Logger,
		table:   table.New(table.WithFocused(true), table.WithHeight(12)),
		search:  ti,
	}
	m.refresh()
	return m
}

// Init 加载第一个标签页
func (m Model) Init() tea.Cmd {
	return m.loadCmd(m.active)
}

func (m Model) current() *tab { return m.tabs[m.active] }

func (m Model) loadCmd(i int) tea.Cmd {
	t := m.tabs[i]
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return loadedMsg{tab: i, err: t.load(ctx)}
	}
}

// actionCmd 执行变更。cf 为 nil 时先用拒绝确认的 Recorder 试探：
// 需要确认的操作会在发请求前返回 ErrNotConfirmed，此时取回提示交给对话框
func (m Model) actionCmd(i int, id string, op action, done string, cf confirm.Confirmer) tea.Cmd {
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		rec := &confirm.Recorder{}
		if cf == nil {
			cf = rec
		}
		err := op(ctx, id, cf)
		if errors.Is(err, service.ErrNotConfirmed) {
			if p, ok := rec.Last(); ok {
				return confirmMsg{prompt: p, tab: i, id: id, op: op, done: done}
			}
		}
		return actionDoneMsg{tab: i, done: done, err: err}
	}
}

// refresh 按当前标签页的状态重建表格
func (m *Model) refresh() {
	t := m.current()
	m.pageInfo = t.view(t.state)
	m.table.SetColumns(t.columns)
	m.table.SetRows(m.pageInfo.rows)
	if m.table.Cursor() >= len(m.pageInfo.rows) {
		m.table.SetCursor(max(0, len(m.pageInfo.rows)-1))
	}
}

func (m Model) selectedID() (string, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.pageInfo.ids) {
		return "", false
	}
	return m.pageInfo.ids[i], true
}

// notify 显示通知并在到期后清除
func (m *Model) notify(text string, kind noticeKind) tea.Cmd {
	m.seq++
	seq := m.seq
	m.notice = &notice{text: text, kind: kind, seq: seq}
	d := noticeDuration
	if kind == noticeWarning {
		d = constraintDuration
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} })
}

// notifyError 业务约束冲突用警告样式长时间显示，其余错误原样显示
func (m *Model) notifyError(err error) tea.Cmd {
	if backend.IsDomainConstraint(err) {
		return m.notify(err.Error(), noticeWarning)
	}
	return m.notify(err.Error(), noticeError)
}

// Update 处理消息
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(3, msg.Height-9))
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeConfirm:
			return m.handleConfirmKey(msg)
		case modeSearch:
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)

	case loadedMsg:
		if msg.err != nil {
			m.logger.Warn("load failed", zap.String("tab", m.tabs[msg.tab].title), zap.Error(msg.err))
		}
		if msg.tab == m.active {
			m.refresh()
		}
		if msg.err != nil {
			cmd := m.notifyError(msg.err)
			return m, cmd
		}
		return m, nil

	case confirmMsg:
		m.pending = &msg
		m.mode = modeConfirm
		return m, nil

	case actionDoneMsg:
		if msg.tab == m.active {
			m.refresh()
		}
		switch {
		case msg.err == nil:
			cmd := m.notify(msg.done, noticeSuccess)
			return m, cmd
		case errors.Is(msg.err, service.ErrNotConfirmed), errors.Is(msg.err, service.ErrRowNotLoaded):
			return m, nil
		}
		m.logger.Warn("action failed", zap.String("tab", m.tabs[msg.tab].title), zap.Error(msg.err))
		cmd := m.notifyError(msg.err)
		return m, cmd

	case clearNoticeMsg:
		if m.notice != nil && m.notice.seq == msg.seq {
			m.notice = nil
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.pending
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode, m.pending = modeBrowse, nil
		return m, m.actionCmd(p.tab, p.id, p.op, p.done, confirm.Always)
	case "n", "N", "esc", "q":
		m.mode, m.pending = modeBrowse, nil
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.current().state.SetSearch(strings.TrimSpace(m.search.Value()))
		m.search.Blur()
		m.mode = modeBrowse
		m.refresh()
		return m, nil
	case "esc":
		m.search.SetValue(m.current().state.Criteria.Search)
		m.search.Blur()
		m.mode = modeBrowse
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.current()
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab", "shift+tab":
		if msg.String() == "tab" {
			m.active = (m.active + 1) % len(m.tabs)
		} else {
			m.active = (m.active + len(m.tabs) - 1) % len(m.tabs)
		}
		m.search.SetValue(m.current().state.Criteria.Search)
		m.table.SetCursor(0)
		m.refresh()
		if st := m.current().status(); !st.Loaded && !st.Loading {
			return m, m.loadCmd(m.active)
		}
		return m, nil

	case "/":
		m.mode = modeSearch
		m.search.SetValue(t.state.Criteria.Search)
		cmd := m.search.Focus()
		return m, cmd

	case "s":
		_ = t.state.SetFilter("status", next(t.statuses, t.state.Criteria.Status))
		m.refresh()
		return m, nil

	case "o":
		t.state.SetSortBy(next(t.sorts, t.state.Criteria.SortBy))
		m.refresh()
		return m, nil

	case "]", "right":
		t.state.SetPage(min(m.pageInfo.page+1, m.pageInfo.totalPages))
		m.refresh()
		return m, nil

	case "[", "left":
		t.state.SetPage(max(m.pageInfo.page-1, 1))
		m.refresh()
		return m, nil

	case "r":
		return m, m.loadCmd(m.active)

	case "t":
		return m, m.act(t.toggle, "Đã cập nhật trạng thái")
	case "d":
		return m, m.act(t.remove, "Đã xóa thành công")
	case "n":
		return m, m.act(t.advance, "Đã cập nhật trạng thái đơn hàng")
	case "c":
		return m, m.act(t.cancel, "Đã hủy đơn hàng")
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// act 对选中行执行变更；当前页面不支持该操作或没有选中行时忽略
func (m Model) act(op action, done string) tea.Cmd {
	if op == nil {
		return nil
	}
	id, ok := m.selectedID()
	if !ok {
		return nil
	}
	return m.actionCmd(m.active, id, op, done, nil)
}

// View 渲染界面
func (m Model) View() string {
	var b strings.Builder

	tabs := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.active {
			tabs[i] = activeTabStyle.Render(t.title)
		} else {
			tabs[i] = tabStyle.Render(t.title)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")

	t := m.current()
	c := t.state.Criteria
	search := c.Search
	if search == "" {
		search = "-"
	}
	b.WriteString(criteriaStyle.Render(fmt.Sprintf("Tìm: %s · Trạng thái: %s · Sắp xếp: %s",
		search, statusLabel(c.Status), sortLabel(c.SortBy))))
	b.WriteString("\n")
	if m.mode == modeSearch {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	if m.mode == modeConfirm && m.pending != nil {
		b.WriteString(m.dialogView())
	} else {
		b.WriteString(m.table.View())
	}
	b.WriteString("\n")

	st := t.status()
	footer := fmt.Sprintf("Trang %d/%d · %d mục", m.pageInfo.page, m.pageInfo.totalPages, m.pageInfo.totalItems)
	switch {
	case st.Loading:
		footer += " · Đang tải..."
	case st.Submitting:
		footer += " · Đang xử lý..."
	case st.Error != "":
		footer += " · Lỗi tải dữ liệu, nhấn r để thử lại"
	}
	b.WriteString(footerStyle.Render(footer))
	b.WriteString("\n")

	if m.notice != nil {
		b.WriteString(m.noticeView())
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) dialogView() string {
	p := m.pending.prompt
	style := dialogStyle
	if p.Severe {
		style = severeDialogStyle
	}
	body := dialogTitle.Render(p.Title) + "\n\n" + p.Message + "\n\n" + "[y] Xác nhận   [n] Hủy"
	return style.Render(body)
}

func (m Model) noticeView() string {
	switch m.notice.kind {
	case noticeWarning:
		return warningNotice.Render(m.notice.text)
	case noticeError:
		return errorNotice.Render(m.notice.text)
	}
	return successNotice.Render(m.notice.text)
}

func (m Model) help() string {
	keys := []string{"/ tìm", "s trạng thái", "o sắp xếp", "[ ] trang", "r tải lại", "tab chuyển", "q thoát"}
	t := m.current()
	if t.toggle != nil {
		keys = append(keys, "t bật/tắt")
	}
	if t.remove != nil {
		keys = append(keys, "d xóa")
	}
	if t.advance != nil {
		keys = append(keys, "n bước tiếp", "c hủy đơn")
	}
	return strings.Join(keys, " · ")
}
