package console

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("62")
	colorMuted   = lipgloss.Color("241")
	colorDanger  = lipgloss.Color("196")
	colorWarning = lipgloss.Color("214")
	colorSuccess = lipgloss.Color("78")
)

var (
	tabStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(colorPrimary).
			Padding(0, 2)

	criteriaStyle = lipgloss.NewStyle().Foreground(colorMuted)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().Foreground(colorMuted)

	errorNotice = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(colorDanger).
			Padding(0, 1)

	// 业务约束冲突（还有子分类、还有商品）使用单独的警告样式
	warningNotice = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("16")).
			Background(colorWarning).
			Padding(0, 1)

	successNotice = lipgloss.NewStyle().
			Foreground(lipgloss.Color("16")).
			Background(colorSuccess).
			Padding(0, 1)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)

	severeDialogStyle = dialogStyle.BorderForeground(colorDanger)

	dialogTitle = lipgloss.NewStyle().Bold(true)
)
