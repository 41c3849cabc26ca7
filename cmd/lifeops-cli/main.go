package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultAPI = "http://localhost:3536"

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true).
			PaddingLeft(2)

	normalStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	overdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

type step int

const (
	stepEnteringEmail step = iota
	stepEnteringPassword
	stepLoggingIn
	stepLoadingTasks
	stepListingTasks
)

type model struct {
	api          *apiClient
	step         step
	email        string
	user         *apiUser
	tasks        []apiTask
	cursor       int
	currentInput string
	message      string
	quitting     bool
}

type loginSuccessMsg struct{ user *apiUser }
type tasksLoadedMsg []apiTask
type taskUpdatedMsg struct{ task *apiTask }
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func initialModel(api *apiClient) model {
	return model{api: api, step: stepEnteringEmail}
}

func (m model) Init() tea.Cmd {
	return nil
}

func login(api *apiClient, email, password string) tea.Cmd {
	return func() tea.Msg {
		user, err := api.Login(email, password)
		if err != nil {
			return errMsg{err}
		}
		return loginSuccessMsg{user: user}
	}
}

func loadTasks(api *apiClient) tea.Cmd {
	return func() tea.Msg {
		tasks, err := api.Tasks()
		if err != nil {
			return errMsg{err}
		}
		return tasksLoadedMsg(tasks)
	}
}

func toggleTask(api *apiClient, t apiTask) tea.Cmd {
	return func() tea.Msg {
		updated, err := api.Toggle(t)
		if err != nil {
			return errMsg{err}
		}
		return taskUpdatedMsg{task: updated}
	}
}

func (m model) typing() bool {
	return m.step == stepEnteringEmail || m.step == stepEnteringPassword
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "q":
			if !m.typing() {
				m.quitting = true
				return m, tea.Quit
			}
			m.currentInput += "q"

		case "up", "k":
			if m.step == stepListingTasks && m.cursor > 0 {
				m.cursor--
			} else if m.typing() && msg.String() == "k" {
				m.currentInput += "k"
			}

		case "down", "j":
			if m.step == stepListingTasks && m.cursor < len(m.tasks)-1 {
				m.cursor++
			} else if m.typing() && msg.String() == "j" {
				m.currentInput += "j"
			}

		case "r":
			if m.step == stepListingTasks {
				m.message = ""
				return m, loadTasks(m.api)
			}
			if m.typing() {
				m.currentInput += "r"
			}

		case "backspace":
			if len(m.currentInput) > 0 {
				m.currentInput = m.currentInput[:len(m.currentInput)-1]
			}

		case "enter":
			switch m.step {
			case stepEnteringEmail:
				if m.currentInput != "" {
					m.email = m.currentInput
					m.currentInput = ""
					m.step = stepEnteringPassword
				}

			case stepEnteringPassword:
				if m.currentInput != "" {
					password := m.currentInput
					m.currentInput = ""
					m.step = stepLoggingIn
					m.message = "Logging in..."
					return m, login(m.api, m.email, password)
				}

			case stepListingTasks:
				if len(m.tasks) > 0 {
					return m, toggleTask(m.api, m.tasks[m.cursor])
				}
			}

		default:
			if m.typing() && msg.Type == tea.KeyRunes {
				m.currentInput += string(msg.Runes)
			}
		}

	case loginSuccessMsg:
		m.user = msg.user
		m.step = stepLoadingTasks
		m.message = successStyle.Render("✓ Logged in as " + msg.user.Name)
		return m, loadTasks(m.api)

	case tasksLoadedMsg:
		m.tasks = []apiTask(msg)
		m.step = stepListingTasks
		if m.cursor >= len(m.tasks) {
			m.cursor = 0
		}

	case taskUpdatedMsg:
		for i := range m.tasks {
			if m.tasks[i].ID == msg.task.ID {
				m.tasks[i] = *msg.task
			}
		}
		verb := "Completed"
		if msg.task.Status != "COMPLETED_TODAY" {
			verb = "Reopened"
		}
		m.message = successStyle.Render(fmt.Sprintf("✓ %s %s", verb, msg.task.Title))

	case errMsg:
		m.message = errorStyle.Render("✗ " + msg.err.Error())
		if m.step == stepLoggingIn || errors.Is(msg.err, errUnauthorized) {
			m.step = stepEnteringEmail
			m.user = nil
			m.tasks = nil
		}
	}

	return m, nil
}

func renderTask(t apiTask) string {
	due := t.NextDueDate.Local().Format("Jan 2, 2006")
	mark := "[ ]"
	if t.Status == "COMPLETED_TODAY" {
		mark = "[x]"
	}
	line := fmt.Sprintf("%s %-32s %-9s due %s (%d done)", mark, t.Title, t.Category, due, t.CompletionCount)
	if t.Status == "OVERDUE" {
		return overdueStyle.Render(line + " overdue")
	}
	return line
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("LifeOps\n\n"))

	switch m.step {
	case stepEnteringEmail:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString(promptStyle.Render("Enter your email:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringPassword:
		s.WriteString(promptStyle.Render("Enter your password:\n"))
		s.WriteString(inputStyle.Render("> " + strings.Repeat("•", len(m.currentInput))))
		s.WriteString("\n\nPress Enter\n")

	case stepLoggingIn:
		s.WriteString(m.message + "\n")

	case stepLoadingTasks:
		s.WriteString(m.message + "\n\nLoading tasks...\n")

	case stepListingTasks:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		if len(m.tasks) == 0 {
			s.WriteString("No tasks yet.\n")
		}
		for i, t := range m.tasks {
			cursor := " "
			style := normalStyle
			if m.cursor == i {
				cursor = ">"
				style = selectedStyle
			}
			s.WriteString(fmt.Sprintf("%s %s\n", cursor, style.Render(renderTask(t))))
		}
		s.WriteString("\nUse ↑/↓, Enter to complete or reopen, r to refresh, q to quit\n")
	}

	return s.String()
}

func main() {
	base := os.Getenv("LIFEOPS_API")
	if base == "" {
		base = defaultAPI
	}
	p := tea.NewProgram(initialModel(newAPIClient(base)))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
