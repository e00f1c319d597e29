package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorPositive  = lipgloss.Color("78")  // Green
	colorNeutral   = lipgloss.Color("221") // Yellow
	colorNegative  = lipgloss.Color("196") // Red
)

// TitleBar style for the top bar with the app name and session identity.
var TitleBar = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// ActiveTab style for the selected tab label.
var ActiveTab = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(0, 1)

// InactiveTab style for unselected tab labels.
var InactiveTab = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// SelectedItem style for the currently highlighted post.
var SelectedItem = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// NormalItem style for unselected posts.
var NormalItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// ItemMeta style for the subreddit/upvotes/comments line under a post title.
var ItemMeta = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// SummaryText style for the enrichment summary under a post.
var SummaryText = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252")).
	Italic(true).
	Padding(0, 3)

// SentimentPositive style for positive sentiment badges.
var SentimentPositive = lipgloss.NewStyle().
	Foreground(colorPositive).
	Bold(true)

// SentimentNeutral style for neutral sentiment badges.
var SentimentNeutral = lipgloss.NewStyle().
	Foreground(colorNeutral)

// SentimentNegative style for negative sentiment badges.
var SentimentNegative = lipgloss.NewStyle().
	Foreground(colorNegative)

// SectionHeader style for dashboard section titles.
var SectionHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	MarginTop(1).
	Padding(0, 1)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in the status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in the status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorNegative).
	Bold(true).
	Padding(0, 1)

// FormLabel style for input labels on forms.
var FormLabel = lipgloss.NewStyle().
	Foreground(colorSecondary)

// FormBox style for the login form frame.
var FormBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// FilterPanel style for the filter panel frame.
var FilterPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Padding(0, 1)

// HelpStyle for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)
