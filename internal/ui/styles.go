package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Design System Colors - Adaptive based on terminal background
var (
	// Primary brand colors (work well on both light and dark)
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorAccent    lipgloss.Color

	// Semantic colors
	ColorSuccess lipgloss.Color
	ColorWarning lipgloss.Color
	ColorError   lipgloss.Color
	ColorInfo    lipgloss.Color

	// Neutral colors (contrast-adaptive)
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color
	ColorTextDim   lipgloss.Color
	ColorBorder    lipgloss.Color
	ColorSurface   lipgloss.Color
	ColorOverlay   lipgloss.Color
)

func init() {
	setDarkThemeColors()
	buildStyles()
}

// initializeColors sets up adaptive colors based on terminal background
func initializeColors() {
	switch os.Getenv("GLAMOUR_STYLE") {
	case "light":
		setLightThemeColors()
	case "dark":
		setDarkThemeColors()
	default:
		if lipgloss.HasDarkBackground() {
			setDarkThemeColors()
		} else {
			setLightThemeColors()
		}
	}
	buildStyles()
}

func setDarkThemeColors() {
	ColorPrimary = lipgloss.Color("205")   // Bright magenta/pink
	ColorSecondary = lipgloss.Color("33")  // Bright cyan/blue
	ColorAccent = lipgloss.Color("214")    // Bright orange/yellow
	ColorSuccess = lipgloss.Color("10")    // Bright green
	ColorWarning = lipgloss.Color("11")    // Bright yellow
	ColorError = lipgloss.Color("9")       // Bright red
	ColorInfo = lipgloss.Color("12")       // Bright blue
	ColorText = lipgloss.Color("252")      // Near white
	ColorTextMuted = lipgloss.Color("244") // Light gray
	ColorTextDim = lipgloss.Color("240")   // Medium gray
	ColorBorder = lipgloss.Color("238")    // Dark gray
	ColorSurface = lipgloss.Color("236")   // Slightly lighter dark gray
	ColorOverlay = lipgloss.Color("234")   // Darkest gray
}

func setLightThemeColors() {
	ColorPrimary = lipgloss.Color("125")   // Darker magenta for contrast
	ColorSecondary = lipgloss.Color("24")  // Darker cyan
	ColorAccent = lipgloss.Color("130")    // Darker orange
	ColorSuccess = lipgloss.Color("22")    // Dark green
	ColorWarning = lipgloss.Color("136")   // Dark yellow/orange
	ColorError = lipgloss.Color("160")     // Dark red
	ColorInfo = lipgloss.Color("24")       // Dark blue
	ColorText = lipgloss.Color("232")      // Near black
	ColorTextMuted = lipgloss.Color("240") // Dark gray
	ColorTextDim = lipgloss.Color("244")   // Medium gray
	ColorBorder = lipgloss.Color("248")    // Light gray
	ColorSurface = lipgloss.Color("254")   // Off-white
	ColorOverlay = lipgloss.Color("253")   // Light gray
}

// Component Styles
var (
	StyleTitle                 lipgloss.Style
	StyleText                  lipgloss.Style
	StyleTextMuted             lipgloss.Style
	StyleTextDim               lipgloss.Style
	StyleFocused               lipgloss.Style
	StyleUnselected            lipgloss.Style
	StyleChip                  lipgloss.Style
	StyleChipSelected          lipgloss.Style
	StyleBadge                 lipgloss.Style
	StyleButtonPrimary         lipgloss.Style
	StyleSuccess               lipgloss.Style
	StyleWarning               lipgloss.Style
	StyleError                 lipgloss.Style
	StyleInfo                  lipgloss.Style
	StyleModal                 lipgloss.Style
	StyleSearchBox             lipgloss.Style
	StyleSearchBoxFocused      lipgloss.Style
	StyleContentContainer      lipgloss.Style
	StyleFormLabel             lipgloss.Style
	StyleFormLabelFocused      lipgloss.Style
	StyleLoading               lipgloss.Style
	StyleMetadata              lipgloss.Style
	StyleScrollIndicator       lipgloss.Style
	StyleScrollIndicatorActive lipgloss.Style
)

// buildStyles derives the component styles from the current palette
func buildStyles() {
	StyleTitle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 1)

	StyleText = lipgloss.NewStyle().Foreground(ColorText)
	StyleTextMuted = lipgloss.NewStyle().Foreground(ColorTextMuted)
	StyleTextDim = lipgloss.NewStyle().Foreground(ColorTextDim)

	StyleFocused = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(ColorSecondary).
		Bold(true).
		Padding(0, 1)

	StyleUnselected = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Padding(0, 1)

	StyleChip = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Background(ColorSurface).
		Padding(0, 1).
		MarginRight(1)

	StyleChipSelected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(ColorPrimary).
		Bold(true).
		Padding(0, 1).
		MarginRight(1)

	StyleBadge = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	StyleButtonPrimary = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(ColorPrimary).
		Bold(true).
		Padding(0, 2).
		MarginRight(1)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true).Padding(0, 1)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true).Padding(0, 1)
	StyleError = lipgloss.NewStyle().Foreground(ColorError).Bold(true).Padding(0, 1)
	StyleInfo = lipgloss.NewStyle().Foreground(ColorInfo).Bold(true).Padding(0, 1)

	StyleModal = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)

	StyleSearchBox = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(ColorBorder)

	StyleSearchBoxFocused = StyleSearchBox.
		BorderForeground(ColorSecondary)

	// Content container for prompt previews
	StyleContentContainer = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)

	StyleFormLabel = lipgloss.NewStyle().
		Foreground(ColorText).
		Bold(true)

	StyleFormLabelFocused = lipgloss.NewStyle().
		Foreground(ColorInfo).
		Bold(true)

	StyleLoading = lipgloss.NewStyle().
		Foreground(ColorInfo).
		Italic(true).
		Padding(0, 1)

	StyleMetadata = lipgloss.NewStyle().
		Foreground(ColorTextDim).
		Padding(0, 1)

	StyleScrollIndicator = lipgloss.NewStyle().
		Foreground(ColorTextDim).
		Align(lipgloss.Center)

	StyleScrollIndicatorActive = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true).
		Align(lipgloss.Center)
}

// CreateMainHeader renders the page title
func CreateMainHeader(titleText string) string {
	return StyleTitle.Render(titleText)
}

func CreateMetadata(text string) string {
	return StyleMetadata.Render(text)
}

// CreateResultCount renders the "N prompts found" line
func CreateResultCount(count int) string {
	noun := "prompts"
	if count == 1 {
		noun = "prompt"
	}
	return StyleMetadata.Render(fmt.Sprintf("%d %s found", count, noun))
}

// CreateContextualHelp renders essential keybinds, plus extra rows when expanded
func CreateContextualHelp(essential []string, additional []string, showExpanded bool, width int) string {
	var lines []string

	firstRowParts := append([]string(nil), essential...)
	if len(additional) > 0 && !showExpanded {
		firstRowParts = append(firstRowParts, "ctrl+g more")
	}

	lines = append(lines, truncateWidth(strings.Join(firstRowParts, " • "), width-4))

	if showExpanded {
		for _, row := range additional {
			lines = append(lines, truncateWidth(row, width-4))
		}
	}

	return StyleTextDim.Render(strings.Join(lines, "\n"))
}

// truncateWidth shortens text to at most width runes, marking the cut with "..."
func truncateWidth(text string, width int) string {
	runes := []rune(text)
	if width <= 3 || len(runes) <= width {
		return text
	}
	return string(runes[:width-3]) + "..."
}

func CreateStatus(text string, statusType string) string {
	switch statusType {
	case "success":
		return StyleSuccess.Render(text)
	case "warning":
		return StyleWarning.Render(text)
	case "error":
		return StyleError.Render(text)
	case "info":
		return StyleInfo.Render(text)
	default:
		return StyleText.Render(text)
	}
}

// CreateOption renders one selectable row
func CreateOption(label string, isSelected bool) string {
	if isSelected {
		return StyleFocused.Render("▶ " + label)
	}
	return StyleUnselected.Render("  " + label)
}

// CreateCategoryBar renders the category chips with the selected one highlighted
func CreateCategoryBar(labels []string, selected int, width int) string {
	var chips []string
	used := 0
	for i, label := range labels {
		style := StyleChip
		if i == selected {
			style = StyleChipSelected
		}
		chip := style.Render(label)
		chipWidth := lipgloss.Width(chip)
		if width > 0 && used+chipWidth > width && len(chips) > 0 {
			chips = append(chips, StyleTextDim.Render("…"))
			break
		}
		chips = append(chips, chip)
		used += chipWidth
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

// CenterModal places content in the middle of the screen
func CenterModal(content string, width, height int) string {
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

// AddMainPadding adds the left gutter used by every page
func AddMainPadding(content string) string {
	return lipgloss.NewStyle().PaddingLeft(2).Render(content)
}

// CreateScrollIndicators shows whether the viewport can scroll further
func CreateScrollIndicators(canScrollUp, canScrollDown bool) (string, string) {
	indicator := func(active bool) string {
		if active {
			return StyleScrollIndicatorActive.Render("...")
		}
		return StyleScrollIndicator.Render("─────────")
	}
	return indicator(canScrollUp), indicator(canScrollDown)
}
