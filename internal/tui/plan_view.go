package tui

import (
	"fmt"
	"strings"

	"quickcore/internal/models"
	"quickcore/internal/services"

	"github.com/charmbracelet/lipgloss"
)

// renderPlan lays out a study plan for the viewport, wrapping prose to width.
func renderPlan(plan *models.StudyPlanData, fileName string, width int) string {
	if width <= 0 {
		width = 80
	}
	wrap := lipgloss.NewStyle().Width(width)
	indented := lipgloss.NewStyle().Width(width).PaddingLeft(3)

	var b strings.Builder

	b.WriteString(TitleStyle.Render(plan.Title))
	b.WriteString("\n")
	if plan.CourseName != "" {
		b.WriteString(SubtleStyle.Render("Course: " + plan.CourseName))
		b.WriteString("\n")
	}
	if fileName != "" {
		b.WriteString(SubtleStyle.Render("Generated from " + fileName))
		b.WriteString("\n")
	}
	if plan.Introduction != "" {
		b.WriteString("\n")
		b.WriteString(wrap.Render(plan.Introduction))
		b.WriteString("\n")
	}

	for i, topic := range plan.Topics {
		b.WriteString("\n")
		heading := TopicStyle.Render(fmt.Sprintf("%d. %s", i+1, topic.TopicName))
		if topic.Priority != "" {
			heading += " " + priorityStyle(topic.Priority).Render("["+topic.Priority.String()+"]")
		}
		if topic.EstimatedTimeHours != nil {
			heading += " " + SubtleStyle.Render("~"+services.FormatHours(*topic.EstimatedTimeHours))
		}
		b.WriteString(heading)
		b.WriteString("\n")

		if topic.Summary != "" {
			b.WriteString(indented.Render(topic.Summary))
			b.WriteString("\n")
		}
		if len(topic.LearningStrategies) > 0 {
			b.WriteString(indented.Render(SubtleStyle.Render("Learning strategies")))
			b.WriteString("\n")
			for _, strategy := range topic.LearningStrategies {
				b.WriteString(indented.Render("• " + strategy))
				b.WriteString("\n")
			}
		}
		if len(topic.KeyQuestions) > 0 {
			b.WriteString(indented.Render(SubtleStyle.Render("Key questions")))
			b.WriteString("\n")
			for _, question := range topic.KeyQuestions {
				b.WriteString(indented.Render("? " + question))
				b.WriteString("\n")
			}
		}
	}

	if len(plan.GeneralTips) > 0 {
		b.WriteString("\n")
		b.WriteString(TitleStyle.Render("General tips"))
		b.WriteString("\n")
		for _, tip := range plan.GeneralTips {
			b.WriteString(wrap.Render("• " + tip))
			b.WriteString("\n")
		}
	}

	if total := plan.TotalEstimatedHours(); total > 0 {
		b.WriteString("\n")
		b.WriteString(SubtleStyle.Render("Total estimated time: " + services.FormatHours(total)))
		b.WriteString("\n")
	}

	return b.String()
}
