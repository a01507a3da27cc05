package services

import (
	"fmt"
	"strconv"
	"strings"

	"quickcore/internal/helpers"
	"quickcore/internal/models"
)

// DisplayStudyPlan prints the plan to the console in topic order
func DisplayStudyPlan(plan *models.StudyPlanData, fileName string) {
	helpers.PrintTitle("%s", plan.Title)
	if plan.CourseName != "" {
		helpers.PrintInfo("Course: %s", plan.CourseName)
	}
	if fileName != "" {
		helpers.PrintSubtle("Generated from %s", fileName)
	}
	if plan.Introduction != "" {
		helpers.PrintText(0, "%s", plan.Introduction)
	}
	helpers.PrintSeparator()

	for i, topic := range plan.Topics {
		priority := topic.Priority.String()
		if priority == "" {
			priority = "Unspecified"
		}

		helpers.TitleColor.Fprintf(helpers.Output, "%d. %s ", i+1, topic.TopicName)
		helpers.PriorityColor(topic.Priority).Fprintf(helpers.Output, "[%s]", priority)
		if topic.EstimatedTimeHours != nil {
			helpers.SubtleColor.Fprintf(helpers.Output, " ~%s", FormatHours(*topic.EstimatedTimeHours))
		}
		fmt.Fprintln(helpers.Output)

		if topic.Summary != "" {
			helpers.PrintText(3, "%s", topic.Summary)
		}

		if len(topic.LearningStrategies) > 0 {
			helpers.PrintText(3, "Learning strategies:")
			for _, strategy := range topic.LearningStrategies {
				helpers.PrintText(5, "• %s", strategy)
			}
		}

		if len(topic.KeyQuestions) > 0 {
			helpers.PrintText(3, "Key questions:")
			for _, question := range topic.KeyQuestions {
				helpers.PrintText(5, "? %s", question)
			}
		}
		helpers.PrintSeparator()
	}

	if len(plan.GeneralTips) > 0 {
		helpers.PrintInfo("General tips:")
		for _, tip := range plan.GeneralTips {
			helpers.PrintText(3, "• %s", tip)
		}
	}

	if total := plan.TotalEstimatedHours(); total > 0 {
		helpers.PrintInfo("Summary: %d topics, %s estimated", len(plan.Topics), FormatHours(total))
	} else {
		helpers.PrintInfo("Summary: %d topics", len(plan.Topics))
	}
}

// RenderMarkdown renders the plan as a markdown document
func RenderMarkdown(plan *models.StudyPlanData, fileName string) string {
	var summary strings.Builder

	summary.WriteString(fmt.Sprintf("# %s\n\n", plan.Title))
	if plan.CourseName != "" {
		summary.WriteString(fmt.Sprintf("**Course:** %s\n\n", plan.CourseName))
	}
	if fileName != "" {
		summary.WriteString(fmt.Sprintf("_Generated from %s_\n\n", fileName))
	}
	if plan.Introduction != "" {
		summary.WriteString(fmt.Sprintf("%s\n\n", plan.Introduction))
	}

	for i, topic := range plan.Topics {
		summary.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, topic.TopicName))

		meta := []string{}
		if topic.Priority != "" {
			meta = append(meta, fmt.Sprintf("**Priority:** %s", topic.Priority))
		}
		if topic.EstimatedTimeHours != nil {
			meta = append(meta, fmt.Sprintf("**Estimated time:** %s", FormatHours(*topic.EstimatedTimeHours)))
		}
		if len(meta) > 0 {
			summary.WriteString(strings.Join(meta, " | ") + "\n\n")
		}

		if topic.Summary != "" {
			summary.WriteString(fmt.Sprintf("%s\n\n", topic.Summary))
		}

		if len(topic.LearningStrategies) > 0 {
			summary.WriteString("**Learning Strategies:**\n")
			for _, strategy := range topic.LearningStrategies {
				summary.WriteString(fmt.Sprintf("- %s\n", strategy))
			}
			summary.WriteString("\n")
		}

		if len(topic.KeyQuestions) > 0 {
			summary.WriteString("**Key Questions:**\n")
			for _, question := range topic.KeyQuestions {
				summary.WriteString(fmt.Sprintf("- %s\n", question))
			}
			summary.WriteString("\n")
		}
	}

	if len(plan.GeneralTips) > 0 {
		summary.WriteString("## General Tips\n\n")
		for _, tip := range plan.GeneralTips {
			summary.WriteString(fmt.Sprintf("- %s\n", tip))
		}
		summary.WriteString("\n")
	}

	if total := plan.TotalEstimatedHours(); total > 0 {
		summary.WriteString(fmt.Sprintf("**Total estimated time:** %s\n", FormatHours(total)))
	}

	return summary.String()
}

// SaveStudyPlan writes the saved plan as JSON plus a markdown summary and returns both paths
func SaveStudyPlan(saved *models.SavedPlan, outputDir string) (string, string, error) {
	if err := helpers.EnsureDir(outputDir); err != nil {
		return "", "", fmt.Errorf("failed to create output directory: %w", err)
	}

	prefix := helpers.Slugify(saved.SourceFile) + "-study-plan"

	jsonPath := helpers.GetOutputPath(outputDir, helpers.GenerateOutputFilename(prefix, saved.GeneratedAt, "json"))
	if err := helpers.SaveJSON(saved, jsonPath); err != nil {
		return "", "", fmt.Errorf("failed to save study plan: %w", err)
	}

	summaryPath := helpers.GetOutputPath(outputDir, helpers.GenerateOutputFilename(prefix, saved.GeneratedAt, "md"))
	if err := helpers.SaveText(RenderMarkdown(&saved.Plan, saved.SourceFile), summaryPath); err != nil {
		return "", "", fmt.Errorf("failed to save summary: %w", err)
	}

	return jsonPath, summaryPath, nil
}

// LoadStudyPlan reads a file written by SaveStudyPlan.
// A bare plan object, as returned by the JSON API, is accepted too.
func LoadStudyPlan(path string) (*models.SavedPlan, error) {
	var saved models.SavedPlan
	if err := helpers.LoadJSON(path, &saved); err != nil {
		return nil, err
	}

	if saved.Plan.Title == "" {
		var plan models.StudyPlanData
		if err := helpers.LoadJSON(path, &plan); err != nil {
			return nil, err
		}
		saved.Plan = plan
	}

	if err := validatePlan(&saved.Plan); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPlan, err)
	}
	return &saved, nil
}

// FormatHours renders an hour count, e.g. "1 hour" or "2.5 hours".
func FormatHours(h float64) string {
	value := strconv.FormatFloat(h, 'f', -1, 64)
	if h == 1 {
		return value + " hour"
	}
	return value + " hours"
}
