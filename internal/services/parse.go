package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"quickcore/internal/models"
)

// ErrMalformedPlan is returned when the model's answer is not a usable study plan
var ErrMalformedPlan = errors.New("malformed study plan")

// ParseStudyPlan decodes a model answer into a StudyPlanData.
// Markdown code fences and any prose around the outermost JSON object are ignored.
func ParseStudyPlan(raw string) (*models.StudyPlanData, error) {
	responseText := stripCodeFence(raw)

	start := strings.Index(responseText, "{")
	end := strings.LastIndex(responseText, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrMalformedPlan)
	}
	responseText = responseText[start : end+1]

	var plan models.StudyPlanData
	if err := json.Unmarshal([]byte(responseText), &plan); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPlan, err)
	}

	if err := validatePlan(&plan); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPlan, err)
	}

	return &plan, nil
}

func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	// drop the opening fence line, including any language tag
	if i := strings.Index(text, "\n"); i >= 0 {
		text = text[i+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func validatePlan(plan *models.StudyPlanData) error {
	if strings.TrimSpace(plan.Title) == "" {
		return errors.New("missing title")
	}
	if plan.Topics == nil {
		return errors.New("missing topics")
	}
	for i, topic := range plan.Topics {
		if strings.TrimSpace(topic.TopicName) == "" {
			return fmt.Errorf("topic %d has no name", i+1)
		}
		if topic.EstimatedTimeHours != nil && *topic.EstimatedTimeHours < 0 {
			return fmt.Errorf("topic %q has negative estimated time", topic.TopicName)
		}
	}
	return nil
}
