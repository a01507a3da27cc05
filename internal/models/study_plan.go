package models

import (
	"strings"
	"time"
)

// Priority is the priority label the model assigns to a topic.
// Known values are High, Medium and Low; any other string is kept as-is.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// PriorityLevel is the typed view of a Priority.
type PriorityLevel int

const (
	// PriorityLevelOther covers every label outside High/Medium/Low.
	PriorityLevelOther PriorityLevel = iota
	PriorityLevelHigh
	PriorityLevelMedium
	PriorityLevelLow
)

// Level maps the raw label to a PriorityLevel, ignoring case and surrounding spaces.
func (p Priority) Level() PriorityLevel {
	switch strings.ToLower(strings.TrimSpace(string(p))) {
	case "high":
		return PriorityLevelHigh
	case "medium":
		return PriorityLevelMedium
	case "low":
		return PriorityLevelLow
	default:
		return PriorityLevelOther
	}
}

// String returns the label exactly as the model produced it.
func (p Priority) String() string {
	return string(p)
}

// StudyTopic is one unit of a study plan
type StudyTopic struct {
	TopicName          string   `json:"topicName"`
	Priority           Priority `json:"priority"`
	LearningStrategies []string `json:"learningStrategies"`
	KeyQuestions       []string `json:"keyQuestions"`
	EstimatedTimeHours *float64 `json:"estimatedTimeHours,omitempty"`
	Summary            string   `json:"summary,omitempty"`
}

// StudyPlanData is the structured plan generated for one document
type StudyPlanData struct {
	Title        string       `json:"title"`
	Introduction string       `json:"introduction"`
	Topics       []StudyTopic `json:"topics"`
	GeneralTips  []string     `json:"generalTips,omitempty"`
	CourseName   string       `json:"courseName,omitempty"`
}

// TotalEstimatedHours sums the estimated time of the topics that carry one.
func (p *StudyPlanData) TotalEstimatedHours() float64 {
	var total float64
	for _, topic := range p.Topics {
		if topic.EstimatedTimeHours != nil {
			total += *topic.EstimatedTimeHours
		}
	}
	return total
}

// SavedPlan is the record written to the output directory after a CLI run
type SavedPlan struct {
	Plan        StudyPlanData `json:"plan"`
	SourceFile  string        `json:"sourceFile"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Provider    string        `json:"provider"`
	Model       string        `json:"model"`
}
