package mocks

import (
	"context"

	"quickcore/internal/extractor"
	"quickcore/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockExtractor is a mock type for the session.Extractor type
type MockExtractor struct {
	mock.Mock
}

// ExtractText provides a mock function with given fields: ctx, doc
func (_m *MockExtractor) ExtractText(ctx context.Context, doc extractor.Document) (string, error) {
	ret := _m.Called(ctx, doc)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, extractor.Document) string); ok {
		r0 = rf(ctx, doc)
	} else {
		r0 = ret.String(0)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, extractor.Document) error); ok {
		r1 = rf(ctx, doc)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockExtractor creates a new instance of MockExtractor and registers its expectations check.
func NewMockExtractor(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockExtractor {
	m := &MockExtractor{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockGenerator is a mock type for the session.Generator type
type MockGenerator struct {
	mock.Mock
}

// GenerateStudyPlan provides a mock function with given fields: ctx, text
func (_m *MockGenerator) GenerateStudyPlan(ctx context.Context, text string) (*models.StudyPlanData, error) {
	ret := _m.Called(ctx, text)

	var r0 *models.StudyPlanData
	if rf, ok := ret.Get(0).(func(context.Context, string) *models.StudyPlanData); ok {
		r0 = rf(ctx, text)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.StudyPlanData)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, text)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockGenerator creates a new instance of MockGenerator and registers its expectations check.
func NewMockGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGenerator {
	m := &MockGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockCompleter is a mock type for the services.Completer type
type MockCompleter struct {
	mock.Mock
}

// Complete provides a mock function with given fields: ctx, req
func (_m *MockCompleter) Complete(ctx context.Context, req models.CompletionRequest) (*models.Completion, error) {
	ret := _m.Called(ctx, req)

	var r0 *models.Completion
	if rf, ok := ret.Get(0).(func(context.Context, models.CompletionRequest) *models.Completion); ok {
		r0 = rf(ctx, req)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Completion)
	}

	return r0, ret.Error(1)
}

// Provider provides a mock function with given fields:
func (_m *MockCompleter) Provider() string {
	return _m.Called().String(0)
}

// Model provides a mock function with given fields:
func (_m *MockCompleter) Model() string {
	return _m.Called().String(0)
}

// NewMockCompleter creates a new instance of MockCompleter and registers its expectations check.
func NewMockCompleter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCompleter {
	m := &MockCompleter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
