package service

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewCourseServiceRegistersClockValidation(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	validate := validator.New()
	NewCourseService(newMemoryCourseRepo(), validate, nil, nil, zap.New(core), CourseServiceConfig{})

	assert.Zero(t, logs.Len())
	assert.NoError(t, validate.Struct(validRequest()))
	bad := validRequest()
	bad.StartTime = "25:00"
	assert.Error(t, validate.Struct(bad))
}

func TestNewCourseServiceLogsRegistrationFailure(t *testing.T) {
	courseValidations[""] = func(validator.FieldLevel) bool { return true }
	defer delete(courseValidations, "")

	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewCourseService(newMemoryCourseRepo(), validator.New(), nil, nil, zap.New(core), CourseServiceConfig{})
	require.NotNil(t, svc)

	entries := logs.FilterMessage("course validations not registered").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "validation")
}
