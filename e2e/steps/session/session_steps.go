package session

import (
	"context"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GET(path string, headers map[string]string) error
	DELETE(path string, headers map[string]string) error
	GetResponseField(field string) (any, error)
	GetSessionID() string
	SetSessionID(id string)
}

// RegisterSteps registers login and session step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &sessionSteps{tc: tc}

	ctx.Step(`^I log in with email "([^"]*)" and password "([^"]*)"$`, steps.login)
	ctx.Step(`^I save the session$`, steps.saveSession)
	ctx.Step(`^I refresh the session$`, steps.refreshSession)
	ctx.Step(`^I log out$`, steps.logout)
	ctx.Step(`^I fetch my notifications$`, steps.fetchNotifications)
}

type sessionSteps struct {
	tc TestContext
}

func (s *sessionSteps) login(ctx context.Context, email, password string) error {
	return s.tc.POST("/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (s *sessionSteps) saveSession(ctx context.Context) error {
	id, err := s.tc.GetResponseField("session_id")
	if err != nil {
		return err
	}
	s.tc.SetSessionID(id.(string))
	return nil
}

func (s *sessionSteps) refreshSession(ctx context.Context) error {
	return s.tc.POST("/session/refresh", map[string]any{})
}

func (s *sessionSteps) logout(ctx context.Context) error {
	return s.tc.POST("/session/logout", map[string]any{})
}

func (s *sessionSteps) fetchNotifications(ctx context.Context) error {
	return s.tc.GET("/session/notifications", nil)
}
