package onboarding

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	PUT(path string, body any) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (any, error)
	GetDraftID() string
	SetDraftID(id string)
}

// RegisterSteps registers registration workflow step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &onboardingSteps{tc: tc}

	// Draft lifecycle
	ctx.Step(`^I start a registration draft as a "([^"]*)"$`, steps.startDraft)
	ctx.Step(`^I reload the draft$`, steps.reloadDraft)

	// Form fields
	ctx.Step(`^I set the field "([^"]*)" to "([^"]*)"$`, steps.setField)

	// Practice area selector
	ctx.Step(`^I open the practice selector$`, steps.openSelector)
	ctx.Step(`^I toggle practice (\d+)$`, steps.togglePractice)
	ctx.Step(`^I toggle specialization (\d+)$`, steps.toggleSpecialization)
	ctx.Step(`^I commit the selection$`, steps.commitSelection)
	ctx.Step(`^I discard the selection$`, steps.discardSelection)

	// OTP verification
	ctx.Step(`^I request an OTP on the "([^"]*)" channel$`, steps.requestOTP)
	ctx.Step(`^I enter OTP code "(\d+)" on the "([^"]*)" channel$`, steps.enterOTPCode)
	ctx.Step(`^I verify the "([^"]*)" channel$`, steps.verifyChannel)

	// Submission
	ctx.Step(`^I submit the registration$`, steps.submit)
}

type onboardingSteps struct {
	tc TestContext
}

func (s *onboardingSteps) startDraft(ctx context.Context, role string) error {
	if err := s.tc.POST("/onboarding/drafts/", map[string]any{"role": role}); err != nil {
		return err
	}
	id, err := s.tc.GetResponseField("id")
	if err != nil {
		return err
	}
	s.tc.SetDraftID(id.(string))
	return nil
}

func (s *onboardingSteps) reloadDraft(ctx context.Context) error {
	return s.tc.GET(s.draftPath(""), nil)
}

func (s *onboardingSteps) setField(ctx context.Context, name, value string) error {
	return s.tc.PUT(s.draftPath("/fields"), map[string]string{
		"name":  name,
		"value": value,
	})
}

func (s *onboardingSteps) openSelector(ctx context.Context) error {
	return s.tc.POST(s.draftPath("/selector/open"), map[string]any{})
}

func (s *onboardingSteps) togglePractice(ctx context.Context, practiceID int) error {
	return s.tc.POST(s.draftPath(fmt.Sprintf("/selector/practices/%d/toggle", practiceID)), map[string]any{})
}

func (s *onboardingSteps) toggleSpecialization(ctx context.Context, specID int) error {
	return s.tc.POST(s.draftPath(fmt.Sprintf("/selector/specializations/%d/toggle", specID)), map[string]any{})
}

func (s *onboardingSteps) commitSelection(ctx context.Context) error {
	return s.tc.POST(s.draftPath("/selector/commit"), map[string]any{})
}

func (s *onboardingSteps) discardSelection(ctx context.Context) error {
	return s.tc.POST(s.draftPath("/selector/discard"), map[string]any{})
}

func (s *onboardingSteps) requestOTP(ctx context.Context, channel string) error {
	return s.tc.POST(s.draftPath("/otp/"+channel+"/send"), map[string]any{})
}

func (s *onboardingSteps) enterOTPCode(ctx context.Context, code, channel string) error {
	for i, digit := range code {
		path := s.draftPath(fmt.Sprintf("/otp/%s/digits/%d", channel, i))
		if err := s.tc.PUT(path, map[string]string{"value": string(digit)}); err != nil {
			return err
		}
	}
	return nil
}

func (s *onboardingSteps) verifyChannel(ctx context.Context, channel string) error {
	return s.tc.POST(s.draftPath("/otp/"+channel+"/verify"), map[string]any{})
}

func (s *onboardingSteps) submit(ctx context.Context) error {
	return s.tc.POST(s.draftPath("/submit"), map[string]any{})
}

func (s *onboardingSteps) draftPath(suffix string) string {
	return "/onboarding/drafts/" + s.tc.GetDraftID() + suffix
}
