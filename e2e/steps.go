package e2e

import (
	"github.com/cucumber/godog"

	"legalbooks/e2e/steps/common"
	"legalbooks/e2e/steps/onboarding"
	"legalbooks/e2e/steps/session"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (generic requests, status and field assertions)
	common.RegisterSteps(ctx, tc)

	// Register registration draft workflow steps
	onboarding.RegisterSteps(ctx, tc)

	// Register login and session steps
	session.RegisterSteps(ctx, tc)
}
