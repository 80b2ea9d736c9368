package bdd

import (
	"os"
	"testing"

	"github.com/SupernovaXTS/overmind-logistics/test/bdd/steps"
	"github.com/SupernovaXTS/overmind-logistics/test/helpers"
	"github.com/cucumber/godog"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/transport", "features/simulation", "features/daemon"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	steps.InitializeTransportScenario(sc)
	// Truncates the shared database before every scenario
	steps.InitializeTickHistoryScenario(sc)
}

func TestMain(m *testing.M) {
	// One database for the whole suite, truncated between scenarios
	if err := helpers.InitializeSharedTestDB(); err != nil {
		panic("Failed to initialize shared test database: " + err.Error())
	}

	code := m.Run()
	helpers.CloseSharedTestDB()
	os.Exit(code)
}
