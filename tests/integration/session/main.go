package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	tablet "github.com/gennyble/wayland-tablet"
)

var (
	timeout = flag.Duration("timeout", 10*time.Second, "how long to wait for a tool")

	// Lipgloss styles
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginTop(1).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	testStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

type TestResult struct {
	Name    string
	Passed  bool
	Message string
}

func main() {
	flag.Parse()

	fmt.Println(titleStyle.Render("=== Tablet Session Tests ==="))
	fmt.Println(infoStyle.Render("Testing tablet discovery, negotiation and event polling"))
	fmt.Println(warnStyle.Render("Note: This test requires a compositor with zwp_tablet_manager_v2 support"))
	fmt.Println()

	// Check if we're running under Wayland
	if os.Getenv("WAYLAND_DISPLAY") == "" {
		fmt.Println(errorStyle.Render("Error: WAYLAND_DISPLAY not set - not running under Wayland"))
		fmt.Println(dimStyle.Render("This test must be run in a Wayland session"))
		os.Exit(1)
	}

	var results []TestResult

	// Run tests
	results = append(results, testSessionCreation())
	results = append(results, testPollCycle())
	results = append(results, testCloseSemantics())
	results = append(results, testToolNegotiation())

	// Print summary
	printSummary(results)
}

func testSessionCreation() TestResult {
	fmt.Println(testStyle.Render("[Test: Session Creation]"))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	session, err := tablet.NewSession(ctx)
	if err != nil {
		return TestResult{
			Name:    "Session Creation",
			Passed:  false,
			Message: fmt.Sprintf("Failed to open session: %v", err),
		}
	}

	if err := session.Close(); err != nil {
		return TestResult{
			Name:    "Session Creation",
			Passed:  false,
			Message: fmt.Sprintf("Failed to close session: %v", err),
		}
	}

	return TestResult{
		Name:    "Session Creation",
		Passed:  true,
		Message: "Session opened and closed cleanly",
	}
}

func testPollCycle() TestResult {
	fmt.Println("\n" + testStyle.Render("[Test: Poll Cycle]"))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	session, err := tablet.NewSession(ctx)
	if err != nil {
		return TestResult{
			Name:    "Poll Cycle",
			Passed:  false,
			Message: fmt.Sprintf("Failed to open session: %v", err),
		}
	}
	defer session.Close()

	fmt.Print(dimStyle.Render("Polling: "))
	for i := 0; i < 20; i++ {
		if _, err := session.Events(); err != nil {
			fmt.Println(errorStyle.Render(fmt.Sprintf("✗ Error: %v", err)))
			return TestResult{
				Name:    "Poll Cycle",
				Passed:  false,
				Message: fmt.Sprintf("Poll %d failed: %v", i, err),
			}
		}
		fmt.Print(dimStyle.Render("."))
		time.Sleep(50 * time.Millisecond)
	}
	fmt.Println(successStyle.Render(" ✓"))

	return TestResult{
		Name:    "Poll Cycle",
		Passed:  true,
		Message: "20 consecutive polls completed without error",
	}
}

func testCloseSemantics() TestResult {
	fmt.Println("\n" + testStyle.Render("[Test: Close Semantics]"))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	session, err := tablet.NewSession(ctx)
	if err != nil {
		return TestResult{
			Name:    "Close Semantics",
			Passed:  false,
			Message: fmt.Sprintf("Failed to open session: %v", err),
		}
	}

	if err := session.Close(); err != nil {
		return TestResult{
			Name:    "Close Semantics",
			Passed:  false,
			Message: fmt.Sprintf("First close failed: %v", err),
		}
	}
	if err := session.Close(); err != nil {
		return TestResult{
			Name:    "Close Semantics",
			Passed:  false,
			Message: fmt.Sprintf("Second close was not a no-op: %v", err),
		}
	}

	if _, err := session.Events(); !errors.Is(err, tablet.ErrSessionClosed) {
		return TestResult{
			Name:    "Close Semantics",
			Passed:  false,
			Message: fmt.Sprintf("Events after close returned %v, want ErrSessionClosed", err),
		}
	}

	return TestResult{
		Name:    "Close Semantics",
		Passed:  true,
		Message: "Close is idempotent and later polls report ErrSessionClosed",
	}
}

func testToolNegotiation() TestResult {
	fmt.Println("\n" + testStyle.Render("[Test: Tool Negotiation]"))
	fmt.Println(infoStyle.Render("Bring a pen into proximity of the tablet now"))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	session, err := tablet.NewSession(ctx)
	if err != nil {
		return TestResult{
			Name:    "Tool Negotiation",
			Passed:  false,
			Message: fmt.Sprintf("Failed to open session: %v", err),
		}
	}
	defer session.Close()

	deadline := time.Now().Add(*timeout)

	fmt.Print(dimStyle.Render("Waiting for a tool: "))
	for time.Now().Before(deadline) {
		events, err := session.Events()
		if err != nil {
			fmt.Println(errorStyle.Render(fmt.Sprintf("✗ Error: %v", err)))
			return TestResult{
				Name:    "Tool Negotiation",
				Passed:  false,
				Message: fmt.Sprintf("Poll failed: %v", err),
			}
		}

		for _, ev := range events {
			if created, ok := ev.(tablet.ToolCreated); ok {
				fmt.Println(successStyle.Render("✓"))
				fmt.Println(infoStyle.Render(fmt.Sprintf(
					"Tool #%d negotiated: %s (%s)",
					created.Tool.ID, created.Tool.Type, created.Tool.Capability)))
				return TestResult{
					Name:   "Tool Negotiation",
					Passed: true,
					Message: fmt.Sprintf("Tool negotiated as %s with %s",
						created.Tool.Type, created.Tool.Capability),
				}
			}
		}

		fmt.Print(dimStyle.Render("."))
		time.Sleep(100 * time.Millisecond)
	}
	fmt.Println(warnStyle.Render(" timeout"))

	return TestResult{
		Name:    "Tool Negotiation",
		Passed:  false,
		Message: "No tool came into proximity before the timeout",
	}
}

func printSummary(results []TestResult) {
	fmt.Println("\n" + titleStyle.Render("=== Test Summary ==="))

	passed := 0
	failed := 0

	for _, result := range results {
		if result.Passed {
			passed++
			fmt.Println(successStyle.Render(fmt.Sprintf("✓ %s: %s", result.Name, result.Message)))
		} else {
			failed++
			fmt.Println(errorStyle.Render(fmt.Sprintf("✗ %s: %s", result.Name, result.Message)))
		}
	}

	status := successStyle
	if failed > 0 {
		status = errorStyle
	}

	fmt.Println("\n" + status.Render(fmt.Sprintf("Total: %d passed, %d failed", passed, failed)))

	if failed > 0 {
		os.Exit(1)
	}
}
