package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/stardust-engine/shaderbuild/pkg/console"
	"github.com/stardust-engine/shaderbuild/pkg/logger"
)

var retryLog = logger.New("cli:retry")

// RepeatOptions contains configuration for the repeat functionality
type RepeatOptions struct {
	// Number of additional runs after the first (0 = run once)
	RepeatCount int
	// Message to display when starting repeat mode
	StartMessage string
	// Format for the per-iteration message; receives the iteration and the count
	RepeatMessage string
	// Function to execute on each iteration, starting at 0
	ExecuteFunc func(iteration int) error
	// Function to execute when the context is cancelled (optional)
	CleanupFunc func()
}

// ExecuteWithRepeat runs a function once, and optionally repeats it the
// specified number of times. The first error is returned; errors during
// repetitions are reported and the loop continues. Cancelling ctx stops the
// loop between iterations.
func ExecuteWithRepeat(ctx context.Context, options RepeatOptions) error {
	retryLog.Printf("Executing function with repeat count: %d", options.RepeatCount)
	if err := options.ExecuteFunc(0); err != nil {
		retryLog.Printf("Initial execution failed: %v", err)
		return err
	}

	if options.RepeatCount <= 0 {
		return nil
	}

	startMsg := options.StartMessage
	if startMsg == "" {
		startMsg = fmt.Sprintf("Repeating %d more times. Press Ctrl+C to stop.", options.RepeatCount)
	}
	fmt.Fprintln(os.Stderr, console.FormatInfoMessage(startMsg))

	for i := 1; i <= options.RepeatCount; i++ {
		select {
		case <-ctx.Done():
			retryLog.Printf("Context done at iteration %d/%d", i, options.RepeatCount)
			fmt.Fprintln(os.Stderr, console.FormatInfoMessage("Received interrupt signal, stopping repeat..."))
			if options.CleanupFunc != nil {
				options.CleanupFunc()
			}
			return nil
		default:
		}

		repeatFormat := options.RepeatMessage
		if repeatFormat == "" {
			repeatFormat = "Running repetition %d/%d"
		}
		fmt.Fprintln(os.Stderr, console.FormatInfoMessage(fmt.Sprintf(repeatFormat, i, options.RepeatCount)))

		if err := options.ExecuteFunc(i); err != nil {
			retryLog.Printf("Error during iteration %d: %v", i, err)
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(fmt.Sprintf("Error during repeat %d/%d: %v", i, options.RepeatCount, err)))
		}
	}

	retryLog.Printf("Completed all %d iterations", options.RepeatCount)
	return nil
}
