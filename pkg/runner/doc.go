/*
Package runner implements the interactive terminal chat loop.

The runner behaves like any other client of the quote agent: it keeps the
message history locally and resends all of it on every turn, relying on the
session's replay cursor to apply only what is new. User input is read through
a TextHandler, and SanitizeInput is the shared guard every transport applies
before a message reaches the engine.

# Usage

	r := runner.NewRunner(
		runner.WithSessionID("cli-1"),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)
	if err := r.Run(ctx, agent); err != nil {
		log.Fatal(err)
	}
*/
package runner
