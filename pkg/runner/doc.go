/*
Package runner implements the interactive loop and I/O orchestration for the Abacus engine.

It acts as the bridge between the stateless engine and a terminal or a pipe.
The runner reads lines, sanitizes them, presses the keys they contain and
prints the display, optionally persisting the session after every line.

# Key Components

  - Runner: The read-eval-print loop.
  - IOHandler: Decouples how lines are read and states are shown.
  - TextHandler: Interactive CLI usage with a pluggable DisplayRenderer.
  - JSONHandler: JSON-Lines for scripting.

# Usage

	r := runner.NewRunner(abacus.New(),
		runner.WithSessionID("desk"),
		runner.WithStore(file.New("")),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout, runner.WithPrompt("> "))),
	)

	if _, err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
