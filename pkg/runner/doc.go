/*
Package runner drives a conversation from a line-oriented terminal.

Each input line is sanitized and handed to a Conversation (normally a
*stockcheck.App); the reply text is written back. Reports can be passed through
a ContentRenderer, e.g. glamour, before display.

# Usage

	r := runner.New(os.Stdin, os.Stdout,
		runner.WithConversationID("terminal"),
		runner.WithLogger(logger),
	)

	if err := r.Run(ctx, app); err != nil {
		log.Fatal(err)
	}
*/
package runner
