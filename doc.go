/*
Package stockcheck runs an inventory check-in as a conversation.

An operator sends /count and is walked through a fixed catalog of stock items,
one prompt per item. Each prompt shows the previously recorded value; the
operator either types a new value, which is stored verbatim, or sends /skip to
keep it. After the last item the operator receives a report listing every value
and flagging the items that are running low.

# Architecture

The package is the application context that wires the pieces together:

  - pkg/catalog: the ordered list of Quantity, YesNo and Pack items.
  - pkg/ports: the ValueStore and SessionStore contracts, with adapters under pkg/adapters.
  - internal/runtime: the collection state machine (cursor, skip token, prompts).
  - pkg/report: report generation and deficiency rules.
  - pkg/session: per-conversation state with idle expiry and a capacity bound.

Transports (terminal, HTTP, MCP) only translate their messages into calls to
App.Handle.

# Usage

	ctx := context.Background()
	app, err := stockcheck.New(ctx, catalog.Default(), memory.NewValueStore())
	if err != nil {
		log.Fatal(err)
	}

	reply, _ := app.Handle(ctx, "chat-1", "/count")
	fmt.Println(reply.Text) // first prompt

	reply, _ = app.Handle(ctx, "chat-1", "3")
	fmt.Println(reply.Text) // next prompt, or the report after the last item
*/
package stockcheck
