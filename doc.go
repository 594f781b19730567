/*
Package agenthub implements a multi-responder customer support engine.

Incoming messages are routed through a dialog graph: a router classifies
the user's intent and dispatches to a specialist responder (product,
technical, customer service, or one of the travel booking desks). Each
responder answers through a completion service and can refer the
conversation to another department; an escalation policy forces a human
handoff when a conversation accumulates errors, transfers, or
frustration.

The Hub type wires the whole engine from a single configuration:

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal(err)
	}
	hub, err := agenthub.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer hub.Close()
	http.ListenAndServe(cfg.HTTP.Addr, hub.Handler())

State is persisted between turns in Redis or in memory, with optional
redaction of sensitive context keys and a bounded per-user snapshot
trail for inspection.
*/
package agenthub
