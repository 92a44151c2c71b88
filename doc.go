/*
Package quoteagent is a scripted intake dialogue for plumbing quote requests.

A customer answers a fixed sequence of questions loaded from a YAML catalog.
The selected service category unlocks a branch of service-specific questions,
and once the script is exhausted an optional completion service may add up to
three clarifying follow-ups. The session then reaches a review stage holding a
structured summary that can be submitted.

# Turns

Clients resend the full message history on every turn. The session keeps a
replay cursor over user messages, so a turn only applies what is new and
resending the same history changes nothing:

	agent, err := quoteagent.New("") // built-in catalog, in-memory sessions
	if err != nil {
		log.Fatal(err)
	}

	res, err := agent.ProcessTurn(ctx, quoteagent.TurnRequest{
		SessionID: "abc",
		Messages: []quoteagent.Message{
			{Role: "user", Text: "No"},
		},
	})

# Storage

Sessions live in a ports.SessionStore (memory, local files or Redis, optionally
sealed with AES-GCM by pkg/persistence/middleware) behind a per-session
lock, which a distributed locker extends across replicas.
Reviewed sessions are handed to a ports.SubmissionRepository by Submit.
*/
package quoteagent
