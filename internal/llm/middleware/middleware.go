// Package middleware provides decorators over llmclient.LLMClient: rate
// limiting, logging, usage accounting, and call hooks, composed the same
// way an http.Handler middleware chain is composed.
package middleware

import llmclient "infographica/internal/llm/client"

// Middleware wraps a client with additional behavior.
type Middleware func(next llmclient.LLMClient) llmclient.LLMClient

// Chain applies middlewares in order, so the first in the list runs
// outermost (sees the call first, sees the response last).
func Chain(client llmclient.LLMClient, mws ...Middleware) llmclient.LLMClient {
	for i := len(mws) - 1; i >= 0; i-- {
		client = mws[i](client)
	}
	return client
}
