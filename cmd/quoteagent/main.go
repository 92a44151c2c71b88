// Command quoteagent serves and drives the plumbing quote intake agent.
package main

func main() {
	Execute()
}
