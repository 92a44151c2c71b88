/*
Package ports defines the driven ports (interfaces) of the quote agent.

These interfaces decouple the dialogue core from external implementations, allowing
sessions, submissions and follow-up generation to be backed by different services.

# Key Interfaces

  - SessionStore: Persists conversation sessions and evicts idle ones.
  - DistributedLocker: Provides distributed locking for concurrent session access across replicas.
  - FollowUpGenerator: Produces clarifying questions once the static script is exhausted.
  - SubmissionRepository: Persists reviewed intakes in the relational store.
  - IdentityProvider: Verifies bearer credentials.
*/
package ports
