/*
Package domain contains the core domain models of the quote intake dialogue.

It defines the static question graph, the per-customer conversation session and the
summary produced once the intake is complete. This package is kept pure and free of
external dependencies like I/O or persistence.

# Key Entities

  - Node: A scripted step in the question catalog (Choice, FreeText or Branch).
  - Session: The mutable snapshot of one customer's intake (cursor, captures, transcript).
  - Summary: The structured result presented at the review stage.
  - Submission: A reviewed intake handed to the relational store.
*/
package domain
