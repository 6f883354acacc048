/*
Package domain contains the core domain models of the USSD simulator.

It defines the values the session engine works with: dial codes, menu responses,
the navigation history and the session snapshot. This package is kept pure and free
of external dependencies like I/O or persistence.

# Key Entities

  - DialCode: A validated USSD string such as "*123#" or "*100*1#".
  - Response: One screen returned by the network (message plus numbered options).
  - History: The stack of screens shown since the root dial, oldest first.
  - Session: The snapshot of a live session (code, operator, status, history).
  - Outcome: The result of a navigation step, either a new screen or the end of the session.
*/
package domain
