/*
Package ussdsim simulates USSD sessions: dial a short code from a handset, read the menu
the network sends back, and navigate nested menus by selecting numbered options until
the session ends.

The navigation rules live in a stateless engine that maps a session snapshot and an input
to the next snapshot. This package wraps it in a Session handle for single-user
interactive use. Multi-user hosts (HTTP, MCP) keep snapshots in a store through
pkg/session instead.

# Concept

A session goes through four states:

  - idle: nothing dialed.
  - awaiting_response: a dial or selection is on its way to the simulated network.
  - menu_displayed: the current screen offers numbered options.
  - terminal_displayed: the current screen is final and only waits to be closed.

Responses come from a catalog (pkg/catalog) keyed by dial code and menu path. Unknown
codes and unknown selections are answered with generic fallback screens, never errors.
Option "0" ends the session and option "9" returns to the previous screen, which is
replayed exactly as it was shown.

# Usage

	eng, err := ussdsim.New()
	if err != nil {
		log.Fatal(err)
	}

	s := eng.NewSession()
	ctx := context.Background()

	resp, err := s.DialFrom(ctx, "1", "Slot 2", "*123#") // Samsung Galaxy A54, Orange
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(resp.Message)

	out, err := s.Select(ctx, "1")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out.Response.Message)
*/
package ussdsim
