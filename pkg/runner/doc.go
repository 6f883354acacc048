/*
Package runner implements the interactive console for a simulated handset.

It reads keypad input line by line, forwards dial codes and option keys to a session
handle and prints the screens the network sends back. The engine knows nothing about
keypads: buffering digits and dialing as soon as the buffer ends with "#" is a policy
of this package (see Keypad).

# Key Components

  - Runner: the read/dispatch/print loop.
  - TextHandler: line-oriented IO with input sanitization.
  - Keypad: the dial buffer with auto-dial on "#".

# Usage

	eng, _ := ussdsim.New()
	r := runner.NewRunner(
		runner.WithDevice("1", "Slot 2"),
		runner.WithDevices(eng.Devices().List()),
	)
	if err := r.Run(ctx, eng.NewSession()); err != nil {
		log.Fatal(err)
	}
*/
package runner
