package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// ListSessions prints the sessions held by the shared store.
func ListSessions(ctx context.Context, w io.Writer, st *Stack) error {
	if !st.Shared() {
		return ErrNoSharedStore
	}
	ids, err := st.Sessions.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(ids) == 0 {
		_, err := fmt.Fprintln(w, "No active sessions found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tOPERATOR\tSTATUS\tDEPTH")
	for _, id := range ids {
		s, err := st.Sessions.Load(ctx, id)
		if err != nil {
			// Expired between List and Load.
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", id, s.DialCode, s.Operator.Name, s.Status, s.Depth())
	}
	return tw.Flush()
}

// InspectSession prints a stored session as indented JSON.
func InspectSession(ctx context.Context, w io.Writer, st *Stack, id string) error {
	if !st.Shared() {
		return ErrNoSharedStore
	}
	s, err := st.Sessions.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load session %q: %w", id, err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// RemoveSessions deletes each session, reporting per id. It fails if any removal failed.
func RemoveSessions(ctx context.Context, w io.Writer, st *Stack, ids []string) error {
	if !st.Shared() {
		return ErrNoSharedStore
	}
	failed := 0
	for _, id := range ids {
		if err := st.Sessions.Delete(ctx, id); err != nil {
			fmt.Fprintf(w, "Error removing '%s': %v\n", id, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "Removed session '%s'\n", id)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sessions could not be removed", failed, len(ids))
	}
	return nil
}
