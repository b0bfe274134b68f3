package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/blert-io/bcf"
	"github.com/blert-io/bcf/resolver"
)

func inspectCmd(g *globals) *cobra.Command {
	f := &validateFlags{}
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Summarize a BCF document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, g, args[0], f)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), resolver.New(doc))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func printSummary(w io.Writer, r *resolver.Resolver) {
	name := r.Name()
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(w, "%s (BCF %s)\n", name, r.Version())
	if d := r.Description(); d != "" {
		fmt.Fprintf(w, "  %s\n", d)
	}
	fmt.Fprintf(w, "Ticks: %d total, display [%d, %d]\n", r.TotalTicks(), r.StartTick(), r.EndTick())

	dataTicks, cells := 0, 0
	for t := range r.Ticks() {
		dataTicks++
		cells += len(t.Cells)
	}
	fmt.Fprintf(w, "Data: %d ticks, %d cells\n", dataTicks, cells)

	fmt.Fprintf(w, "Actors (%d):\n", len(r.Actors()))
	for _, a := range r.Actors() {
		switch a := a.(type) {
		case *bcf.Player:
			fmt.Fprintf(w, "  - %s %q (player)\n", a.ID, a.Name)
		case *bcf.NPC:
			life := fmt.Sprintf("spawn %d", a.Spawn())
			if d, ok := r.NPCDeathTick(a.ID); ok {
				life += fmt.Sprintf(", death %d", d)
			}
			fmt.Fprintf(w, "  - %s %q (npc %d, %s, %d phases)\n", a.ID, a.Name, a.NPCID, life, len(r.NPCPhases(a.ID)))
		}
	}
	if rows := r.CustomRows(); len(rows) > 0 {
		fmt.Fprintf(w, "Custom rows (%d):\n", len(rows))
		for _, row := range rows {
			fmt.Fprintf(w, "  - %s %q (%d cells)\n", row.ID, row.Name, len(row.Cells))
		}
	}
	if phases := r.EncounterPhases(); len(phases) > 0 {
		fmt.Fprintf(w, "Phases (%d):\n", len(phases))
		for _, p := range phases {
			fmt.Fprintf(w, "  - %d %s\n", p.Tick, p.PhaseType)
		}
	}
	if splits := r.Splits(); len(splits) > 0 {
		fmt.Fprintf(w, "Splits (%d):\n", len(splits))
		for _, s := range splits {
			mark := ""
			if s.Important() {
				mark = " *"
			}
			fmt.Fprintf(w, "  - %d %s%s\n", s.Tick, s.Name, mark)
		}
	}
}
