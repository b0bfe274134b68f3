package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/blert-io/bcf"
	"github.com/blert-io/bcf/resolver"
)

// stateView is the JSON rendering of a resolved state.
type stateView struct {
	Actor        string            `json:"actor"`
	Type         bcf.ActorType     `json:"type"`
	Tick         int               `json:"tick"`
	IsDead       *bool             `json:"isDead,omitempty"`
	SpecEnergy   *int              `json:"specEnergy,omitempty"`
	OffCooldown  *bool             `json:"offCooldown,omitempty"`
	Label        *string           `json:"label,omitempty"`
	CustomStates []bcf.CustomState `json:"customStates,omitempty"`
}

func newStateView(actor string, tick int, s resolver.ResolvedState) stateView {
	v := stateView{Actor: actor, Type: s.ActorType(), Tick: tick}
	switch st := s.(type) {
	case *resolver.PlayerState:
		dead := st.IsDead
		v.IsDead = &dead
		v.SpecEnergy = st.SpecEnergy
		v.OffCooldown = st.OffCooldown
		v.CustomStates = st.CustomStates
	case *resolver.NPCState:
		v.Label = st.Label
		v.CustomStates = st.CustomStates
	}
	return v
}

func stateCmd(g *globals) *cobra.Command {
	f := &validateFlags{}
	var from int
	cmd := &cobra.Command{
		Use:   "state FILE ACTOR [TICK]",
		Short: "Print the resolved state of an actor at a tick, or at every tick",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, g, args[0], f)
			if err != nil {
				return err
			}
			r := resolver.New(doc)
			actor := args[1]
			if _, ok := r.Actor(actor); !ok {
				return fmt.Errorf("actor %q does not exist", actor)
			}

			ticks := []int{}
			if len(args) == 3 {
				tick, err := strconv.Atoi(args[2])
				if err != nil {
					return fmt.Errorf("invalid tick %q: %w", args[2], err)
				}
				ticks = append(ticks, tick)
			} else {
				for t := from; t <= r.MaxTick(); t++ {
					ticks = append(ticks, t)
				}
			}

			views := make([]stateView, 0, len(ticks))
			for _, t := range ticks {
				s, ok := r.ActorState(actor, t)
				if !ok {
					return fmt.Errorf("tick %d is outside [0, %d]", t, r.MaxTick())
				}
				views = append(views, newStateView(actor, t, s))
			}
			g.logf("state: actor=%s ticks=%d", actor, len(views))
			if len(args) == 3 {
				return writeJSON(cmd.OutOrStdout(), views[0])
			}
			return writeJSON(cmd.OutOrStdout(), views)
		},
	}
	f.register(cmd)
	cmd.Flags().IntVar(&from, "from", 0, "first tick when listing every tick")
	return cmd
}
