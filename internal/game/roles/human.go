package roles

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
)

// Human replaces every AI decision of its seat's role with a console prompt.
// Candidates are listed 1..k; 0 means abstain where abstaining is allowed.
// On EOF the agent abstains (the engine sanitises the day vote).
type Human struct {
	base
	in  *bufio.Scanner
	out io.Writer
}

func NewHuman(id core.PlayerID, name string, state *core.GameState, rng *core.Rng, in io.Reader, out io.Writer) *Human {
	return &Human{
		base: newBase(id, name, state, rng),
		in:   bufio.NewScanner(in),
		out:  out,
	}
}

func (h *Human) role() core.Role { return h.state.Players[h.id].Role }

func (h *Human) OnDay(Arbiter) {}

func (h *Human) VoteDay(Arbiter) core.PlayerID {
	cands := h.aliveExceptSelf()
	if len(cands) == 0 {
		return h.id
	}
	fmt.Fprintf(h.out, "\n[HUMAN] Day. Pick who to vote against:\n")
	h.printCandidates(cands, false)
	if target, ok := h.promptPick(cands, false); ok {
		return target
	}
	return h.id
}

func (h *Human) OnNight(mod Arbiter) {
	switch h.role() {
	case core.RoleMafia:
		cands := h.aliveExceptSelf()
		if len(cands) == 0 {
			return
		}
		fmt.Fprintf(h.out, "\n[HUMAN] Night (Mafia). Pick the kill target:\n")
		h.printCandidates(cands, false)
		if target, ok := h.promptPick(cands, false); ok {
			mod.MafiaVoteTarget(h.id, target)
		}

	case core.RoleDetective:
		cands := h.aliveExceptSelf()
		if len(cands) == 0 {
			return
		}
		fmt.Fprintf(h.out, "\n[HUMAN] Night (Detective). Pick a target to shoot, or 0 to hold fire:\n")
		h.printCandidates(cands, true)
		if target, ok := h.promptPick(cands, true); ok {
			mod.SetDetectiveShot(h.id, target)
		}

	case core.RoleDoctor:
		cands := h.state.AliveIDs()
		if len(cands) == 0 {
			return
		}
		fmt.Fprintf(h.out, "\n[HUMAN] Night (Doctor). Pick who to heal (self allowed):\n")
		h.printCandidates(cands, false)
		if target, ok := h.promptPick(cands, false); ok {
			mod.SetDoctorHeal(h.id, target)
		}

	case core.RoleManiac:
		cands := h.aliveExceptSelf()
		if len(cands) == 0 {
			return
		}
		fmt.Fprintf(h.out, "\n[HUMAN] Night (Maniac). Pick who to kill:\n")
		h.printCandidates(cands, false)
		if target, ok := h.promptPick(cands, false); ok {
			mod.SetManiacTarget(h.id, target)
		}

	case core.RoleJournalist:
		cands := h.aliveExceptSelf()
		if len(cands) < 2 {
			return
		}
		fmt.Fprintf(h.out, "\n[HUMAN] Night (Journalist). Pick the FIRST compare target:\n")
		h.printCandidates(cands, false)
		a, ok := h.promptPick(cands, false)
		if !ok {
			return
		}
		rest := make([]core.PlayerID, 0, len(cands)-1)
		for _, id := range cands {
			if id != a {
				rest = append(rest, id)
			}
		}
		fmt.Fprintf(h.out, "\n[HUMAN] Night (Journalist). Pick the SECOND compare target:\n")
		h.printCandidates(rest, false)
		b, ok := h.promptPick(rest, false)
		if !ok {
			return
		}
		mod.SetJournalistCompare(h.id, a, b)

	case core.RoleEavesdropper:
		cands := h.aliveExceptSelf()
		if len(cands) == 0 {
			return
		}
		fmt.Fprintf(h.out, "\n[HUMAN] Night (Eavesdropper). Pick who to listen in on:\n")
		h.printCandidates(cands, false)
		if target, ok := h.promptPick(cands, false); ok {
			mod.SetEavesdropperTarget(h.id, target)
		}
	}
	// Citizen and Executioner have no night action.
}

// DecideExecution prompts on a day-vote tie when this seat holds the
// Executioner role: 0 abstains, otherwise one of the tied leaders dies.
func (h *Human) DecideExecution(_ Arbiter, leaders []core.PlayerID) (core.PlayerID, bool) {
	if !h.alive() || len(leaders) == 0 {
		return 0, false
	}
	fmt.Fprintf(h.out, "\n[HUMAN] Day vote tie (Executioner). Execute one of the leaders, or 0 to abstain:\n")
	h.printCandidates(leaders, true)
	return h.promptPick(leaders, true)
}

func (h *Human) printCandidates(cands []core.PlayerID, withZero bool) {
	if withZero {
		fmt.Fprintf(h.out, "  0) abstain / nobody\n")
	}
	for k, id := range cands {
		fmt.Fprintf(h.out, "  %d) #%d %s\n", k+1, id+1, h.state.Players[id].Name)
	}
}

// promptPick reads a 1-based choice from the candidate list. With allowZero,
// 0 returns ok=false (abstain). Invalid input re-prompts; EOF abstains.
func (h *Human) promptPick(cands []core.PlayerID, allowZero bool) (core.PlayerID, bool) {
	for {
		lo := 1
		if allowZero {
			lo = 0
		}
		fmt.Fprintf(h.out, "Your choice (%d-%d): ", lo, len(cands))
		if !h.in.Scan() {
			return 0, false
		}
		k, err := strconv.Atoi(strings.TrimSpace(h.in.Text()))
		if err != nil {
			fmt.Fprintf(h.out, "Invalid input. Try again.\n")
			continue
		}
		if allowZero && k == 0 {
			return 0, false
		}
		if k >= 1 && k <= len(cands) {
			return cands[k-1], true
		}
		fmt.Fprintf(h.out, "Out of range. Try again.\n")
	}
}
